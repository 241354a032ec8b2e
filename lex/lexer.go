// Package lex implements the single-pass tokenizer for the textual query
// surface: a Rob-Pike-style state machine (each state function decides
// the next one) rather than a generated scanner, since the token set is
// small and fixed.
package lex

import (
	"io"
	"regexp"

	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrLexError is raised on an unexpected character in the source text.
var ErrLexError = goerrors.NewKind("unexpected character %q at line %d")

// stateFunc is one state of the lexer: it consumes some input and returns
// the next state, or nil when the source is exhausted.
type stateFunc func(*Lexer) (stateFunc, error)

// Lexer tokenizes one query's source text. Construct with NewLexer, run
// to completion with Run, then pull tokens one at a time with Next.
type Lexer struct {
	input string
	pos   int
	line  int

	tokens []*Token
	next   int
}

// NewLexer reads all of r eagerly — query source text is always small —
// and prepares a Lexer over it.
func NewLexer(r io.Reader) *Lexer {
	data, _ := io.ReadAll(r)
	return &Lexer{input: string(data), line: 1}
}

// Run tokenizes the whole input, stopping at the first error.
func (l *Lexer) Run() error {
	state := stateFunc(lexStart)
	for state != nil {
		next, err := state(l)
		if err != nil {
			return err
		}
		state = next
	}
	return nil
}

// Next returns the next token in sequence, or nil once exhausted.
func (l *Lexer) Next() *Token {
	if l.next >= len(l.tokens) {
		return nil
	}
	tk := l.tokens[l.next]
	l.next++
	return tk
}

func (l *Lexer) emit(typ TokenType, value string, line int) {
	l.tokens = append(l.tokens, &Token{Type: typ, Value: value, Line: line})
}

func (l *Lexer) byteAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

// lexStart skips whitespace (tracking newlines) then dispatches on the
// next character to the state that recognizes its token class, per the
// recognition order of spec §4.E.
func lexStart(l *Lexer) (stateFunc, error) {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t':
			l.pos++
			continue
		case '\n':
			l.pos++
			l.line++
			continue
		}
		break
	}
	if l.pos >= len(l.input) {
		l.emit(EOFToken, "", l.line)
		return nil, nil
	}

	c := l.byteAt(0)
	switch {
	case isDigit(c), (c == '+' || c == '-') && (isDigit(l.byteAt(1)) || l.byteAt(1) == '.'):
		return lexNumber, nil
	case c == '\'':
		return lexSingleQuote, nil
	case isAlpha(c):
		return lexIdentifier, nil
	case c == '*':
		if l.byteAt(1) == '*' {
			return lexPow, nil
		}
		return lexPunct, nil
	case c == '>' || c == '<' || c == '=' || c == '!':
		return lexCompare, nil
	case isPunct(c):
		return lexPunct, nil
	default:
		return nil, ErrLexError.New(string(c), l.line)
	}
}

func isPunct(c byte) bool {
	switch c {
	case '(', ')', '[', ']', ',', '.', '+', '-', '/', '%':
		return true
	default:
		return false
	}
}

// Numeric literal patterns of spec §4.E. The integer alternatives are
// ordered with the bare "0" last, so radix-prefixed literals are
// recognized before the bare "0" alternative is reached.
var (
	floatRe = regexp.MustCompile(`^[+-]?((\d+|(\d+)?\.\d+|\d+\.)[eE][+-]?\d+|(\d+)?\.\d+|\d+\.)`)
	intRe   = regexp.MustCompile(`^[+-]?([1-9]\d*|0[bB][01]+|0[oO][0-7]+|0[xX][0-9a-fA-F]+|0)`)
)

func lexNumber(l *Lexer) (stateFunc, error) {
	line := l.line
	rest := l.input[l.pos:]
	if m := floatRe.FindString(rest); m != "" {
		l.pos += len(m)
		l.emit(FloatToken, m, line)
		return lexStart, nil
	}
	if m := intRe.FindString(rest); m != "" {
		l.pos += len(m)
		l.emit(IntToken, m, line)
		return lexStart, nil
	}
	return nil, ErrLexError.New(string(l.byteAt(0)), line)
}

func lexIdentifier(l *Lexer) (stateFunc, error) {
	line := l.line
	start := l.pos
	for l.pos < len(l.input) && isAlnum(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[start:l.pos]
	switch upper := toUpper(word); {
	case keywords[upper]:
		l.emit(KeywordToken, upper, line)
	case compareIdentifiers[upper]:
		l.emit(CompareToken, upper, line)
	default:
		l.emit(IdentifierToken, word, line)
	}
	return lexStart, nil
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// lexSingleQuote recognizes a single-quoted string literal with \\ and \'
// escapes; the token value strips the surrounding quotes but does not
// decode the escapes — that is a parsing concern, not a lexing one.
func lexSingleQuote(l *Lexer) (stateFunc, error) {
	line := l.line
	l.pos++ // opening quote
	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		if c == '\'' {
			value := l.input[start:l.pos]
			l.pos++ // closing quote
			l.emit(StringToken, value, line)
			return lexStart, nil
		}
		l.pos++
	}
	return nil, ErrLexError.New("unterminated string literal", line)
}

func lexCompare(l *Lexer) (stateFunc, error) {
	line := l.line
	c := l.byteAt(0)
	if l.byteAt(1) == '=' {
		l.emit(CompareToken, string([]byte{c, '='}), line)
		l.pos += 2
		return lexStart, nil
	}
	if c == '>' || c == '<' {
		l.emit(CompareToken, string(c), line)
		l.pos++
		return lexStart, nil
	}
	return nil, ErrLexError.New(string(c), line)
}

func lexPow(l *Lexer) (stateFunc, error) {
	line := l.line
	l.emit(PowToken, "**", line)
	l.pos += 2
	return lexStart, nil
}

func lexPunct(l *Lexer) (stateFunc, error) {
	line := l.line
	c := l.byteAt(0)
	l.emit(PunctToken, string(c), line)
	l.pos++
	return lexStart, nil
}
