package parse

import (
	"strconv"
	"strings"

	"github.com/jbchouinard/go-snakeql/field"
	"github.com/jbchouinard/go-snakeql/lex"
	"github.com/jbchouinard/go-snakeql/query"
	"github.com/jbchouinard/go-snakeql/registry"
	"github.com/sirupsen/logrus"
)

// Parser walks a flat token stream produced by package lex and builds the
// field-expression tree and query.Query per spec §4.F's grammar. It holds
// no lexer state of its own — Run has already tokenized everything before
// a Parser is constructed.
type Parser struct {
	tokens []*lex.Token
	pos    int
	reg    *registry.Registry
}

func newParser(reg *registry.Registry, tokens []*lex.Token) *Parser {
	return &Parser{tokens: tokens, reg: reg}
}

func (p *Parser) cur() *lex.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() *lex.Token {
	tk := p.cur()
	if tk != nil {
		p.pos++
	}
	return tk
}

func (p *Parser) atEOF() bool {
	tk := p.cur()
	return tk == nil || tk.Type == lex.EOFToken
}

func (p *Parser) atKeyword(word string) bool {
	tk := p.cur()
	return tk != nil && tk.Type == lex.KeywordToken && tk.Value == word
}

func (p *Parser) atPunct(sym string) bool {
	tk := p.cur()
	return tk != nil && tk.Type == lex.PunctToken && tk.Value == sym
}

func (p *Parser) errorAt(tk *lex.Token) error {
	if tk == nil {
		return ErrUnterminatedStatement.New("more input")
	}
	return ErrParseError.New(tk.Type.String(), tk.Value, tk.Line)
}

func (p *Parser) expectPunct(sym string) error {
	if !p.atPunct(sym) {
		return p.errorAt(p.cur())
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdentifier() (string, error) {
	tk := p.cur()
	if tk == nil || tk.Type != lex.IdentifierToken {
		return "", p.errorAt(tk)
	}
	p.advance()
	return tk.Value, nil
}

// Parse tokenizes and parses text against registry.Default.
func Parse(text string) (*query.Query, error) {
	return ParseWith(registry.Default, text)
}

// ParseWith tokenizes and parses text, resolving function names and
// RETURNING names against reg.
func ParseWith(reg *registry.Registry, text string) (*query.Query, error) {
	l := lex.NewLexer(strings.NewReader(text))
	if err := l.Run(); err != nil {
		return nil, err
	}
	var tokens []*lex.Token
	for tk := l.Next(); tk != nil; tk = l.Next() {
		tokens = append(tokens, tk)
	}
	logrus.WithField("tokens", len(tokens)).Trace("parse: tokenized statement")

	p := newParser(reg, tokens)
	q, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorAt(p.cur())
	}
	return q, nil
}

// parseStatement implements:
//
//	statement : SELECT? DISTINCT? fexprplus (WHERE fexpr)?
//	            (GROUP BY fexprplus)? (RETURNING ID)?
func (p *Parser) parseStatement() (*query.Query, error) {
	if p.atKeyword("SELECT") {
		p.advance()
	}
	distinct := false
	if p.atKeyword("DISTINCT") {
		p.advance()
		distinct = true
	}

	fields, trailingComma, err := p.parseFexprPlus()
	if err != nil {
		return nil, err
	}
	var q *query.Query
	if trailingComma {
		q = query.SelectSeq(fields)
	} else {
		q = query.Select(fields...)
	}
	if distinct {
		q = q.Distinct()
	}

	if p.atKeyword("WHERE") {
		p.advance()
		cond, err := p.parseFexpr()
		if err != nil {
			return nil, err
		}
		q, err = q.Where(cond)
		if err != nil {
			return nil, err
		}
	}

	if p.atKeyword("GROUP") {
		p.advance()
		if !p.atKeyword("BY") {
			return nil, p.errorAt(p.cur())
		}
		p.advance()
		keys, _, err := p.parseFexprPlus()
		if err != nil {
			return nil, err
		}
		q, err = q.GroupBy(keys...)
		if err != nil {
			return nil, err
		}
	}

	if p.atKeyword("RETURNING") {
		p.advance()
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		q, err = q.Returning(p.reg, name)
		if err != nil {
			return nil, err
		}
	}

	return q, nil
}

// parseFexprPlus implements:
//
//	fexprplus : fexpr | fexpr ',' | fexpr (',' fexpr)+ ','?
//
// It reports whether the list ends in a trailing comma, since a single
// field followed by a bare comma forces list (non-flattened) form per
// spec §4.C/§4.F.
func (p *Parser) parseFexprPlus() ([]field.Field, bool, error) {
	return p.parseFexprSeq(func() bool {
		return p.atEOF() || p.atKeywordBoundary()
	})
}

// atKeywordBoundary reports whether the current token is one of the
// clause keywords that can follow a projection list, so parseFexprPlus
// knows a trailing comma (rather than another field) ends the list.
func (p *Parser) atKeywordBoundary() bool {
	return p.atKeyword("WHERE") || p.atKeyword("GROUP") || p.atKeyword("RETURNING")
}

// parseFexprList implements fexprs, the comma-separated list grammar
// used by IN's right-hand side (bare, no enclosing punctuation — the
// original grammar's "o.x IN o.y, o.z" takes no parentheses) and by
// function-call argument lists (enclosed in '(' ')' by the caller).
func (p *Parser) parseFexprList() ([]field.Field, error) {
	fields, _, err := p.parseFexprSeq(func() bool {
		return p.atEOF() || p.atKeywordBoundary() || p.atPunct(")")
	})
	return fields, err
}

// parseFexprSeq parses one or more comma-separated fexpr, tolerating a
// trailing comma when isEnd reports the list is done. It reports whether
// the final comma was in fact trailing (no field followed it).
func (p *Parser) parseFexprSeq(isEnd func() bool) ([]field.Field, bool, error) {
	first, err := p.parseFexpr()
	if err != nil {
		return nil, false, err
	}
	fields := []field.Field{first}
	trailingComma := false
	for p.atPunct(",") {
		p.advance()
		trailingComma = true
		if isEnd() {
			break
		}
		next, err := p.parseFexpr()
		if err != nil {
			return nil, false, err
		}
		fields = append(fields, next)
		trailingComma = false
	}
	return fields, trailingComma, nil
}

// parseFexprStar implements fexprstar: zero or more fexpr, used by
// function-call argument lists which may be empty (e.g. random()).
func (p *Parser) parseFexprStar() ([]field.Field, error) {
	if p.atPunct(")") {
		return nil, nil
	}
	return p.parseFexprList()
}

// parseFexpr implements:
//
//	fexpr : fexpr OR predterm | predterm
func (p *Parser) parseFexpr() (field.Field, error) {
	left, err := p.parsePredTerm()
	if err != nil {
		return field.Field{}, err
	}
	for p.atKeyword("OR") {
		p.advance()
		right, err := p.parsePredTerm()
		if err != nil {
			return field.Field{}, err
		}
		// field.Field.Or builds a proper OR node for both sides instead
		// of Python's `a or b` short-circuit, which would silently
		// return whichever operand was merely truthy.
		left = left.Or(right)
	}
	return left, nil
}

// parsePredTerm implements:
//
//	predterm : predterm AND prednfactor | prednfactor
func (p *Parser) parsePredTerm() (field.Field, error) {
	left, err := p.parsePredNFactor()
	if err != nil {
		return field.Field{}, err
	}
	for p.atKeyword("AND") {
		p.advance()
		right, err := p.parsePredNFactor()
		if err != nil {
			return field.Field{}, err
		}
		left = left.And(right)
	}
	return left, nil
}

// parsePredNFactor implements:
//
//	prednfactor : NOT prednfactor | predfactor
func (p *Parser) parsePredNFactor() (field.Field, error) {
	if p.atKeyword("NOT") {
		p.advance()
		inner, err := p.parsePredNFactor()
		if err != nil {
			return field.Field{}, err
		}
		return field.Not(inner), nil
	}
	return p.parsePredFactor()
}

// parsePredFactor implements:
//
//	predfactor : predfactor IN fexprs
//	           | predfactor COMPARE arithexpr
//	           | arithexpr
//
// fexprs takes no enclosing parentheses: "o.x IN o.y, o.z" is itself the
// right-hand side, matching the original grammar's IN production.
func (p *Parser) parsePredFactor() (field.Field, error) {
	left, err := p.parseArithExpr()
	if err != nil {
		return field.Field{}, err
	}
	for {
		switch {
		case p.atKeyword("IN"):
			p.advance()
			items, err := p.parseFexprList()
			if err != nil {
				return field.Field{}, err
			}
			args := make([]interface{}, len(items))
			for i, it := range items {
				args[i] = it
			}
			left = left.In(args...)
		case p.cur() != nil && p.cur().Type == lex.CompareToken:
			tk := p.advance()
			right, err := p.parseArithExpr()
			if err != nil {
				return field.Field{}, err
			}
			op, err := compareOperator(tk.Value)
			if err != nil {
				return field.Field{}, err
			}
			// The Python original's reduction for MATCHES discarded the
			// built comparison node and re-evaluated "==" at call time;
			// here the Operator node built by op is always the one
			// returned and used, so MATCHES actually runs a regex match.
			left = op(left, right)
		default:
			return left, nil
		}
	}
}

func compareOperator(symbol string) (func(l field.Field, r interface{}) field.Field, error) {
	switch symbol {
	case "==":
		return field.Field.Eq, nil
	case "!=":
		return field.Field.Ne, nil
	case "<":
		return field.Field.Lt, nil
	case "<=":
		return field.Field.Le, nil
	case ">":
		return field.Field.Gt, nil
	case ">=":
		return field.Field.Ge, nil
	case "IS":
		return field.Field.Is, nil
	case "CONTAINS":
		return field.Field.Contains, nil
	case "LIKE":
		return field.Field.Like, nil
	case "MATCHES":
		return field.Field.Matches, nil
	default:
		return nil, ErrParseError.New("Compare", symbol, 0)
	}
}

// parseArithExpr implements:
//
//	arithexpr : arithexpr ('+'|'-') term | term
func (p *Parser) parseArithExpr() (field.Field, error) {
	left, err := p.parseTerm()
	if err != nil {
		return field.Field{}, err
	}
	for p.atPunct("+") || p.atPunct("-") {
		op := p.advance().Value
		right, err := p.parseTerm()
		if err != nil {
			return field.Field{}, err
		}
		if op == "+" {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
	return left, nil
}

// parseTerm implements:
//
//	term : term ('*'|'/'|'%') expnt | expnt
func (p *Parser) parseTerm() (field.Field, error) {
	left, err := p.parseExpnt()
	if err != nil {
		return field.Field{}, err
	}
	for p.atPunct("*") || p.atPunct("/") || p.atPunct("%") {
		op := p.advance().Value
		right, err := p.parseExpnt()
		if err != nil {
			return field.Field{}, err
		}
		switch op {
		case "*":
			left = left.Mul(right)
		case "/":
			left = left.Div(right)
		case "%":
			left = left.Mod(right)
		}
	}
	return left, nil
}

// parseExpnt implements:
//
//	expnt : field POW expnt | field
//
// right-recursing on the right-hand side makes ** right-associative:
// 2 ** 3 ** 2 parses as 2 ** (3 ** 2).
func (p *Parser) parseExpnt() (field.Field, error) {
	left, err := p.parseFieldExpr()
	if err != nil {
		return field.Field{}, err
	}
	if p.cur() != nil && p.cur().Type == lex.PowToken {
		p.advance()
		right, err := p.parseExpnt()
		if err != nil {
			return field.Field{}, err
		}
		return left.Pow(right), nil
	}
	return left, nil
}

// parseFieldExpr implements:
//
//	field : literal | O | O '.' ID | O '[' literal ']'
//	      | ID '(' fexprstar ')' | '(' fexpr ')' | field AS ID
func (p *Parser) parseFieldExpr() (field.Field, error) {
	f, err := p.parseFieldPrimary()
	if err != nil {
		return field.Field{}, err
	}
	for p.atKeyword("AS") {
		p.advance()
		name, err := p.expectIdentifier()
		if err != nil {
			return field.Field{}, err
		}
		f, err = field.As(f, name)
		if err != nil {
			return field.Field{}, err
		}
	}
	return f, nil
}

func (p *Parser) parseFieldPrimary() (field.Field, error) {
	tk := p.cur()
	if tk == nil {
		return field.Field{}, p.errorAt(tk)
	}
	switch {
	case isLiteralToken(tk):
		v, err := p.parseLiteralValue()
		if err != nil {
			return field.Field{}, err
		}
		return field.Constant(v), nil
	case tk.Type == lex.KeywordToken && tk.Value == "O":
		p.advance()
		return p.parseIdentityTail()
	case tk.Type == lex.PunctToken && tk.Value == "(":
		p.advance()
		inner, err := p.parseFexpr()
		if err != nil {
			return field.Field{}, err
		}
		if err := p.expectPunct(")"); err != nil {
			return field.Field{}, err
		}
		return inner, nil
	case tk.Type == lex.IdentifierToken:
		name := tk.Value
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return field.Field{}, err
		}
		args, err := p.parseFexprStar()
		if err != nil {
			return field.Field{}, err
		}
		if err := p.expectPunct(")"); err != nil {
			return field.Field{}, err
		}
		return p.reg.Call(name, args)
	default:
		return field.Field{}, p.errorAt(tk)
	}
}

func (p *Parser) parseIdentityTail() (field.Field, error) {
	if p.atPunct(".") {
		p.advance()
		name, err := p.expectIdentifier()
		if err != nil {
			return field.Field{}, err
		}
		return field.Attribute(name), nil
	}
	if p.atPunct("[") {
		p.advance()
		key, err := p.parseLiteralValue()
		if err != nil {
			return field.Field{}, err
		}
		if err := p.expectPunct("]"); err != nil {
			return field.Field{}, err
		}
		return field.Key(key), nil
	}
	return field.O, nil
}

func isLiteralToken(tk *lex.Token) bool {
	switch tk.Type {
	case lex.StringToken, lex.FloatToken, lex.IntToken:
		return true
	case lex.KeywordToken:
		return tk.Value == "TRUE" || tk.Value == "FALSE" || tk.Value == "NONE"
	default:
		return false
	}
}

// parseLiteralValue implements:
//
//	literal : STR | FLOAT | INT | TRUE | FALSE | NONE
//
// returning the raw Go value rather than a field.Field, since both a
// Constant projection and an O['key']/function-arg literal site need the
// bare value.
func (p *Parser) parseLiteralValue() (interface{}, error) {
	tk := p.cur()
	if tk == nil || !isLiteralToken(tk) {
		return nil, p.errorAt(tk)
	}
	p.advance()
	switch tk.Type {
	case lex.StringToken:
		return unescapeString(tk.Value), nil
	case lex.FloatToken:
		v, err := strconv.ParseFloat(tk.Value, 64)
		if err != nil {
			return nil, ErrParseError.New("Float", tk.Value, tk.Line)
		}
		return v, nil
	case lex.IntToken:
		v, err := strconv.ParseInt(tk.Value, 0, 64)
		if err != nil {
			return nil, ErrParseError.New("Int", tk.Value, tk.Line)
		}
		return int(v), nil
	default: // KeywordToken: TRUE, FALSE, NONE
		switch tk.Value {
		case "TRUE":
			return true, nil
		case "FALSE":
			return false, nil
		default:
			return nil, nil
		}
	}
}

// unescapeString decodes the \\ and \' escapes the lexer deliberately
// leaves untouched in a StringToken's Value (it only strips the
// surrounding quotes).
func unescapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			b.WriteByte(s[i])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
