package lex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lexCase struct {
	input    string
	expected string
	typ      TokenType
}

func testLex(t *testing.T, cases []lexCase, fn stateFunc) {
	for _, c := range cases {
		l := &Lexer{input: c.input, line: 1}
		_, err := fn(l)
		if c.typ == ErrorToken {
			assert.Error(t, err, c.input)
			continue
		}
		require.NoError(t, err, c.input)
		require.Len(t, l.tokens, 1, c.input)
		assert.Equal(t, c.typ, l.tokens[0].Type, c.input)
		assert.Equal(t, c.expected, l.tokens[0].Value, c.input)
	}
}

func TestLexNumber(t *testing.T) {
	cases := []lexCase{
		{"12", "12", IntToken},
		{"12.45", "12.45", FloatToken},
		{".12", ".12", FloatToken},
		{"12.", "12.", FloatToken},
		{"12e12", "12e12", FloatToken},
		{"-12E-12", "-12E-12", FloatToken},
		{"0", "0", IntToken},
		{"-1", "-1", IntToken},
		{"+13", "+13", IntToken},
		{"0xa12", "0xa12", IntToken},
		{"0b0110", "0b0110", IntToken},
		{"0o732", "0o732", IntToken},
	}
	testLex(t, cases, lexNumber)
}

func TestLexIdentifier(t *testing.T) {
	cases := []lexCase{
		{"select", "SELECT", KeywordToken},
		{"DISTINCT", "DISTINCT", KeywordToken},
		{"p", "p", IdentifierToken},
		{"likely_name", "likely_name", IdentifierToken},
		{"LIKE", "LIKE", CompareToken},
		{"matches", "MATCHES", CompareToken},
		{"IN", "IN", KeywordToken}, // keyword set wins over compare set
	}
	testLex(t, cases, lexIdentifier)
}

func TestLexCompare(t *testing.T) {
	cases := []lexCase{
		{"==", "==", CompareToken},
		{"!=", "!=", CompareToken},
		{">=", ">=", CompareToken},
		{"<=", "<=", CompareToken},
		{">", ">", CompareToken},
		{"<", "<", CompareToken},
		{"=", "", ErrorToken},
	}
	testLex(t, cases, lexCompare)
}

func TestLexSingleQuote(t *testing.T) {
	cases := []lexCase{
		{`'foo'`, `foo`, StringToken},
		{`'foo \'bar\''`, `foo \'bar\'`, StringToken},
		{`''`, ``, StringToken},
		{`'unterminated`, ``, ErrorToken},
	}
	testLex(t, cases, lexSingleQuote)
}

// TestLexSelectLine replicates the original implementation's doctest
// scenario: tokenizing "SELECT DISTINCT o.x, sum(o.y)".
func TestLexSelectLine(t *testing.T) {
	expected := []struct {
		typ TokenType
		val string
	}{
		{KeywordToken, "SELECT"},
		{KeywordToken, "DISTINCT"},
		{KeywordToken, "O"},
		{PunctToken, "."},
		{IdentifierToken, "x"},
		{PunctToken, ","},
		{IdentifierToken, "sum"},
		{PunctToken, "("},
		{KeywordToken, "O"},
		{PunctToken, "."},
		{IdentifierToken, "y"},
		{PunctToken, ")"},
		{EOFToken, ""},
	}

	l := NewLexer(strings.NewReader("SELECT DISTINCT o.x, sum(o.y)"))
	require.NoError(t, l.Run())
	for _, e := range expected {
		tk := l.Next()
		require.NotNil(t, tk)
		assert.Equal(t, e.typ, tk.Type)
		assert.Equal(t, e.val, tk.Value)
	}
}

// TestLexKeyLookupLine replicates "WHERE o['x'] IS TRUE".
func TestLexKeyLookupLine(t *testing.T) {
	expected := []struct {
		typ TokenType
		val string
	}{
		{KeywordToken, "WHERE"},
		{KeywordToken, "O"},
		{PunctToken, "["},
		{StringToken, "x"},
		{PunctToken, "]"},
		{CompareToken, "IS"},
		{KeywordToken, "TRUE"},
		{EOFToken, ""},
	}

	l := NewLexer(strings.NewReader("WHERE o['x'] IS TRUE"))
	require.NoError(t, l.Run())
	for _, e := range expected {
		tk := l.Next()
		require.NotNil(t, tk)
		assert.Equal(t, e.typ, tk.Type)
		assert.Equal(t, e.val, tk.Value)
	}
}

func TestLexUnexpectedCharacter(t *testing.T) {
	l := NewLexer(strings.NewReader("SELECT o.x & o.y"))
	err := l.Run()
	require.Error(t, err)
	assert.True(t, ErrLexError.Is(err))
}
