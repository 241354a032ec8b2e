package parse

import (
	"testing"

	"github.com/jbchouinard/go-snakeql/field"
	"github.com/jbchouinard/go-snakeql/query"
	"github.com/jbchouinard/go-snakeql/record"
	"github.com/jbchouinard/go-snakeql/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelectSingleFieldFlattens(t *testing.T) {
	q, err := Parse("SELECT o.x")
	require.NoError(t, err)
	assert.True(t, q.Flatten())
	require.Len(t, q.Fields(), 1)
	assert.Equal(t, "o.x", q.Fields()[0].Render())
}

func TestParseSelectTrailingCommaForcesList(t *testing.T) {
	q, err := Parse("SELECT o.x,")
	require.NoError(t, err)
	assert.False(t, q.Flatten())
	require.Len(t, q.Fields(), 1)
}

func TestParseSelectMultipleFields(t *testing.T) {
	q, err := Parse("SELECT o.x, o.y")
	require.NoError(t, err)
	assert.False(t, q.Flatten())
	require.Len(t, q.Fields(), 2)
	assert.Equal(t, "o.x", q.Fields()[0].Render())
	assert.Equal(t, "o.y", q.Fields()[1].Render())
}

func TestParseSelectIdentityFlattens(t *testing.T) {
	q, err := Parse("SELECT o")
	require.NoError(t, err)
	assert.True(t, q.Flatten())
	assert.Equal(t, "o", q.Fields()[0].Render())
}

func TestParseDistinct(t *testing.T) {
	q, err := Parse("SELECT DISTINCT o")
	require.NoError(t, err)
	assert.True(t, q.IsDistinct())
}

func TestParseWhereAndRun(t *testing.T) {
	q, err := Parse("SELECT o WHERE o.x == o.y")
	require.NoError(t, err)

	records := []interface{}{
		record.MapRecord{"x": 1, "y": 1},
		record.MapRecord{"x": 1, "y": 2},
	}
	res, err := q.Run(records)
	require.NoError(t, err)
	rows, err := res.List()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{record.MapRecord{"x": 1, "y": 1}}, rows)
}

func TestParseGroupByReturningDict(t *testing.T) {
	q, err := Parse("SELECT o.name, sum(mul(o.price, o.qty)) AS subtotal GROUP BY o.name RETURNING dict")
	require.NoError(t, err)

	records := []interface{}{
		record.MapRecord{"name": "apple", "price": 10, "qty": 1.0},
		record.MapRecord{"name": "banana", "price": 20, "qty": 0.75},
		record.MapRecord{"name": "apple", "price": 100, "qty": 1.0},
	}
	res, err := q.Run(records)
	require.NoError(t, err)
	rows, err := res.List()
	require.NoError(t, err)

	byName := map[string]interface{}{}
	for _, row := range rows {
		m := row.(map[string]interface{})
		byName[m["name"].(string)] = m["subtotal"]
	}
	assert.Equal(t, 110.0, byName["apple"])
	assert.Equal(t, 15.0, byName["banana"])
}

// TestParseOrAndPrecedence asserts AND binds tighter than OR: "a OR b AND
// c" must parse as "a OR (b AND c)", not "(a OR b) AND c".
func TestParseOrAndPrecedence(t *testing.T) {
	q, err := Parse("SELECT o.a OR o.b AND o.c")
	require.NoError(t, err)
	assert.Equal(t, "(o.a OR (o.b AND o.c))", q.Fields()[0].Render())
}

// TestParseNotBindsAroundComparison asserts NOT wraps a whole predfactor,
// so "NOT o.x == o.y" parses as "NOT (o.x == o.y)".
func TestParseNotBindsAroundComparison(t *testing.T) {
	q, err := Parse("SELECT NOT o.x == o.y")
	require.NoError(t, err)
	assert.Equal(t, "NOT (o.x == o.y)", q.Fields()[0].Render())
}

// TestParsePowRightAssociative asserts ** is right-associative: "a ** b
// ** c" parses as "a ** (b ** c)".
func TestParsePowRightAssociative(t *testing.T) {
	q, err := Parse("SELECT o.a ** o.b ** o.c")
	require.NoError(t, err)
	assert.Equal(t, "(o.a ** (o.b ** o.c))", q.Fields()[0].Render())
}

// TestParseOrBuildsRealOperatorNode guards against the original
// implementation's `a or b` short-circuit bug: the parser must emit a
// genuine OR operator node evaluated by the field algebra, not just
// return whichever side Python's `or` happened to consider truthy.
func TestParseOrBuildsRealOperatorNode(t *testing.T) {
	q, err := Parse("SELECT o WHERE FALSE OR TRUE")
	require.NoError(t, err)
	cond, ok := q.WhereClause()
	require.True(t, ok)
	assert.Equal(t, field.KindOperator, cond.Kind())

	v, err := cond.EvalScalar(record.MapRecord{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

// TestParseMatchesUsesRegexOperator guards against the original
// implementation's MATCHES reduction bug (an errant `==` discarded the
// built comparison node): MATCHES must actually run a regex match.
func TestParseMatchesUsesRegexOperator(t *testing.T) {
	q, err := Parse("SELECT o WHERE o.s MATCHES 'fo+'")
	require.NoError(t, err)
	cond, ok := q.WhereClause()
	require.True(t, ok)
	assert.Equal(t, "(o.s MATCHES 'fo+')", cond.Render())

	v, err := cond.EvalScalar(record.MapRecord{"s": "foo"})
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = cond.EvalScalar(record.MapRecord{"s": "bar"})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestParseInClause(t *testing.T) {
	q, err := Parse("SELECT o WHERE o.x IN o.y, o.z")
	require.NoError(t, err)
	cond, ok := q.WhereClause()
	require.True(t, ok)
	assert.Equal(t, "(o.x IN o.y, o.z)", cond.Render())

	v, err := cond.EvalScalar(record.MapRecord{"x": 3, "y": 3, "z": 9})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestParseKeyLookupAndLiterals(t *testing.T) {
	q, err := Parse("SELECT o['x'] WHERE o['x'] >= 3")
	require.NoError(t, err)
	cond, ok := q.WhereClause()
	require.True(t, ok)

	v, err := cond.EvalScalar(record.MapRecord{"x": 5})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestParseStringEscapeDecoding(t *testing.T) {
	q, err := Parse(`SELECT o WHERE o.s == 'it\'s here'`)
	require.NoError(t, err)
	cond, ok := q.WhereClause()
	require.True(t, ok)

	v, err := cond.EvalScalar(record.MapRecord{"s": "it's here"})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestParseFunctionCallNoArgs(t *testing.T) {
	q, err := Parse("SELECT random()")
	require.NoError(t, err)
	require.Len(t, q.Fields(), 1)
	assert.Equal(t, field.KindScalarFn, q.Fields()[0].Kind())
}

func TestParseUnknownFunction(t *testing.T) {
	_, err := Parse("SELECT bogus(o.x)")
	require.Error(t, err)
	assert.True(t, registry.ErrUnknownFunction.Is(err))
}

func TestParseUnknownReturnType(t *testing.T) {
	_, err := Parse("SELECT o RETURNING bogus")
	require.Error(t, err)
	assert.True(t, registry.ErrUnknownReturnType.Is(err))
}

func TestParseSyntaxErrors(t *testing.T) {
	cases := []string{
		"SELECT o WHERE",
		"SELECT o.",
		"SELECT o[",
		"SELECT (o.x",
		"SELECT = o.x",
	}
	for _, src := range cases {
		_, err := Parse(src)
		assert.Error(t, err, src)
	}
}

// TestRoundTripRendersParseableText covers spec §8 invariant 1: rendering
// a built query and parsing it back yields a structurally equal query.
func TestRoundTripRendersParseableText(t *testing.T) {
	x, y := field.Attribute("x"), field.Attribute("y")
	built := query.Select(x, y)
	built, err := built.Where(x.Ge(y))
	require.NoError(t, err)

	reparsed, err := Parse(built.Render())
	require.NoError(t, err)

	require.Len(t, reparsed.Fields(), 2)
	assert.True(t, built.Fields()[0].StructuralEquals(reparsed.Fields()[0]))
	assert.True(t, built.Fields()[1].StructuralEquals(reparsed.Fields()[1]))

	builtWhere, _ := built.WhereClause()
	reparsedWhere, _ := reparsed.WhereClause()
	assert.True(t, builtWhere.StructuralEquals(reparsedWhere))
}

func TestParseWithCustomRegistry(t *testing.T) {
	reg := registry.New()
	reg.RegisterScalar("double", func(args []interface{}) (interface{}, error) {
		n, _ := args[0].(int)
		return n * 2, nil
	})

	q, err := ParseWith(reg, "SELECT double(o.x)")
	require.NoError(t, err)

	res, err := q.Run([]interface{}{record.MapRecord{"x": 5}})
	require.NoError(t, err)
	rows, err := res.List()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{10}, rows)
}
