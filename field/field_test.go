package field

import (
	"testing"

	"github.com/jbchouinard/go-snakeql/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityEval(t *testing.T) {
	o := Identity()
	rec := record.MapRecord{"x": 1}
	v, err := o.EvalScalar(rec)
	require.NoError(t, err)
	assert.Equal(t, rec, v)
}

func TestAttributeEval(t *testing.T) {
	f := Attribute("age")
	v, err := f.EvalScalar(record.Struct{Value: struct{ Age int }{Age: 30}})
	require.NoError(t, err)
	assert.Equal(t, 30, v)
}

func TestAttributeMissing(t *testing.T) {
	f := Attribute("missing")
	_, err := f.EvalScalar(record.Struct{Value: struct{ Age int }{Age: 30}})
	require.Error(t, err)
	assert.True(t, ErrMissingAttribute.Is(err))
}

func TestKeyEval(t *testing.T) {
	f := Key("x")
	v, err := f.EvalScalar(record.MapRecord{"x": 12})
	require.NoError(t, err)
	assert.Equal(t, 12, v)
}

func TestKeyMissing(t *testing.T) {
	f := Key("missing")
	_, err := f.EvalScalar(record.MapRecord{"x": 12})
	require.Error(t, err)
	assert.True(t, ErrMissingKey.Is(err))
}

func TestKeyUnsupportedLookup(t *testing.T) {
	f := Key("x")
	_, err := f.EvalScalar(record.Struct{Value: struct{ X int }{X: 1}})
	require.Error(t, err)
	assert.True(t, ErrUnsupportedLookup.Is(err))
}

func TestAliasTransparency(t *testing.T) {
	inner := Attribute("x")
	aliased := inner.As("y")

	assert.Equal(t, inner.IsScalar(), aliased.IsScalar())
	assert.Equal(t, inner.IsAggregate(), aliased.IsAggregate())
	assert.True(t, inner.StructuralEquals(aliased))
	assert.True(t, aliased.StructuralEquals(inner))

	assert.Equal(t, "y", aliased.DisplayName())
	assert.Equal(t, "x", inner.DisplayName())
}

func TestOperatorShortCircuitOr(t *testing.T) {
	// left true => right is never evaluated, so a missing attribute on
	// the right must not surface as an error.
	f := Constant(true).Or(Attribute("missing"))
	v, err := f.EvalScalar(record.MapRecord{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestOperatorShortCircuitAnd(t *testing.T) {
	f := Constant(false).And(Attribute("missing"))
	v, err := f.EvalScalar(record.MapRecord{})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestOperatorOrBothSides(t *testing.T) {
	cases := []struct {
		l, r, want bool
	}{
		{false, false, false},
		{false, true, true},
		{true, false, true},
		{true, true, true},
	}
	for _, c := range cases {
		f := Constant(c.l).Or(Constant(c.r))
		v, err := f.EvalScalar(nil)
		require.NoError(t, err)
		assert.Equal(t, c.want, v)
	}
}

func TestComparisonOperators(t *testing.T) {
	x := Attribute("x")
	rec := record.MapRecord{"x": 5}

	cases := []struct {
		f    Field
		want bool
	}{
		{x.Eq(5), true},
		{x.Ne(5), false},
		{x.Lt(10), true},
		{x.Le(5), true},
		{x.Gt(5), false},
		{x.Ge(5), true},
	}
	for _, c := range cases {
		v, err := c.f.EvalScalar(rec)
		require.NoError(t, err)
		assert.Equal(t, c.want, v, c.f.Render())
	}
}

func TestArithmeticIntPreserving(t *testing.T) {
	f := Attribute("x").Add(Attribute("y"))
	v, err := f.EvalScalar(record.MapRecord{"x": 2, "y": 3})
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
}

func TestDivisionIsAlwaysTrueDivision(t *testing.T) {
	f := Constant(7).Div(Constant(2))
	v, err := f.EvalScalar(nil)
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)
}

func TestInOperator(t *testing.T) {
	f := Attribute("x").In(1, 2, 3)
	v, err := f.EvalScalar(record.MapRecord{"x": 2})
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = f.EvalScalar(record.MapRecord{"x": 9})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

// TestInOperatorAggregate guards against a nil Scalar func on opIn: an
// IN node built over an aggregate-classified left side (e.g.
// sum(x).In(1, 2, 3), legal as a GROUP BY projection field) must resolve
// via EvalAggregate's own "IN" case, not fall through to the nonexistent
// f.fn.Scalar.
func TestInOperatorAggregate(t *testing.T) {
	sum := NewAggregateFn(&FuncRef{Name: "sum", Aggregate: func(cols [][]interface{}) (interface{}, error) {
		var total int64
		for _, v := range cols[0] {
			total += int64(v.(int))
		}
		return total, nil
	}}, []Field{Attribute("x")}, "sum")
	f := sum.In(4, 5, 6)
	require.True(t, f.IsAggregate())

	group := []record.Record{
		record.MapRecord{"x": 2},
		record.MapRecord{"x": 2},
	}
	v, err := f.EvalAggregate(group)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestLikeAndMatches(t *testing.T) {
	v, err := Constant("foobar").Like("foo*").EvalScalar(nil)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = Constant("foobar").Matches("foo.*").EvalScalar(nil)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestClassificationRecursiveRule(t *testing.T) {
	agg := NewAggregateFn(&FuncRef{Name: "sum", Aggregate: func(cols [][]interface{}) (interface{}, error) {
		return len(cols[0]), nil
	}}, []Field{Attribute("x")}, "sum")

	assert.False(t, agg.IsScalar())
	assert.True(t, agg.IsAggregate())

	scalarOverAgg := Not(agg)
	assert.False(t, scalarOverAgg.IsScalar())
	assert.True(t, scalarOverAgg.IsAggregate())

	mixed := Attribute("x").Add(agg)
	assert.False(t, mixed.IsScalar())
	assert.False(t, mixed.IsAggregate())
}

func TestStructuralEqualsFunctionIdentity(t *testing.T) {
	ref1 := &FuncRef{Name: "f", Scalar: func(a []interface{}) (interface{}, error) { return nil, nil }}
	ref2 := &FuncRef{Name: "f", Scalar: func(a []interface{}) (interface{}, error) { return nil, nil }}

	a := NewScalarFn(ref1, []Field{Attribute("x")}, "f")
	b := NewScalarFn(ref2, []Field{Attribute("x")}, "f")
	c := NewScalarFn(ref1, []Field{Attribute("x")}, "f")

	assert.False(t, a.StructuralEquals(b))
	assert.True(t, a.StructuralEquals(c))
}

func TestRenderRoundTripShapes(t *testing.T) {
	cases := []struct {
		f    Field
		want string
	}{
		{Identity(), "o"},
		{Attribute("x"), "o.x"},
		{Key("x"), "o['x']"},
		{Constant(3), "3"},
		{Constant("foo"), "'foo'"},
		{Attribute("x").Eq(0).And(Attribute("y").Eq(0)), "((o.x == 0) AND (o.y == 0))"},
		{Not(Attribute("x").Eq(0)), "NOT (o.x == 0)"},
		{Attribute("x").In(Attribute("y"), Attribute("z")), "(o.x IN o.y, o.z)"},
		{Attribute("x").As("y"), "o.x AS y"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.f.Render())
	}
}

func TestListRenderTrailingComma(t *testing.T) {
	assert.Equal(t, "o.x,", RenderList([]Field{Attribute("x")}))
	assert.Equal(t, "o.x, o.y", RenderList([]Field{Attribute("x"), Attribute("y")}))
}
