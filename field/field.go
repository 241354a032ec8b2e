// Package field implements the expression algebra of spec §3–§4.A: a
// closed set of field-expression variants with well-defined evaluation,
// naming, printing, and structural-equality semantics.
package field

// Field is a node in an expression tree. Nodes are immutable once
// constructed; every constructor and fluent method returns a fresh value.
// Field is a tagged union over Kind rather than an interface-per-variant
// hierarchy (spec §9 design note), which keeps StructuralEquals, Render
// and the classification predicates exhaustive switches over a fixed set
// of cases instead of an open type switch.
type Field struct {
	kind Kind

	attr  string      // Attribute
	key   interface{} // Key
	value interface{} // Constant

	// children holds, depending on kind: List's items, ScalarFn/
	// AggregateFn/Operator's arguments, or Alias's single wrapped field
	// at index 0.
	children []Field

	fn *FuncRef // ScalarFn / AggregateFn / Operator
	op string   // ScalarFn/AggregateFn display name, or Operator symbol

	alias string // Alias name
}

// Kind reports which variant f holds.
func (f Field) Kind() Kind { return f.kind }

// String renders f the same way Render does, so a Field prints usefully
// in %v/%s and test failure messages.
func (f Field) String() string { return f.Render() }

// toField coerces a bare Go value into Constant(value); a Field argument
// passes through unchanged. This is the coercion spec §4.A requires of
// every fluent operator method.
func toField(v interface{}) Field {
	if fv, ok := v.(Field); ok {
		return fv
	}
	return Constant(v)
}

func toFields(vs []interface{}) []Field {
	out := make([]Field, len(vs))
	for i, v := range vs {
		out[i] = toField(v)
	}
	return out
}

func allScalar(fields []Field) bool {
	for _, f := range fields {
		if !f.IsScalar() {
			return false
		}
	}
	return true
}

func allAggregate(fields []Field) bool {
	for _, f := range fields {
		if !f.IsAggregate() {
			return false
		}
	}
	return true
}
