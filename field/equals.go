package field

// unwrapAlias strips any number of Alias wrappers, implementing spec §3's
// "Alias transparency": for classification and structural equality,
// Alias(inner, _) behaves as inner.
func unwrapAlias(f Field) Field {
	for f.kind == KindAlias {
		f = f.children[0]
	}
	return f
}

// StructuralEquals reports whether f and other are the same expression
// shape: same variant and recursive equality of all semantic fields, with
// Alias transparent on either side. For ScalarFn/AggregateFn/Operator the
// underlying function identity (FuncRef pointer) must match, not merely
// the display name — two functions registered under the same name at
// different times are not the same function.
func (f Field) StructuralEquals(other Field) bool {
	f = unwrapAlias(f)
	other = unwrapAlias(other)
	if f.kind != other.kind {
		return false
	}
	switch f.kind {
	case KindIdentity:
		return true
	case KindAttribute:
		return f.attr == other.attr
	case KindKey:
		return equalValues(f.key, other.key)
	case KindConstant:
		return equalValues(f.value, other.value)
	case KindList:
		return fieldsEqual(f.children, other.children)
	case KindScalarFn, KindAggregateFn, KindOperator:
		return f.fn == other.fn && fieldsEqual(f.children, other.children)
	default:
		return false
	}
}

func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].StructuralEquals(b[i]) {
			return false
		}
	}
	return true
}
