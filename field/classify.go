package field

// IsScalar reports whether f can be evaluated per-record (EvalScalar). A
// leaf is scalar unless it is a pure aggregate leaf (there are none: every
// leaf here is at least scalar). A compound node is scalar iff all of its
// children are scalar, per spec §3.
func (f Field) IsScalar() bool {
	switch f.kind {
	case KindIdentity, KindAttribute, KindKey, KindConstant:
		return true
	case KindAlias:
		return f.children[0].IsScalar()
	case KindAggregateFn:
		return false
	case KindList, KindScalarFn, KindOperator:
		return allScalar(f.children)
	default:
		return false
	}
}

// IsAggregate reports whether f can be evaluated per-group
// (EvalAggregate). Per spec §3's recursive rule: a compound node is
// aggregate iff all children are scalar and the outermost function is an
// aggregate, or all children are aggregate.
func (f Field) IsAggregate() bool {
	switch f.kind {
	case KindIdentity, KindAttribute, KindKey:
		return false
	case KindConstant:
		return true
	case KindAlias:
		return f.children[0].IsAggregate()
	case KindList, KindScalarFn, KindAggregateFn, KindOperator:
		if f.kind == KindAggregateFn && allScalar(f.children) {
			return true
		}
		return allAggregate(f.children)
	default:
		return false
	}
}
