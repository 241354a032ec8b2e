package field

import "github.com/jbchouinard/go-snakeql/record"

// EvalScalar evaluates f against a single record. It is only valid to call
// when f.IsScalar(); calling it on a pure-aggregate node returns
// ErrNotScalar rather than panicking, keeping the interface total.
func (f Field) EvalScalar(rec record.Record) (interface{}, error) {
	switch f.kind {
	case KindIdentity:
		return rec, nil
	case KindAttribute:
		ag, ok := rec.(record.AttributeGetter)
		if !ok {
			return nil, ErrMissingAttribute.New(f.attr)
		}
		v, ok := ag.GetAttribute(f.attr)
		if !ok {
			return nil, ErrMissingAttribute.New(f.attr)
		}
		return v, nil
	case KindKey:
		kg, ok := rec.(record.KeyGetter)
		if !ok {
			return nil, ErrUnsupportedLookup.New(rec)
		}
		v, ok := kg.GetKey(f.key)
		if !ok {
			return nil, ErrMissingKey.New(f.key)
		}
		return v, nil
	case KindConstant:
		return f.value, nil
	case KindList:
		vals := make([]interface{}, len(f.children))
		for i, c := range f.children {
			v, err := c.EvalScalar(rec)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return vals, nil
	case KindAlias:
		return f.children[0].EvalScalar(rec)
	case KindOperator:
		return f.evalOperatorScalar(rec)
	case KindScalarFn:
		args, err := evalChildrenScalar(f.children, rec)
		if err != nil {
			return nil, err
		}
		v, err := f.fn.Scalar(args)
		if err != nil {
			return nil, ErrEvaluationError.New(f.op, err)
		}
		return v, nil
	default:
		return nil, ErrNotScalar.New(f.Render())
	}
}

// Truthy is the scalar engine's notion of truthiness, exported so the
// executor's WHERE stage filters by the same rule AND/OR/NOT use
// internally rather than duplicating it.
func Truthy(v interface{}) bool {
	return truthy(v)
}

func evalChildrenScalar(children []Field, rec record.Record) ([]interface{}, error) {
	args := make([]interface{}, len(children))
	for i, c := range children {
		v, err := c.EvalScalar(rec)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// evalOperatorScalar special-cases AND/OR/NOT for short-circuit
// evaluation (spec §9 point 1: a faithful implementation computes true
// short-circuit left OR right, not a buggy "identity or right"); IN is
// special-cased because its right-hand side is a List whose elements are
// tested for membership rather than passed positionally to a function.
func (f Field) evalOperatorScalar(rec record.Record) (interface{}, error) {
	switch f.op {
	case "AND":
		l, err := f.children[0].EvalScalar(rec)
		if err != nil {
			return nil, err
		}
		if !truthy(l) {
			return false, nil
		}
		r, err := f.children[1].EvalScalar(rec)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	case "OR":
		l, err := f.children[0].EvalScalar(rec)
		if err != nil {
			return nil, err
		}
		if truthy(l) {
			return true, nil
		}
		r, err := f.children[1].EvalScalar(rec)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	case "NOT":
		v, err := f.children[0].EvalScalar(rec)
		if err != nil {
			return nil, err
		}
		return !truthy(v), nil
	case "IN":
		lv, err := f.children[0].EvalScalar(rec)
		if err != nil {
			return nil, err
		}
		list, err := f.children[1].EvalScalar(rec)
		if err != nil {
			return nil, err
		}
		for _, v := range list.([]interface{}) {
			if equalValues(lv, v) {
				return true, nil
			}
		}
		return false, nil
	default:
		args, err := evalChildrenScalar(f.children, rec)
		if err != nil {
			return nil, err
		}
		v, err := f.fn.Scalar(args)
		if err != nil {
			return nil, ErrEvaluationError.New(f.op, err)
		}
		return v, nil
	}
}

// EvalAggregate evaluates f against a group of records: each argument
// subtree is first evaluated scalarly across every record in the group,
// producing one column per argument, and the aggregate function receives
// those columns positionally. It is only valid to call when
// f.IsAggregate().
func (f Field) EvalAggregate(group []record.Record) (interface{}, error) {
	switch f.kind {
	case KindConstant:
		return f.value, nil
	case KindAlias:
		return f.children[0].EvalAggregate(group)
	case KindAggregateFn:
		columns := make([][]interface{}, len(f.children))
		for i, arg := range f.children {
			col := make([]interface{}, len(group))
			for j, rec := range group {
				v, err := arg.EvalScalar(rec)
				if err != nil {
					return nil, err
				}
				col[j] = v
			}
			columns[i] = col
		}
		v, err := f.fn.Aggregate(columns)
		if err != nil {
			return nil, ErrEvaluationError.New(f.op, err)
		}
		return v, nil
	case KindList:
		vals := make([]interface{}, len(f.children))
		for i, c := range f.children {
			v, err := c.EvalAggregate(group)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return vals, nil
	case KindScalarFn, KindOperator:
		args := make([]interface{}, len(f.children))
		for i, c := range f.children {
			v, err := c.EvalAggregate(group)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		switch f.op {
		case "AND":
			return truthy(args[0]) && truthy(args[1]), nil
		case "OR":
			return truthy(args[0]) || truthy(args[1]), nil
		case "NOT":
			return !truthy(args[0]), nil
		case "IN":
			for _, v := range args[1].([]interface{}) {
				if equalValues(args[0], v) {
					return true, nil
				}
			}
			return false, nil
		}
		v, err := f.fn.Scalar(args)
		if err != nil {
			return nil, ErrEvaluationError.New(f.op, err)
		}
		return v, nil
	default:
		return nil, ErrNotAggregate.New(f.Render())
	}
}
