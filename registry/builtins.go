package registry

import (
	"math"
	"math/rand"
	"strings"

	"github.com/jbchouinard/go-snakeql/field"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// newSeeded builds a Registry pre-populated with the scalar and aggregate
// functions of spec §4.B, plus the seeded "dict" return type.
func newSeeded() *Registry {
	r := New()
	registerScalarBuiltins(r)
	registerAggregateBuiltins(r)
	registerReturnTypeBuiltins(r)
	return r
}

func registerScalarBuiltins(r *Registry) {
	r.RegisterScalar("add", func(a []interface{}) (interface{}, error) { return field.Add(a[0], a[1]) })
	r.RegisterScalar("sub", func(a []interface{}) (interface{}, error) { return field.Sub(a[0], a[1]) })
	r.RegisterScalar("mul", func(a []interface{}) (interface{}, error) { return field.Mul(a[0], a[1]) })
	r.RegisterScalar("div", func(a []interface{}) (interface{}, error) { return field.Div(a[0], a[1]) })
	r.RegisterScalar("mod", func(a []interface{}) (interface{}, error) { return field.Mod(a[0], a[1]) })
	r.RegisterScalar("pow", func(a []interface{}) (interface{}, error) { return field.Pow(a[0], a[1]) })
	r.RegisterScalar("abs", func(a []interface{}) (interface{}, error) {
		f, err := cast.ToFloat64E(a[0])
		if err != nil {
			return nil, err
		}
		return math.Abs(f), nil
	})
	r.RegisterScalar("round", func(a []interface{}) (interface{}, error) {
		f, err := cast.ToFloat64E(a[0])
		if err != nil {
			return nil, err
		}
		ndigits := 0
		if len(a) > 1 {
			n, err := cast.ToIntE(a[1])
			if err != nil {
				return nil, err
			}
			ndigits = n
		}
		mult := math.Pow(10, float64(ndigits))
		return math.Round(f*mult) / mult, nil
	})
	r.RegisterScalar("str", func(a []interface{}) (interface{}, error) {
		if len(a) == 0 {
			return "", nil
		}
		return cast.ToStringE(a[0])
	})
	r.RegisterScalar("upper", func(a []interface{}) (interface{}, error) {
		s, err := cast.ToStringE(a[0])
		if err != nil {
			return nil, err
		}
		return strings.ToUpper(s), nil
	})
	r.RegisterScalar("lower", func(a []interface{}) (interface{}, error) {
		s, err := cast.ToStringE(a[0])
		if err != nil {
			return nil, err
		}
		return strings.ToLower(s), nil
	})
	r.RegisterScalar("replace", func(a []interface{}) (interface{}, error) {
		s, err := cast.ToStringE(a[0])
		if err != nil {
			return nil, err
		}
		old, err := cast.ToStringE(a[1])
		if err != nil {
			return nil, err
		}
		new_, err := cast.ToStringE(a[2])
		if err != nil {
			return nil, err
		}
		return strings.ReplaceAll(s, old, new_), nil
	})
	r.RegisterScalar("len", func(a []interface{}) (interface{}, error) {
		switch v := a[0].(type) {
		case string:
			return len(v), nil
		case []interface{}:
			return len(v), nil
		default:
			return nil, errors.Errorf("len() unsupported for %T", a[0])
		}
	})
	r.RegisterScalar("concat", func(a []interface{}) (interface{}, error) {
		var b strings.Builder
		for _, v := range a {
			s, err := cast.ToStringE(v)
			if err != nil {
				return nil, err
			}
			b.WriteString(s)
		}
		return b.String(), nil
	})
	r.RegisterScalar("randint", func(a []interface{}) (interface{}, error) {
		lo, err := cast.ToIntE(a[0])
		if err != nil {
			return nil, err
		}
		hi, err := cast.ToIntE(a[1])
		if err != nil {
			return nil, err
		}
		if hi < lo {
			return nil, errors.Errorf("randint: upper bound %d below lower bound %d", hi, lo)
		}
		return lo + rand.Intn(hi-lo+1), nil
	})
	r.RegisterScalar("random", func(a []interface{}) (interface{}, error) {
		return rand.Float64(), nil
	})
}

func registerAggregateBuiltins(r *Registry) {
	r.RegisterAggregate("count", func(cols [][]interface{}) (interface{}, error) {
		return len(cols[0]), nil
	})
	r.RegisterAggregate("sum", func(cols [][]interface{}) (interface{}, error) {
		return sumColumn(cols[0])
	})
	r.RegisterAggregate("max", func(cols [][]interface{}) (interface{}, error) {
		return foldExtreme(cols[0], func(best, cur float64) bool { return cur > best })
	})
	r.RegisterAggregate("min", func(cols [][]interface{}) (interface{}, error) {
		return foldExtreme(cols[0], func(best, cur float64) bool { return cur < best })
	})
	r.RegisterAggregate("list", func(cols [][]interface{}) (interface{}, error) {
		return append([]interface{}(nil), cols[0]...), nil
	})
	r.RegisterAggregate("tuple", func(cols [][]interface{}) (interface{}, error) {
		return append([]interface{}(nil), cols[0]...), nil
	})
	r.RegisterAggregate("set", func(cols [][]interface{}) (interface{}, error) {
		seen := map[interface{}]bool{}
		var out []interface{}
		for _, v := range cols[0] {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
		return out, nil
	})
	r.RegisterAggregate("product", func(cols [][]interface{}) (interface{}, error) {
		return foldNumeric(cols[0], 1, func(acc, x int64) int64 { return acc * x }, func(acc, x float64) float64 { return acc * x })
	})
	r.RegisterAggregate("join", func(cols [][]interface{}) (interface{}, error) {
		var b strings.Builder
		for _, v := range cols[0] {
			s, err := cast.ToStringE(v)
			if err != nil {
				return nil, err
			}
			b.WriteString(s)
		}
		return b.String(), nil
	})
	r.RegisterAggregate("first", func(cols [][]interface{}) (interface{}, error) {
		if len(cols[0]) == 0 {
			return nil, errors.New("first() called on an empty group")
		}
		return cols[0][0], nil
	})
	r.RegisterAggregate("average", func(cols [][]interface{}) (interface{}, error) {
		if len(cols[0]) == 0 {
			return nil, errors.New("average() called on an empty group")
		}
		total, err := sumColumn(cols[0])
		if err != nil {
			return nil, err
		}
		totalF, err := cast.ToFloat64E(total)
		if err != nil {
			return nil, err
		}
		return totalF / float64(len(cols[0])), nil
	})
	r.RegisterAggregate("weighted_average", func(cols [][]interface{}) (interface{}, error) {
		xs, weights := cols[0], cols[1]
		if len(xs) != len(weights) {
			return nil, errors.New("weighted_average: xs and weights must have the same length")
		}
		var totalWeight, total float64
		for i := range xs {
			x, err := cast.ToFloat64E(xs[i])
			if err != nil {
				return nil, err
			}
			w, err := cast.ToFloat64E(weights[i])
			if err != nil {
				return nil, err
			}
			total += x * w
			totalWeight += w
		}
		if totalWeight == 0 {
			return nil, errors.New("weighted_average: total weight is zero")
		}
		return total / totalWeight, nil
	})
}

func sumColumn(col []interface{}) (interface{}, error) {
	return foldNumeric(col, 0, func(acc, x int64) int64 { return acc + x }, func(acc, x float64) float64 { return acc + x })
}

// foldNumeric reduces col left-to-right starting from identity, the way
// field/values.go's arith() folds a single pair: as long as every element
// seen so far is integral it accumulates in int64 and returns a native
// int, falling back to float64 for the whole result the moment one
// element isn't. Mirrors sum/product's "int stays int" expectation
// (spec.md §8 scenario 1: sum(1) grouped four ints long stays an int).
func foldNumeric(col []interface{}, identity int64, intOp func(acc, x int64) int64, floatOp func(acc, x float64) float64) (interface{}, error) {
	isum := identity
	fsum := float64(identity)
	allInt := true
	for _, v := range col {
		if allInt {
			if n, ok := field.IsIntegral(v); ok {
				isum = intOp(isum, n)
				fsum = floatOp(fsum, float64(n))
				continue
			}
			allInt = false
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, err
		}
		fsum = floatOp(fsum, f)
	}
	if allInt {
		return int(isum), nil
	}
	return fsum, nil
}

func foldExtreme(col []interface{}, better func(best, cur float64) bool) (interface{}, error) {
	if len(col) == 0 {
		return nil, errors.New("aggregate called on an empty group")
	}
	best := col[0]
	bestF, err := cast.ToFloat64E(best)
	if err != nil {
		return nil, err
	}
	for _, v := range col[1:] {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, err
		}
		if better(bestF, f) {
			best, bestF = v, f
		}
	}
	return best, nil
}

func registerReturnTypeBuiltins(r *Registry) {
	r.RegisterReturnType("dict", func(values map[string]interface{}) (interface{}, error) {
		out := make(map[string]interface{}, len(values))
		for k, v := range values {
			out[k] = v
		}
		return out, nil
	})
}
