package field

import (
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// isIntegral reports whether v holds a Go integer kind, returning it
// widened to int64. Arithmetic on two integral operands stays integral
// (mirrors the dynamically-typed original, where int+int is int); mixed
// or non-integral operands fall back to float64 via toFloat.
func isIntegral(v interface{}) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	default:
		return 0, false
	}
}

// IsIntegral exports isIntegral's int-ness check so callers outside the
// package (registry's built-in aggregate functions) can fold a column the
// same integral-preserving way arith does, instead of a second, float-only
// implementation.
func IsIntegral(v interface{}) (int64, bool) {
	return isIntegral(v)
}

func toFloat(v interface{}) (float64, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot convert %v (%T) to a number", v, v)
	}
	return f, nil
}

func arith(a, b interface{}, intOp func(x, y int64) int64, floatOp func(x, y float64) float64) (interface{}, error) {
	if ai, aok := isIntegral(a); aok {
		if bi, bok := isIntegral(b); bok {
			return intOp(ai, bi), nil
		}
	}
	af, err := toFloat(a)
	if err != nil {
		return nil, err
	}
	bf, err := toFloat(b)
	if err != nil {
		return nil, err
	}
	return floatOp(af, bf), nil
}

func valAdd(a, b interface{}) (interface{}, error) {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as + bs, nil
		}
	}
	return arith(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
}

func valSub(a, b interface{}) (interface{}, error) {
	return arith(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
}

func valMul(a, b interface{}) (interface{}, error) {
	return arith(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
}

func valMod(a, b interface{}) (interface{}, error) {
	return arith(a, b, func(x, y int64) int64 { return x % y }, math.Mod)
}

// valDiv is always true division: / never floors, matching the grammar's
// single division operator.
func valDiv(a, b interface{}) (interface{}, error) {
	af, err := toFloat(a)
	if err != nil {
		return nil, err
	}
	bf, err := toFloat(b)
	if err != nil {
		return nil, err
	}
	return af / bf, nil
}

func valPow(a, b interface{}) (interface{}, error) {
	af, err := toFloat(a)
	if err != nil {
		return nil, err
	}
	bf, err := toFloat(b)
	if err != nil {
		return nil, err
	}
	return math.Pow(af, bf), nil
}

// Add, Sub, Mul, Div, Mod and Pow export the "+"/"-"/"*"/"/"/"%"/"**"
// operators' value-level arithmetic so the function registry's scalar
// builtins of the same name share this implementation rather than
// re-deriving their own float-only one.
func Add(a, b interface{}) (interface{}, error) { return valAdd(a, b) }
func Sub(a, b interface{}) (interface{}, error) { return valSub(a, b) }
func Mul(a, b interface{}) (interface{}, error) { return valMul(a, b) }
func Div(a, b interface{}) (interface{}, error) { return valDiv(a, b) }
func Mod(a, b interface{}) (interface{}, error) { return valMod(a, b) }
func Pow(a, b interface{}) (interface{}, error) { return valPow(a, b) }

func valAbs(a interface{}) (interface{}, error) {
	if ai, ok := isIntegral(a); ok {
		if ai < 0 {
			return -ai, nil
		}
		return ai, nil
	}
	af, err := toFloat(a)
	if err != nil {
		return nil, err
	}
	return math.Abs(af), nil
}

// compareNumeric compares a and b as numbers, reporting ok=false when
// either side cannot be coerced to float64.
func compareNumeric(a, b interface{}) (int, bool) {
	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)
	if aerr != nil || berr != nil {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	default:
		return 0, true
	}
}

func equalValues(a, b interface{}) bool {
	if n, ok := compareNumeric(a, b); ok {
		return n == 0
	}
	return reflect.DeepEqual(a, b)
}

func lessValues(a, b interface{}) (bool, error) {
	if n, ok := compareNumeric(a, b); ok {
		return n < 0, nil
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as < bs, nil
		}
	}
	return false, errors.Errorf("cannot compare %T and %T", a, b)
}

// truthy is the scalar engine's notion of "truthy" used by AND/OR/NOT:
// nil, false, the empty string and numeric zero are false; every other
// value (including empty slices and maps) is true.
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	default:
		if n, err := cast.ToFloat64E(v); err == nil {
			return n != 0
		}
		return true
	}
}

func valContains(a, b interface{}) (interface{}, error) {
	switch c := a.(type) {
	case string:
		s, err := cast.ToStringE(b)
		if err != nil {
			return false, err
		}
		return strings.Contains(c, s), nil
	case []interface{}:
		for _, item := range c {
			if equalValues(item, b) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, errors.Errorf("CONTAINS is not supported for %T", a)
	}
}

// globToRegexp translates a shell glob (the fnmatch semantics LIKE uses)
// into an anchored regexp: * matches any run of characters, ? matches
// exactly one.
func globToRegexp(glob string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return b.String()
}

func valLike(a, b interface{}) (interface{}, error) {
	s, err := cast.ToStringE(a)
	if err != nil {
		return false, err
	}
	pattern, err := cast.ToStringE(b)
	if err != nil {
		return false, err
	}
	return regexp.MatchString(globToRegexp(pattern), s)
}

func valMatches(a, b interface{}) (interface{}, error) {
	s, err := cast.ToStringE(a)
	if err != nil {
		return false, err
	}
	pattern, err := cast.ToStringE(b)
	if err != nil {
		return false, err
	}
	return regexp.MatchString(pattern, s)
}
