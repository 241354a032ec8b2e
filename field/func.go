package field

// ScalarFunc computes one value per record from already-evaluated
// argument values, positionally.
type ScalarFunc func(args []interface{}) (interface{}, error)

// AggregateFunc computes one value per group from per-argument columns:
// columns[i] holds the i-th argument evaluated scalarly across every
// record in the group.
type AggregateFunc func(columns [][]interface{}) (interface{}, error)

// FuncRef is the identity a registry (or this package, for built-in
// operators) hands to a call site. ScalarFn, AggregateFn and Operator
// nodes compare the FuncRef pointer, not the name, when testing
// structural equality — two functions registered under the same name at
// different times are not the same function.
type FuncRef struct {
	Name      string
	Scalar    ScalarFunc
	Aggregate AggregateFunc
}
