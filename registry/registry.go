// Package registry holds the named scalar and aggregate functions (and
// RETURNING row constructors) a query can call by name, per spec §4.B.
// Registration is dynamic and safe to do during module initialization;
// concurrent registration while queries execute against the same
// *Registry is not supported (spec §5).
package registry

import (
	"sync"

	"github.com/jbchouinard/go-snakeql/field"
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// Error kinds raised by lookup, named after spec §7.
var (
	ErrUnknownFunction   = goerrors.NewKind("unknown function %q")
	ErrUnknownReturnType = goerrors.NewKind("unknown return type %q")
)

// Constructor builds a return-shape from a mapping of projection display
// names to their values, used by RETURNING.
type Constructor func(values map[string]interface{}) (interface{}, error)

// Registry is a mutable catalog of scalar functions, aggregate functions,
// and return-type constructors. The zero value is not usable; construct
// one with New, or use Default.
type Registry struct {
	mu         sync.RWMutex
	scalars    map[string]*field.FuncRef
	aggregates map[string]*field.FuncRef
	returnTyps map[string]Constructor
}

// New returns an empty, unseeded registry.
func New() *Registry {
	return &Registry{
		scalars:    map[string]*field.FuncRef{},
		aggregates: map[string]*field.FuncRef{},
		returnTyps: map[string]Constructor{},
	}
}

// RegisterScalar adds or replaces the scalar function named name.
func (r *Registry) RegisterScalar(name string, fn field.ScalarFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scalars[name] = &field.FuncRef{Name: name, Scalar: fn}
}

// RegisterAggregate adds or replaces the aggregate function named name.
func (r *Registry) RegisterAggregate(name string, fn field.AggregateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aggregates[name] = &field.FuncRef{Name: name, Aggregate: fn}
}

// RegisterReturnType adds or replaces the RETURNING constructor named
// name.
func (r *Registry) RegisterReturnType(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.returnTyps[name] = ctor
}

// CallScalar looks up name and builds a ScalarFn node over args, or
// ErrUnknownFunction.
func (r *Registry) CallScalar(name string, args []field.Field) (field.Field, error) {
	r.mu.RLock()
	ref, ok := r.scalars[name]
	r.mu.RUnlock()
	if !ok {
		return field.Field{}, ErrUnknownFunction.New(name)
	}
	return field.NewScalarFn(ref, args, name), nil
}

// CallAggregate looks up name and builds an AggregateFn node over args, or
// ErrUnknownFunction.
func (r *Registry) CallAggregate(name string, args []field.Field) (field.Field, error) {
	r.mu.RLock()
	ref, ok := r.aggregates[name]
	r.mu.RUnlock()
	if !ok {
		return field.Field{}, ErrUnknownFunction.New(name)
	}
	return field.NewAggregateFn(ref, args, name), nil
}

// Call resolves name against both the scalar and aggregate tables
// (scalar wins on a name collision) — used by the parser, which does not
// know ahead of a call's argument count or position whether a name is
// scalar or aggregate.
func (r *Registry) Call(name string, args []field.Field) (field.Field, error) {
	r.mu.RLock()
	_, isScalar := r.scalars[name]
	_, isAggregate := r.aggregates[name]
	r.mu.RUnlock()
	switch {
	case isScalar:
		return r.CallScalar(name, args)
	case isAggregate:
		return r.CallAggregate(name, args)
	default:
		return field.Field{}, ErrUnknownFunction.New(name)
	}
}

// ReturnType looks up the constructor registered under name.
func (r *Registry) ReturnType(name string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.returnTyps[name]
	if !ok {
		return nil, ErrUnknownReturnType.New(name)
	}
	return ctor, nil
}

// Default is the package-level registry seeded with the built-ins of
// spec §4.B, used by programmatic query construction and by parse.Parse
// when the caller doesn't supply a registry of its own.
var Default = newSeeded()
