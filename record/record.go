// Package record defines the minimal surface a caller's data must expose
// for the field algebra and executor to read it: named attribute access,
// keyed lookup, or both. Neither capability is required — a record that
// implements neither can still flow through a query untouched by Identity
// projections.
package record

// Record is one element of the sequence a query runs against. It carries
// no required methods of its own; AttributeGetter and KeyGetter below are
// the two optional capabilities the field algebra probes for with a type
// assertion.
type Record = interface{}

// AttributeGetter is implemented by records that expose named attributes,
// the access pattern behind an "o.name" field expression.
type AttributeGetter interface {
	GetAttribute(name string) (interface{}, bool)
}

// KeyGetter is implemented by records that support keyed lookup, the
// access pattern behind an "o['key']" field expression.
type KeyGetter interface {
	GetKey(key interface{}) (interface{}, bool)
}
