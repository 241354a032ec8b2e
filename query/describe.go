package query

import (
	"strings"

	"github.com/jbchouinard/go-snakeql/field"
	"github.com/jbchouinard/go-snakeql/record"
)

// Descriptor is the Go replacement for the Python original's @selectable
// decorator: rather than retrofitting a fields attribute onto a user's
// class at runtime, Describe returns a value exposing one field.Attribute
// per declared field plus a Select() shortcut over all of them. Living in
// package query (not record) keeps record free of a dependency back on
// query, since field already depends on record.
type Descriptor struct {
	Fields []field.Field
	byName map[string]field.Field
}

// Describe reflects over prototype (a struct or pointer-to-struct) and
// builds an Attribute expression per exported field, in declaration
// order. Field names are lowercased to match the textual grammar's
// lowercase attribute names and record.Struct's case-insensitive lookup.
func Describe(prototype interface{}) (*Descriptor, error) {
	names, err := record.AttributeNames(prototype)
	if err != nil {
		return nil, err
	}
	d := &Descriptor{
		Fields: make([]field.Field, len(names)),
		byName: make(map[string]field.Field, len(names)),
	}
	for i, name := range names {
		attr := strings.ToLower(name)
		f := field.Attribute(attr)
		d.Fields[i] = f
		d.byName[attr] = f
	}
	return d, nil
}

// Field looks up the Attribute expression built for the named field.
func (d *Descriptor) Field(name string) field.Field {
	return d.byName[name]
}

// Select projects every described field, in declaration order — the
// "select all columns" shortcut the Python decorator's .fields.SELECT()
// provided.
func (d *Descriptor) Select() *Query {
	return SelectSeq(d.Fields)
}
