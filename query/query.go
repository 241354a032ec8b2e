// Package query implements the builder and streaming executor: it
// compiles an ordered projection plus optional WHERE/GROUP BY/DISTINCT/
// RETURNING clauses into a lazy Result sequence over a caller-supplied
// slice of records.
package query

import (
	"github.com/jbchouinard/go-snakeql/field"
	"github.com/jbchouinard/go-snakeql/registry"
	"github.com/sirupsen/logrus"
)

// Query is an immutable compiled query. Chainable methods never mutate
// the receiver; they return a fresh *Query, mirroring the Python
// original's _replace.
type Query struct {
	fields     []field.Field
	flatten    bool
	distinct   bool
	where      *field.Field
	groupBy    []field.Field
	returnCtor registry.Constructor
	returnName string
}

// Select builds a projection per spec §4.C: zero arguments project the
// whole record (flatten=true); one field argument projects that field
// alone (flatten=true); two or more project a tuple (flatten=false).
// A caller who needs list form for a single field even when exactly one
// field is given (the parser's trailing-comma case) uses SelectSeq.
func Select(fields ...field.Field) *Query {
	switch len(fields) {
	case 0:
		return &Query{fields: []field.Field{field.Identity()}, flatten: true}
	case 1:
		return &Query{fields: []field.Field{fields[0]}, flatten: true}
	default:
		return &Query{fields: append([]field.Field(nil), fields...), flatten: false}
	}
}

// SelectSeq builds a projection from an explicit sequence: flatten is
// always false, even for a single-element sequence. This is how the
// parser builds `SELECT o.x,` (trailing comma forces list form) and how a
// caller distinguishes "a one-field tuple" from Select's "a flattened
// scalar".
func SelectSeq(fields []field.Field) *Query {
	return &Query{fields: append([]field.Field(nil), fields...), flatten: false}
}

func (q *Query) clone() *Query {
	c := *q
	c.fields = append([]field.Field(nil), q.fields...)
	c.groupBy = append([]field.Field(nil), q.groupBy...)
	return &c
}

// Where attaches a filter predicate, which must classify as scalar.
func (q *Query) Where(expr field.Field) (*Query, error) {
	if !expr.IsScalar() {
		return nil, ErrInvalidClause.New("WHERE", expr.Render())
	}
	logrus.WithFields(logrus.Fields{"clause": "WHERE", "expr": expr.Render()}).Debug("query: attaching clause")
	c := q.clone()
	c.where = &expr
	return c, nil
}

// GroupBy attaches grouping keys, each of which must classify as scalar,
// and validates that every projection field is either structurally equal
// to one of exprs or classifies as aggregate (ErrUngroupedProjection
// otherwise).
func (q *Query) GroupBy(exprs ...field.Field) (*Query, error) {
	for _, e := range exprs {
		if !e.IsScalar() {
			return nil, ErrInvalidClause.New("GROUP BY", e.Render())
		}
	}
	for _, f := range q.fields {
		if fieldConformsToGroup(f, exprs) {
			continue
		}
		return nil, ErrUngroupedProjection.New(f.Render())
	}
	logrus.WithFields(logrus.Fields{"clause": "GROUP BY", "count": len(exprs)}).Debug("query: attaching clause")
	c := q.clone()
	c.groupBy = append([]field.Field(nil), exprs...)
	return c, nil
}

func fieldConformsToGroup(f field.Field, groupBy []field.Field) bool {
	if f.IsAggregate() {
		return true
	}
	for _, g := range groupBy {
		if f.StructuralEquals(g) {
			return true
		}
	}
	return false
}

// Distinct sets the distinct flag.
func (q *Query) Distinct() *Query {
	c := q.clone()
	c.distinct = true
	return c
}

// ReturningCtor sets the return-shape constructor directly (the
// programmatic surface's returning(ctor)); it forces flatten=false.
func (q *Query) ReturningCtor(name string, ctor registry.Constructor) *Query {
	c := q.clone()
	c.returnCtor = ctor
	c.returnName = name
	c.flatten = false
	return c
}

// Returning looks name up in reg and attaches it as the return-shape
// constructor, forcing flatten=false. This is what RETURNING ID compiles
// to in the parser.
func (q *Query) Returning(reg *registry.Registry, name string) (*Query, error) {
	ctor, err := reg.ReturnType(name)
	if err != nil {
		return nil, err
	}
	return q.ReturningCtor(name, ctor), nil
}

// Fields returns the projection list.
func (q *Query) Fields() []field.Field { return append([]field.Field(nil), q.fields...) }

// WhereClause returns the attached filter, or ok=false if none is set.
func (q *Query) WhereClause() (field.Field, bool) {
	if q.where == nil {
		return field.Field{}, false
	}
	return *q.where, true
}

// GroupByFields returns the grouping keys, or nil if GROUP BY is absent.
func (q *Query) GroupByFields() []field.Field { return append([]field.Field(nil), q.groupBy...) }

// IsDistinct reports whether DISTINCT is set.
func (q *Query) IsDistinct() bool { return q.distinct }

// Flatten reports whether single-element rows are unwrapped to scalars.
func (q *Query) Flatten() bool { return q.flatten }
