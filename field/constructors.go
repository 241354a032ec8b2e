package field

import "regexp"

var aliasNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// O is the identity field: it denotes the whole input record, exactly as
// the textual grammar's bare "o" does. It is exported as a value (rather
// than requiring a call to Identity()) so programmatic queries can write
// o.Attr("age") the way the textual surface writes o.age.
var O = Identity()

// Identity denotes the whole input record.
func Identity() Field {
	return Field{kind: KindIdentity}
}

// Attr is shorthand for Attribute, matching the "o.name" textual form.
func (f Field) Attr(name string) Field {
	return Attribute(name)
}

// Item is shorthand for Key, matching the "o['key']" textual form.
func (f Field) Item(key interface{}) Field {
	return Key(key)
}

// Attribute reads a named attribute from a record.
func Attribute(name string) Field {
	return Field{kind: KindAttribute, attr: name}
}

// Key reads a value indexed by a literal key (string or integer).
func Key(key interface{}) Field {
	return Field{kind: KindKey, key: key}
}

// Constant wraps a literal scalar value: string, integer, float, bool, or
// nil.
func Constant(value interface{}) Field {
	return Field{kind: KindConstant, value: value}
}

// List is an ordered sequence of fields, used for projection lists and
// the right-hand side of IN.
func List(fields ...Field) Field {
	children := make([]Field, len(fields))
	copy(children, fields)
	return Field{kind: KindList, children: children}
}

// NewScalarFn applies ref to per-record evaluations of args.
func NewScalarFn(ref *FuncRef, args []Field, displayName string) Field {
	return Field{kind: KindScalarFn, fn: ref, children: append([]Field(nil), args...), op: displayName}
}

// NewAggregateFn applies ref to per-argument columns collected across a
// group of records.
func NewAggregateFn(ref *FuncRef, args []Field, displayName string) Field {
	return Field{kind: KindAggregateFn, fn: ref, children: append([]Field(nil), args...), op: displayName}
}

// NewOperator builds an Operator node rendered in infix/prefix form around
// symbol, backed by ref. Built-in operators (And, Eq, Lt, ...) call this;
// it is exported so a parser or builder extension can mint operator nodes
// of its own.
func NewOperator(ref *FuncRef, args []Field, symbol string) Field {
	return Field{kind: KindOperator, fn: ref, children: append([]Field(nil), args...), op: symbol}
}

// As tags inner with a user-visible name. name must match
// [A-Za-z_][A-Za-z0-9_]*, per spec §3.
func As(inner Field, name string) (Field, error) {
	if !aliasNameRe.MatchString(name) {
		return Field{}, ErrInvalidAlias.New(name)
	}
	return Field{kind: KindAlias, children: []Field{inner}, alias: name}, nil
}
