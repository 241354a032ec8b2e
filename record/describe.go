package record

import (
	"reflect"

	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrNotAStruct is raised by AttributeNames when prototype isn't a struct
// or pointer to one.
var ErrNotAStruct = goerrors.NewKind("record: %T is not a struct")

// AttributeNames returns the exported field names of prototype, a struct
// or pointer-to-struct value, in declaration order. It is the reflection
// primitive behind the query package's Describe helper, which pairs each
// name with a field.Attribute.
func AttributeNames(prototype interface{}) ([]string, error) {
	t := reflect.TypeOf(prototype)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, ErrNotAStruct.New(prototype)
	}
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		names = append(names, f.Name)
	}
	return names, nil
}
