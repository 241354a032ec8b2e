package record

// MapRecord adapts a map[string]interface{} to both AttributeGetter and
// KeyGetter: attribute access and string-keyed access both read the same
// underlying map.
type MapRecord map[string]interface{}

// GetAttribute implements AttributeGetter.
func (m MapRecord) GetAttribute(name string) (interface{}, bool) {
	v, ok := m[name]
	return v, ok
}

// GetKey implements KeyGetter. Only string keys are meaningful for a map
// keyed by attribute name; any other key type misses.
func (m MapRecord) GetKey(key interface{}) (interface{}, bool) {
	name, ok := key.(string)
	if !ok {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}
