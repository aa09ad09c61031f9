package brewin

import "sort"

// Object is one runtime instance. Its field store is flattened across the
// inheritance chain at construction and shared by every alias.
type Object struct {
	Class  *ClassDef
	fields map[string]Value
}

// Field returns the current value of a field.
func (o *Object) Field(name string) (Value, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// FieldNames returns the object's field names sorted alphabetically.
func (o *Object) FieldNames() []string {
	names := make([]string, 0, len(o.fields))
	for name := range o.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newObject builds the field store from AllFields. Later entries overwrite
// earlier ones, so when a subclass and an ancestor declare the same field
// name, the ancestor's default is the one stored.
func newObject(def *ClassDef) (*Object, error) {
	obj := &Object{Class: def, fields: make(map[string]Value)}
	for _, field := range def.AllFields() {
		if !field.HasDefault {
			obj.fields[field.Name] = DefaultValue(field.Type)
			continue
		}
		v, err := typedLiteral(field.Default, field.Type, field.Pos())
		if err != nil {
			return nil, err
		}
		obj.fields[field.Name] = v
	}
	return obj, nil
}
