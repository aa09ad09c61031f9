package brewin

func (v Value) Kind() Kind { return v.kind }

func (v Value) Int() int64 {
	if v.kind != KindInt {
		return 0
	}
	return v.data.(int64)
}

func (v Value) Bool() bool {
	if v.kind != KindBool {
		return false
	}
	return v.data.(bool)
}

// Str returns the payload of a String value. String renders any value.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.data.(string)
}

// Object returns the referenced instance, or nil for null and non-Class values.
func (v Value) Object() *Object {
	if v.kind != KindClass {
		return nil
	}
	obj, _ := v.data.(*Object)
	return obj
}

// IsNull reports whether v is a Class value holding no reference.
func (v Value) IsNull() bool {
	return v.kind == KindClass && v.Object() == nil
}
