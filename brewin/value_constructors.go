package brewin

func NewNothing() Value           { return Value{kind: KindNothing} }
func NewInt(i int64) Value        { return Value{kind: KindInt, data: i} }
func NewBool(b bool) Value        { return Value{kind: KindBool, data: b} }
func NewString(s string) Value    { return Value{kind: KindString, data: s} }
func NewNull() Value              { return Value{kind: KindClass, data: (*Object)(nil)} }
func NewObject(obj *Object) Value { return Value{kind: KindClass, data: obj} }

// DefaultValue returns the zero value produced for t when a method returns
// without an expression or falls off the end of its body.
func DefaultValue(t Type) Value {
	switch t.Kind {
	case KindInt:
		return NewInt(0)
	case KindBool:
		return NewBool(false)
	case KindString:
		return NewString("")
	case KindClass:
		return NewNull()
	default:
		return NewNothing()
	}
}
