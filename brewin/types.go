package brewin

// Type is a declared type. Compatibility is decided by Kind alone; Name keeps
// the class name written in source for diagnostics.
type Type struct {
	Kind Kind
	Name string
}

var (
	TypeInt     = Type{Kind: KindInt, Name: typeInt}
	TypeBool    = Type{Kind: KindBool, Name: typeBool}
	TypeString  = Type{Kind: KindString, Name: typeString}
	TypeNothing = Type{Kind: KindNothing, Name: typeVoid}
)

// parseType maps a type keyword to a Type; any other identifier names a class.
func parseType(name string) Type {
	switch name {
	case typeInt:
		return TypeInt
	case typeBool:
		return TypeBool
	case typeString:
		return TypeString
	case typeVoid:
		return TypeNothing
	default:
		return Type{Kind: KindClass, Name: name}
	}
}

func (t Type) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Kind.String()
}

// Accepts reports whether a value of v's runtime type may be stored as t.
func (t Type) Accepts(v Value) bool {
	return t.Kind == v.Kind()
}
