package brewin

// Kind is the runtime type tag of a Value.
type Kind int

const (
	KindNothing Kind = iota
	KindInt
	KindBool
	KindString
	KindClass
)

// Value is an immutable tagged union. Assignment replaces a Value wholesale;
// Class values share the referenced *Object, so field writes through one
// alias are visible through every other.
type Value struct {
	kind Kind
	data any
}
