package brewin

import (
	"fmt"
	"strconv"
)

func (k Kind) String() string {
	switch k {
	case KindNothing:
		return "nothing"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// String renders v the way print does.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case KindBool:
		if v.Bool() {
			return keywordTrue
		}
		return keywordFalse
	case KindString:
		return v.Str()
	case KindClass:
		if obj := v.Object(); obj != nil {
			return fmt.Sprintf("<%s object>", obj.Class.Name)
		}
		return keywordNull
	default:
		return keywordNothing
	}
}

// Literal renders v as source text, quoting strings.
func (v Value) Literal() string {
	if v.kind == KindString {
		return strconv.Quote(v.Str())
	}
	return v.String()
}

// Equal compares kinds and payloads; Class values compare by reference.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.Int() == other.Int()
	case KindBool:
		return v.Bool() == other.Bool()
	case KindString:
		return v.Str() == other.Str()
	case KindClass:
		return v.Object() == other.Object()
	default:
		return true
	}
}
