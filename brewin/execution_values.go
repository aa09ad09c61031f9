package brewin

import (
	"strconv"
	"strings"
)

// parseLiteral recognizes true/false, a double-quoted string, an optionally
// negative decimal integer, null and nothing.
func parseLiteral(text string) (Value, bool) {
	switch text {
	case keywordTrue:
		return NewBool(true), true
	case keywordFalse:
		return NewBool(false), true
	case keywordNull:
		return NewNull(), true
	case keywordNothing:
		return NewNothing(), true
	}
	if strings.HasPrefix(text, `"`) {
		return NewString(strings.Trim(text, `"`)), true
	}
	if isIntegerLiteral(text) {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, false
		}
		return NewInt(n), true
	}
	return Value{}, false
}

func isIntegerLiteral(text string) bool {
	digits := strings.TrimPrefix(text, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// typedLiteral parses text in a context that requires type want.
func typedLiteral(text string, want Type, pos Position) (Value, error) {
	v, ok := parseLiteral(text)
	if !ok && isIntegerLiteral(text) {
		return Value{}, newError(FaultError, pos, "integer literal %s out of range", text)
	}
	if !ok {
		return Value{}, newError(NameError, pos, "invalid literal %s", text)
	}
	if !want.Accepts(v) {
		return Value{}, newError(TypeError, pos, "mismatched type: %s literal %s where %s is required", v.Kind(), text, want)
	}
	return v, nil
}
