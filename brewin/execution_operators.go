package brewin

import (
	"errors"
	"math"
)

type binaryOp func(a, b Value) (Value, error)

type unaryOp func(a Value) (Value, error)

var (
	errDivisionByZero  = errors.New("division by zero")
	errIntegerOverflow = errors.New("integer overflow")
)

// operatorRegistry holds per-kind operator tables. Operands must share a kind
// to select a table.
type operatorRegistry struct {
	binary map[Kind]map[string]binaryOp
	unary  map[Kind]map[string]unaryOp
}

var defaultOperators = newOperatorRegistry()

var binaryOperators = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {}, "%": {},
	"==": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
	"&": {}, "|": {},
}

var unaryOperators = map[string]struct{}{
	"!": {},
}

func isBinaryOperator(op string) bool {
	_, ok := binaryOperators[op]
	return ok
}

func isUnaryOperator(op string) bool {
	_, ok := unaryOperators[op]
	return ok
}

func newOperatorRegistry() *operatorRegistry {
	intOp := func(fn func(a, b int64) (int64, bool)) binaryOp {
		return func(a, b Value) (Value, error) {
			n, ok := fn(a.Int(), b.Int())
			if !ok {
				return Value{}, errIntegerOverflow
			}
			return NewInt(n), nil
		}
	}
	intCmp := func(fn func(a, b int64) bool) binaryOp {
		return func(a, b Value) (Value, error) { return NewBool(fn(a.Int(), b.Int())), nil }
	}
	strCmp := func(fn func(a, b string) bool) binaryOp {
		return func(a, b Value) (Value, error) { return NewBool(fn(a.Str(), b.Str())), nil }
	}
	boolOp := func(fn func(a, b bool) bool) binaryOp {
		return func(a, b Value) (Value, error) { return NewBool(fn(a.Bool(), b.Bool())), nil }
	}

	r := &operatorRegistry{
		binary: make(map[Kind]map[string]binaryOp),
		unary:  make(map[Kind]map[string]unaryOp),
	}
	r.binary[KindInt] = map[string]binaryOp{
		"+": intOp(addInt),
		"-": intOp(subInt),
		"*": intOp(mulInt),
		"/": func(a, b Value) (Value, error) {
			if b.Int() == 0 {
				return Value{}, errDivisionByZero
			}
			if a.Int() == math.MinInt64 && b.Int() == -1 {
				return Value{}, errIntegerOverflow
			}
			return NewInt(floorDiv(a.Int(), b.Int())), nil
		},
		"%": func(a, b Value) (Value, error) {
			if b.Int() == 0 {
				return Value{}, errDivisionByZero
			}
			return NewInt(floorMod(a.Int(), b.Int())), nil
		},
		"==": intCmp(func(a, b int64) bool { return a == b }),
		"!=": intCmp(func(a, b int64) bool { return a != b }),
		"<":  intCmp(func(a, b int64) bool { return a < b }),
		"<=": intCmp(func(a, b int64) bool { return a <= b }),
		">":  intCmp(func(a, b int64) bool { return a > b }),
		">=": intCmp(func(a, b int64) bool { return a >= b }),
	}
	r.binary[KindString] = map[string]binaryOp{
		"+":  func(a, b Value) (Value, error) { return NewString(a.Str() + b.Str()), nil },
		"==": strCmp(func(a, b string) bool { return a == b }),
		"!=": strCmp(func(a, b string) bool { return a != b }),
		"<":  strCmp(func(a, b string) bool { return a < b }),
		"<=": strCmp(func(a, b string) bool { return a <= b }),
		">":  strCmp(func(a, b string) bool { return a > b }),
		">=": strCmp(func(a, b string) bool { return a >= b }),
	}
	r.binary[KindBool] = map[string]binaryOp{
		"&":  boolOp(func(a, b bool) bool { return a && b }),
		"|":  boolOp(func(a, b bool) bool { return a || b }),
		"==": boolOp(func(a, b bool) bool { return a == b }),
		"!=": boolOp(func(a, b bool) bool { return a != b }),
	}
	r.binary[KindClass] = map[string]binaryOp{
		"==": func(a, b Value) (Value, error) { return NewBool(a.Object() == b.Object()), nil },
		"!=": func(a, b Value) (Value, error) { return NewBool(a.Object() != b.Object()), nil },
	}
	r.unary[KindBool] = map[string]unaryOp{
		"!": func(a Value) (Value, error) { return NewBool(!a.Bool()), nil },
	}
	return r
}

func (r *operatorRegistry) lookupBinary(kind Kind, op string) (binaryOp, bool) {
	fn, ok := r.binary[kind][op]
	return fn, ok
}

func (r *operatorRegistry) lookupUnary(kind Kind, op string) (unaryOp, bool) {
	fn, ok := r.unary[kind][op]
	return fn, ok
}

func addInt(a, b int64) (int64, bool) {
	sum := a + b
	return sum, (b >= 0) == (sum >= a)
}

func subInt(a, b int64) (int64, bool) {
	diff := a - b
	return diff, (b >= 0) == (diff <= a)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product := a * b
	if product/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return product, false
	}
	return product, true
}

// floorDiv rounds toward negative infinity: -7 / 2 == -4.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod takes the sign of the divisor: -7 % 2 == 1.
func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
