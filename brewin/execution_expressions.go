package brewin

import "errors"

func (exec *Execution) evalExpression(act *activation, expr Expression) (Value, error) {
	switch e := expr.(type) {
	case *AtomExpr:
		return exec.evalAtom(act, e)
	case *BinaryExpr:
		return exec.evalBinary(act, e)
	case *UnaryExpr:
		return exec.evalUnary(act, e)
	case *CallExpr:
		return exec.evalCall(act, e)
	case *NewExpr:
		obj, err := exec.instantiate(e.Class, e.Pos())
		if err != nil {
			return Value{}, err
		}
		return NewObject(obj), nil
	case *UnknownExpr:
		return Value{}, exec.errorAt(SyntaxError, e.Pos(), "%s", e.Message)
	default:
		return Value{}, exec.errorAt(SyntaxError, expr.Pos(), "unsupported expression %T", expr)
	}
}

// evalAtom resolves a bare token: parameters and locals, then fields, then
// me, then literals.
func (exec *Execution) evalAtom(act *activation, expr *AtomExpr) (Value, error) {
	if val, ok := act.env.Get(expr.Name); ok {
		return val, nil
	}
	if val, ok := act.self.fields[expr.Name]; ok {
		return val, nil
	}
	if expr.Name == keywordMe {
		return NewObject(act.self), nil
	}
	if val, ok := parseLiteral(expr.Name); ok {
		return val, nil
	}
	if isIntegerLiteral(expr.Name) {
		return Value{}, exec.errorAt(FaultError, expr.Pos(), "integer literal %s out of range", expr.Name)
	}
	return Value{}, exec.errorAt(NameError, expr.Pos(), "unknown variable %s", expr.Name)
}

func (exec *Execution) evalBinary(act *activation, expr *BinaryExpr) (Value, error) {
	// both operands are always evaluated, & and | included
	left, err := exec.evalExpression(act, expr.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := exec.evalExpression(act, expr.Right)
	if err != nil {
		return Value{}, err
	}
	if left.Kind() != right.Kind() {
		return Value{}, exec.errorAt(TypeError, expr.Pos(), "operator %s applied to incompatible types %s and %s", expr.Operator, left.Kind(), right.Kind())
	}
	op, ok := exec.ops.lookupBinary(left.Kind(), expr.Operator)
	if !ok {
		return Value{}, exec.errorAt(TypeError, expr.Pos(), "invalid operator %s applied to %s", expr.Operator, left.Kind())
	}
	result, err := op(left, right)
	if err != nil {
		if errors.Is(err, errDivisionByZero) || errors.Is(err, errIntegerOverflow) {
			return Value{}, exec.errorAt(FaultError, expr.Pos(), "%s", err.Error())
		}
		return Value{}, err
	}
	return result, nil
}

func (exec *Execution) evalUnary(act *activation, expr *UnaryExpr) (Value, error) {
	operand, err := exec.evalExpression(act, expr.Operand)
	if err != nil {
		return Value{}, err
	}
	op, ok := exec.ops.lookupUnary(operand.Kind(), expr.Operator)
	if !ok {
		return Value{}, exec.errorAt(TypeError, expr.Pos(), "invalid unary operator %s applied to %s", expr.Operator, operand.Kind())
	}
	return op(operand)
}
