package brewin

import "log/slog"

// evalCall evaluates the receiver, checks it for null, evaluates the
// arguments left to right and dispatches.
func (exec *Execution) evalCall(act *activation, call *CallExpr) (Value, error) {
	var receiver *Object
	var start *ClassDef
	callingSuper := false

	switch call.ReceiverKind {
	case ReceiverMe:
		receiver = act.self
	case ReceiverSuper:
		receiver = act.self
		start = act.class
		callingSuper = true
	default:
		val, err := exec.evalExpression(act, call.Receiver)
		if err != nil {
			return Value{}, err
		}
		if val.Kind() != KindClass {
			return Value{}, exec.errorAt(TypeError, call.Pos(), "cannot call %s on a %s value", call.Method, val.Kind())
		}
		receiver = val.Object()
	}
	if receiver == nil {
		return Value{}, exec.errorAt(FaultError, call.Pos(), "null dereference")
	}
	if start == nil {
		start = receiver.Class
	}

	args := make([]Value, 0, len(call.Args))
	for _, argExpr := range call.Args {
		arg, err := exec.evalExpression(act, argExpr)
		if err != nil {
			return Value{}, err
		}
		args = append(args, arg)
	}
	return exec.callMethod(receiver, start, call.Method, callingSuper, args, call.Pos())
}

// callMethod resolves name from start and runs it against receiver. start is
// the receiver's class for ordinary calls and the caller's defining class for
// super calls.
func (exec *Execution) callMethod(receiver *Object, start *ClassDef, name string, callingSuper bool, args []Value, pos Position) (Value, error) {
	defining, method, ok := resolveMethod(name, start, callingSuper)
	if !ok {
		return Value{}, exec.errorAt(NameError, pos, "unknown method %s", name)
	}
	if len(args) != len(method.Params) {
		return Value{}, exec.errorAt(NameError, pos, "invalid number of parameters in call to %s: expected %d, got %d", name, len(method.Params), len(args))
	}

	env := newEnv()
	for i, param := range method.Params {
		if !param.Type.Accepts(args[i]) {
			return Value{}, exec.errorAt(NameError, pos, "invalid type for parameter %s of %s: expected %s, got %s", param.Name, name, param.Type, args[i].Kind())
		}
		env.Set(param.Name, args[i])
	}

	function := defining.Name + "." + method.Name
	if exec.trace {
		exec.logger.Debug("call",
			slog.String("class", defining.Name),
			slog.String("method", method.Name),
			slog.String("receiver", receiver.Class.Name),
			slog.Int("line", pos.Line),
		)
	}

	if err := exec.pushFrame(function, pos); err != nil {
		return Value{}, err
	}
	f, val, err := exec.execStatement(&activation{self: receiver, class: defining, env: env}, method.Body)
	exec.popFrame()
	if err != nil {
		return Value{}, err
	}

	if f == flowReturn {
		if !method.ReturnType.Accepts(val) {
			return Value{}, exec.errorAt(TypeError, pos, "invalid return type from %s: expected %s, got %s", function, method.ReturnType, val.Kind())
		}
		return val, nil
	}
	return DefaultValue(method.ReturnType), nil
}
