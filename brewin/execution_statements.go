package brewin

import (
	"strconv"
	"strings"
)

// flow is the control signal threaded out of every statement.
type flow int

const (
	flowProceed flow = iota
	// flowReturn carries an explicitly returned value.
	flowReturn
	// flowReturnDefault asks the caller for the declared return type's
	// default; any value carried with it is ignored.
	flowReturnDefault
)

func (exec *Execution) execStatement(act *activation, stmt Statement) (flow, Value, error) {
	exec.traceStatement(stmt)
	if err := exec.step(stmt.Pos()); err != nil {
		return flowProceed, Value{}, err
	}

	switch s := stmt.(type) {
	case *BeginStmt:
		return exec.execBlock(act, s.Body)
	case *SetStmt:
		val, err := exec.evalExpression(act, s.Value)
		if err != nil {
			return flowProceed, Value{}, err
		}
		return flowProceed, Value{}, exec.assignVariable(act, s.Name, val, s.Pos())
	case *IfStmt:
		return exec.execIf(act, s)
	case *WhileStmt:
		return exec.execWhile(act, s)
	case *ReturnStmt:
		if s.Value == nil {
			return flowReturnDefault, NewNothing(), nil
		}
		val, err := exec.evalExpression(act, s.Value)
		if err != nil {
			return flowProceed, Value{}, err
		}
		return flowReturn, val, nil
	case *CallStmt:
		_, err := exec.evalCall(act, s.Call)
		return flowProceed, Value{}, err
	case *InputStmt:
		return flowProceed, Value{}, exec.execInput(act, s)
	case *PrintStmt:
		return flowProceed, Value{}, exec.execPrint(act, s)
	case *LetStmt:
		return exec.execLet(act, s)
	case *UnknownStmt:
		return flowProceed, Value{}, exec.errorAt(SyntaxError, s.Pos(), "%s", s.Message)
	default:
		return flowProceed, Value{}, exec.errorAt(SyntaxError, stmt.Pos(), "unsupported statement %T", stmt)
	}
}

// execBlock runs statements in order and stops at the first return signal.
func (exec *Execution) execBlock(act *activation, body []Statement) (flow, Value, error) {
	for _, stmt := range body {
		f, val, err := exec.execStatement(act, stmt)
		if err != nil {
			return flowProceed, Value{}, err
		}
		if f != flowProceed {
			return f, val, nil
		}
	}
	return flowProceed, Value{}, nil
}

func (exec *Execution) evalCondition(act *activation, cond Expression, keyword string) (bool, error) {
	val, err := exec.evalExpression(act, cond)
	if err != nil {
		return false, err
	}
	if val.Kind() != KindBool {
		return false, exec.errorAt(TypeError, cond.Pos(), "non-boolean %s condition: got %s", keyword, val.Kind())
	}
	return val.Bool(), nil
}

func (exec *Execution) execIf(act *activation, stmt *IfStmt) (flow, Value, error) {
	ok, err := exec.evalCondition(act, stmt.Condition, keywordIf)
	if err != nil {
		return flowProceed, Value{}, err
	}
	if ok {
		return exec.execStatement(act, stmt.Then)
	}
	if stmt.Else != nil {
		return exec.execStatement(act, stmt.Else)
	}
	return flowProceed, Value{}, nil
}

func (exec *Execution) execWhile(act *activation, stmt *WhileStmt) (flow, Value, error) {
	for {
		ok, err := exec.evalCondition(act, stmt.Condition, keywordWhile)
		if err != nil {
			return flowProceed, Value{}, err
		}
		if !ok {
			return flowProceed, Value{}, nil
		}
		f, val, err := exec.execStatement(act, stmt.Body)
		if err != nil {
			return flowProceed, Value{}, err
		}
		if f != flowProceed {
			return f, val, nil
		}
	}
}

func (exec *Execution) execInput(act *activation, stmt *InputStmt) error {
	line, err := exec.readLine(stmt.Pos())
	if err != nil {
		return err
	}
	val := NewString(line)
	if stmt.Int {
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			return exec.errorAt(TypeError, stmt.Pos(), "invalid integer input %q", line)
		}
		val = NewInt(n)
	}
	return exec.assignVariable(act, stmt.Name, val, stmt.Pos())
}

func (exec *Execution) execPrint(act *activation, stmt *PrintStmt) error {
	var b strings.Builder
	for _, arg := range stmt.Args {
		val, err := exec.evalExpression(act, arg)
		if err != nil {
			return err
		}
		b.WriteString(val.String())
	}
	return exec.writeLine(b.String())
}

// execLet runs the body in a snapshot copy of the current bindings. The copy
// is discarded however the block exits.
func (exec *Execution) execLet(act *activation, stmt *LetStmt) (flow, Value, error) {
	act.env.Push()
	defer act.env.Pop()

	declared := make(map[string]struct{}, len(stmt.Locals))
	for _, local := range stmt.Locals {
		if _, dup := declared[local.Name]; dup {
			return flowProceed, Value{}, exec.errorAt(NameError, local.Pos, "duplicate let variable %s", local.Name)
		}
		declared[local.Name] = struct{}{}

		val := DefaultValue(local.Type)
		if local.HasInit {
			v, err := typedLiteral(local.Init, local.Type, local.Pos)
			if err != nil {
				return flowProceed, Value{}, exec.annotate(err)
			}
			val = v
		}
		if val.Kind() == KindNothing {
			return flowProceed, Value{}, exec.errorAt(TypeError, local.Pos, "cannot assign nothing to %s", local.Name)
		}
		act.env.Set(local.Name, val)
	}
	return exec.execBlock(act, stmt.Body)
}
