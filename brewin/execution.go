package brewin

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Execution is the state of one program run: the class registry, the host
// streams and the method call stack.
type Execution struct {
	classes   ClassLookup
	ops       *operatorRegistry
	input     *bufio.Reader
	output    io.Writer
	logger    *slog.Logger
	trace     bool
	source    string
	callStack []callFrame

	steps        int
	quota        int
	recursionCap int
}

type callFrame struct {
	Function string
	CallPos  Position
}

// activation is the context a method body runs in: the receiver, the class
// whose declaration supplied the body, and the parameter/local bindings.
type activation struct {
	self  *Object
	class *ClassDef
	env   *Env
}

func newExecution(classes ClassLookup, cfg Config, source string) *Execution {
	return &Execution{
		classes: classes,
		ops:     defaultOperators,
		input:   lineReader(cfg.Stdin),
		output:  cfg.Stdout,
		logger:  cfg.Logger,
		trace:   cfg.Trace,
		source:  source,

		quota:        cfg.StepQuota,
		recursionCap: cfg.RecursionLimit,
	}
}

// instantiate creates a fresh object of the named class.
func (exec *Execution) instantiate(name string, pos Position) (*Object, error) {
	def, ok := exec.classes.Lookup(name)
	if !ok {
		return nil, exec.errorAt(NameError, pos, "unknown class %s", name)
	}
	obj, err := newObject(def)
	if err != nil {
		return nil, exec.annotate(err)
	}
	return obj, nil
}

func (exec *Execution) pushFrame(function string, pos Position) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.errorAt(FaultError, pos, "recursion depth exceeded (limit %d)", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, CallPos: pos})
	return nil
}

func (exec *Execution) popFrame() {
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

// lineReader reuses r when it already buffers, so a host that reads its own
// commands from the same stream shares one read-ahead buffer with the program.
func lineReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// readLine returns the next input line without its line terminator. Lines
// have no length limit; a final line without a newline still counts.
func (exec *Execution) readLine(pos Position) (string, error) {
	line, err := exec.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	if err != nil && line == "" {
		return "", exec.errorAt(FaultError, pos, "no more input")
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

func (exec *Execution) writeLine(line string) error {
	if _, err := fmt.Fprintln(exec.output, line); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// step counts one executed statement against the configured quota.
func (exec *Execution) step(pos Position) error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return exec.errorAt(FaultError, pos, "step quota exceeded (%d)", exec.quota)
	}
	return nil
}

func (exec *Execution) traceStatement(stmt Statement) {
	if !exec.trace {
		return
	}
	exec.logger.Debug("exec",
		slog.Int("line", stmt.Pos().Line),
		slog.String("stmt", statementKeyword(stmt)),
		slog.Int("depth", len(exec.callStack)),
	)
}

func statementKeyword(stmt Statement) string {
	switch s := stmt.(type) {
	case *BeginStmt:
		return keywordBegin
	case *SetStmt:
		return keywordSet
	case *IfStmt:
		return keywordIf
	case *WhileStmt:
		return keywordWhile
	case *ReturnStmt:
		return keywordReturn
	case *CallStmt:
		return keywordCall
	case *InputStmt:
		if s.Int {
			return keywordInputI
		}
		return keywordInputS
	case *PrintStmt:
		return keywordPrint
	case *LetStmt:
		return keywordLet
	case *UnknownStmt:
		return s.Keyword
	default:
		return fmt.Sprintf("%T", stmt)
	}
}
