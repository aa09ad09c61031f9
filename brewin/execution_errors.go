package brewin

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a fatal program error.
type ErrorKind int

const (
	NameError ErrorKind = iota + 1
	TypeError
	FaultError
	SyntaxError
)

func (k ErrorKind) String() string {
	switch k {
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case FaultError:
		return "FaultError"
	case SyntaxError:
		return "SyntaxError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseErrorKind maps a kind name such as "NameError" or "name" back to its ErrorKind.
func ParseErrorKind(name string) (ErrorKind, bool) {
	normalized := strings.TrimPrefix(strings.TrimSpace(name), "ErrorType.")
	normalized = strings.TrimSuffix(strings.TrimSuffix(normalized, "Error"), "_ERROR")
	normalized = strings.ToLower(normalized)
	switch normalized {
	case "name":
		return NameError, true
	case "type":
		return TypeError, true
	case "fault":
		return FaultError, true
	case "syntax":
		return SyntaxError, true
	default:
		return 0, false
	}
}

type StackFrame struct {
	Function string
	Pos      Position
}

// Error is the single fatal error type raised by the front end and the
// execution engine. No Brewin construct can catch it; it unwinds to the host.
type Error struct {
	Kind      ErrorKind
	Message   string
	Pos       Position
	CodeFrame string
	Frames    []StackFrame
}

const (
	errorFrameHead = 8
	errorFrameTail = 8
)

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.Line > 0 {
		fmt.Fprintf(&b, "%s at line %d: %s", e.Kind, e.Pos.Line, e.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	}
	if e.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(e.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (line %d)", frame.Function, frame.Pos.Line)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(e.Frames) <= errorFrameHead+errorFrameTail {
		for _, frame := range e.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range e.Frames[:errorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(e.Frames) - (errorFrameHead + errorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range e.Frames[len(e.Frames)-errorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// Line reports the source line the error was raised at, or 0 when unknown.
func (e *Error) Line() int { return e.Pos.Line }

func newError(kind ErrorKind, pos Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// KindOf extracts the ErrorKind of err when it is (or wraps) an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a Brewin error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}

// errorAt builds an error annotated with the current call stack and a code frame.
func (exec *Execution) errorAt(kind ErrorKind, pos Position, format string, args ...any) error {
	err := newError(kind, pos, format, args...)
	err.Frames = exec.stackFrames(pos)
	if exec.source != "" {
		err.CodeFrame = formatCodeFrame(exec.source, pos)
	}
	return err
}

func (exec *Execution) stackFrames(pos Position) []StackFrame {
	if len(exec.callStack) == 0 {
		return []StackFrame{{Function: "<program>", Pos: pos}}
	}
	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	// innermost frame reports where the error occurred, the rest where each call was made
	current := exec.callStack[len(exec.callStack)-1]
	frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
	for i := len(exec.callStack) - 1; i >= 0; i-- {
		cf := exec.callStack[i]
		frames = append(frames, StackFrame{Function: cf.Function, Pos: cf.CallPos})
	}
	return frames
}

// annotate attaches the call stack and code frame to a bare *Error raised
// outside the execution, such as a literal parse failure.
func (exec *Execution) annotate(err error) error {
	var be *Error
	if !errors.As(err, &be) || be.Frames != nil {
		return err
	}
	be.Frames = exec.stackFrames(be.Pos)
	if be.CodeFrame == "" && exec.source != "" {
		be.CodeFrame = formatCodeFrame(exec.source, be.Pos)
	}
	return err
}
