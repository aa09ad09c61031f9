package main

import (
	"bufio"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":quit")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":help")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestUpdateEvaluatesFormsIntoHistory(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(`(class pt (field int x 3) (method int get () (return x)))`)
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(replModel)

	m.textInput.SetValue(`(call (new pt) get)`)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(replModel)

	if len(m.history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(m.history))
	}
	if m.history[0].output != "defined pt" || m.history[1].output != "3" {
		t.Fatalf("unexpected history %+v", m.history)
	}
	if len(m.cmdHistory) != 2 {
		t.Fatalf("expected command history to record both inputs")
	}
}

func TestEvaluateRendersOutputAndErrors(t *testing.T) {
	session := newREPLSession(io.Discard, strings.NewReader(""))

	output, isErr := evaluate(session, `(print "a" 1)`)
	if isErr || output != "a1" {
		t.Fatalf("unexpected print evaluation %q (err=%v)", output, isErr)
	}
	output, isErr = evaluate(session, `"text"`)
	if isErr || output != `"text"` {
		t.Fatalf("unexpected literal evaluation %q", output)
	}
	output, isErr = evaluate(session, `(+ 1 true)`)
	if !isErr || !strings.Contains(output, "TypeError") {
		t.Fatalf("expected TypeError, got %q", output)
	}
}

func TestSessionCommands(t *testing.T) {
	session := newREPLSession(io.Discard, strings.NewReader(""))

	if out, isErr := sessionCommand(session, []string{":var", "int", "n", "4"}); isErr {
		t.Fatalf("declare failed: %s", out)
	}
	if out, _ := evaluate(session, `(* n n)`); out != "16" {
		t.Fatalf("expected 16, got %q", out)
	}
	if out, isErr := sessionCommand(session, []string{":var", "float", "f"}); !isErr || !strings.Contains(out, "unknown type") {
		t.Fatalf("expected unknown type error, got %q", out)
	}
	evaluate(session, `(class a)`)
	evaluate(session, `(class b inherits a)`)
	if out, _ := sessionCommand(session, []string{":classes"}); out != "a, b inherits a" {
		t.Fatalf("unexpected classes listing %q", out)
	}
	sessionCommand(session, []string{":reset"})
	if out, _ := sessionCommand(session, []string{":classes"}); out != "No classes defined" {
		t.Fatalf("expected empty session after reset, got %q", out)
	}
}

func TestLineREPLAccumulatesMultilineForms(t *testing.T) {
	input := strings.Join([]string{
		"(class main",
		"  (field int total 0)",
		"  (method int add ((int n))",
		"    (begin (set total (+ total n)) (return total))))",
		"(call me add 5)",
		"(call me add 7)",
		":classes",
		"(print \"done (really)\")",
		":quit",
		"(print \"unreachable\")",
	}, "\n")
	var out strings.Builder
	in := bufio.NewReader(strings.NewReader(input))
	if err := runLineREPL(in, &out, newREPLSession(io.Discard, in)); err != nil {
		t.Fatalf("line repl failed: %v", err)
	}
	want := "defined main\n5\n12\nmain\ndone (really)\n"
	if out.String() != want {
		t.Fatalf("unexpected transcript:\n%q", out.String())
	}
}

func TestParenDepthIgnoresStringsAndComments(t *testing.T) {
	tests := map[string]int{
		`(class a`:            1,
		`(print ")")`:         0,
		`(x)) # (((`:          -1,
		`"(" (begin (print 1`: 2,
	}
	for line, want := range tests {
		if got := parenDepth(line); got != want {
			t.Fatalf("parenDepth(%q) = %d, want %d", line, got, want)
		}
	}
}

func TestLineREPLSharesStdinWithInputStatements(t *testing.T) {
	input := strings.Join([]string{
		":var string s",
		`(begin (inputs s) (print "got " s))`,
		"hello",
		":var int n",
		"(begin (inputi n) (print (* n 2)))",
		"21",
	}, "\n") + "\n"
	var out strings.Builder
	in := bufio.NewReader(strings.NewReader(input))
	if err := runLineREPL(in, &out, newREPLSession(io.Discard, in)); err != nil {
		t.Fatalf("line repl failed: %v", err)
	}
	want := "string s declared\ngot hello\nint n declared\n42\n"
	if out.String() != want {
		t.Fatalf("unexpected transcript:\n%s", out.String())
	}
}

func TestFullScreenSessionRejectsInputStatements(t *testing.T) {
	m := newREPLModel()
	if out, isErr := sessionCommand(m.session, []string{":var", "string", "s"}); isErr {
		t.Fatalf("declare failed: %s", out)
	}
	output, isErr := evaluate(m.session, "(inputs s)")
	if !isErr || !strings.Contains(output, "brewin repl -plain") {
		t.Fatalf("expected input statements to be refused, got %q", output)
	}
}
