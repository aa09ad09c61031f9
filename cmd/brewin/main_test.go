package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brewin-lang/brewin/brewin"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"brewin", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"brewin", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"brewin"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandCheckOnly(t *testing.T) {
	programPath := writeProgram(t, `(class main (method void main () (print "never")))`)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-check", programPath})
	})
	if err != nil {
		t.Fatalf("runCommand check failed: %v", err)
	}
	if out != "" {
		t.Fatalf("check mode must not execute, got %q", out)
	}
}

func TestRunCommandExecutesProgram(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return runCommand([]string{filepath.Join("testdata", "programs", "shapes.brewin")})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	want := "square area 16\nrect area 6\ntotal 22\n"
	if out != want {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandCustomMainClass(t *testing.T) {
	programPath := writeProgram(t, `(class app (method void main () (print "from app")))`)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-main", "app", programPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "from app" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandReportsRuntimeErrors(t *testing.T) {
	programPath := writeProgram(t, "(class main\n  (field main other null)\n  (method void main () (call other main)))")

	_, err := captureStdout(t, func() error {
		return runCommand([]string{"-log-level", "error", programPath})
	})
	if err == nil {
		t.Fatalf("expected execution failure")
	}
	var be *brewin.Error
	if !errors.As(err, &be) || be.Kind != brewin.FaultError || be.Line() != 3 {
		t.Fatalf("expected FaultError on line 3, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "execution failed") {
		t.Fatalf("unexpected error prefix: %v", err)
	}
}

func TestRunCommandStepQuota(t *testing.T) {
	programPath := writeProgram(t, "(class main\n  (field int n 0)\n  (method void main ()\n    (while true (set n (+ n 1)))))")

	_, err := captureStdout(t, func() error {
		return runCommand([]string{"-log-level", "error", "-steps", "50", programPath})
	})
	if err == nil || !strings.Contains(err.Error(), "step quota exceeded (50)") {
		t.Fatalf("expected step quota failure, got %v", err)
	}
}

func TestRunCommandRejectsInvalidLogLevel(t *testing.T) {
	programPath := writeProgram(t, `(class main (method void main () (return)))`)
	err := runCommand([]string{"-log-level", "chatty", programPath})
	if err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Fatalf("expected invalid log level error, got %v", err)
	}
}

func TestRunCommandRequiresProgramPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil {
		t.Fatalf("expected program path error")
	}
	if !strings.Contains(err.Error(), "program path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeCommandNoIssues(t *testing.T) {
	programPath := writeProgram(t, `(class main (method void main () (print "fine")))`)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{programPath})
	})
	if err != nil {
		t.Fatalf("analyzeCommand failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected analyze output: %q", out)
	}
}

func TestAnalyzeCommandReportsUnreachableStatements(t *testing.T) {
	programPath := writeProgram(t, `(class main
  (method void main ()
    (begin
      (return)
      (print "dead"))))`)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{programPath})
	})
	if err == nil {
		t.Fatalf("expected analyze command to report lint failures")
	}
	if !strings.Contains(err.Error(), "analysis found 1 issue(s)") {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	if !strings.Contains(out, ":5:7: unreachable statement (main.main)") {
		t.Fatalf("expected unreachable statement warning, got %q", out)
	}
}

func writeProgram(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.brewin")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
