package brewin

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func compileProgram(t testing.TB, source string) *Script {
	t.Helper()
	script, err := NewEngine(Config{Logger: quietLogger()}).Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return script
}

func readProgramFile(t testing.TB, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// runProgram compiles and runs source with the given input lines and returns
// the printed lines.
func runProgram(t testing.TB, source string, input ...string) []string {
	t.Helper()
	out, err := runProgramErr(t, source, input...)
	if err != nil {
		t.Fatalf("run failed: %v\noutput so far: %q", err, out)
	}
	return out
}

func runProgramErr(t testing.TB, source string, input ...string) ([]string, error) {
	t.Helper()
	var stdout strings.Builder
	stdin := strings.NewReader(strings.Join(input, "\n"))
	err := NewEngine(Config{Stdin: stdin, Stdout: &stdout, Logger: quietLogger()}).Execute(source)
	return splitLines(stdout.String()), err
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func requireErrorKind(t testing.TB, err error, want ErrorKind) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", want)
	}
	var be *Error
	if !errors.As(err, &be) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if be.Kind != want {
		t.Fatalf("expected %s, got %s: %v", want, be.Kind, err)
	}
	return be
}

func requireRunErrorKind(t testing.TB, source string, want ErrorKind, input ...string) *Error {
	t.Helper()
	_, err := runProgramErr(t, source, input...)
	return requireErrorKind(t, err, want)
}
