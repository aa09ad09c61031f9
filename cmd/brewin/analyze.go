package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brewin-lang/brewin/brewin"
)

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("brewin analyze: program path required")
	}

	programPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve program path: %w", err)
	}
	input, err := os.ReadFile(programPath)
	if err != nil {
		return fmt.Errorf("read program: %w", err)
	}

	logger, err := newLogger(os.Stderr, "warn")
	if err != nil {
		return err
	}
	engine := brewin.NewEngine(brewin.Config{Logger: logger})
	script, err := engine.Compile(string(input))
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	warnings := brewin.Analyze(script)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, line := range formatWarnings(programPath, warnings) {
		fmt.Println(line)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

func formatWarnings(path string, warnings []brewin.Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, warning := range warnings {
		line := warning.Pos.Line
		column := warning.Pos.Column
		if line <= 0 {
			line = 1
		}
		if column <= 0 {
			column = 1
		}
		out = append(out, fmt.Sprintf("%s:%d:%d: %s (%s)", path, line, column, warning.Message, warning.Function))
	}
	return out
}
