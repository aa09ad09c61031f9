package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/brewin-lang/brewin/brewin"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "lsp":
		return runLSP()
	case "conform":
		return conformCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	trace := fs.Bool("trace", false, "log every call and statement at debug level")
	logLevel := fs.String("log-level", "warn", "minimum log level (debug, info, warn, error)")
	checkOnly := fs.Bool("check", false, "only compile the program without executing")
	mainClass := fs.String("main", "main", "class to instantiate as the entry point")
	steps := fs.Int("steps", 0, "abort after this many statements (0 = unlimited)")
	maxDepth := fs.Int("max-depth", 0, "maximum method call depth (0 = engine default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("brewin run: program path required")
	}
	absPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve program path: %w", err)
	}
	input, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read program: %w", err)
	}

	level := *logLevel
	if *trace {
		level = "debug"
	}
	logger, err := newLogger(os.Stderr, level)
	if err != nil {
		return err
	}

	engine := brewin.NewEngine(brewin.Config{
		Logger:         logger,
		Trace:          *trace,
		MainClass:      *mainClass,
		StepQuota:      *steps,
		RecursionLimit: *maxDepth,
	})
	script, err := engine.Compile(string(input))
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	if *checkOnly {
		return nil
	}
	if err := script.Run(); err != nil {
		logger.Error("program aborted", slog.String("path", absPath), slog.Any("error", errorSummary(err)))
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

// newLogger builds the text handler used by every subcommand.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func errorSummary(err error) string {
	var be *brewin.Error
	if errors.As(err, &be) {
		return fmt.Sprintf("%s: %s (line %d)", be.Kind, be.Message, be.Line())
	}
	return err.Error()
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [flags] <program>      compile and run a program")
	fmt.Fprintln(os.Stderr, "  repl [-plain]              start an interactive session")
	fmt.Fprintln(os.Stderr, "  fmt [-w|-l] [-check] <paths> format .brewin sources")
	fmt.Fprintln(os.Stderr, "  analyze <program>          report static warnings")
	fmt.Fprintln(os.Stderr, "  lsp                        serve the language server over stdio")
	fmt.Fprintln(os.Stderr, "  conform [-j N] [-v] <paths> run YAML conformance cases")
	fmt.Fprintln(os.Stderr, "Run flags:")
	fmt.Fprintln(os.Stderr, "  -trace")
	fmt.Fprintln(os.Stderr, "    log every call and statement at debug level")
	fmt.Fprintln(os.Stderr, "  -log-level string")
	fmt.Fprintln(os.Stderr, "    minimum log level (default \"warn\")")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    only compile the program without executing")
	fmt.Fprintln(os.Stderr, "  -main string")
	fmt.Fprintln(os.Stderr, "    class to instantiate as the entry point (default \"main\")")
	fmt.Fprintln(os.Stderr, "  -steps int")
	fmt.Fprintln(os.Stderr, "    abort after this many statements (0 = unlimited)")
	fmt.Fprintln(os.Stderr, "  -max-depth int")
	fmt.Fprintln(os.Stderr, "    maximum method call depth (default 1000)")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

// stringList collects a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
