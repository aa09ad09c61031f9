package brewin

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

// Config controls where a program reads input, writes output and logs, and
// how far it may run.
type Config struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Logger     *slog.Logger
	Trace      bool
	MainClass  string
	MainMethod string

	// StepQuota caps executed statements; zero means unlimited.
	StepQuota      int
	RecursionLimit int
}

const defaultRecursionLimit = 1000

// Engine compiles Brewin source into runnable scripts.
type Engine struct {
	config Config
}

// NewEngine constructs an Engine, filling unset Config fields with defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if cfg.MainClass == "" {
		cfg.MainClass = "main"
	}
	if cfg.MainMethod == "" {
		cfg.MainMethod = "main"
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	return &Engine{config: cfg}
}

// Script is a compiled program: its parsed declarations and class registry.
type Script struct {
	engine  *Engine
	program *Program
	classes *ClassTable
	source  string
}

// Compile parses source and registers every class in declaration order.
func (e *Engine) Compile(source string) (*Script, error) {
	program, err := ParseProgram(source)
	if err != nil {
		return nil, err
	}
	classes := NewClassTable()
	for _, decl := range program.Classes {
		def, err := classes.Define(decl)
		if err != nil {
			var be *Error
			if errors.As(err, &be) {
				be.CodeFrame = formatCodeFrame(source, be.Pos)
			}
			return nil, err
		}
		e.config.Logger.Debug("define class",
			slog.String("name", def.Name),
			slog.String("parent", decl.Parent),
			slog.Int("fields", len(def.Fields)),
			slog.Int("methods", len(def.Methods)),
		)
	}
	return &Script{engine: e, program: program, classes: classes, source: source}, nil
}

// Classes returns the script's classes in definition order.
func (s *Script) Classes() []*ClassDef {
	return s.classes.Classes()
}

// Lookup finds a class by name.
func (s *Script) Lookup(name string) (*ClassDef, bool) {
	return s.classes.Lookup(name)
}

// Run instantiates the main class and calls its main method. Any Brewin error
// aborts the run and is returned as an *Error.
func (s *Script) Run() error {
	cfg := s.engine.config
	exec := newExecution(s.classes, cfg, s.source)
	obj, err := exec.instantiate(cfg.MainClass, Position{})
	if err != nil {
		return err
	}
	if _, err := exec.callMethod(obj, obj.Class, cfg.MainMethod, false, nil, Position{}); err != nil {
		return err
	}
	return nil
}

// Execute compiles and runs source.
func (e *Engine) Execute(source string) error {
	script, err := e.Compile(source)
	if err != nil {
		return err
	}
	return script.Run()
}
