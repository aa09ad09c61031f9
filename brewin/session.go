package brewin

import (
	"errors"
	"log/slog"
	"strings"
)

const sessionClassName = "<session>"

// SessionResult is what one Session.Eval produced.
type SessionResult struct {
	Output   string
	Value    Value
	HasValue bool
	Defined  []string
}

// Binding is one name visible at the session prompt.
type Binding struct {
	Name  string
	Value Value
	Field bool
}

// Session evaluates Brewin forms one at a time against a persistent class
// table, a persistent set of bindings and a scratch receiver. It backs the
// interactive REPL.
type Session struct {
	engine  *Engine
	classes *ClassTable
	env     *Env
	self    *Object
	exec    *Execution
	output  *strings.Builder
}

// NewSession starts an empty session using e's configuration for input and
// logging. Output produced by print is returned in SessionResult instead of
// being written to the configured Stdout.
func (e *Engine) NewSession() *Session {
	s := &Session{engine: e}
	s.Reset()
	return s
}

// Reset forgets every class and binding.
func (s *Session) Reset() {
	s.classes = NewClassTable()
	s.env = newEnv()
	s.output = &strings.Builder{}
	cfg := s.engine.config
	cfg.Stdout = s.output
	s.exec = newExecution(s.classes, cfg, "")
	s.self = &Object{
		Class:  &ClassDef{Name: sessionClassName, methods: map[string]*MethodDecl{}},
		fields: map[string]Value{},
	}
}

// Classes returns the session's classes in definition order.
func (s *Session) Classes() []*ClassDef {
	return s.classes.Classes()
}

// Bindings lists locals followed by the scratch receiver's fields, each
// group sorted by name.
func (s *Session) Bindings() []Binding {
	var out []Binding
	for _, name := range s.env.Names() {
		val, _ := s.env.Get(name)
		out = append(out, Binding{Name: name, Value: val})
	}
	for _, name := range s.self.FieldNames() {
		out = append(out, Binding{Name: name, Value: s.self.fields[name], Field: true})
	}
	return out
}

// Declare binds a new session variable of type t, initialized to value or to
// the type's default when value is empty.
func (s *Session) Declare(t Type, name, value string) error {
	if _, ok := s.env.Get(name); ok {
		return newError(NameError, Position{}, "variable %s already declared", name)
	}
	val := DefaultValue(t)
	if value != "" {
		v, err := typedLiteral(value, t, Position{})
		if err != nil {
			return err
		}
		val = v
	}
	if val.Kind() == KindNothing {
		return newError(TypeError, Position{}, "cannot declare %s as void", name)
	}
	s.env.Set(name, val)
	return nil
}

// Eval reads every form in src. Class forms are defined, statement forms run
// against the session bindings and anything else is evaluated as an
// expression whose value becomes the result.
func (s *Session) Eval(src string) (SessionResult, error) {
	var result SessionResult
	s.output.Reset()
	s.exec.source = src

	forms, err := ReadForms(src)
	if err != nil {
		return s.finish(&result, s.frame(src, err))
	}
	p := newParser(src)
	for _, form := range forms {
		result.HasValue = false
		if form.Head() == keywordClass {
			def, err := s.define(p, form)
			if err != nil {
				return s.finish(&result, err)
			}
			result.Defined = append(result.Defined, def.Name)
			continue
		}
		act := &activation{self: s.self, class: s.self.Class, env: s.env}
		if isStatementForm(form) {
			f, val, err := s.exec.execStatement(act, p.lowerStatement(form))
			if err != nil {
				return s.finish(&result, err)
			}
			if f == flowReturn {
				result.Value, result.HasValue = val, true
			}
			continue
		}
		val, err := s.exec.evalExpression(act, p.lowerExpression(form))
		if err != nil {
			return s.finish(&result, err)
		}
		if val.Kind() != KindNothing {
			result.Value, result.HasValue = val, true
		}
	}
	return s.finish(&result, nil)
}

func (s *Session) finish(result *SessionResult, err error) (SessionResult, error) {
	result.Output = s.output.String()
	return *result, err
}

func (s *Session) frame(src string, err error) error {
	var be *Error
	if errors.As(err, &be) && be.CodeFrame == "" {
		be.CodeFrame = formatCodeFrame(src, be.Pos)
	}
	return err
}

func (s *Session) define(p *parser, form *Form) (*ClassDef, error) {
	p.errors = nil
	decl := p.lowerClass(form)
	if len(p.errors) > 0 {
		return nil, combineErrors(p.errors)
	}
	def, err := s.classes.Define(decl)
	if err != nil {
		return nil, s.frame(p.source, err)
	}
	s.engine.config.Logger.Debug("define class",
		slog.String("name", def.Name),
		slog.String("parent", decl.Parent),
		slog.Int("fields", len(def.Fields)),
		slog.Int("methods", len(def.Methods)),
	)
	// a main class becomes the scratch receiver so its fields are reachable
	if def.Name == s.engine.config.MainClass && s.self.Class.Name == sessionClassName {
		obj, err := s.exec.instantiate(def.Name, form.Pos)
		if err != nil {
			return nil, err
		}
		s.self = obj
	}
	return def, nil
}

var statementKeywords = map[string]struct{}{
	keywordBegin:  {},
	keywordSet:    {},
	keywordIf:     {},
	keywordWhile:  {},
	keywordReturn: {},
	keywordInputS: {},
	keywordInputI: {},
	keywordPrint:  {},
	keywordLet:    {},
}

func isStatementForm(form *Form) bool {
	_, ok := statementKeywords[form.Head()]
	return ok
}
