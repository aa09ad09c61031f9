package brewin

import (
	"fmt"
	"sort"
)

// Warning is one finding of the static analyzer.
type Warning struct {
	Function string
	Pos      Position
	Message  string
}

// Analyze lints a compiled script: statements that can never run, overrides
// whose signature differs from the method they replace, and fields that
// shadow an inherited field.
func Analyze(script *Script) []Warning {
	warnings := make([]Warning, 0)
	for _, def := range script.Classes() {
		lintClassFields(def, &warnings)
		for _, method := range def.Methods {
			function := def.Name + "." + method.Name
			lintOverride(def, method, function, &warnings)
			statementTerminates(function, method.Body, &warnings)
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})

	return warnings
}

// lintClassFields reports own fields that an ancestor also declares. The
// ancestor's default is the one an instance starts with.
func lintClassFields(def *ClassDef, warnings *[]Warning) {
	if def.Parent == nil {
		return
	}
	inherited := make(map[string]*ClassDef)
	for cls := def.Parent; cls != nil; cls = cls.Parent {
		for _, field := range cls.Fields {
			if _, seen := inherited[field.Name]; !seen {
				inherited[field.Name] = cls
			}
		}
	}
	for _, field := range def.Fields {
		owner, ok := inherited[field.Name]
		if !ok {
			continue
		}
		*warnings = append(*warnings, Warning{
			Function: def.Name,
			Pos:      field.Pos(),
			Message:  fmt.Sprintf("field %s shadows an inherited field of %s; instances start with the inherited default", field.Name, owner.Name),
		})
	}
}

func lintOverride(def *ClassDef, method *MethodDecl, function string, warnings *[]Warning) {
	if def.Parent == nil {
		return
	}
	owner, base, ok := resolveMethod(method.Name, def, true)
	if !ok {
		return
	}
	if sameSignature(method, base) {
		return
	}
	*warnings = append(*warnings, Warning{
		Function: function,
		Pos:      method.Pos(),
		Message:  fmt.Sprintf("method %s overrides %s.%s with a different signature", method.Name, owner.Name, base.Name),
	})
}

func sameSignature(a, b *MethodDecl) bool {
	if a.ReturnType.Kind != b.ReturnType.Kind || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Type.Kind != b.Params[i].Type.Kind {
			return false
		}
	}
	return true
}

func lintStatements(function string, statements []Statement, warnings *[]Warning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, Warning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "unreachable statement",
			})
			continue
		}
		if statementTerminates(function, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(function string, stmt Statement, warnings *[]Warning) bool {
	switch typed := stmt.(type) {
	case *ReturnStmt:
		return true
	case *BeginStmt:
		return lintStatements(function, typed.Body, warnings)
	case *LetStmt:
		return lintStatements(function, typed.Body, warnings)
	case *IfStmt:
		thenTerminated := statementTerminates(function, typed.Then, warnings)
		if typed.Else == nil {
			return false
		}
		elseTerminated := statementTerminates(function, typed.Else, warnings)
		return thenTerminated && elseTerminated
	case *WhileStmt:
		statementTerminates(function, typed.Body, warnings)
		return false
	default:
		return false
	}
}
