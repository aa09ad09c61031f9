package brewin

import (
	"errors"
	"fmt"
)

type parser struct {
	source string
	errors []error
}

func newParser(source string) *parser {
	return &parser{source: source}
}

// ParseProgram reads source and lowers it into class declarations. Malformed
// declarations are reported together as SyntaxErrors; malformed statements
// inside method bodies are deferred until they execute.
func ParseProgram(source string) (*Program, error) {
	forms, err := ReadForms(source)
	if err != nil {
		var be *Error
		if errors.As(err, &be) && be.CodeFrame == "" {
			be.CodeFrame = formatCodeFrame(source, be.Pos)
		}
		return nil, err
	}
	p := newParser(source)
	program := p.lowerProgram(forms)
	if len(p.errors) > 0 {
		return nil, combineErrors(p.errors)
	}
	return program, nil
}

func (p *parser) errorf(pos Position, format string, args ...any) {
	err := newError(SyntaxError, pos, format, args...)
	err.CodeFrame = formatCodeFrame(p.source, pos)
	p.errors = append(p.errors, err)
}

func (p *parser) lowerProgram(forms []*Form) *Program {
	program := &Program{}
	for _, form := range forms {
		if form.Head() != keywordClass {
			p.errorf(form.Pos, "expected class declaration, got %s", describeForm(form))
			continue
		}
		if decl := p.lowerClass(form); decl != nil {
			program.Classes = append(program.Classes, decl)
		}
	}
	return program
}

// lowerClass handles (class NAME [inherits PARENT] MEMBER...).
func (p *parser) lowerClass(form *Form) *ClassDecl {
	items := form.Items
	if len(items) < 2 || !items[1].IsAtom() {
		p.errorf(form.Pos, "class declaration requires a name")
		return nil
	}
	decl := &ClassDecl{Name: items[1].Atom, position: form.Pos}
	members := items[2:]
	if len(members) > 0 && members[0].IsAtom(keywordInherits) {
		if len(members) < 2 || !members[1].IsAtom() {
			p.errorf(members[0].Pos, "class %s: inherits requires a parent class name", decl.Name)
			return nil
		}
		decl.Parent = members[1].Atom
		members = members[2:]
	}

	for _, member := range members {
		switch member.Head() {
		case keywordField:
			if field := p.lowerField(decl.Name, member); field != nil {
				decl.Fields = append(decl.Fields, field)
			}
		case keywordMethod:
			if method := p.lowerMethod(decl.Name, member); method != nil {
				decl.Methods = append(decl.Methods, method)
			}
		default:
			p.errorf(member.Pos, "class %s: unknown member %s", decl.Name, describeForm(member))
		}
	}
	return decl
}

// lowerField handles (field TYPE NAME [DEFAULT]).
func (p *parser) lowerField(className string, form *Form) *FieldDecl {
	items := form.Items
	if len(items) < 3 || len(items) > 4 || !allAtoms(items) {
		p.errorf(form.Pos, "class %s: malformed field declaration %s", className, form)
		return nil
	}
	field := &FieldDecl{
		Name:     items[2].Atom,
		Type:     parseType(items[1].Atom),
		position: form.Pos,
	}
	if len(items) == 4 {
		field.Default = items[3].Atom
		field.HasDefault = true
	}
	return field
}

// lowerMethod handles (method TYPE NAME ((TYPE PARAM)...) BODY).
func (p *parser) lowerMethod(className string, form *Form) *MethodDecl {
	items := form.Items
	if len(items) != 5 || !items[1].IsAtom() || !items[2].IsAtom() || !items[3].IsList() {
		p.errorf(form.Pos, "class %s: malformed method declaration", className)
		return nil
	}
	method := &MethodDecl{
		Name:       items[2].Atom,
		ReturnType: parseType(items[1].Atom),
		position:   form.Pos,
	}
	for _, param := range items[3].Items {
		if !param.IsList() || len(param.Items) != 2 || !allAtoms(param.Items) {
			p.errorf(param.Pos, "method %s.%s: malformed parameter %s", className, method.Name, param)
			return nil
		}
		method.Params = append(method.Params, Param{
			Name: param.Items[1].Atom,
			Type: parseType(param.Items[0].Atom),
		})
	}
	method.Body = p.lowerStatement(items[4])
	return method
}

func allAtoms(forms []*Form) bool {
	for _, f := range forms {
		if !f.IsAtom() {
			return false
		}
	}
	return true
}

func describeForm(form *Form) string {
	if form.IsList() {
		if head := form.Head(); head != "" {
			return fmt.Sprintf("(%s ...)", head)
		}
		return "list"
	}
	return form.Atom
}
