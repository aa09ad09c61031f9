package brewin

func (p *parser) lowerStatements(forms []*Form) []Statement {
	stmts := make([]Statement, 0, len(forms))
	for _, form := range forms {
		stmts = append(stmts, p.lowerStatement(form))
	}
	return stmts
}

func unknownStatement(form *Form, keyword, message string) *UnknownStmt {
	return &UnknownStmt{Keyword: keyword, Message: message, position: form.Pos}
}

func (p *parser) lowerStatement(form *Form) Statement {
	if !form.IsList() || len(form.Items) == 0 {
		return unknownStatement(form, "", "expected a statement, got "+describeForm(form))
	}
	items := form.Items
	head := form.Head()
	switch head {
	case keywordBegin:
		return &BeginStmt{Body: p.lowerStatements(items[1:]), position: form.Pos}

	case keywordSet:
		if len(items) != 3 || !items[1].IsAtom() {
			return unknownStatement(form, head, "set expects a variable name and an expression")
		}
		return &SetStmt{Name: items[1].Atom, Value: p.lowerExpression(items[2]), position: form.Pos}

	case keywordIf:
		if len(items) != 3 && len(items) != 4 {
			return unknownStatement(form, head, "if expects a condition, a statement and an optional else statement")
		}
		stmt := &IfStmt{
			Condition: p.lowerExpression(items[1]),
			Then:      p.lowerStatement(items[2]),
			position:  form.Pos,
		}
		if len(items) == 4 {
			stmt.Else = p.lowerStatement(items[3])
		}
		return stmt

	case keywordWhile:
		if len(items) != 3 {
			return unknownStatement(form, head, "while expects a condition and a statement")
		}
		return &WhileStmt{
			Condition: p.lowerExpression(items[1]),
			Body:      p.lowerStatement(items[2]),
			position:  form.Pos,
		}

	case keywordReturn:
		switch len(items) {
		case 1:
			return &ReturnStmt{position: form.Pos}
		case 2:
			return &ReturnStmt{Value: p.lowerExpression(items[1]), position: form.Pos}
		default:
			return unknownStatement(form, head, "return expects at most one expression")
		}

	case keywordCall:
		call, msg := p.lowerCall(form)
		if call == nil {
			return unknownStatement(form, head, msg)
		}
		return &CallStmt{Call: call, position: form.Pos}

	case keywordInputS, keywordInputI:
		if len(items) != 2 || !items[1].IsAtom() {
			return unknownStatement(form, head, head+" expects a variable name")
		}
		return &InputStmt{Name: items[1].Atom, Int: head == keywordInputI, position: form.Pos}

	case keywordPrint:
		args := make([]Expression, 0, len(items)-1)
		for _, item := range items[1:] {
			args = append(args, p.lowerExpression(item))
		}
		return &PrintStmt{Args: args, position: form.Pos}

	case keywordLet:
		return p.lowerLet(form)

	default:
		keyword := head
		if keyword == "" {
			keyword = describeForm(items[0])
		}
		return unknownStatement(form, keyword, "unknown statement "+keyword)
	}
}

// lowerLet handles (let ((TYPE NAME [LITERAL])...) STATEMENT...).
func (p *parser) lowerLet(form *Form) Statement {
	items := form.Items
	if len(items) < 2 || !items[1].IsList() {
		return unknownStatement(form, keywordLet, "let expects a list of local declarations")
	}
	stmt := &LetStmt{position: form.Pos}
	for _, local := range items[1].Items {
		if !local.IsList() || len(local.Items) < 2 || len(local.Items) > 3 || !allAtoms(local.Items) {
			return unknownStatement(form, keywordLet, "malformed let declaration "+local.String())
		}
		decl := LetLocal{
			Name: local.Items[1].Atom,
			Type: parseType(local.Items[0].Atom),
			Pos:  local.Pos,
		}
		if len(local.Items) == 3 {
			decl.Init = local.Items[2].Atom
			decl.HasInit = true
		}
		stmt.Locals = append(stmt.Locals, decl)
	}
	stmt.Body = p.lowerStatements(items[2:])
	return stmt
}
