package brewin

func (p *parser) lowerExpression(form *Form) Expression {
	if form.IsAtom() {
		return &AtomExpr{Name: form.Atom, position: form.Pos}
	}
	items := form.Items
	if len(items) == 0 {
		return &UnknownExpr{Message: "empty expression", position: form.Pos}
	}
	head := form.Head()
	switch {
	case isBinaryOperator(head):
		if len(items) != 3 {
			return &UnknownExpr{Message: "operator " + head + " expects two operands", position: form.Pos}
		}
		return &BinaryExpr{
			Operator: head,
			Left:     p.lowerExpression(items[1]),
			Right:    p.lowerExpression(items[2]),
			position: form.Pos,
		}
	case isUnaryOperator(head):
		if len(items) != 2 {
			return &UnknownExpr{Message: "operator " + head + " expects one operand", position: form.Pos}
		}
		return &UnaryExpr{Operator: head, Operand: p.lowerExpression(items[1]), position: form.Pos}
	case head == keywordCall:
		call, msg := p.lowerCall(form)
		if call == nil {
			return &UnknownExpr{Message: msg, position: form.Pos}
		}
		return call
	case head == keywordNew:
		if len(items) != 2 || !items[1].IsAtom() {
			return &UnknownExpr{Message: "new expects a class name", position: form.Pos}
		}
		return &NewExpr{Class: items[1].Atom, position: form.Pos}
	default:
		return &UnknownExpr{Message: "unknown expression " + describeForm(form), position: form.Pos}
	}
}

// lowerCall handles (call RECEIVER METHOD ARG...). On failure it returns a
// nil call and the reason.
func (p *parser) lowerCall(form *Form) (*CallExpr, string) {
	items := form.Items
	if len(items) < 3 || !items[2].IsAtom() {
		return nil, "call expects a receiver and a method name"
	}
	call := &CallExpr{Method: items[2].Atom, position: form.Pos}
	switch {
	case items[1].IsAtom(keywordMe):
		call.ReceiverKind = ReceiverMe
	case items[1].IsAtom(keywordSuper):
		call.ReceiverKind = ReceiverSuper
	default:
		call.ReceiverKind = ReceiverExpr
		call.Receiver = p.lowerExpression(items[1])
	}
	for _, arg := range items[3:] {
		call.Args = append(call.Args, p.lowerExpression(arg))
	}
	return call, ""
}
