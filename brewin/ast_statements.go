package brewin

type BeginStmt struct {
	Body     []Statement
	position Position
}

func (s *BeginStmt) stmtNode()     {}
func (s *BeginStmt) Pos() Position { return s.position }

type SetStmt struct {
	Name     string
	Value    Expression
	position Position
}

func (s *SetStmt) stmtNode()     {}
func (s *SetStmt) Pos() Position { return s.position }

type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement
	position  Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Condition Expression
	Body      Statement
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

// ReturnStmt with a nil Value returns the declared type's default.
type ReturnStmt struct {
	Value    Expression
	position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.position }

type CallStmt struct {
	Call     *CallExpr
	position Position
}

func (s *CallStmt) stmtNode()     {}
func (s *CallStmt) Pos() Position { return s.position }

type InputStmt struct {
	Name     string
	Int      bool
	position Position
}

func (s *InputStmt) stmtNode()     {}
func (s *InputStmt) Pos() Position { return s.position }

type PrintStmt struct {
	Args     []Expression
	position Position
}

func (s *PrintStmt) stmtNode()     {}
func (s *PrintStmt) Pos() Position { return s.position }

type LetStmt struct {
	Locals   []LetLocal
	Body     []Statement
	position Position
}

func (s *LetStmt) stmtNode()     {}
func (s *LetStmt) Pos() Position { return s.position }

type LetLocal struct {
	Name    string
	Type    Type
	Init    string
	HasInit bool
	Pos     Position
}

// UnknownStmt is a statement form that could not be lowered. Executing it
// raises a SyntaxError.
type UnknownStmt struct {
	Keyword  string
	Message  string
	position Position
}

func (s *UnknownStmt) stmtNode()     {}
func (s *UnknownStmt) Pos() Position { return s.position }

// AtomExpr is a bare token: a variable name, a literal, or me.
type AtomExpr struct {
	Name     string
	position Position
}

func (e *AtomExpr) exprNode()     {}
func (e *AtomExpr) Pos() Position { return e.position }

type BinaryExpr struct {
	Operator string
	Left     Expression
	Right    Expression
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator string
	Operand  Expression
	position Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.position }

type ReceiverKind int

const (
	ReceiverExpr ReceiverKind = iota
	ReceiverMe
	ReceiverSuper
)

type CallExpr struct {
	ReceiverKind ReceiverKind
	Receiver     Expression
	Method       string
	Args         []Expression
	position     Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }

type NewExpr struct {
	Class    string
	position Position
}

func (e *NewExpr) exprNode()     {}
func (e *NewExpr) Pos() Position { return e.position }

// UnknownExpr raises a SyntaxError when evaluated.
type UnknownExpr struct {
	Message  string
	position Position
}

func (e *UnknownExpr) exprNode()     {}
func (e *UnknownExpr) Pos() Position { return e.position }
