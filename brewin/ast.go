package brewin

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Program is the lowered form of a source file: its class declarations in
// source order.
type Program struct {
	Classes []*ClassDecl
}

type ClassDecl struct {
	Name     string
	Parent   string
	Fields   []*FieldDecl
	Methods  []*MethodDecl
	position Position
}

func (d *ClassDecl) Pos() Position { return d.position }

// FieldDecl keeps the default as literal source text; it is parsed afresh for
// every instance.
type FieldDecl struct {
	Name       string
	Type       Type
	Default    string
	HasDefault bool
	position   Position
}

func (d *FieldDecl) Pos() Position { return d.position }

type MethodDecl struct {
	Name       string
	ReturnType Type
	Params     []Param
	Body       Statement
	position   Position
}

func (d *MethodDecl) Pos() Position { return d.position }

type Param struct {
	Name string
	Type Type
}
