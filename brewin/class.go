package brewin

import "sort"

// ClassDef is the static schema of one class: its own members plus a link to
// its parent. No child links are kept.
type ClassDef struct {
	Name    string
	Parent  *ClassDef
	Fields  []*FieldDecl
	Methods []*MethodDecl
	Pos     Position

	methods map[string]*MethodDecl
}

// OwnMethod looks name up among the methods declared by c itself.
func (c *ClassDef) OwnMethod(name string) (*MethodDecl, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// AllFields returns c's own fields followed by every ancestor's, nearest first.
func (c *ClassDef) AllFields() []*FieldDecl {
	var fields []*FieldDecl
	for cls := c; cls != nil; cls = cls.Parent {
		fields = append(fields, cls.Fields...)
	}
	return fields
}

// AllMethods returns c's own methods followed by every ancestor's, nearest first.
func (c *ClassDef) AllMethods() []*MethodDecl {
	var methods []*MethodDecl
	for cls := c; cls != nil; cls = cls.Parent {
		methods = append(methods, cls.Methods...)
	}
	return methods
}

// IsAncestorOf reports whether candidate is other or one of other's ancestors.
func IsAncestorOf(candidate, other *ClassDef) bool {
	if candidate == nil {
		return false
	}
	for cls := other; cls != nil; cls = cls.Parent {
		if cls == candidate {
			return true
		}
	}
	return false
}

// ClassLookup is the read-only view of the class registry used while a
// program runs.
type ClassLookup interface {
	Lookup(name string) (*ClassDef, bool)
}

type ClassTable struct {
	classes map[string]*ClassDef
	order   []*ClassDef
}

func NewClassTable() *ClassTable {
	return &ClassTable{classes: make(map[string]*ClassDef)}
}

// Define registers decl. Its parent must already be registered, and its own
// fields and methods must have distinct names.
func (t *ClassTable) Define(decl *ClassDecl) (*ClassDef, error) {
	if _, exists := t.classes[decl.Name]; exists {
		return nil, newError(NameError, decl.Pos(), "duplicate class %s", decl.Name)
	}
	def := &ClassDef{
		Name:    decl.Name,
		Fields:  decl.Fields,
		Methods: decl.Methods,
		Pos:     decl.Pos(),
		methods: make(map[string]*MethodDecl, len(decl.Methods)),
	}
	if decl.Parent != "" {
		parent, ok := t.classes[decl.Parent]
		if !ok {
			return nil, newError(NameError, decl.Pos(), "unknown parent class %s for %s", decl.Parent, decl.Name)
		}
		def.Parent = parent
	}

	seenFields := make(map[string]struct{}, len(decl.Fields))
	for _, field := range decl.Fields {
		if _, dup := seenFields[field.Name]; dup {
			return nil, newError(NameError, field.Pos(), "duplicate field %s in class %s", field.Name, decl.Name)
		}
		seenFields[field.Name] = struct{}{}
	}
	for _, method := range decl.Methods {
		if _, dup := def.methods[method.Name]; dup {
			return nil, newError(NameError, method.Pos(), "duplicate method %s in class %s", method.Name, decl.Name)
		}
		def.methods[method.Name] = method
	}

	t.classes[def.Name] = def
	t.order = append(t.order, def)
	return def, nil
}

func (t *ClassTable) Lookup(name string) (*ClassDef, bool) {
	def, ok := t.classes[name]
	return def, ok
}

// Classes returns the registered classes in definition order.
func (t *ClassTable) Classes() []*ClassDef {
	return append([]*ClassDef(nil), t.order...)
}

// Names returns the registered class names sorted alphabetically.
func (t *ClassTable) Names() []string {
	names := make([]string, 0, len(t.classes))
	for name := range t.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveMethod walks up from start (or from start's parent for a super
// call) and returns the first class whose own methods declare name.
func resolveMethod(name string, start *ClassDef, callingSuper bool) (*ClassDef, *MethodDecl, bool) {
	cls := start
	if callingSuper {
		cls = start.Parent
	}
	for ; cls != nil; cls = cls.Parent {
		if method, ok := cls.OwnMethod(name); ok {
			return cls, method, true
		}
	}
	return nil, nil, false
}
