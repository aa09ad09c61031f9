package brewin

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func defineAll(t *testing.T, source string) (*ClassTable, error) {
	t.Helper()
	program, err := ParseProgram(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	table := NewClassTable()
	for _, decl := range program.Classes {
		if _, err := table.Define(decl); err != nil {
			return table, err
		}
	}
	return table, nil
}

func fieldNames(fields []*FieldDecl) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}

func TestClassTableFlattensMembers(t *testing.T) {
	table, err := defineAll(t, `
(class a (field int x 1) (method void f () (return)))
(class b inherits a (field int y 2) (method void g () (return)))
(class c inherits b (field int z 3) (method void f () (return)))
`)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	c, ok := table.Lookup("c")
	if !ok {
		t.Fatalf("class c not registered")
	}
	if diff := cmp.Diff([]string{"z", "y", "x"}, fieldNames(c.AllFields())); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	var methods []string
	for _, m := range c.AllMethods() {
		methods = append(methods, m.Name)
	}
	if diff := cmp.Diff([]string{"f", "g", "f"}, methods); diff != "" {
		t.Fatalf("methods mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestIsAncestorOf(t *testing.T) {
	table, err := defineAll(t, `
(class a)
(class b inherits a)
(class c inherits b)
(class d)
`)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	get := func(name string) *ClassDef {
		def, _ := table.Lookup(name)
		return def
	}
	tests := []struct {
		candidate, other string
		want             bool
	}{
		{"a", "c", true},
		{"b", "c", true},
		{"c", "c", true},
		{"c", "a", false},
		{"d", "c", false},
	}
	for _, tc := range tests {
		if got := IsAncestorOf(get(tc.candidate), get(tc.other)); got != tc.want {
			t.Fatalf("IsAncestorOf(%s, %s) = %v, want %v", tc.candidate, tc.other, got, tc.want)
		}
	}
	if IsAncestorOf(nil, get("a")) {
		t.Fatalf("nil candidate must not be an ancestor")
	}
}

func TestClassTableDefineErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "unknown parent", source: `(class b inherits a)`},
		{name: "parent defined later", source: "(class b inherits a)\n(class a)"},
		{name: "duplicate field", source: `(class a (field int x) (field bool x))`},
		{name: "duplicate method", source: `(class a (method void f () (return)) (method int f () (return 1)))`},
		{name: "duplicate class", source: "(class a)\n(class a)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := defineAll(t, tc.source)
			requireErrorKind(t, err, NameError)
		})
	}
}

func TestResolveMethod(t *testing.T) {
	table, err := defineAll(t, `
(class a (method void f () (return)) (method void g () (return)))
(class b inherits a (method void f () (return)))
`)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	a, _ := table.Lookup("a")
	b, _ := table.Lookup("b")

	owner, _, ok := resolveMethod("f", b, false)
	if !ok || owner != b {
		t.Fatalf("expected b.f, got %v", owner)
	}
	owner, _, ok = resolveMethod("f", b, true)
	if !ok || owner != a {
		t.Fatalf("expected super lookup to find a.f, got %v", owner)
	}
	owner, _, ok = resolveMethod("g", b, false)
	if !ok || owner != a {
		t.Fatalf("expected inherited a.g, got %v", owner)
	}
	if _, _, ok := resolveMethod("f", a, true); ok {
		t.Fatalf("super lookup from a root class must fail")
	}
	if _, _, ok := resolveMethod("missing", b, false); ok {
		t.Fatalf("unexpected resolution of missing method")
	}
}

func TestNewObjectDefaults(t *testing.T) {
	table, err := defineAll(t, `
(class a (field int n) (field bool b) (field string s) (field a other) (field int k -4))
`)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	def, _ := table.Lookup("a")
	obj, err := newObject(def)
	if err != nil {
		t.Fatalf("newObject: %v", err)
	}
	checks := map[string]Value{
		"n": NewInt(0),
		"b": NewBool(false),
		"s": NewString(""),
		"k": NewInt(-4),
	}
	for name, want := range checks {
		got, ok := obj.Field(name)
		if !ok || !got.Equal(want) {
			t.Fatalf("field %s = %v, want %v", name, got, want)
		}
	}
	other, _ := obj.Field("other")
	if other.Kind() != KindClass || !other.IsNull() {
		t.Fatalf("expected null class field, got %v", other)
	}
}

func TestNewObjectInheritedDefaultWins(t *testing.T) {
	table, err := defineAll(t, `
(class a (field int x 1))
(class b inherits a (field int x 2))
`)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	def, _ := table.Lookup("b")
	obj, err := newObject(def)
	if err != nil {
		t.Fatalf("newObject: %v", err)
	}
	if got, _ := obj.Field("x"); got.Int() != 1 {
		t.Fatalf("expected ancestor default 1, got %v", got)
	}
}

func TestNewObjectRejectsBadDefaults(t *testing.T) {
	tests := []struct {
		source string
		want   ErrorKind
	}{
		{source: `(class a (field int x "s"))`, want: TypeError},
		{source: `(class a (field bool x 1))`, want: TypeError},
		{source: `(class a (field int x y))`, want: NameError},
	}
	for _, tc := range tests {
		table, err := defineAll(t, tc.source)
		if err != nil {
			t.Fatalf("define must not validate defaults: %v", err)
		}
		def, _ := table.Lookup("a")
		_, err = newObject(def)
		requireErrorKind(t, err, tc.want)
	}
}

func TestEnvLetSnapshot(t *testing.T) {
	env := newEnv()
	env.Set("x", NewInt(1))
	env.Push()
	env.Set("x", NewInt(2))
	env.Set("y", NewBool(true))
	if got, _ := env.Get("x"); got.Int() != 2 {
		t.Fatalf("expected inner x=2, got %v", got)
	}
	if diff := cmp.Diff([]string{"x", "y"}, env.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	env.Pop()
	if got, _ := env.Get("x"); got.Int() != 1 {
		t.Fatalf("expected outer x=1 after pop, got %v", got)
	}
	if _, ok := env.Get("y"); ok {
		t.Fatalf("y must not survive the pop")
	}
	env.Pop()
	if len(env.frames) != 1 {
		t.Fatalf("base frame must never be popped, depth=%d", len(env.frames))
	}
}
