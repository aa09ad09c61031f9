package brewin

import (
	"errors"
	"strings"
)

// Form is one node of the line-annotated S-expression tree: an atom, a
// parenthesized list, or (only when comments are kept) a comment.
type Form struct {
	Pos   Position
	Atom  string
	Items []*Form

	list    bool
	comment bool
}

func (f *Form) IsList() bool    { return f.list }
func (f *Form) IsComment() bool { return f.comment }

// IsAtom reports whether f is an atom, optionally equal to one of names.
func (f *Form) IsAtom(names ...string) bool {
	if f == nil || f.list || f.comment {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if f.Atom == name {
			return true
		}
	}
	return false
}

// Head returns the leading atom of a list form, or "" when there is none.
func (f *Form) Head() string {
	if !f.list || len(f.Items) == 0 || !f.Items[0].IsAtom() {
		return ""
	}
	return f.Items[0].Atom
}

// String renders f on a single line.
func (f *Form) String() string {
	var b strings.Builder
	f.writeTo(&b)
	return b.String()
}

func (f *Form) writeTo(b *strings.Builder) {
	switch {
	case f.comment:
		b.WriteString(f.Atom)
	case f.list:
		b.WriteByte('(')
		written := 0
		for _, item := range f.Items {
			if item.comment {
				continue
			}
			if written > 0 {
				b.WriteByte(' ')
			}
			item.writeTo(b)
			written++
		}
		b.WriteByte(')')
	default:
		b.WriteString(f.Atom)
	}
}

type formReader struct {
	tokens []Token
	pos    int
}

// ReadForms parses source into its top-level S-expression forms.
func ReadForms(source string) ([]*Form, error) {
	return readForms(source, false)
}

func readForms(source string, keepComments bool) ([]*Form, error) {
	tokens, err := tokenize(source, keepComments)
	if err != nil {
		return nil, err
	}
	r := &formReader{tokens: tokens}
	var forms []*Form
	for r.peek().Type != tokenEOF {
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func (r *formReader) peek() Token {
	return r.tokens[r.pos]
}

func (r *formReader) next() Token {
	tok := r.tokens[r.pos]
	if tok.Type != tokenEOF {
		r.pos++
	}
	return tok
}

func (r *formReader) readForm() (*Form, error) {
	tok := r.next()
	switch tok.Type {
	case tokenLParen:
		list := &Form{Pos: tok.Pos, list: true}
		for {
			switch r.peek().Type {
			case tokenEOF:
				return nil, newError(SyntaxError, tok.Pos, "unclosed parenthesis")
			case tokenRParen:
				r.next()
				return list, nil
			}
			item, err := r.readForm()
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
	case tokenRParen:
		return nil, newError(SyntaxError, tok.Pos, "unexpected closing parenthesis")
	case tokenComment:
		return &Form{Pos: tok.Pos, Atom: tok.Literal, comment: true}, nil
	default:
		return &Form{Pos: tok.Pos, Atom: tok.Literal}, nil
	}
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
