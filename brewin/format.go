package brewin

import (
	"errors"
	"strings"
)

const (
	formatIndent = "  "
	formatWidth  = 72
)

// Format re-prints source in canonical layout. Lists that fit in the line
// width stay on one line; longer ones keep their leading operands on the
// opening line and put every other child on its own indented line. Comments
// are preserved and always force their enclosing list to break.
func Format(source string) (string, error) {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	forms, err := readForms(source, true)
	if err != nil {
		var be *Error
		if errors.As(err, &be) && be.CodeFrame == "" {
			be.CodeFrame = formatCodeFrame(source, be.Pos)
		}
		return "", err
	}

	var b strings.Builder
	for i, form := range forms {
		if i > 0 {
			b.WriteByte('\n')
			if !forms[i-1].IsComment() {
				b.WriteByte('\n')
			}
		}
		writeFormatted(&b, form, 0)
	}
	if len(forms) > 0 {
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func writeFormatted(b *strings.Builder, form *Form, depth int) {
	if !form.IsList() {
		b.WriteString(form.Atom)
		return
	}
	flat := form.String()
	if !containsComment(form) && depth*len(formatIndent)+len(flat) <= formatWidth {
		b.WriteString(flat)
		return
	}

	prefix := formatPrefixLen(form)
	b.WriteByte('(')
	for i, item := range form.Items[:prefix] {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeFormatted(b, item, depth+1)
	}
	rest := form.Items[prefix:]
	indent := strings.Repeat(formatIndent, depth+1)
	for _, item := range rest {
		b.WriteByte('\n')
		b.WriteString(indent)
		writeFormatted(b, item, depth+1)
	}
	if len(rest) > 0 && rest[len(rest)-1].IsComment() {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(formatIndent, depth))
	}
	b.WriteByte(')')
}

// formatPrefixLen is the number of leading children kept on the opening line
// of a broken list.
func formatPrefixLen(form *Form) int {
	want := 0
	switch form.Head() {
	case keywordClass:
		want = 2
		if len(form.Items) > 3 && form.Items[2].IsAtom(keywordInherits) {
			want = 4
		}
	case keywordMethod:
		want = 4
	case keywordIf, keywordWhile, keywordLet:
		want = 2
	case keywordSet:
		want = 2
	default:
		for want < len(form.Items) && form.Items[want].IsAtom() {
			want++
		}
	}
	if want == 0 {
		want = 1
	}
	n := 0
	for n < want && n < len(form.Items) && !form.Items[n].IsComment() && !containsComment(form.Items[n]) {
		n++
	}
	return n
}

func containsComment(form *Form) bool {
	if form.IsComment() {
		return true
	}
	for _, item := range form.Items {
		if containsComment(item) {
			return true
		}
	}
	return false
}
