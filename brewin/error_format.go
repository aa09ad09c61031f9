package brewin

import (
	"fmt"
	"strings"
)

// codeFrameContext is how many lines before the error line are shown.
const codeFrameContext = 1

// formatCodeFrame renders the source around pos with the offending atom
// underlined. For a list position the underline covers the head atom, so
// "(print ...)" marks "(print".
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	first := max(1, pos.Line-codeFrameContext)
	width := len(fmt.Sprint(pos.Line))

	var b strings.Builder
	fmt.Fprintf(&b, "  --> line %d, column %d", pos.Line, max(1, pos.Column))
	for n := first; n <= pos.Line; n++ {
		fmt.Fprintf(&b, "\n %*d | %s", width, n, strings.TrimRight(lines[n-1], "\r"))
	}

	runes := []rune(strings.TrimRight(lines[pos.Line-1], "\r"))
	column := min(max(1, pos.Column), len(runes)+1)
	fmt.Fprintf(&b, "\n %s | %s", strings.Repeat(" ", width), caretLine(runes, column-1))
	return b.String()
}

// caretLine pads to the rune at offset, keeping tabs so the caret lines up
// with the echoed source, then underlines the atom starting there.
func caretLine(runes []rune, offset int) string {
	var b strings.Builder
	for _, r := range runes[:offset] {
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')

	end := offset + 1
	if offset < len(runes) && runes[offset] == '(' {
		for end < len(runes) && isSpaceRune(runes[end]) {
			end++
		}
	}
	for end < len(runes) && !isSpaceRune(runes[end]) && runes[end] != '(' && runes[end] != ')' {
		end++
	}
	if end > offset+1 {
		b.WriteString(strings.Repeat("~", end-offset-1))
	}
	return b.String()
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
