package brewin

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune

	keepComments bool
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) atEOF() bool {
	return l.width == 0 && l.offset >= len(l.input)
}

// NextToken returns the next token or a SyntaxError for malformed input.
func (l *lexer) NextToken() (Token, error) {
	l.skipSpaceAndComments()

	pos := Position{Line: l.line, Column: l.column}
	if l.atEOF() {
		return Token{Type: tokenEOF, Pos: pos}, nil
	}

	switch l.ch {
	case '(':
		l.readRune()
		return Token{Type: tokenLParen, Literal: "(", Pos: pos}, nil
	case ')':
		l.readRune()
		return Token{Type: tokenRParen, Literal: ")", Pos: pos}, nil
	case '"':
		return l.readString(pos)
	case '#':
		return Token{Type: tokenComment, Literal: l.readComment(), Pos: pos}, nil
	default:
		return Token{Type: tokenAtom, Literal: l.readAtom(), Pos: pos}, nil
	}
}

func (l *lexer) skipSpaceAndComments() {
	for !l.atEOF() {
		switch {
		case unicode.IsSpace(l.ch):
			l.readRune()
		case l.ch == '#' && !l.keepComments:
			l.readComment()
		default:
			return
		}
	}
}

func (l *lexer) readComment() string {
	start := l.offset - l.width
	for !l.atEOF() && l.ch != '\n' {
		l.readRune()
	}
	return strings.TrimRight(l.input[start:l.offset-l.width], "\r")
}

func (l *lexer) readString(pos Position) (Token, error) {
	var b strings.Builder
	b.WriteRune('"')
	l.readRune()
	for {
		if l.atEOF() || l.ch == '\n' {
			return Token{}, newError(SyntaxError, pos, "unterminated string literal")
		}
		if l.ch == '"' {
			b.WriteRune('"')
			l.readRune()
			return Token{Type: tokenString, Literal: b.String(), Pos: pos}, nil
		}
		b.WriteRune(l.ch)
		l.readRune()
	}
}

func (l *lexer) readAtom() string {
	start := l.offset - l.width
	for !l.atEOF() && isAtomRune(l.ch) {
		l.readRune()
	}
	return l.input[start : l.offset-l.width]
}

func isAtomRune(r rune) bool {
	return !unicode.IsSpace(r) && r != '(' && r != ')' && r != '"' && r != '#'
}

// tokenize lexes the whole input. Comments are returned as tokens only when
// keepComments is set.
func tokenize(input string, keepComments bool) ([]Token, error) {
	l := newLexer(input)
	l.keepComments = keepComments
	tokens := make([]Token, 0, len(input)/4)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens, nil
		}
	}
}
