package brewin

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenEOF     TokenType = "EOF"
	tokenLParen  TokenType = "("
	tokenRParen  TokenType = ")"
	tokenAtom    TokenType = "ATOM"
	tokenString  TokenType = "STRING"
	tokenComment TokenType = "COMMENT"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a line and column in the source file.
type Position struct {
	Line   int
	Column int
}

const (
	keywordClass    = "class"
	keywordInherits = "inherits"
	keywordField    = "field"
	keywordMethod   = "method"

	keywordBegin   = "begin"
	keywordSet     = "set"
	keywordIf      = "if"
	keywordCall    = "call"
	keywordWhile   = "while"
	keywordReturn  = "return"
	keywordInputS  = "inputs"
	keywordInputI  = "inputi"
	keywordPrint   = "print"
	keywordLet     = "let"
	keywordNew     = "new"
	keywordMe      = "me"
	keywordSuper   = "super"
	keywordTrue    = "true"
	keywordFalse   = "false"
	keywordNull    = "null"
	keywordNothing = "nothing"

	typeInt    = "int"
	typeBool   = "bool"
	typeString = "string"
	typeVoid   = "void"
)

// Keywords lists the reserved words of the language in sorted order.
func Keywords() []string {
	return []string{
		keywordBegin, typeBool, keywordCall, keywordClass, keywordFalse, keywordField,
		keywordIf, keywordInherits, keywordInputI, keywordInputS, typeInt, keywordLet,
		keywordMe, keywordMethod, keywordNew, keywordNothing, keywordNull, keywordPrint,
		keywordReturn, keywordSet, typeString, keywordSuper, keywordTrue, typeVoid, keywordWhile,
	}
}
