package lexer

import "fmt"

// Token is an immutable lexical atom: a kind, the original source text, an
// optional literal value (a float64 for NUMBER, a string for STRING/CODE),
// and the 1-based line it was scanned from.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
}

// NewToken builds a Token with no literal value attached.
func NewToken(t TokenType, lexeme string, line int) Token {
	return Token{Type: t, Lexeme: lexeme, Line: line}
}

// NewLiteralToken builds a Token carrying a literal value (a NUMBER,
// STRING, or CODE token).
func NewLiteralToken(t TokenType, lexeme string, literal any, line int) Token {
	return Token{Type: t, Lexeme: lexeme, Literal: literal, Line: line}
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %v", t.Type, t.Lexeme, t.Literal)
}
