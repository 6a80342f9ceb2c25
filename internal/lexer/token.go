// Package lexer turns Joy source text into a token stream: a single-pass
// scan tracking (line, column), skipping whitespace and `#` comments.
//
// Grounded on _examples/original_source/src/lexer.cpp — there is no Go
// analog in the teacher (octosql embeds github.com/xwb1989/sqlparser
// instead of hand-rolling a scanner), so this is a direct, idiomatic-Go
// translation of the original state machine rather than an adaptation of
// teacher code.
package lexer

import "fmt"

// Kind is the tag of a Token.
type Kind int

const (
	// Keywords
	FROM Kind = iota
	FILTER
	SELECT
	WRITE
	NOT
	TRANSFORM

	// Literals / identifiers
	IDENT
	NUMBER
	STRING

	// Operators and punctuation
	PLUS
	MINUS
	STAR
	SLASH
	EQUALEQUAL
	BANGEQUAL
	LESS
	GREATER
	LESSEQUAL
	GREATEREQUAL
	ASSIGN
	QUESTION
	COLON
	COMMA
	LPAREN
	RPAREN

	EOF
	ERROR
)

var kindNames = map[Kind]string{
	FROM: "FROM", FILTER: "FILTER", SELECT: "SELECT", WRITE: "WRITE", NOT: "NOT",
	TRANSFORM: "TRANSFORM", IDENT: "IDENT", NUMBER: "NUMBER", STRING: "STRING",
	PLUS: "PLUS", MINUS: "MINUS", STAR: "STAR", SLASH: "SLASH",
	EQUALEQUAL: "EQUAL_EQUAL", BANGEQUAL: "BANG_EQUAL", LESS: "LESS", GREATER: "GREATER",
	LESSEQUAL: "LESS_EQUAL", GREATEREQUAL: "GREATER_EQUAL", ASSIGN: "ASSIGN",
	QUESTION: "QUESTION", COLON: "COLON", COMMA: "COMMA", LPAREN: "LPAREN", RPAREN: "RPAREN",
	EOF: "EOF", ERROR: "ERROR",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexeme plus its source position and, for NUMBER, the
// parsed numeric value.
type Token struct {
	Kind     Kind
	Lexeme   string
	Line     int
	Column   int
	IsDouble bool
	IntVal   int64
	FloatVal float64
}

var keywords = map[string]Kind{
	"from":      FROM,
	"filter":    FILTER,
	"select":    SELECT,
	"write":     WRITE,
	"not":       NOT,
	"transform": TRANSFORM,
}
