package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // scan, width, cell, ...
	NUMBER = "NUMBER" // 1343456
	STRING = "STRING" // "foobar"

	// Operators
	ASSIGN = "="
	HASH   = "#" // comment-block reference

	// Delimiters
	COMMA = ","

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// Keywords
	LET      = "LET"
	FUNCTION = "FUNCTION"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	IF       = "IF"
	WHILE    = "WHILE"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src byte index of the token
}

var keywords = map[string]TokenType{
	// constants
	"true":  TRUE,
	"false": FALSE,

	// declarations
	"let":  LET,
	"defn": FUNCTION,

	// flow control
	"if":    IF,
	"while": WHILE,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
