package lexer

import "fmt"

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string  // The raw text of the token (lexeme)
	Value    string  // Decoded value: string contents, identifier name, regex body
	Num      float64 // Numeric value for NUMBER tokens
	Flags    string  // Regex flags for REGEX tokens
	Line     int     // 1-based line number where the token starts
	Column   int     // 1-based column number where the token starts
	StartPos int     // 0-based byte offset where the token starts
	EndPos   int     // 0-based byte offset after the token ends

	// NewlineBefore is set when a line terminator separates this token from the
	// previous one. The parser uses it for automatic semicolon insertion.
	NewlineBefore bool
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case IDENT:
		return fmt.Sprintf("identifier %q", t.Value)
	case NUMBER, STRING, REGEX:
		return fmt.Sprintf("%s %s", t.Kind(), t.Literal)
	}
	return fmt.Sprintf("'%s'", t.Literal)
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL" // Lexical error, Literal holds the message
	EOF     TokenType = "EOF"
	COMMENT TokenType = "COMMENT"

	// Identifiers + Literals
	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"
	REGEX  TokenType = "REGEX"
	NULL   TokenType = "NULL"
	TRUE   TokenType = "TRUE"
	FALSE  TokenType = "FALSE"

	// Keywords
	BREAK    TokenType = "BREAK"
	CASE     TokenType = "CASE"
	CATCH    TokenType = "CATCH"
	CONST    TokenType = "CONST"
	CONTINUE TokenType = "CONTINUE"
	DEBUGGER TokenType = "DEBUGGER"
	DEFAULT  TokenType = "DEFAULT"
	DO       TokenType = "DO"
	ELSE     TokenType = "ELSE"
	FINALLY  TokenType = "FINALLY"
	FOR      TokenType = "FOR"
	FUNCTION TokenType = "FUNCTION"
	IF       TokenType = "IF"
	RETURN   TokenType = "RETURN"
	SWITCH   TokenType = "SWITCH"
	THIS     TokenType = "THIS"
	THROW    TokenType = "THROW"
	TRY      TokenType = "TRY"
	VAR      TokenType = "VAR"
	WHILE    TokenType = "WHILE"
	WITH     TokenType = "WITH"

	// Keyword operators
	IN         TokenType = "IN"
	INSTANCEOF TokenType = "INSTANCEOF"
	TYPEOF     TokenType = "TYPEOF"
	NEW        TokenType = "NEW"
	VOID       TokenType = "VOID"
	DELETE     TokenType = "DELETE"

	// Operators
	ASSIGN        TokenType = "="
	PLUS          TokenType = "+"
	MINUS         TokenType = "-"
	BANG          TokenType = "!"
	TILDE         TokenType = "~"
	ASTERISK      TokenType = "*"
	SLASH         TokenType = "/"
	PERCENT       TokenType = "%"
	LT            TokenType = "<"
	GT            TokenType = ">"
	LE            TokenType = "<="
	GE            TokenType = ">="
	EQ            TokenType = "=="
	NOT_EQ        TokenType = "!="
	STRICT_EQ     TokenType = "==="
	STRICT_NOT_EQ TokenType = "!=="
	BIT_AND       TokenType = "&"
	BIT_OR        TokenType = "|"
	BIT_XOR       TokenType = "^"
	LSHIFT        TokenType = "<<"
	RSHIFT        TokenType = ">>"
	URSHIFT       TokenType = ">>>"
	LOGICAL_AND   TokenType = "&&"
	LOGICAL_OR    TokenType = "||"
	QUESTION      TokenType = "?"
	INC           TokenType = "++"
	DEC           TokenType = "--"

	// Compound Assignment
	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="
	PERCENT_ASSIGN  TokenType = "%="
	LSHIFT_ASSIGN   TokenType = "<<="
	RSHIFT_ASSIGN   TokenType = ">>="
	URSHIFT_ASSIGN  TokenType = ">>>="
	BIT_AND_ASSIGN  TokenType = "&="
	BIT_OR_ASSIGN   TokenType = "|="
	BIT_XOR_ASSIGN  TokenType = "^="

	// Punctuators
	DOT       TokenType = "."
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
)

var keywords = map[string]TokenType{
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"const":      CONST,
	"continue":   CONTINUE,
	"debugger":   DEBUGGER,
	"default":    DEFAULT,
	"delete":     DELETE,
	"do":         DO,
	"else":       ELSE,
	"finally":    FINALLY,
	"for":        FOR,
	"function":   FUNCTION,
	"if":         IF,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"new":        NEW,
	"return":     RETURN,
	"switch":     SWITCH,
	"this":       THIS,
	"throw":      THROW,
	"try":        TRY,
	"typeof":     TYPEOF,
	"var":        VAR,
	"void":       VOID,
	"while":      WHILE,
	"with":       WITH,
	"null":       NULL,
	"true":       TRUE,
	"false":      FALSE,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// operators lists every operator and punctuator, longest first, for maximal munch.
var operators = []TokenType{
	URSHIFT_ASSIGN,
	STRICT_EQ, STRICT_NOT_EQ, URSHIFT, LSHIFT_ASSIGN, RSHIFT_ASSIGN,
	LE, GE, EQ, NOT_EQ, LSHIFT, RSHIFT, LOGICAL_AND, LOGICAL_OR, INC, DEC,
	PLUS_ASSIGN, MINUS_ASSIGN, ASTERISK_ASSIGN, SLASH_ASSIGN, PERCENT_ASSIGN,
	BIT_AND_ASSIGN, BIT_OR_ASSIGN, BIT_XOR_ASSIGN,
	ASSIGN, PLUS, MINUS, BANG, TILDE, ASTERISK, SLASH, PERCENT, LT, GT,
	BIT_AND, BIT_OR, BIT_XOR, QUESTION,
	DOT, COMMA, SEMICOLON, COLON, LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET,
}

// Kind is the coarse token classification used by consumers that do not care
// about the individual operator.
type Kind int

const (
	KindIllegal Kind = iota
	KindEOF
	KindComment
	KindIdentifier
	KindKeyword
	KindNumber
	KindString
	KindRegex
	KindOperator
	KindPunctuator
	KindNull
	KindBoolean
)

var kindNames = [...]string{
	KindIllegal:    "illegal",
	KindEOF:        "eof",
	KindComment:    "comment",
	KindIdentifier: "identifier",
	KindKeyword:    "keyword",
	KindNumber:     "number",
	KindString:     "string",
	KindRegex:      "regex",
	KindOperator:   "operator",
	KindPunctuator: "punctuator",
	KindNull:       "null",
	KindBoolean:    "boolean",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kind classifies the token.
func (t Token) Kind() Kind {
	switch t.Type {
	case ILLEGAL:
		return KindIllegal
	case EOF:
		return KindEOF
	case COMMENT:
		return KindComment
	case IDENT:
		return KindIdentifier
	case NUMBER:
		return KindNumber
	case STRING:
		return KindString
	case REGEX:
		return KindRegex
	case NULL:
		return KindNull
	case TRUE, FALSE:
		return KindBoolean
	case IN, INSTANCEOF, TYPEOF, NEW, VOID, DELETE:
		return KindOperator
	case DOT, COMMA, SEMICOLON, COLON, LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET:
		return KindPunctuator
	}
	if _, ok := keywords[t.Literal]; ok {
		return KindKeyword
	}
	return KindOperator
}

// IsAssignment reports whether the type is '=' or a compound assignment.
func (tt TokenType) IsAssignment() bool {
	switch tt {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, ASTERISK_ASSIGN, SLASH_ASSIGN, PERCENT_ASSIGN,
		LSHIFT_ASSIGN, RSHIFT_ASSIGN, URSHIFT_ASSIGN, BIT_AND_ASSIGN, BIT_OR_ASSIGN, BIT_XOR_ASSIGN:
		return true
	}
	return false
}
