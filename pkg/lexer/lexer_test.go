package lexer

import (
	"math"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `var five = 5;
var ten = 10.5;

var add = function(x, y) {
  return x + y;
};

!*-5 % 2;
a >>>= b <<= c;
if (a !== b) { x = null } else { y = true }
"foobar"
'foo bar'
// This is a comment
typeof void delete a in b;
this.x instanceof C;`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{VAR, "var", 1},
		{IDENT, "five", 1},
		{ASSIGN, "=", 1},
		{NUMBER, "5", 1},
		{SEMICOLON, ";", 1},
		{VAR, "var", 2},
		{IDENT, "ten", 2},
		{ASSIGN, "=", 2},
		{NUMBER, "10.5", 2},
		{SEMICOLON, ";", 2},
		{VAR, "var", 4},
		{IDENT, "add", 4},
		{ASSIGN, "=", 4},
		{FUNCTION, "function", 4},
		{LPAREN, "(", 4},
		{IDENT, "x", 4},
		{COMMA, ",", 4},
		{IDENT, "y", 4},
		{RPAREN, ")", 4},
		{LBRACE, "{", 4},
		{RETURN, "return", 5},
		{IDENT, "x", 5},
		{PLUS, "+", 5},
		{IDENT, "y", 5},
		{SEMICOLON, ";", 5},
		{RBRACE, "}", 6},
		{SEMICOLON, ";", 6},
		{BANG, "!", 8},
		{ASTERISK, "*", 8},
		{MINUS, "-", 8},
		{NUMBER, "5", 8},
		{PERCENT, "%", 8},
		{NUMBER, "2", 8},
		{SEMICOLON, ";", 8},
		{IDENT, "a", 9},
		{URSHIFT_ASSIGN, ">>>=", 9},
		{IDENT, "b", 9},
		{LSHIFT_ASSIGN, "<<=", 9},
		{IDENT, "c", 9},
		{SEMICOLON, ";", 9},
		{IF, "if", 10},
		{LPAREN, "(", 10},
		{IDENT, "a", 10},
		{STRICT_NOT_EQ, "!==", 10},
		{IDENT, "b", 10},
		{RPAREN, ")", 10},
		{LBRACE, "{", 10},
		{IDENT, "x", 10},
		{ASSIGN, "=", 10},
		{NULL, "null", 10},
		{RBRACE, "}", 10},
		{ELSE, "else", 10},
		{LBRACE, "{", 10},
		{IDENT, "y", 10},
		{ASSIGN, "=", 10},
		{TRUE, "true", 10},
		{RBRACE, "}", 10},
		{STRING, `"foobar"`, 11},
		{STRING, `'foo bar'`, 12},
		{COMMENT, "// This is a comment", 13},
		{TYPEOF, "typeof", 14},
		{VOID, "void", 14},
		{DELETE, "delete", 14},
		{IDENT, "a", 14},
		{IN, "in", 14},
		{IDENT, "b", 14},
		{SEMICOLON, ";", 14},
		{THIS, "this", 15},
		{DOT, ".", 15},
		{IDENT, "x", 15},
		{INSTANCEOF, "instanceof", 15},
		{IDENT, "C", 15},
		{SEMICOLON, ";", 15},
		{EOF, "", 15},
	}

	l := NewLexer(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}

		if tok.Line != tt.expectedLine {
			t.Fatalf("tests[%d] - line wrong for %q. expected=%d, got=%d",
				i, tok.Literal, tt.expectedLine, tok.Line)
		}
	}
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		input    string
		expected []Kind
	}{
		{"var x = 1;", []Kind{KindKeyword, KindIdentifier, KindOperator, KindNumber, KindPunctuator, KindEOF}},
		{"typeof x", []Kind{KindOperator, KindIdentifier, KindEOF}},
		{"null true false", []Kind{KindNull, KindBoolean, KindBoolean, KindEOF}},
		{"/* c */ 'a'", []Kind{KindComment, KindString, KindEOF}},
		{"x = /re/g", []Kind{KindIdentifier, KindOperator, KindRegex, KindEOF}},
	}

	for i, tt := range tests {
		toks, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if len(toks) != len(tt.expected) {
			t.Fatalf("tests[%d] - token count wrong. expected=%d, got=%d", i, len(tt.expected), len(toks))
		}
		for j, tok := range toks {
			if tok.Kind() != tt.expected[j] {
				t.Errorf("tests[%d][%d] - kind wrong for %q. expected=%s, got=%s",
					i, j, tok.Literal, tt.expected[j], tok.Kind())
			}
		}
	}
}

func TestKeywordAfterDot(t *testing.T) {
	toks, err := Tokenize("a.if.null.var")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []TokenType{IDENT, DOT, IDENT, DOT, IDENT, DOT, IDENT, EOF}
	for i, tok := range toks {
		if tok.Type != expected[i] {
			t.Fatalf("tokens[%d] - type wrong. expected=%q, got=%q", i, expected[i], tok.Type)
		}
	}
	if toks[2].Value != "if" || toks[4].Value != "null" {
		t.Fatalf("member names not preserved: %q %q", toks[2].Value, toks[4].Value)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.25", 3.25},
		{".5", 0.5},
		{"1e3", 1000},
		{"2.5E-1", 0.25},
		{"1e+2", 100},
		{"0x1F", 31},
		{"0XfF", 255},
		{"0755", 493},
		{"089", 89},
		{"5.", 5},
	}

	for i, tt := range tests {
		l := NewLexer(tt.input)
		tok := l.NextToken()
		if tok.Type != NUMBER {
			t.Fatalf("tests[%d] - %q: expected NUMBER, got %q (%s)", i, tt.input, tok.Type, tok.Literal)
		}
		if math.Abs(tok.Num-tt.expected) > 1e-12 {
			t.Errorf("tests[%d] - %q: value wrong. expected=%v, got=%v", i, tt.input, tt.expected, tok.Num)
		}
		if tok.Literal != tt.input {
			t.Errorf("tests[%d] - %q: literal wrong, got=%q", i, tt.input, tok.Literal)
		}
	}
}

func TestDotWithoutDigit(t *testing.T) {
	toks, err := Tokenize("a.b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[1].Type != DOT {
		t.Fatalf("expected DOT, got %q", toks[1].Type)
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"plain"`, "plain"},
		{`'a\nb'`, "a\nb"},
		{`"\t\r\b\f\v"`, "\t\r\b\f\v"},
		{`"\x41B"`, "AB"},
		{`"\0"`, "\x00"},
		{`"\101"`, "A"},
		{`"\q\"\'\\"`, `q"'\`},
		{"\"line\\\ncontinued\"", "linecontinued"},
		{`"😀"`, "\U0001F600"},
		{`"héllo"`, "héllo"},
	}

	for i, tt := range tests {
		l := NewLexer(tt.input)
		tok := l.NextToken()
		if tok.Type != STRING {
			t.Fatalf("tests[%d] - expected STRING, got %q (%s)", i, tok.Type, tok.Literal)
		}
		if tok.Value != tt.expected {
			t.Errorf("tests[%d] - value wrong. expected=%q, got=%q", i, tt.expected, tok.Value)
		}
		if tok.Literal != tt.input {
			t.Errorf("tests[%d] - raw wrong. expected=%q, got=%q", i, tt.input, tok.Literal)
		}
	}
}

func TestIdentifierEscapes(t *testing.T) {
	l := NewLexer(`abc $_x1 café \u0061b`)
	expected := []string{"abc", "$_x1", "café", "ab"}
	for i, name := range expected {
		tok := l.NextToken()
		if tok.Type != IDENT || tok.Value != name {
			t.Fatalf("tokens[%d] - expected IDENT %q, got %q %q", i, name, tok.Type, tok.Value)
		}
	}
}

func TestNewlineBefore(t *testing.T) {
	l := NewLexer("a\nb /* x\n */ c // d\ne")
	expected := []struct {
		literal string
		newline bool
	}{
		{"a", false},
		{"b", true},
		{"c", true},
		{"e", true},
	}
	for i, tt := range expected {
		tok := l.NextToken()
		for tok.Type == COMMENT {
			tok = l.NextToken()
		}
		if tok.Literal != tt.literal || tok.NewlineBefore != tt.newline {
			t.Fatalf("tokens[%d] - expected %q newline=%v, got %q newline=%v",
				i, tt.literal, tt.newline, tok.Literal, tok.NewlineBefore)
		}
		if l.HasLineTerminatorBefore() != tt.newline {
			t.Fatalf("tokens[%d] - HasLineTerminatorBefore disagrees", i)
		}
	}
}

func TestColumnsAndOffsets(t *testing.T) {
	l := NewLexer("var x;\r\n  y")
	var toks []Token
	for tok := l.NextToken(); tok.Type != EOF; tok = l.NextToken() {
		toks = append(toks, tok)
	}
	y := toks[len(toks)-1]
	if y.Line != 2 || y.Column != 3 || y.StartPos != 10 || y.EndPos != 11 {
		t.Fatalf("position wrong: line=%d col=%d start=%d end=%d", y.Line, y.Column, y.StartPos, y.EndPos)
	}
	x := toks[1]
	if x.Line != 1 || x.Column != 5 {
		t.Fatalf("x position wrong: %d:%d", x.Line, x.Column)
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		input  string
		line   int
		column int
	}{
		{`"abc`, 1, 1},
		{"'ab\ncd'", 1, 1},
		{"x = 1;\n  #", 2, 3},
		{"/* never closed", 1, 1},
		{`"\xZZ"`, 1, 1},
		{"1e", 1, 1},
	}

	for i, tt := range tests {
		_, err := Tokenize(tt.input)
		if err == nil {
			t.Fatalf("tests[%d] - %q: expected error", i, tt.input)
		}
		l := NewLexer(tt.input)
		for tok := l.NextToken(); tok.Type != ILLEGAL; tok = l.NextToken() {
			if tok.Type == EOF {
				t.Fatalf("tests[%d] - reached EOF without error", i)
			}
		}
		lexErr := l.Err()
		if lexErr.Line != tt.line || lexErr.Column != tt.column {
			t.Errorf("tests[%d] - %q: position wrong. expected=%d:%d, got=%d:%d (%s)",
				i, tt.input, tt.line, tt.column, lexErr.Line, lexErr.Column, lexErr.Msg)
		}
		if again := l.NextToken(); again.Type != ILLEGAL {
			t.Errorf("tests[%d] - lexer resumed after a fatal error", i)
		}
	}
}
