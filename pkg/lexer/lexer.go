package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"jsopt/pkg/errors"
	"jsopt/pkg/source"
)

// Lexer holds the state of the scanner.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char's byte offset)
	readPosition int  // current reading position in input (byte offset after current char)
	ch           byte // current char under examination
	line         int  // current 1-based line number
	column       int  // current 1-based column number (position of l.position on l.line)
	lineBreak    bool // l.ch terminates a line; the next readChar starts a new one

	// prev is the last non-comment token; it drives regex and member-name disambiguation.
	prev    Token
	hasPrev bool

	// newline records a line terminator since the last non-comment token.
	newline bool

	src *source.SourceFile
	err *errors.LexicalError
}

// NewLexer creates a new Lexer.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// NewLexerFromSource creates a Lexer whose errors point back at sf.
func NewLexerFromSource(sf *source.SourceFile) *Lexer {
	l := NewLexer(sf.Content)
	l.src = sf
	return l
}

// Source returns the file being scanned, or nil for plain string input.
func (l *Lexer) Source() *source.SourceFile {
	return l.src
}

// Err returns the fatal lexical error, if one occurred.
func (l *Lexer) Err() *errors.LexicalError {
	return l.err
}

// HasLineTerminatorBefore reports whether the most recently returned token was
// preceded by a line terminator.
func (l *Lexer) HasLineTerminatorBefore() bool {
	return l.hasPrev && l.prev.NewlineBefore
}

// Tokenize scans the whole input, comments included, up to and including EOF.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			return toks, l.err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

// readChar gives us the next character and advances our position in the input string.
// It also updates the line and column count.
func (l *Lexer) readChar() {
	if l.lineBreak {
		l.line++
		l.column = 0
		l.lineBreak = false
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++

	switch {
	case l.ch == '\n':
		l.lineBreak = true
	case l.ch == '\r' && l.peekChar() != '\n':
		l.lineBreak = true
	case (l.ch == 0xA8 || l.ch == 0xA9) && l.position >= 2 && l.input[l.position-2] == 0xE2 && l.input[l.position-1] == 0x80:
		// Last byte of U+2028 or U+2029.
		l.lineBreak = true
	}
}

// peekChar looks ahead in the input without consuming the character.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// lineSeparatorAt reports whether U+2028 or U+2029 begins at l.position.
func (l *Lexer) lineSeparatorAt() bool {
	if l.position+3 > len(l.input) {
		return false
	}
	rest := l.input[l.position:]
	return strings.HasPrefix(rest, "\u2028") || strings.HasPrefix(rest, "\u2029")
}

// currentRune decodes the (possibly multi-byte) character at l.position.
func (l *Lexer) currentRune() (rune, int) {
	if l.ch < utf8.RuneSelf {
		return rune(l.ch), 1
	}
	return utf8.DecodeRuneInString(l.input[l.position:])
}

func (l *Lexer) skipBytes(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

// skipWhitespace consumes whitespace and line terminators, reporting whether a
// line terminator was among them.
func (l *Lexer) skipWhitespace() bool {
	sawNewline := false
	for !l.atEOF() {
		switch l.ch {
		case ' ', '\t', '\v', '\f':
			l.readChar()
			continue
		case '\n', '\r':
			sawNewline = true
			l.readChar()
			continue
		}
		if l.ch < utf8.RuneSelf {
			return sawNewline
		}
		if l.lineSeparatorAt() {
			sawNewline = true
			l.skipBytes(3)
			continue
		}
		r, size := l.currentRune()
		if r == 0xFEFF || unicode.Is(unicode.Zs, r) {
			l.skipBytes(size)
			continue
		}
		return sawNewline
	}
	return sawNewline
}

type mark struct {
	line, column, pos int
}

func (l *Lexer) mark() mark {
	return mark{line: l.line, column: l.column, pos: l.position}
}

func (l *Lexer) token(tt TokenType, m mark) Token {
	end := l.position
	if end > len(l.input) {
		end = len(l.input)
	}
	return Token{
		Type:     tt,
		Literal:  l.input[m.pos:end],
		Line:     m.line,
		Column:   m.column,
		StartPos: m.pos,
		EndPos:   end,
	}
}

// fail records a fatal lexical error and returns the ILLEGAL token reporting it.
func (l *Lexer) fail(m mark, cause error, format string, args ...interface{}) Token {
	msg := fmt.Sprintf(format, args...)
	end := l.position
	if end > len(l.input) {
		end = len(l.input)
	}
	if end <= m.pos {
		end = m.pos + 1
	}
	l.err = &errors.LexicalError{
		Position: errors.Position{Line: m.line, Column: m.column, StartPos: m.pos, EndPos: end, Source: l.src},
		Msg:      msg,
		Cause:    cause,
	}
	return Token{Type: ILLEGAL, Literal: msg, Line: m.line, Column: m.column, StartPos: m.pos, EndPos: end}
}

// NextToken scans the input and returns the next token. After a lexical error
// every call returns the same ILLEGAL token.
func (l *Lexer) NextToken() Token {
	if l.err != nil {
		return Token{Type: ILLEGAL, Literal: l.err.Msg, Line: l.err.Line, Column: l.err.Column,
			StartPos: l.err.StartPos, EndPos: l.err.EndPos}
	}

	if l.skipWhitespace() {
		l.newline = true
	}

	m := l.mark()
	var tok Token

	switch {
	case l.atEOF():
		tok = l.token(EOF, m)
	case l.ch == '"' || l.ch == '\'':
		tok = l.readString(m)
	case l.ch == '.' && isDigit(l.peekChar()):
		tok = l.readNumber(m)
	case isDigit(l.ch):
		tok = l.readNumber(m)
	case l.ch == '/' && l.peekChar() == '/':
		tok = l.readLineComment(m)
	case l.ch == '/' && l.peekChar() == '*':
		tok = l.readBlockComment(m)
	case l.ch == '/' && l.regexAllowed():
		tok = l.readRegex(m)
	case isIdentifierStart(l.ch) || l.ch == '\\':
		tok = l.readIdentifier(m)
	case l.ch >= utf8.RuneSelf:
		if r, _ := l.currentRune(); unicode.IsLetter(r) {
			tok = l.readIdentifier(m)
		} else {
			tok = l.fail(m, nil, "unrecognized character %q", r)
		}
	default:
		tok = l.readOperator(m)
	}

	if tok.Type == COMMENT || tok.Type == ILLEGAL {
		return tok
	}
	tok.NewlineBefore = l.newline
	l.newline = false
	l.prev = tok
	l.hasPrev = true
	return tok
}

// regexAllowed decides whether a '/' opens a regular expression literal, using
// the previous significant token.
func (l *Lexer) regexAllowed() bool {
	if !l.hasPrev {
		return true
	}
	switch l.prev.Type {
	case RETURN, NEW, DELETE, THROW, ELSE, CASE:
		return true
	case INC, DEC:
		return false
	case RPAREN, RBRACKET, RBRACE:
		return false
	}
	switch l.prev.Kind() {
	case KindOperator, KindPunctuator:
		return true
	}
	return false
}

func (l *Lexer) readOperator(m mark) Token {
	rest := l.input[l.position:]
	for _, op := range operators {
		if strings.HasPrefix(rest, string(op)) {
			l.skipBytes(len(op))
			return l.token(op, m)
		}
	}
	return l.fail(m, nil, "unrecognized character %q", l.ch)
}

func (l *Lexer) readLineComment(m mark) Token {
	for !l.atEOF() && l.ch != '\n' && l.ch != '\r' && !l.lineSeparatorAt() {
		l.readChar()
	}
	tok := l.token(COMMENT, m)
	tok.Value = tok.Literal[2:]
	return tok
}

func (l *Lexer) readBlockComment(m mark) Token {
	l.skipBytes(2) // "/*"
	for {
		if l.atEOF() {
			return l.fail(m, nil, "unterminated multiline comment")
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.skipBytes(2)
			break
		}
		if l.ch == '\n' || l.ch == '\r' || l.lineSeparatorAt() {
			l.newline = true
		}
		l.readChar()
	}
	tok := l.token(COMMENT, m)
	tok.Value = tok.Literal[2 : len(tok.Literal)-2]
	return tok
}

// readIdentifier scans an identifier name, decoding inline \uHHHH escapes, and
// classifies it as keyword, literal keyword or identifier.
func (l *Lexer) readIdentifier(m mark) Token {
	var name strings.Builder
	escaped := false
	for !l.atEOF() {
		if l.ch == '\\' {
			escMark := l.mark()
			if l.peekChar() != 'u' {
				return l.fail(escMark, nil, "invalid escape in identifier")
			}
			l.skipBytes(2)
			r, ok := l.readHex(4)
			if !ok {
				return l.fail(escMark, nil, "invalid unicode escape in identifier")
			}
			name.WriteRune(r)
			escaped = true
			continue
		}
		if l.ch < utf8.RuneSelf {
			if !isIdentifierPart(l.ch) {
				break
			}
			name.WriteByte(l.ch)
			l.readChar()
			continue
		}
		r, size := l.currentRune()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) && !unicode.Is(unicode.Mc, r) {
			break
		}
		name.WriteRune(r)
		l.skipBytes(size)
	}

	value := name.String()
	tt := IDENT
	if !(l.hasPrev && l.prev.Type == DOT) && !escaped {
		tt = LookupIdent(value)
	}
	tok := l.token(tt, m)
	tok.Value = value
	return tok
}

// readHex consumes exactly n hex digits and returns their value.
func (l *Lexer) readHex(n int) (rune, bool) {
	if l.position+n > len(l.input) {
		return 0, false
	}
	digits := l.input[l.position : l.position+n]
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, false
	}
	l.skipBytes(n)
	return rune(v), true
}

// readNumber scans hex, legacy octal and decimal literals.
func (l *Lexer) readNumber(m mark) Token {
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.skipBytes(2)
		start := l.position
		for isHexDigit(l.ch) {
			l.readChar()
		}
		digits := l.input[start:l.position]
		v, err := strconv.ParseUint(digits, 16, 64)
		if digits == "" || err != nil {
			return l.fail(m, err, "invalid hexadecimal literal")
		}
		return l.numberToken(m, float64(v))
	}

	for isDigit(l.ch) {
		l.readChar()
	}
	intPart := l.input[m.pos:l.position]
	if len(intPart) > 1 && intPart[0] == '0' && allOctal(intPart) {
		v, err := strconv.ParseUint(intPart[1:], 8, 64)
		if err != nil {
			return l.fail(m, err, "invalid octal literal")
		}
		return l.numberToken(m, float64(v))
	}

	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			return l.fail(m, nil, "missing exponent in numeric literal")
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if isIdentifierStart(l.ch) {
		return l.fail(m, nil, "identifier starts immediately after numeric literal")
	}

	v, err := strconv.ParseFloat(l.input[m.pos:l.position], 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return l.fail(m, err, "invalid numeric literal")
		}
	}
	return l.numberToken(m, v)
}

func (l *Lexer) numberToken(m mark, v float64) Token {
	tok := l.token(NUMBER, m)
	tok.Num = v
	tok.Value = tok.Literal
	return tok
}

// readString scans a quoted string and decodes its escape sequences.
func (l *Lexer) readString(m mark) Token {
	quote := l.ch
	l.readChar()
	var out strings.Builder
	for {
		if l.atEOF() {
			return l.fail(m, nil, "unterminated string literal")
		}
		switch {
		case l.ch == quote:
			l.readChar()
			tok := l.token(STRING, m)
			tok.Value = out.String()
			return tok
		case l.ch == '\n' || l.ch == '\r' || l.lineSeparatorAt():
			return l.fail(m, nil, "unterminated string literal")
		case l.ch == '\\':
			if bad := l.readEscape(&out); bad != "" {
				return l.fail(m, nil, "%s", bad)
			}
		default:
			out.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readEscape decodes one escape sequence starting at the backslash. It returns a
// non-empty message when the sequence is malformed.
func (l *Lexer) readEscape(out *strings.Builder) string {
	l.readChar() // '\\'
	if l.atEOF() {
		return "unterminated string literal"
	}
	if l.lineSeparatorAt() {
		l.skipBytes(3)
		return ""
	}
	ch := l.ch
	switch ch {
	case '\n':
		l.readChar()
		return ""
	case '\r':
		l.readChar()
		if l.ch == '\n' {
			l.readChar()
		}
		return ""
	case 'n':
		out.WriteByte('\n')
	case 't':
		out.WriteByte('\t')
	case 'r':
		out.WriteByte('\r')
	case 'b':
		out.WriteByte('\b')
	case 'f':
		out.WriteByte('\f')
	case 'v':
		out.WriteByte('\v')
	case 'x':
		l.readChar()
		r, ok := l.readHex(2)
		if !ok {
			return "invalid hexadecimal escape sequence"
		}
		out.WriteRune(r)
		return ""
	case 'u':
		l.readChar()
		r, ok := l.readHex(4)
		if !ok {
			return "invalid unicode escape sequence"
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(l.input[l.position:], "\\u") {
			save := *l
			l.skipBytes(2)
			if lo, ok := l.readHex(4); ok && utf16.DecodeRune(r, lo) != unicode.ReplacementChar {
				out.WriteRune(utf16.DecodeRune(r, lo))
				return ""
			}
			*l = save
		}
		out.WriteRune(r)
		return ""
	default:
		if isOctalDigit(ch) {
			start := l.position
			limit := 3
			if ch > '3' {
				limit = 2
			}
			for l.position-start < limit && isOctalDigit(l.ch) {
				l.readChar()
			}
			v, _ := strconv.ParseUint(l.input[start:l.position], 8, 32)
			out.WriteRune(rune(v))
			return ""
		}
		r, size := l.currentRune()
		out.WriteRune(r)
		l.skipBytes(size)
		return ""
	}
	l.readChar()
	return ""
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isIdentifierStart(ch byte) bool {
	return isLetter(ch) || ch == '_' || ch == '$'
}

func isIdentifierPart(ch byte) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isOctalDigit(ch byte) bool {
	return '0' <= ch && ch <= '7'
}

func allOctal(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isOctalDigit(s[i]) {
			return false
		}
	}
	return true
}
