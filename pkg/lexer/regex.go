package lexer

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// readRegex scans a regular expression literal body and its flags. Group and
// class nesting are tracked so that an unbalanced pattern fails here rather than
// at runtime.
func (l *Lexer) readRegex(m mark) Token {
	l.readChar() // opening '/'
	bodyStart := l.position
	depth := 0
	inClass := false

scan:
	for {
		if l.atEOF() || l.ch == '\n' || l.ch == '\r' || l.lineSeparatorAt() {
			return l.fail(m, nil, "unterminated regular expression literal")
		}
		switch l.ch {
		case '\\':
			l.readChar()
			if l.atEOF() || l.ch == '\n' || l.ch == '\r' {
				return l.fail(m, nil, "unterminated regular expression literal")
			}
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '(':
			if !inClass {
				depth++
			}
		case ')':
			if !inClass {
				depth--
				if depth < 0 {
					return l.fail(m, nil, "unmatched ')' in regular expression")
				}
			}
		case '/':
			if !inClass {
				break scan
			}
		}
		l.readChar()
	}

	body := l.input[bodyStart:l.position]
	if inClass {
		return l.fail(m, nil, "unterminated character class in regular expression")
	}
	if depth > 0 {
		return l.fail(m, nil, "unterminated group in regular expression")
	}
	l.readChar() // closing '/'

	flagStart := l.position
	for isIdentifierPart(l.ch) {
		l.readChar()
	}
	flags := l.input[flagStart:l.position]
	if !validFlags(flags) {
		return l.fail(m, nil, "invalid regular expression flags %q", flags)
	}

	if err := validatePattern(body, flags); err != nil {
		return l.fail(m, err, "invalid regular expression: %v", err)
	}

	tok := l.token(REGEX, m)
	tok.Value = body
	tok.Flags = flags
	return tok
}

// validFlags accepts each of g, i, m, u, y at most once.
func validFlags(flags string) bool {
	for i := 0; i < len(flags); i++ {
		if !strings.ContainsRune("gimuy", rune(flags[i])) || strings.IndexByte(flags[i+1:], flags[i]) >= 0 {
			return false
		}
	}
	return true
}

// validatePattern compiles the body with ECMAScript semantics. Unicode-mode
// patterns use syntax regexp2 does not model, so they are only checked for
// balance by the scanner.
func validatePattern(body, flags string) error {
	if strings.ContainsRune(flags, 'u') {
		return nil
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if strings.ContainsRune(flags, 'i') {
		opts |= regexp2.IgnoreCase
	}
	if strings.ContainsRune(flags, 'm') {
		opts |= regexp2.Multiline
	}
	_, err := regexp2.Compile(body, opts)
	return err
}
