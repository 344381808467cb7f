package errors

import (
	"fmt"
	"io"
	"strings"
)

// Error is the interface implemented by all positioned front-end errors.
type Error interface {
	error
	Pos() Position
	Kind() string // "Lexical" or "Syntax"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
}

// LexicalError is raised by the tokenizer and aborts the compile.
type LexicalError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any (e.g. a regex compile failure)
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("Lexical Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *LexicalError) Pos() Position   { return e.Position }
func (e *LexicalError) Kind() string    { return "Lexical" }
func (e *LexicalError) Message() string { return e.Msg }
func (e *LexicalError) Unwrap() error   { return e.Cause }
func (e *LexicalError) CausedBy(cause error) *LexicalError {
	e.Cause = cause
	return e
}

// SyntaxError is raised by the parser on the first unexpected token.
type SyntaxError struct {
	Position
	Msg      string
	Expected string // What the grammar wanted, may be empty
	Actual   string // The token actually found
	Cause    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// NewUnexpected builds the standard "expected X, got Y" syntax error.
func NewUnexpected(pos Position, expected, actual string) *SyntaxError {
	msg := fmt.Sprintf("unexpected %s", actual)
	if expected != "" {
		msg = fmt.Sprintf("expected %s, got %s", expected, actual)
	}
	return &SyntaxError{Position: pos, Msg: msg, Expected: expected, Actual: actual}
}

// --- Error Reporting ---

// DisplayErrors writes errors to w in a user-friendly format, including the
// offending source line and a position marker.
func DisplayErrors(w io.Writer, source string, errs []Error) {
	if len(errs) == 0 {
		return
	}

	lines := strings.Split(source, "\n")

	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		name := ""
		if pos.Source != nil {
			name = pos.Source.DisplayPath() + ": "
		}

		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			fmt.Fprintf(w, "%s%s Error: %s\n", name, kind, msg)
			continue
		}

		trimmedLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")

		fmt.Fprintf(w, "%s%s Error at %d:%d: %s\n", name, kind, pos.Line, pos.Column, msg)
		fmt.Fprintf(w, "  %s\n", trimmedLine)

		col := pos.Column - 1
		if col < 0 {
			col = 0
		}
		marker := strings.Repeat(" ", col) + "^"
		if span := pos.EndPos - pos.StartPos; span > 1 && col+span <= len(trimmedLine) {
			marker += strings.Repeat("~", span-1)
		}
		fmt.Fprintf(w, "  %s\n", marker)
		fmt.Fprintln(w)
	}
}
