// Package source loads JavaScript input and keeps the text the lexer and the
// error display work from.
package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	stdinName  = "<stdin>"
	inlineName = "<inline>"
)

// SourceFile is one unit of input. Content is always UTF-8 without a byte
// order mark.
type SourceFile struct {
	Name    string // base name, or <stdin> / <inline>
	Path    string // empty unless read from disk
	Content string

	lineStarts []int
}

func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{Name: name, Path: path, Content: content}
}

// NewInlineSource wraps a snippet that did not come from a file.
func NewInlineSource(content string) *SourceFile {
	return NewSourceFile(inlineName, "", content)
}

// ReadFile loads and decodes a file from disk.
func ReadFile(path string) (*SourceFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return NewSourceFile(filepath.Base(path), path, content), nil
}

// ReadStdin drains r and decodes it.
func ReadStdin(r io.Reader) (*SourceFile, error) {
	content, err := io.ReadAll(transform.NewReader(r, newDecoder()))
	if err != nil {
		return nil, err
	}
	return NewSourceFile(stdinName, "", string(content)), nil
}

// Decode converts raw input bytes into source text. A UTF-8 or UTF-16 byte order
// mark selects the encoding and is stripped; input without one is taken as UTF-8.
func Decode(raw []byte) (string, error) {
	out, _, err := transform.Bytes(newDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func newDecoder() transform.Transformer {
	return unicode.BOMOverride(unicode.UTF8.NewDecoder())
}

// DisplayPath is the name used in diagnostics.
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// LineCount reports how many lines the content has. Empty content has one.
func (sf *SourceFile) LineCount() int {
	return len(sf.starts())
}

// Line returns the 1-based line n without its terminator, or "" when n is out
// of range.
func (sf *SourceFile) Line(n int) string {
	starts := sf.starts()
	if n < 1 || n > len(starts) {
		return ""
	}
	end := len(sf.Content)
	if n < len(starts) {
		end = starts[n] - 1
	}
	return strings.TrimSuffix(sf.Content[starts[n-1]:end], "\r")
}

func (sf *SourceFile) starts() []int {
	if sf.lineStarts == nil {
		sf.lineStarts = []int{0}
		for i := 0; i < len(sf.Content); i++ {
			if sf.Content[i] == '\n' {
				sf.lineStarts = append(sf.lineStarts, i+1)
			}
		}
	}
	return sf.lineStarts
}
