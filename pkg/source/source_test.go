package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"plain", []byte("var a = 1;"), "var a = 1;"},
		{"utf8 bom", []byte("\xef\xbb\xbfvar a;"), "var a;"},
		{"utf16le bom", []byte{0xff, 0xfe, 'x', 0, ';', 0}, "x;"},
		{"utf16be bom", []byte{0xfe, 0xff, 0, 'x', 0, ';'}, "x;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReadStdin(t *testing.T) {
	sf, err := ReadStdin(strings.NewReader("\xef\xbb\xbfa = 1"))
	require.NoError(t, err)
	assert.Equal(t, "a = 1", sf.Content)
	assert.Equal(t, "<stdin>", sf.DisplayPath())
	assert.Empty(t, sf.Path)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.js")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 'x', 0}, 0o644))

	sf, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", sf.Content)
	assert.Equal(t, "app.js", sf.Name)
	assert.Equal(t, path, sf.DisplayPath())
}

func TestLines(t *testing.T) {
	sf := NewSourceFile("app.js", "/tmp/app.js", "a;\r\nb;\nc;")
	assert.Equal(t, 3, sf.LineCount())
	assert.Equal(t, "a;", sf.Line(1))
	assert.Equal(t, "b;", sf.Line(2))
	assert.Equal(t, "c;", sf.Line(3))
	assert.Equal(t, "", sf.Line(0))
	assert.Equal(t, "", sf.Line(4))

	assert.Equal(t, 1, NewInlineSource("").LineCount())
	assert.Equal(t, 2, NewInlineSource("x\n").LineCount())
}
