package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, argv ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(argv, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const hoistable = `var a = "hello"; var b = "hello"; var c = "hello";`

func TestDebugFormatFromStdin(t *testing.T) {
	code, out, _ := runCLI(t, hoistable, "-f", "debug", "--prefix", "K")
	require.Equal(t, exitOK, code)
	assert.Equal(t, 1, strings.Count(out, `"hello"`))
	assert.True(t, strings.HasPrefix(out, "var K"), out)
}

func TestESTreeIsDefault(t *testing.T) {
	code, out, _ := runCLI(t, "x;")
	require.Equal(t, exitOK, code)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Program", decoded["type"])
	assert.NotContains(t, out, `"loc"`)

	_, out, _ = runCLI(t, "x;", "--loc")
	assert.Contains(t, out, `"loc"`)
}

func TestJSFormat(t *testing.T) {
	code, out, _ := runCLI(t, "if (a) b(); else c();", "-f", "js", "--passes", "implicit-globals")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "if (a)\n  b();\nelse\n  c();\n", out)
}

func TestPrettyFormat(t *testing.T) {
	code, out, _ := runCLI(t, "x;", "-f", "pretty")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "parser.Program")
}

func TestGlobalsAndStats(t *testing.T) {
	code, _, errOut := runCLI(t, `function f() { leaked = "abcdef"; g("abcdef", "abcdef"); }`, "--globals", "--stats")
	require.Equal(t, exitOK, code)
	assert.Contains(t, errOut, "<stdin>:1:16: implicit global leaked")
	assert.Contains(t, errOut, "hoisted 1 literals")
}

func TestSyntaxErrorExitCode(t *testing.T) {
	code, out, errOut := runCLI(t, "var x = ;")
	assert.Equal(t, exitDataErr, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Syntax Error at 1:9")
	assert.Contains(t, errOut, "^")
}

func TestUsageErrors(t *testing.T) {
	tests := [][]string{
		{"-f", "xml"},
		{"--frontend", "acorn"},
		{"--passes", "nope"},
		{"--no-such-flag"},
	}
	for _, argv := range tests {
		t.Run(strings.Join(argv, " "), func(t *testing.T) {
			code, _, _ := runCLI(t, "x;", argv...)
			assert.Equal(t, exitUsage, code)
		})
	}
}

func TestHelp(t *testing.T) {
	code, out, _ := runCLI(t, "", "--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "--format")
}

func TestMissingFile(t *testing.T) {
	code, _, errOut := runCLI(t, "", filepath.Join(t.TempDir(), "nope.js"))
	assert.Equal(t, exitSoftware, code)
	assert.Contains(t, errOut, "reading ")
}

func TestSeveralInputsIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.js")
	b := filepath.Join(dir, "b.js")
	require.NoError(t, os.WriteFile(a, []byte(hoistable), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("y = 2;"), 0o644))
	outDir := filepath.Join(dir, "out")

	code, _, errOut := runCLI(t, "", "-f", "js", "-o", outDir, "-j", "2", "--stats", a, b)
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, errOut, "2 files compiled, 0 failed on 2 workers")

	got, err := os.ReadFile(filepath.Join(outDir, "b.js"))
	require.NoError(t, err)
	assert.Equal(t, "y = 2;\n", string(got))

	got, err = os.ReadFile(filepath.Join(outDir, "a.js"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(got), `"hello"`))
}

func TestBatchReportsWorstExitCode(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.js")
	bad := filepath.Join(dir, "bad.js")
	require.NoError(t, os.WriteFile(good, []byte("x;"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("var = ;"), 0o644))

	code, _, errOut := runCLI(t, "", "-f", "debug", good, bad)
	assert.Equal(t, exitDataErr, code)
	assert.Contains(t, errOut, "bad.js")
}
