package driver

import (
	"bufio"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsopt/pkg/source"
)

// Expectation is what a script under testdata/scripts declares about itself.
type Expectation struct {
	Globals      []string // nil when the script does not say
	CheckGlobals bool
	Hoisted      int // -1 when the script does not say
	CompileError string
}

var expectRegex = regexp.MustCompile(`^//\s*(expect_globals|expect_hoisted|expect_compile_error):\s*(.*)$`)

// parseExpectation reads the leading comment lines of a script, e.g.
//
//	// expect_globals: a, b
//	// expect_hoisted: 2
//	// expect_compile_error: message
func parseExpectation(content string) (Expectation, error) {
	exp := Expectation{Hoisted: -1}
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		matches := expectRegex.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if matches == nil {
			continue
		}
		value := strings.TrimSpace(matches[2])
		switch matches[1] {
		case "expect_globals":
			exp.CheckGlobals = true
			exp.Globals = SplitList(value)
		case "expect_hoisted":
			n, err := strconv.Atoi(value)
			if err != nil {
				return exp, err
			}
			exp.Hoisted = n
		case "expect_compile_error":
			exp.CompileError = value
		}
	}
	return exp, scanner.Err()
}

func TestScripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scripts", "*.js"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	sort.Strings(paths)

	for _, frontend := range []Frontend{FrontendInHouse, FrontendGoja} {
		c := newTestCompiler(t, func(o *Options) { o.Frontend = frontend })
		for _, path := range paths {
			path := path
			t.Run(string(frontend)+"/"+filepath.Base(path), func(t *testing.T) {
				sf, err := source.ReadFile(path)
				require.NoError(t, err)
				exp, err := parseExpectation(sf.Content)
				require.NoError(t, err)

				res, err := c.Compile(sf)
				if exp.CompileError != "" {
					if frontend == FrontendGoja {
						// goja words its messages differently; only the kind is stable.
						require.Error(t, err)
						assert.Contains(t, err.Error(), "Syntax Error")
						return
					}
					require.Error(t, err)
					assert.Contains(t, err.Error(), exp.CompileError)
					return
				}
				require.NoError(t, err)

				if exp.CheckGlobals {
					var names []string
					for _, g := range res.Globals {
						names = append(names, g.Name)
					}
					assert.Equal(t, exp.Globals, names)
				}
				if exp.Hoisted >= 0 {
					assert.Len(t, res.Hoisted, exp.Hoisted)
				}
			})
		}
	}
}
