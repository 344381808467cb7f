// Package driver ties the front end, the walker and the passes into one
// compile pipeline.
package driver

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"jsopt/pkg/gojaconv"
	"jsopt/pkg/parser"
	"jsopt/pkg/passes"
	"jsopt/pkg/scope"
	"jsopt/pkg/source"
	"jsopt/pkg/walker"
)

// Result is the outcome of compiling one source.
type Result struct {
	Source  *source.SourceFile
	Program *parser.Program
	Symbols *scope.SymbolTable
	Globals []passes.Global
	Hoisted []passes.Hoist
	Elapsed time.Duration
}

// Saved sums the estimated bytes saved by hoisting.
func (r *Result) Saved() int {
	total := 0
	for _, h := range r.Hoisted {
		total += h.Saved
	}
	return total
}

// Compiler runs the configured pipeline. It holds no per-compile state, so one
// Compiler may serve several goroutines.
type Compiler struct {
	opts Options
	log  *zap.Logger
}

// NewCompiler validates opts and returns a Compiler for them.
func NewCompiler(opts Options) (*Compiler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{opts: opts, log: log}, nil
}

// Options returns the settings the Compiler was built with.
func (c *Compiler) Options() Options {
	return c.opts
}

// Parse runs the selected front end only. Lexical and syntax errors are
// returned as errors.Error values from jsopt/pkg/errors.
func (c *Compiler) Parse(sf *source.SourceFile) (*parser.Program, error) {
	if c.opts.Frontend == FrontendGoja {
		return gojaconv.Parse(sf)
	}
	return parser.Parse(sf)
}

// Compile parses sf and runs every configured pass over the tree in a single
// walk. A failing pass is logged and the partial result is kept.
func (c *Compiler) Compile(sf *source.SourceFile) (*Result, error) {
	started := time.Now()
	program, err := c.Parse(sf)
	if err != nil {
		return nil, err
	}

	log := c.log.With(zap.String("source", sf.DisplayPath()))
	w := walker.New(log)
	var (
		globals *passes.ImplicitGlobals
		hoister *passes.CachedLiterals
	)
	for _, name := range c.opts.Passes {
		p, err := passes.ByName(name, c.opts.passConfig(log))
		if err != nil {
			return nil, err
		}
		switch p := p.(type) {
		case *passes.ImplicitGlobals:
			globals = p
		case *passes.CachedLiterals:
			hoister = p
		}
		p.Register(w)
	}

	symbols, err := w.Walk(program)
	if err != nil {
		log.Warn("pass failed, keeping partial result", zap.Error(err))
	}

	result := &Result{Source: sf, Program: program, Symbols: symbols}
	if globals != nil {
		result.Globals = globals.Globals()
	}
	if hoister != nil {
		result.Hoisted = hoister.Hoisted()
	}
	result.Elapsed = time.Since(started)
	log.Info("compiled",
		zap.Int("globals", len(result.Globals)),
		zap.Int("hoisted", len(result.Hoisted)),
		zap.Int("saved", result.Saved()),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// CompileString compiles an inline snippet.
func (c *Compiler) CompileString(src string) (*Result, error) {
	return c.Compile(source.NewInlineSource(src))
}

// CompileFile reads, decodes and compiles the file at path.
func (c *Compiler) CompileFile(path string) (*Result, error) {
	sf, err := source.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return c.Compile(sf)
}
