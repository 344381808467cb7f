package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	arg "github.com/alexflint/go-arg"
	humanize "github.com/dustin/go-humanize"
	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"jsopt/pkg/driver"
	jserrors "jsopt/pkg/errors"
	"jsopt/pkg/estree"
	"jsopt/pkg/logger"
	"jsopt/pkg/parser"
	"jsopt/pkg/source"
)

// Exit codes follow sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
)

const (
	formatESTree = "estree"
	formatJS     = "js"
	formatDebug  = "debug"
	formatPretty = "pretty"
)

type args struct {
	Inputs   []string `arg:"positional" help:"input files (stdin when empty)"`
	Frontend string   `arg:"--frontend" help:"parser front end: in or goja"`
	Passes   string   `arg:"--passes" help:"comma separated passes to run"`
	Prefix   string   `arg:"--prefix" help:"identifier prefix for hoisted literals"`
	Overhead *int     `arg:"--overhead" help:"fixed byte cost of one hoisted declaration"`
	Format   string   `arg:"-f,--format" default:"estree" help:"output format: estree, js, debug or pretty"`
	Loc      bool     `arg:"--loc" help:"include loc and range in ESTree output"`
	Globals  bool     `arg:"--globals" help:"list implicit globals on stderr"`
	Stats    bool     `arg:"--stats" help:"report hoisting savings on stderr"`
	Output   string   `arg:"-o,--output" help:"output file, or directory when several inputs are given"`
	Workers  int      `arg:"-j,--workers" help:"parallel compiles for several inputs (default: NumCPU)"`
	Verbose  bool     `arg:"-v,--verbose" help:"log progress"`
	Debug    bool     `arg:"--debug" help:"log every pass decision"`
}

func (args) Description() string {
	return "jsopt parses JavaScript, reports implicit globals and hoists repeated literals."
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var a args
	p, err := arg.NewParser(arg.Config{Program: "jsopt"}, &a)
	if err != nil {
		fmt.Fprintf(stderr, "jsopt: %v\n", err)
		return exitSoftware
	}
	if err := p.Parse(argv); err != nil {
		if err == arg.ErrHelp {
			p.WriteHelp(stdout)
			return exitOK
		}
		p.WriteUsage(stderr)
		fmt.Fprintf(stderr, "jsopt: %v\n", err)
		return exitUsage
	}
	switch a.Format {
	case formatESTree, formatJS, formatDebug, formatPretty:
	default:
		fmt.Fprintf(stderr, "jsopt: unknown format %q\n", a.Format)
		return exitUsage
	}

	opts, err := buildOptions(a, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "jsopt: %v\n", err)
		return exitUsage
	}
	compiler, err := driver.NewCompiler(opts)
	if err != nil {
		fmt.Fprintf(stderr, "jsopt: %v\n", err)
		return exitUsage
	}

	switch len(a.Inputs) {
	case 0:
		sf, err := source.ReadStdin(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "jsopt: %v\n", errors.Wrap(err, "reading stdin"))
			return exitSoftware
		}
		res, err := compiler.Compile(sf)
		return finish(a, res, err, a.Output, stdout, stderr)
	case 1:
		res, err := compiler.CompileFile(a.Inputs[0])
		return finish(a, res, err, a.Output, stdout, stderr)
	}
	return runBatch(a, compiler, stdout, stderr)
}

func buildOptions(a args, stderr io.Writer) (driver.Options, error) {
	opts, err := driver.OptionsFromEnv()
	if err != nil {
		return opts, err
	}
	if a.Frontend != "" {
		opts.Frontend = driver.Frontend(a.Frontend)
	}
	if a.Passes != "" {
		opts.Passes = driver.SplitList(a.Passes)
	}
	if a.Prefix != "" {
		opts.LiteralPrefix = a.Prefix
	}
	if a.Overhead != nil {
		opts.SizeOverhead = *a.Overhead
	}

	level := logger.VerboseSilent
	switch {
	case a.Debug:
		level = logger.VerboseVery
	case a.Verbose:
		level = logger.VerboseNormal
	}
	opts.Logger = logger.NewWithWriter(level, stderr)
	return opts, nil
}

// runBatch compiles several inputs in parallel and writes one output per input
// into the -o directory, or to stdout one after another when -o is empty.
func runBatch(a args, compiler *driver.Compiler, stdout, stderr io.Writer) int {
	if a.Output != "" {
		if err := os.MkdirAll(a.Output, 0o755); err != nil {
			fmt.Fprintf(stderr, "jsopt: %v\n", errors.Wrapf(err, "creating %s", a.Output))
			return exitSoftware
		}
	}
	results, stats := compiler.CompileFiles(context.Background(), a.Inputs, a.Workers)

	code := exitOK
	for _, r := range results {
		out := ""
		if a.Output != "" {
			out = filepath.Join(a.Output, outputName(r.Path, a.Format))
		}
		if c := finish(a, r.Result, r.Err, out, stdout, stderr); c > code {
			code = c
		}
	}
	if a.Stats {
		fmt.Fprintf(stderr, "%s files compiled, %s failed on %d workers\n",
			humanize.Comma(stats.Completed), humanize.Comma(stats.Failed), stats.Workers)
	}
	return code
}

func outputName(input, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	switch format {
	case formatESTree:
		return base + ".json"
	case formatJS:
		return base + ".js"
	}
	return base + ".txt"
}

// finish reports a single compile and writes its output to path (stdout when
// empty). It returns the exit code for this input.
func finish(a args, res *driver.Result, err error, path string, stdout, stderr io.Writer) int {
	if err != nil {
		return reportError(err, stderr)
	}
	if a.Globals {
		for _, g := range res.Globals {
			fmt.Fprintf(stderr, "%s:%d:%d: implicit global %s\n",
				res.Source.DisplayPath(), g.Pos.Line, g.Pos.Column, g.Name)
		}
	}
	if a.Stats {
		fmt.Fprintf(stderr, "%s: hoisted %d literals, saved about %s of %s\n",
			res.Source.DisplayPath(), len(res.Hoisted),
			humanize.Bytes(uint64(res.Saved())), humanize.Bytes(uint64(len(res.Source.Content))))
	}

	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(stderr, "jsopt: %v\n", errors.Wrapf(err, "creating %s", path))
			return exitSoftware
		}
		defer f.Close()
		w = f
	}
	if err := render(w, a, res.Program); err != nil {
		fmt.Fprintf(stderr, "jsopt: %v\n", errors.Wrap(err, "writing output"))
		return exitSoftware
	}
	return exitOK
}

func render(w io.Writer, a args, program *parser.Program) error {
	switch a.Format {
	case formatJS:
		_, err := io.WriteString(w, parser.NewJSEmitter().Emit(program))
		return err
	case formatDebug:
		_, err := fmt.Fprintln(w, program.String())
		return err
	case formatPretty:
		_, err := pretty.Fprintf(w, "%# v\n", program)
		return err
	}
	out, err := estree.Encoder{Locations: a.Loc}.MarshalIndent(program, "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

func reportError(err error, stderr io.Writer) int {
	var positioned jserrors.Error
	if errors.As(err, &positioned) {
		content := ""
		if src := positioned.Pos().Source; src != nil {
			content = src.Content
		}
		jserrors.DisplayErrors(stderr, content, []jserrors.Error{positioned})
		return exitDataErr
	}
	fmt.Fprintf(stderr, "jsopt: %v\n", err)
	return exitSoftware
}
