package driver

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"
	"go.uber.org/zap"

	"jsopt/pkg/passes"
)

// Frontend selects the parser that produces the tree.
type Frontend string

const (
	FrontendInHouse Frontend = "in"
	FrontendGoja    Frontend = "goja"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvFrontend      = "JSOPT_FRONTEND"
	EnvPasses        = "JSOPT_PASSES"
	EnvLiteralPrefix = "JSOPT_LITERAL_PREFIX"
	EnvSizeOverhead  = "JSOPT_SIZE_OVERHEAD"
)

// Options configures a Compiler.
type Options struct {
	Frontend      Frontend
	Passes        []string // Pass names in subscription order
	LiteralPrefix string
	LiteralTag    string // Fixed tag for hoisted names; random when empty
	SizeOverhead  int
	Logger        *zap.Logger
}

// DefaultOptions runs every pass over the in-house parser's output.
func DefaultOptions() Options {
	return Options{
		Frontend:      FrontendInHouse,
		Passes:        passes.Names(),
		LiteralPrefix: passes.DefaultLiteralPrefix,
		SizeOverhead:  passes.DefaultSizeOverhead,
	}
}

// OptionsFromEnv overlays the JSOPT_* environment variables on the defaults.
func OptionsFromEnv() (Options, error) {
	opts := DefaultOptions()
	opts.Frontend = Frontend(env.Str(EnvFrontend, string(opts.Frontend)))
	if env.Has(EnvPasses) {
		opts.Passes = SplitList(env.Str(EnvPasses))
	}
	opts.LiteralPrefix = env.Str(EnvLiteralPrefix, opts.LiteralPrefix)
	opts.SizeOverhead = env.Int(EnvSizeOverhead, opts.SizeOverhead)
	if err := opts.Validate(); err != nil {
		return opts, errors.Wrap(err, "environment")
	}
	return opts, nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first setting no Compiler could run with.
func (o Options) Validate() error {
	switch o.Frontend {
	case FrontendInHouse, FrontendGoja:
	default:
		return errors.Errorf("unknown frontend %q (want %q or %q)", o.Frontend, FrontendInHouse, FrontendGoja)
	}
	for _, name := range o.Passes {
		if _, err := passes.ByName(name, passes.DefaultConfig()); err != nil {
			return err
		}
	}
	if o.SizeOverhead < 0 {
		return errors.Errorf("size overhead must not be negative, got %d", o.SizeOverhead)
	}
	return nil
}

func (o Options) passConfig(log *zap.Logger) passes.Config {
	return passes.Config{
		LiteralPrefix: o.LiteralPrefix,
		LiteralTag:    o.LiteralTag,
		SizeOverhead:  o.SizeOverhead,
		Logger:        log,
	}
}
