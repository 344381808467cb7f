// Package passes holds the optimization passes that ride on the shared walk.
package passes

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"jsopt/pkg/walker"
)

// Pass subscribes its handlers to a walker. Passes never call each other; they
// only share the tree and the symbol table.
type Pass interface {
	Name() string
	Register(w *walker.Walker)
}

// Config carries the settings shared by the pass constructors.
type Config struct {
	LiteralPrefix string // Identifier prefix for hoisted literals
	LiteralTag    string // Per-run tag between prefix and counter; random when empty
	SizeOverhead  int    // Fixed byte cost of one hoisted declaration
	Logger        *zap.Logger
}

const (
	DefaultLiteralPrefix = "__const_literal_$"
	DefaultSizeOverhead  = 2
)

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		LiteralPrefix: DefaultLiteralPrefix,
		SizeOverhead:  DefaultSizeOverhead,
	}
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

var constructors = map[string]func(Config) Pass{
	ImplicitGlobalsName: func(c Config) Pass { return NewImplicitGlobals(c.logger()) },
	CachedLiteralsName:  func(c Config) Pass { return NewCachedLiterals(c) },
}

// Names lists the known passes in the order they run by default.
func Names() []string {
	return []string{ImplicitGlobalsName, CachedLiteralsName}
}

// ByName builds a pass from its registered name.
func ByName(name string, c Config) (Pass, error) {
	ctor, ok := constructors[name]
	if !ok {
		known := make([]string, 0, len(constructors))
		for n := range constructors {
			known = append(known, n)
		}
		sort.Strings(known)
		return nil, errors.Errorf("unknown pass %q (known: %v)", name, known)
	}
	return ctor(c), nil
}
