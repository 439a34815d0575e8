package corpus

import (
	"context"
	"fmt"
)

// Source names where the corpus is read from.
type Source string

// Supported sources.
const (
	SourceBuiltin Source = "builtin"
	SourceYAML    Source = "yaml"
	SourceSQLite  Source = "sqlite"
)

// Valid reports whether s is a supported source.
func (s Source) Valid() bool {
	switch s {
	case SourceBuiltin, SourceYAML, SourceSQLite:
		return true
	default:
		return false
	}
}

// Load reads the corpus from source. path is ignored for the builtin set.
func Load(ctx context.Context, source Source, path string) (*Corpus, error) {
	switch source {
	case "", SourceBuiltin:
		return Builtin(), nil
	case SourceYAML:
		return LoadYAML(path)
	case SourceSQLite:
		return LoadSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("%w: unknown source %q", ErrLoadCorpus, source)
	}
}
