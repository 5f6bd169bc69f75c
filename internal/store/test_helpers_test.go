package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/minidsl/internal/filters"
	"github.com/roach88/minidsl/internal/ir"
	"github.com/roach88/minidsl/internal/parser"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestFilters parses each expression into its own clause.
func createTestFilters(exprs ...string) *filters.Store {
	fs := filters.NewStore()
	for _, e := range exprs {
		fs.Add(ir.NewClause(parser.Parse(e, nil)...))
	}
	return fs
}
