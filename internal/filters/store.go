package filters

import (
	"slices"

	"github.com/roach88/minidsl/internal/ir"
	"github.com/roach88/minidsl/internal/parser"
)

// Replacement pairs a token run to find with the run that replaces it.
type Replacement struct {
	Find *ir.Clause
	With *ir.Clause
}

// Store is the ordered set of completed clauses of one query.
//
// A Store is single-owner and not safe for concurrent use.
type Store struct {
	clauses []*ir.Clause
	sorted  []*ir.Clause
	dirty   bool
}

// NewStore creates a store holding the non-empty clauses given.
func NewStore(clauses ...*ir.Clause) *Store {
	s := &Store{}
	s.AddAll(clauses)
	return s
}

// Add appends c. nil or empty clauses are ignored.
func (s *Store) Add(c *ir.Clause) {
	if c.Empty() {
		return
	}
	s.clauses = append(s.clauses, c)
	s.markDirty()
}

// AddAll appends every non-empty clause in cs.
func (s *Store) AddAll(cs []*ir.Clause) {
	for _, c := range cs {
		s.Add(c)
	}
}

// Merge appends the clauses of other.
func (s *Store) Merge(other *Store) {
	if other == nil {
		return
	}
	s.AddAll(other.clauses)
}

// Reset replaces the contents with c. nil or empty c leaves the store as is.
func (s *Store) Reset(c *ir.Clause) {
	if c.Empty() {
		return
	}
	s.clauses = []*ir.Clause{c}
	s.markDirty()
}

// Clear removes every clause.
func (s *Store) Clear() {
	s.clauses = nil
	s.markDirty()
}

// Len returns the number of clauses.
func (s *Store) Len() int {
	return len(s.clauses)
}

// Clauses returns the clauses in insertion order.
func (s *Store) Clauses() []*ir.Clause {
	return slices.Clone(s.clauses)
}

// ReplaceSequences applies Clause.ReplaceSequence for every pair, in order,
// to every stored clause.
func (s *Store) ReplaceSequences(pairs []Replacement) {
	if len(pairs) == 0 {
		return
	}
	for _, p := range pairs {
		for _, c := range s.clauses {
			c.ReplaceSequence(p.Find, p.With)
		}
	}
	s.markDirty()
}

// ReplaceMatching uses each clause of other as a search set and overwrites,
// in every stored clause, the tokens matched by strategy.
func (s *Store) ReplaceMatching(other *Store, strategy ir.Strategy) {
	if other == nil {
		return
	}
	for _, search := range other.clauses {
		tokens := search.Tokens()
		for _, c := range s.clauses {
			c.ReplaceMatching(tokens, strategy)
		}
	}
	s.markDirty()
}

// RemoveExactMatch deletes, from every stored clause, the first run of
// tokens rendering like each search clause. Clauses left empty are dropped.
func (s *Store) RemoveExactMatch(search []*ir.Clause) {
	if len(search) == 0 {
		return
	}
	for _, find := range search {
		for _, c := range s.clauses {
			c.ReplaceSequence(find, nil)
		}
		s.clauses = slices.DeleteFunc(s.clauses, (*ir.Clause).Empty)
	}
	s.markDirty()
}

// RemoveMatching deletes, from every stored clause, the tokens matched by
// strategy against any token of the search clauses. Clauses left empty are
// kept.
func (s *Store) RemoveMatching(search []*ir.Clause, strategy ir.Strategy) {
	if len(search) == 0 {
		return
	}
	for _, find := range search {
		tokens := find.Tokens()
		for _, c := range s.clauses {
			c.RemoveMatching(tokens, strategy)
		}
	}
	s.markDirty()
}

// RemoveFull drops every stored clause that any search clause matches
// under strategy.
func (s *Store) RemoveFull(search []*ir.Clause, strategy ir.Strategy) {
	if len(search) == 0 {
		return
	}
	for _, find := range search {
		tokens := find.Tokens()
		s.clauses = slices.DeleteFunc(s.clauses, func(c *ir.Clause) bool {
			return c.Match(tokens, strategy)
		})
	}
	s.markDirty()
}

// Sorted returns the clauses ordered by canonical string. The view is
// cached until the next mutation.
func (s *Store) Sorted() []*ir.Clause {
	if s.dirty || s.sorted == nil {
		s.sorted = slices.Clone(s.clauses)
		slices.SortStableFunc(s.sorted, (*ir.Clause).Compare)
		s.dirty = false
	}
	return slices.Clone(s.sorted)
}

// Strings returns the canonical strings of the sorted view.
func (s *Store) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, c := range sorted {
		out[i] = c.String()
	}
	return out
}

// Parse replaces the contents with one clause per distinct input.
// Duplicate inputs are parsed once, in first-seen order. Inputs that
// parse to no tokens are dropped. An empty inputs list is a no-op.
func (s *Store) Parse(inputs []string, cfg *parser.Config) {
	if len(inputs) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(inputs))
	clauses := make([]*ir.Clause, 0, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in]; dup {
			continue
		}
		seen[in] = struct{}{}
		if tokens := parser.Parse(in, cfg); len(tokens) > 0 {
			clauses = append(clauses, ir.NewClause(tokens...))
		}
	}
	s.clauses = clauses
	s.markDirty()
}

func (s *Store) markDirty() {
	s.dirty = true
	s.sorted = nil
}
