package filters

import (
	"slices"

	"github.com/roach88/minidsl/internal/ir"
)

// Collapse merges clauses into one clause.
//
// Clauses are taken in canonical order. When joiner is non-nil, every
// clause but the last that does not already end with "and" or "or" is
// followed by a copy of joiner. A nil joiner concatenates.
//
// The input slice and clauses are not modified; the result holds copies of
// their tokens. nil and empty clauses are skipped.
func Collapse(clauses []*ir.Clause, joiner *ir.Token) *ir.Clause {
	sorted := make([]*ir.Clause, 0, len(clauses))
	for _, c := range clauses {
		if !c.Empty() {
			sorted = append(sorted, c)
		}
	}
	slices.SortStableFunc(sorted, (*ir.Clause).Compare)

	out := ir.NewClause()
	for i, c := range sorted {
		out.AddAll(c)
		last := i == len(sorted)-1
		if joiner != nil && !last && !c.EndsWithAnyOf(ir.And(), ir.Or()) {
			out.Add(joiner.Clone())
		}
	}
	return out
}

// CollapseAnd collapses clauses joined by "and".
func CollapseAnd(clauses []*ir.Clause) *ir.Clause {
	return Collapse(clauses, ir.And())
}

// CollapseOr collapses clauses joined by "or".
func CollapseOr(clauses []*ir.Clause) *ir.Clause {
	return Collapse(clauses, ir.Or())
}

// Collapse replaces the contents with the collapse of the current clauses.
// Fewer than two clauses is a no-op.
func (s *Store) Collapse(joiner *ir.Token) {
	if len(s.clauses) < 2 {
		return
	}
	s.Reset(Collapse(s.clauses, joiner))
}
