package builder

import (
	"github.com/roach88/minidsl/internal/filters"
	"github.com/roach88/minidsl/internal/ir"
)

// ForEach builds one clause per item with fn, each on a fresh query, and
// commits every non-empty result to q's store.
func ForEach[T any](q *Query, items []T, fn func(q *Query, item T) *Query) *Query {
	for _, item := range items {
		out := fn(q.fresh(), item)
		if out == nil {
			continue
		}
		q.store.AddAll(out.Build().Clauses())
	}
	return q
}

// ForEachCollapsing builds one clause per item with fn, collapses them
// with joiner and appends the result to q's current clause. A nil joiner
// concatenates.
func ForEachCollapsing[T any](q *Query, items []T, joiner *ir.Token, fn func(q *Query, item T) *Query) *Query {
	clauses := make([]*ir.Clause, 0, len(items))
	for _, item := range items {
		out := fn(q.fresh(), item)
		if out == nil {
			continue
		}
		clauses = append(clauses, out.Current())
	}
	collapsed := filters.Collapse(clauses, joiner)
	for _, t := range collapsed.Tokens() {
		q.Add(t)
	}
	return q
}
