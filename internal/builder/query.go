package builder

import (
	"fmt"

	"github.com/roach88/minidsl/internal/domain"
	"github.com/roach88/minidsl/internal/filters"
	"github.com/roach88/minidsl/internal/ir"
	"github.com/roach88/minidsl/internal/parser"
)

// Collapser merges completed clauses into one. *Query and *filters.Store
// implement it.
type Collapser interface {
	Collapse(joiner *ir.Token)
}

var (
	_ TokenAdder = (*Query)(nil)
	_ TokenAdder = (*ir.Clause)(nil)
	_ Collapser  = (*filters.Store)(nil)
	_ Collapser  = (*Query)(nil)
)

// Step is one stage of a query chain, used by Replace, Modify and the
// Remove methods to describe search and change sets.
type Step func(q *Query) *Query

// QueryOption configures a Query.
type QueryOption func(*Query)

// WithRegistry sets the config registry used by Parse.
// Default: parser.DefaultRegistry.
func WithRegistry(reg *parser.Registry) QueryOption {
	return func(q *Query) {
		q.registry = reg
	}
}

// Query is a filter query under construction.
//
// Tokens go into the current clause until Other commits it to the store.
// A Query is single-owner and not safe for concurrent use.
type Query struct {
	domain   *domain.Domain
	registry *parser.Registry
	current  *ir.Clause
	store    *filters.Store
}

// New creates an empty query for d. d may be nil for an unchecked query.
func New(d *domain.Domain, opts ...QueryOption) *Query {
	q := &Query{
		domain:   d,
		registry: parser.DefaultRegistry,
		store:    filters.NewStore(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Domain returns the query's domain, possibly nil.
func (q *Query) Domain() *domain.Domain {
	return q.domain
}

// Add appends t to the current clause.
func (q *Query) Add(t *ir.Token) {
	if q.current == nil {
		q.current = ir.NewClause()
	}
	q.current.Add(t)
}

// Field starts an operation on field.
func (q *Query) Field(field string) FieldOps[*Query] {
	return Field(q, q.domain, field)
}

// And appends "and".
func (q *Query) And() *Query { q.Add(ir.And()); return q }

// Or appends "or".
func (q *Query) Or() *Query { q.Add(ir.Or()); return q }

// Open appends "(".
func (q *Query) Open() *Query { q.Add(ir.Open()); return q }

// Close appends ")".
func (q *Query) Close() *Query { q.Add(ir.Close()); return q }

// Any appends alias as an operator-only token.
func (q *Query) Any(alias string) *Query { q.Add(ir.NewOp(alias)); return q }

// Other commits the current clause to the store and starts a new one.
// An empty current clause is dropped.
func (q *Query) Other() *Query {
	q.store.Add(q.current)
	q.current = nil
	return q
}

// Current returns the clause under construction, or an empty clause.
func (q *Query) Current() *ir.Clause {
	if q.current == nil {
		return ir.NewClause()
	}
	return q.current
}

// Build commits the current clause and returns the store.
func (q *Query) Build() *filters.Store {
	q.Other()
	return q.store
}

// Strings commits the current clause and returns the store's sorted
// canonical strings.
func (q *Query) Strings() []string {
	return q.Build().Strings()
}

// Collapse commits the current clause and merges the completed clauses
// into one, joined by joiner. Fewer than two clauses is a no-op.
func (q *Query) Collapse(joiner *ir.Token) {
	q.Build().Collapse(joiner)
}

// CollapseAnd collapses the completed clauses joined by "and".
func (q *Query) CollapseAnd() *Query { q.Collapse(ir.And()); return q }

// CollapseOr collapses the completed clauses joined by "or".
func (q *Query) CollapseOr() *Query { q.Collapse(ir.Or()); return q }

// CollapsePlain collapses the completed clauses without boundaries.
func (q *Query) CollapsePlain() *Query { q.Collapse(nil); return q }

// Replace builds a find set and a change set with fresh queries and
// replaces, in every stored clause, the token run of each find clause
// with the change clause at the same index. Sets of different sizes, or
// an empty find set, are a no-op.
func (q *Query) Replace(find, change Step) *Query {
	finds := q.run(find).Clauses()
	changes := q.run(change).Clauses()
	if len(finds) == 0 || len(finds) != len(changes) {
		return q
	}
	pairs := make([]filters.Replacement, len(finds))
	for i := range finds {
		pairs[i] = filters.Replacement{Find: finds[i], With: changes[i]}
	}
	q.Build().ReplaceSequences(pairs)
	return q
}

// Modify builds a change set with a fresh query and overwrites every
// stored token that strategy matches against a change token.
func (q *Query) Modify(change Step, strategy ir.Strategy) *Query {
	q.Build().ReplaceMatching(q.run(change), strategy)
	return q
}

// RemoveFull drops every stored clause that strategy matches against the
// find set.
func (q *Query) RemoveFull(find Step, strategy ir.Strategy) *Query {
	q.Build().RemoveFull(q.run(find).Clauses(), strategy)
	return q
}

// RemoveExact deletes the exact token runs of the find set from stored
// clauses, dropping clauses left empty.
func (q *Query) RemoveExact(find Step) *Query {
	q.Build().RemoveExactMatch(q.run(find).Clauses())
	return q
}

// RemoveMatching deletes every stored token that strategy matches against
// a token of the find set.
func (q *Query) RemoveMatching(find Step, strategy ir.Strategy) *Query {
	q.Build().RemoveMatching(q.run(find).Clauses(), strategy)
	return q
}

// Parse replaces the completed clauses with the parse of inputs under the
// domain's config. A query without domain parses permissively.
func (q *Query) Parse(inputs ...string) (*Query, error) {
	var cfg *parser.Config
	if q.domain != nil {
		var err error
		if cfg, err = q.domain.Config(q.registry); err != nil {
			return q, fmt.Errorf("parse filters: %w", err)
		}
	}
	q.current = nil
	q.store.Parse(inputs, cfg)
	return q, nil
}

// fresh returns an empty query sharing q's domain and registry.
func (q *Query) fresh() *Query {
	return &Query{
		domain:   q.domain,
		registry: q.registry,
		store:    filters.NewStore(),
	}
}

// run applies step to a fresh query and returns its committed store.
func (q *Query) run(step Step) *filters.Store {
	if step == nil {
		return filters.NewStore()
	}
	out := step(q.fresh())
	if out == nil {
		return filters.NewStore()
	}
	return out.Build()
}
