package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clauseOf(tokens ...*Token) *Clause {
	return NewClause(tokens...)
}

func TestClauseCanonicalString(t *testing.T) {
	c := clauseOf(Open(), NewToken("age", "gt", 18), Or(), NewToken("status", "eq", "active"), Close())
	assert.Equal(t, "( age gt 18 or status eq active )", c.String())
	assert.Equal(t, 5, c.Len())
}

func TestClauseNilTokensIgnored(t *testing.T) {
	c := NewClause(nil, NewToken("a", "", nil), nil)
	assert.Equal(t, 1, c.Len())

	c.Add(nil)
	c.AddFirst(nil)
	c.AddLast(nil)
	c.AddAll(nil)
	c.AddAll(NewClause())
	assert.Equal(t, "a", c.String())
}

func TestClauseCacheInvalidatedOnMutation(t *testing.T) {
	c := clauseOf(NewToken("a", "eq", 1))
	before := c.String()
	beforeHash := c.Hash()

	c.Add(And())
	c.Add(NewToken("b", "eq", 2))

	assert.Equal(t, "a eq 1", before)
	assert.Equal(t, "a eq 1 and b eq 2", c.String())
	assert.NotEqual(t, beforeHash, c.Hash())

	c.AddFirst(Open())
	assert.Equal(t, "( a eq 1 and b eq 2", c.String())
}

func TestClauseAddAllCopiesTokens(t *testing.T) {
	src := clauseOf(NewToken("a", "eq", 1))
	dst := clauseOf(NewToken("b", "eq", 2))

	dst.AddAll(src)
	src.ReplaceMatching([]*Token{NewToken("a", "eq", 9)}, KeyOp)

	assert.Equal(t, "b eq 2 a eq 1", dst.String(), "destination owns its own copies")
}

func TestClauseEqualHashCompare(t *testing.T) {
	a := clauseOf(NewToken("x", "eq", 1))
	b := clauseOf(NewToken("x", "eq", "1"))
	c := clauseOf(NewToken("y", "eq", 1))

	assert.True(t, a.Equal(b), "equality is by canonical string only")
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Len(t, a.Hash(), 64)
	assert.Equal(t, 0, a.Compare(b))
	assert.Negative(t, a.Compare(c))
	assert.Positive(t, c.Compare(a))
	assert.False(t, a.Equal(nil))
}

func TestClauseEndsWithAnyOf(t *testing.T) {
	assert.False(t, NewClause().EndsWithAnyOf(And(), Or()), "empty clause never throws")

	c := clauseOf(NewToken("a", "eq", 1), NewOp("AND"))
	assert.True(t, c.EndsWithAnyOf(And(), Or()))
	assert.False(t, c.EndsWithAnyOf(Or()))

	keyOnly := clauseOf(NewToken("a", "", nil))
	assert.False(t, keyOnly.EndsWithAnyOf(And()))
}

func TestClauseReplaceSequence(t *testing.T) {
	tests := []struct {
		name        string
		source      *Clause
		pattern     *Clause
		replacement *Clause
		expected    string
	}{
		{
			name:        "middle run",
			source:      clauseOf(NewToken("a", "eq", 1), And(), NewToken("b", "eq", 2), Or(), NewToken("c", "eq", 3)),
			pattern:     clauseOf(NewToken("b", "eq", 2), Or()),
			replacement: clauseOf(NewToken("z", "ne", 0), And()),
			expected:    "a eq 1 and z ne 0 and c eq 3",
		},
		{
			name:        "first match only",
			source:      clauseOf(NewToken("a", "eq", 1), And(), NewToken("a", "eq", 1)),
			pattern:     clauseOf(NewToken("a", "eq", 1)),
			replacement: clauseOf(NewToken("b", "eq", 2)),
			expected:    "b eq 2 and a eq 1",
		},
		{
			name:        "empty replacement deletes",
			source:      clauseOf(NewToken("a", "eq", 1), And(), NewToken("b", "eq", 2)),
			pattern:     clauseOf(And(), NewToken("b", "eq", 2)),
			replacement: NewClause(),
			expected:    "a eq 1",
		},
		{
			name:        "nil replacement deletes",
			source:      clauseOf(NewToken("a", "eq", 1)),
			pattern:     clauseOf(NewToken("a", "eq", 1)),
			replacement: nil,
			expected:    "",
		},
		{
			name:        "no match is noop",
			source:      clauseOf(NewToken("a", "eq", 1)),
			pattern:     clauseOf(NewToken("a", "eq", 2)),
			replacement: clauseOf(NewToken("b", "eq", 2)),
			expected:    "a eq 1",
		},
		{
			name:        "pattern longer than source",
			source:      clauseOf(NewToken("a", "eq", 1)),
			pattern:     clauseOf(NewToken("a", "eq", 1), And()),
			replacement: NewClause(),
			expected:    "a eq 1",
		},
		{
			name:        "nil pattern is noop",
			source:      clauseOf(NewToken("a", "eq", 1)),
			pattern:     nil,
			replacement: NewClause(),
			expected:    "a eq 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.source.ReplaceSequence(tt.pattern, tt.replacement)
			assert.Equal(t, tt.expected, tt.source.String())
		})
	}
}

func TestClauseReplaceSequenceFormatAmbiguity(t *testing.T) {
	// A key-only token and an operator-only token with the same text render
	// identically, so the pattern matches either.
	c := clauseOf(NewOp("status"))
	c.ReplaceSequence(clauseOf(NewToken("status", "", nil)), clauseOf(NewToken("x", "eq", 1)))
	assert.Equal(t, "x eq 1", c.String())
}

func TestClauseReplaceMatchingKeepsPosition(t *testing.T) {
	first := NewToken("age", "gt", 18)
	c := clauseOf(first, And(), NewToken("name", "eq", "bob"))

	c.ReplaceMatching([]*Token{NewToken("AGE", "lt", 65)}, Key)

	tokens := c.Tokens()
	require.Len(t, tokens, 3)
	assert.Same(t, first, tokens[0], "replacement is in place")
	assert.Equal(t, "AGE lt 65 and name eq bob", c.String())
}

func TestClauseRemoveMatching(t *testing.T) {
	c := clauseOf(NewToken("a", "eq", 1), And(), NewToken("b", "eq", 2), Or(), NewToken("a", "ne", 3))

	c.RemoveMatching([]*Token{NewToken("a", "", nil)}, Key)
	assert.Equal(t, "and b eq 2 or", c.String())

	c.RemoveMatching([]*Token{And(), Or()}, Op)
	assert.Equal(t, "b eq 2", c.String())

	c.RemoveMatching(nil, Key)
	assert.Equal(t, "b eq 2", c.String())
}

func TestClauseMatch(t *testing.T) {
	c := clauseOf(NewToken("a", "eq", 1), And(), NewToken("b", "eq", 2))

	assert.True(t, c.Match([]*Token{NewToken("zzz", "", nil), NewToken("b", "eq", 2)}, Full))
	assert.False(t, c.Match([]*Token{NewToken("b", "eq", 3)}, Full))
	assert.False(t, c.Match(nil, Full))
}

func TestClauseClone(t *testing.T) {
	c := clauseOf(NewToken("a", "eq", 1))
	cp := c.Clone()
	cp.Add(And())

	assert.Equal(t, "a eq 1", c.String())
	assert.Equal(t, "a eq 1 and", cp.String())
}
