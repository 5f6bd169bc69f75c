package ir

import (
	"slices"
	"strings"
)

// Clause is an ordered token sequence forming one filter fragment.
//
// The canonical string (space-joined Token.Format of every token) is the
// clause's identity: Equal, Hash and Compare all derive from it. It is
// computed lazily and cached until the next structural mutation.
//
// A Clause is a mutable value owned by one caller at a time. It performs no
// internal synchronization.
type Clause struct {
	tokens []*Token

	canonical string
	cached    bool
	hash      string
	hashed    bool
}

// NewClause creates a clause holding tokens. nil tokens are skipped.
func NewClause(tokens ...*Token) *Clause {
	c := &Clause{tokens: make([]*Token, 0, len(tokens))}
	for _, t := range tokens {
		if t != nil {
			c.tokens = append(c.tokens, t)
		}
	}
	return c
}

// Tokens returns the clause's tokens in order.
// The returned slice is a copy; the tokens themselves must not be mutated.
func (c *Clause) Tokens() []*Token {
	return slices.Clone(c.tokens)
}

// Len returns the number of tokens.
func (c *Clause) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tokens)
}

// Empty reports whether the clause has no tokens. A nil clause is empty.
func (c *Clause) Empty() bool {
	return c.Len() == 0
}

// Add appends t. nil is ignored.
func (c *Clause) Add(t *Token) {
	if t == nil {
		return
	}
	c.tokens = append(c.tokens, t)
	c.invalidate()
}

// AddLast appends t. nil is ignored.
func (c *Clause) AddLast(t *Token) {
	c.Add(t)
}

// AddFirst prepends t. nil is ignored.
func (c *Clause) AddFirst(t *Token) {
	if t == nil {
		return
	}
	c.tokens = slices.Insert(c.tokens, 0, t)
	c.invalidate()
}

// AddAll appends copies of other's tokens. nil or empty other is ignored.
func (c *Clause) AddAll(other *Clause) {
	if other.Empty() {
		return
	}
	for _, t := range other.tokens {
		c.tokens = append(c.tokens, t.Clone())
	}
	c.invalidate()
}

// EndsWithAnyOf reports whether the last token's operator equals, ignoring
// case, the operator of any of the given tokens. An empty clause, or a last
// token without operator, yields false.
func (c *Clause) EndsWithAnyOf(tokens ...*Token) bool {
	if c.Empty() {
		return false
	}
	last := c.tokens[len(c.tokens)-1]
	if !last.HasOp() {
		return false
	}
	for _, t := range tokens {
		if t != nil && strings.EqualFold(last.Op, t.Op) {
			return true
		}
	}
	return false
}

// ReplaceSequence replaces the first contiguous run of tokens whose formatted
// text, space-joined, equals pattern's canonical string with copies of
// replacement's tokens. A nil or empty replacement deletes the run. Only the
// first match is replaced; no match is a no-op.
//
// Matching is on formatted text, so structurally different tokens that
// render identically (a key-only token and an operator-only token with the
// same text) are indistinguishable here.
func (c *Clause) ReplaceSequence(pattern, replacement *Clause) {
	if pattern.Empty() {
		return
	}
	size := pattern.Len()
	if len(c.tokens) < size {
		return
	}

	target := pattern.String()
	formatted := make([]string, len(c.tokens))
	for i, t := range c.tokens {
		formatted[i] = t.Format()
	}

	for i := 0; i+size <= len(c.tokens); i++ {
		if strings.Join(formatted[i:i+size], " ") != target {
			continue
		}
		spliced := make([]*Token, 0, len(c.tokens)-size+replacement.Len())
		spliced = append(spliced, c.tokens[:i]...)
		if replacement != nil {
			for _, t := range replacement.tokens {
				spliced = append(spliced, t.Clone())
			}
		}
		spliced = append(spliced, c.tokens[i+size:]...)
		c.tokens = spliced
		c.invalidate()
		return
	}
}

// ReplaceMatching overwrites, in place, every token matched by s bound to a
// search token with that search token's fields. Search tokens are applied in
// order, so a later search token may overwrite an earlier replacement.
func (c *Clause) ReplaceMatching(search []*Token, s Strategy) {
	if search == nil {
		return
	}
	for _, find := range search {
		matches := s.Bind(find)
		for _, t := range c.tokens {
			if matches(t) {
				t.Set(find)
			}
		}
	}
	c.invalidate()
}

// RemoveMatching deletes every token matched by s bound to any search token.
func (c *Clause) RemoveMatching(search []*Token, s Strategy) {
	if len(search) == 0 {
		return
	}
	preds := make([]func(*Token) bool, len(search))
	for i, find := range search {
		preds[i] = s.Bind(find)
	}
	c.tokens = slices.DeleteFunc(c.tokens, func(t *Token) bool {
		for _, matches := range preds {
			if matches(t) {
				return true
			}
		}
		return false
	})
	c.invalidate()
}

// Match reports whether s bound to any search token matches any token.
func (c *Clause) Match(search []*Token, s Strategy) bool {
	for _, find := range search {
		if slices.ContainsFunc(c.tokens, s.Bind(find)) {
			return true
		}
	}
	return false
}

// String returns the canonical string, computing it on first use.
func (c *Clause) String() string {
	if c == nil {
		return ""
	}
	if !c.cached {
		c.canonical = formatTokens(c.tokens)
		c.cached = true
	}
	return c.canonical
}

// Hash returns the content-addressed hash of the canonical string.
// See ClauseHash.
func (c *Clause) Hash() string {
	if c == nil {
		return ClauseHash("")
	}
	if !c.hashed {
		c.hash = ClauseHash(c.String())
		c.hashed = true
	}
	return c.hash
}

// Equal reports whether c and other have the same canonical string.
func (c *Clause) Equal(other *Clause) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return c.String() == other.String()
}

// Compare orders clauses by ordinal comparison of canonical strings.
func (c *Clause) Compare(other *Clause) int {
	return strings.Compare(c.String(), other.String())
}

// Clone returns a deep copy of c.
func (c *Clause) Clone() *Clause {
	out := &Clause{tokens: make([]*Token, len(c.tokens))}
	for i, t := range c.tokens {
		out.tokens[i] = t.Clone()
	}
	return out
}

// invalidate drops cached canonical string and hash.
// Must be called after every structural mutation.
func (c *Clause) invalidate() {
	c.canonical = ""
	c.cached = false
	c.hash = ""
	c.hashed = false
}

func formatTokens(tokens []*Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Format()
	}
	return strings.Join(parts, " ")
}
