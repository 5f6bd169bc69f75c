package ir

import "strings"

// Reserved token texts.
const (
	LogicalAnd = "and"
	LogicalOr  = "or"
	GroupOpen  = "("
	GroupClose = ")"
)

// Token is the atomic unit of a filter expression.
//
// A token carries an optional key, an optional operator and an optional
// value. Empty Key/Op and nil Value mean "absent". Logical and grouping
// markers are operator-only tokens.
//
// Examples:
//
//	{Key: "age", Op: "gt", Value: Int(25)}   → "age gt 25"
//	{Key: "email", Op: "isNotNull"}          → "email isNotNull"
//	{Key: "name"}                            → "name"
//	{Op: "and"}                              → "and"
//
// Tokens have no intrinsic equality. Compare them through a Strategy, or
// compare the clauses that own them by canonical string.
type Token struct {
	Key   string
	Op    string
	Value Value
}

// NewToken creates a token from its three fields.
// v is converted with ValueOf; nil means no value.
func NewToken(key, op string, v any) *Token {
	return &Token{Key: key, Op: op, Value: ValueOf(v)}
}

// NewOp creates an operator-only token (logical, grouping or alias).
func NewOp(op string) *Token {
	return &Token{Op: op}
}

// And returns a fresh "and" token.
// Reserved tokens are never shared: Set mutates in place.
func And() *Token { return NewOp(LogicalAnd) }

// Or returns a fresh "or" token.
func Or() *Token { return NewOp(LogicalOr) }

// Open returns a fresh "(" token.
func Open() *Token { return NewOp(GroupOpen) }

// Close returns a fresh ")" token.
func Close() *Token { return NewOp(GroupClose) }

// HasKey reports whether the key is present.
func (t *Token) HasKey() bool { return t.Key != "" }

// HasOp reports whether the operator is present.
func (t *Token) HasOp() bool { return t.Op != "" }

// HasValue reports whether the value is present.
func (t *Token) HasValue() bool { return t.Value != nil }

// IsLogical reports whether t is a bare and/or marker.
func (t *Token) IsLogical() bool {
	return !t.HasKey() && !t.HasValue() &&
		(strings.EqualFold(t.Op, LogicalAnd) || strings.EqualFold(t.Op, LogicalOr))
}

// IsGroup reports whether t is a bare "(" or ")" marker.
func (t *Token) IsGroup() bool {
	return !t.HasKey() && !t.HasValue() && (t.Op == GroupOpen || t.Op == GroupClose)
}

// Format renders the present fields, space-joined, in priority order:
// key+op+value, key+op, key+value, key, op. A token with none renders "".
func (t *Token) Format() string {
	switch {
	case t.HasKey() && t.HasOp() && t.HasValue():
		return joinTrimmed(t.Key, t.Op, t.Value.String())
	case t.HasKey() && t.HasOp():
		return joinTrimmed(t.Key, t.Op)
	case t.HasKey() && t.HasValue():
		return joinTrimmed(t.Key, t.Value.String())
	case t.HasKey():
		return joinTrimmed(t.Key)
	case t.HasOp():
		return joinTrimmed(t.Op)
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (t *Token) String() string {
	return "{" + t.Format() + "}"
}

// Set overwrites key, operator and value with those of other, in place.
// The token keeps its position in the owning clause. nil other is a no-op.
//
// Callers must invalidate the owning clause afterwards; Clause methods that
// call Set do so.
func (t *Token) Set(other *Token) {
	if other == nil {
		return
	}
	t.Key = other.Key
	t.Op = other.Op
	t.Value = other.Value
}

// Clone returns an independent copy of t.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func joinTrimmed(parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, " ")
}
