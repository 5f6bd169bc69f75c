package ir

import (
	"fmt"
	"strings"
)

// Strategy selects which token fields must agree for two tokens to match.
//
// A strategy is always bound to a reference token first (Bind), then applied
// to candidates. Keys and operators compare case-insensitively; values
// compare by trimmed text, case-sensitively. A field comparison is false when
// either side's field is absent - absence never matches absence.
type Strategy int

const (
	// Full requires key, operator and value to match.
	Full Strategy = iota
	// Any requires at least one of key, operator or value to match.
	Any
	// Key requires the key to match.
	Key
	// KeyOp requires key and operator to match.
	KeyOp
	// KeyValue requires key and value to match.
	KeyValue
	// Op requires the operator to match.
	Op
	// OpValue requires operator and value to match.
	OpValue
)

var strategyNames = map[Strategy]string{
	Full:     "full",
	Any:      "any",
	Key:      "key",
	KeyOp:    "key_op",
	KeyValue: "key_value",
	Op:       "op",
	OpValue:  "op_value",
}

// String implements fmt.Stringer.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy resolves a strategy by name ("full", "key_op", ...).
// Matching is case-insensitive.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}

// Bind returns the match predicate of s for the reference token ref.
// A nil ref yields a predicate that never matches.
func (s Strategy) Bind(ref *Token) func(candidate *Token) bool {
	if ref == nil {
		return func(*Token) bool { return false }
	}
	return func(c *Token) bool {
		if c == nil {
			return false
		}
		switch s {
		case Full:
			return sameKey(ref, c) && sameOp(ref, c) && sameValue(ref, c)
		case Any:
			return sameKey(ref, c) || sameOp(ref, c) || sameValue(ref, c)
		case Key:
			return sameKey(ref, c)
		case KeyOp:
			return sameKey(ref, c) && sameOp(ref, c)
		case KeyValue:
			return sameKey(ref, c) && sameValue(ref, c)
		case Op:
			return sameOp(ref, c)
		case OpValue:
			return sameOp(ref, c) && sameValue(ref, c)
		default:
			return false
		}
	}
}

func sameKey(a, b *Token) bool {
	return a.HasKey() && b.HasKey() && strings.EqualFold(a.Key, b.Key)
}

func sameOp(a, b *Token) bool {
	return a.HasOp() && b.HasOp() && strings.EqualFold(a.Op, b.Op)
}

func sameValue(a, b *Token) bool {
	return a.HasValue() && b.HasValue() && ValueText(a.Value) == ValueText(b.Value)
}
