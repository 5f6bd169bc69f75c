package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategySameKeyDifferentOp(t *testing.T) {
	ref := NewToken("age", "gt", 25)
	cand := NewToken("age", "lt", 25)

	assert.True(t, Key.Bind(ref)(cand), "KEY matches on shared key")
	assert.False(t, KeyOp.Bind(ref)(cand), "KEY_OP requires operator too")
	assert.False(t, Op.Bind(ref)(cand), "OP compares operators only")
}

func TestStrategyMatrix(t *testing.T) {
	ref := NewToken("Status", "EQ", "active")

	tests := []struct {
		name      string
		strategy  Strategy
		candidate *Token
		expected  bool
	}{
		{"full exact", Full, NewToken("status", "eq", "active"), true},
		{"full value case sensitive", Full, NewToken("status", "eq", "Active"), false},
		{"full trims value", Full, NewToken("status", "eq", " active "), true},
		{"any by op", Any, NewToken("other", "eq", "x"), true},
		{"any none", Any, NewToken("other", "ne", "x"), false},
		{"key", Key, NewToken("STATUS", "ne", nil), true},
		{"key_op", KeyOp, NewToken("status", "eq", "x"), true},
		{"key_value", KeyValue, NewToken("status", "ne", "active"), true},
		{"key_value differs", KeyValue, NewToken("status", "eq", "closed"), false},
		{"op", Op, NewToken("x", "eq", nil), true},
		{"op_value", OpValue, NewToken("x", "eq", "active"), true},
		{"op_value missing value", OpValue, NewToken("x", "eq", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.strategy.Bind(ref)(tt.candidate))
		})
	}
}

func TestStrategyAbsenceNeverMatchesAbsence(t *testing.T) {
	a := NewOp("and")
	b := NewOp("and")

	assert.False(t, Key.Bind(a)(b), "both keys absent")
	assert.False(t, Full.Bind(a)(b), "value absent on both sides")
	assert.True(t, Op.Bind(a)(b))

	keyOnly := NewToken("name", "", nil)
	assert.False(t, KeyOp.Bind(keyOnly)(NewToken("name", "", nil)))
}

func TestStrategyNilTokens(t *testing.T) {
	assert.False(t, Full.Bind(nil)(NewToken("a", "b", "c")))
	assert.False(t, Full.Bind(NewToken("a", "b", "c"))(nil))
}

func TestParseStrategy(t *testing.T) {
	for s, name := range strategyNames {
		got, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseStrategy("KEY_OP")
	require.NoError(t, err)
	assert.Equal(t, KeyOp, got)

	_, err = ParseStrategy("fuzzy")
	assert.Error(t, err)
	assert.Equal(t, "Strategy(99)", Strategy(99).String())
}
