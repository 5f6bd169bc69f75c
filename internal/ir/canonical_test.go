package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"int", Int(42), "42"},
		{"bool", Bool(false), "false"},
		{"no html escaping", "<a&b>", `"<a&b>"`},
		{"empty array", []any{}, "[]"},
		{"sorted keys", map[string]any{"value": 1, "key": "k", "op": "eq"}, `{"key":"k","op":"eq","value":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical([]any{struct{}{}})
	assert.Error(t, err)
}

func TestMarshalCanonicalTokens(t *testing.T) {
	tokens := []*Token{
		NewToken("age", "gt", 25),
		And(),
		NewToken("name", "", nil),
		NewToken("email", "isNotNull", nil),
		NewToken("active", "eq", true),
	}

	result, err := MarshalCanonical(tokens)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"key":"age","op":"gt","value":25},{"op":"and"},{"key":"name"},{"key":"email","op":"isNotNull"},{"key":"active","op":"eq","value":true}]`,
		string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute vs precomposed "é"
	decomposed, err := MarshalCanonical("cafe\u0301")
	require.NoError(t, err)
	composed, err := MarshalCanonical("caf\u00e9")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestClauseHashNormalizes(t *testing.T) {
	a := NewClause(NewToken("city", "eq", "cafe\u0301"))
	b := NewClause(NewToken("city", "eq", "caf\u00e9"))

	assert.False(t, a.Equal(b), "canonical strings differ ordinally")
	assert.Equal(t, a.Hash(), b.Hash(), "hash is computed over NFC form")
}

func TestSnapshotHashDomainSeparated(t *testing.T) {
	data := []byte("a eq 1")
	assert.NotEqual(t, SnapshotHash(data), ClauseHash("a eq 1"))
	assert.Equal(t, SnapshotHash(data), SnapshotHash(data))
}
