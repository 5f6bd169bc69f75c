package filters

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minidsl/internal/ir"
)

func transportStore() *Store {
	return NewStore(
		ir.NewClause(ir.NewToken("age", "gt", 25), ir.And(), ir.NewToken("email", "isNotNull", nil)),
		ir.NewClause(ir.NewToken("name", "", nil)),
		ir.NewClause(ir.NewToken("active", "eq", true)),
	)
}

func TestMarshalTransportGolden(t *testing.T) {
	data, err := transportStore().MarshalTransport()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "transport", data)
}

func TestMarshalTransportEmpty(t *testing.T) {
	data, err := NewStore().MarshalTransport()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestParseTransportRoundTrip(t *testing.T) {
	s := transportStore()
	data, err := s.MarshalTransport()
	require.NoError(t, err)

	tokens := ParseTransport(data)

	var flat []*ir.Token
	for _, c := range s.Clauses() {
		flat = append(flat, c.Tokens()...)
	}
	assert.Equal(t, flat, tokens, "one token per element, values keep their type")
}

func TestParseTransportFailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "not json"},
		{"object not array", `{"key":"a"}`},
		{"array of scalars", `[1,2]`},
		{"wrong field type", `[{"key":1}]`},
		{"trailing data", `[{"key":"a"}] [{"key":"b"}]`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := ParseTransport([]byte(tt.payload))
			assert.NotNil(t, tokens)
			assert.Empty(t, tokens)
		})
	}
}

func TestParseTransportSkipsValueOnly(t *testing.T) {
	tokens := ParseTransport([]byte(`[{"value":1},null,{"key":"a","value":5}]`))

	require.Len(t, tokens, 1)
	assert.Equal(t, &ir.Token{Key: "a", Value: ir.Int(5)}, tokens[0])
}

func TestLoadTransport(t *testing.T) {
	s := NewStore(clause("status eq active"))

	s.LoadTransport([]byte(`[
		{"key":"age","op":"gt","value":25},
		{"op":"and"},
		{"key":"name"},
		{"op":"and"},
		{"key":"email","value":"ignored"},
		{"key":"bogus","op":"eq","value":1}
	]`), testConfig)

	assert.Equal(t, []string{"age gt 25", "and", "name", "email"}, clauseStrings(s.Clauses()),
		"one clause per distinct element, unknown fields dropped")
}

func TestLoadTransportMalformedClears(t *testing.T) {
	s := NewStore(clause("status eq active"))

	s.LoadTransport([]byte("   "), testConfig)
	assert.Equal(t, 1, s.Len(), "blank payload is a no-op")

	s.LoadTransport([]byte(`[{"key":`), testConfig)
	assert.Equal(t, 0, s.Len())
}

func TestClausesSnapshotRoundTrip(t *testing.T) {
	s := transportStore()
	data, err := s.MarshalClauses()
	require.NoError(t, err)
	assert.Equal(t,
		`[[{"key":"age","op":"gt","value":25},{"op":"and"},{"key":"email","op":"isNotNull"}],[{"key":"name"}],[{"key":"active","op":"eq","value":true}]]`,
		string(data))

	clauses, err := UnmarshalClauses(data)
	require.NoError(t, err)
	assert.Equal(t, clauseStrings(s.Clauses()), clauseStrings(clauses))
}

func TestUnmarshalClausesErrors(t *testing.T) {
	_, err := UnmarshalClauses([]byte(`[{"key":"a"}]`))
	assert.Error(t, err)

	_, err = UnmarshalClauses([]byte(`[[{"value":1}]]`))
	assert.ErrorContains(t, err, "neither key nor op")
}
