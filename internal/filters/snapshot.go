package filters

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/minidsl/internal/ir"
)

// MarshalClauses renders the clauses as canonical JSON: an array holding
// one array of token objects per clause, in store order. Unlike the
// transport form, clause boundaries survive.
func (s *Store) MarshalClauses() ([]byte, error) {
	objs := make([]any, len(s.clauses))
	for i, c := range s.clauses {
		tokens := c.Tokens()
		clause := make([]any, len(tokens))
		for j, t := range tokens {
			clause[j] = ir.TokenObject(t)
		}
		objs[i] = clause
	}
	data, err := ir.MarshalCanonical(objs)
	if err != nil {
		return nil, fmt.Errorf("marshal clauses: %w", err)
	}
	return data, nil
}

// UnmarshalClauses decodes the output of MarshalClauses.
// Unlike ParseTransport it reports malformed input.
func UnmarshalClauses(data []byte) ([]*ir.Clause, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw [][]transportToken
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal clauses: %w", err)
	}
	clauses := make([]*ir.Clause, 0, len(raw))
	for i, elems := range raw {
		c := ir.NewClause()
		for j, e := range elems {
			t := e.token()
			if !t.HasKey() && !t.HasOp() {
				return nil, fmt.Errorf("unmarshal clauses: clause %d token %d has neither key nor op", i, j)
			}
			c.Add(t)
		}
		clauses = append(clauses, c)
	}
	return clauses, nil
}
