package filters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/minidsl/internal/ir"
	"github.com/roach88/minidsl/internal/parser"
)

// MarshalTransport renders the clauses as a flat canonical JSON array of
// {key?, op?, value?} objects, one per token, in store order.
func (s *Store) MarshalTransport() ([]byte, error) {
	objs := make([]any, 0)
	for _, c := range s.clauses {
		for _, t := range c.Tokens() {
			objs = append(objs, ir.TokenObject(t))
		}
	}
	data, err := ir.MarshalCanonical(objs)
	if err != nil {
		return nil, fmt.Errorf("marshal transport: %w", err)
	}
	return data, nil
}

// transportToken is one element of the transport array.
type transportToken struct {
	Key   *string `json:"key"`
	Op    *string `json:"op"`
	Value any     `json:"value"`
}

// ParseTransport decodes a transport payload into one token per element.
//
// A malformed payload yields an empty result, never an error. Elements
// with neither key nor operator are skipped.
func ParseTransport(data []byte) []*ir.Token {
	elems, err := decodeTransport(data)
	if err != nil {
		slog.Debug("discarding malformed transport payload", "error", err)
		return []*ir.Token{}
	}
	tokens := make([]*ir.Token, 0, len(elems))
	for _, e := range elems {
		if t := e.token(); t.HasKey() || t.HasOp() {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// LoadTransport replaces the contents with the filters in a transport
// payload, one clause per element, re-parsed under cfg so domain field and
// operator rules apply.
//
// A malformed payload empties the store. A blank payload is a no-op.
func (s *Store) LoadTransport(data []byte, cfg *parser.Config) {
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}
	elems, err := decodeTransport(data)
	if err != nil {
		slog.Debug("discarding malformed transport payload", "error", err)
		s.Clear()
		return
	}
	exprs := make([]string, 0, len(elems))
	for _, e := range elems {
		if expr := e.expr(); expr != "" {
			exprs = append(exprs, expr)
		}
	}
	if len(exprs) == 0 {
		s.Clear()
		return
	}
	s.Parse(exprs, cfg)
}

func decodeTransport(data []byte) ([]transportToken, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var elems []transportToken
	if err := dec.Decode(&elems); err != nil {
		return nil, fmt.Errorf("decode transport: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode transport: trailing data")
	}
	return elems, nil
}

// expr renders the element as filter text. A value is only kept alongside
// both key and operator.
func (e transportToken) expr() string {
	t := e.token()
	switch {
	case t.HasKey() && t.HasOp() && t.HasValue():
		return strings.Join([]string{t.Key, t.Op, ir.ValueText(t.Value)}, " ")
	case t.HasKey() && t.HasOp():
		return t.Key + " " + t.Op
	case t.HasOp():
		return t.Op
	case t.HasKey():
		return t.Key
	default:
		return ""
	}
}

func (e transportToken) token() *ir.Token {
	t := &ir.Token{Value: ir.ValueOf(e.Value)}
	if e.Key != nil {
		t.Key = *e.Key
	}
	if e.Op != nil {
		t.Op = *e.Op
	}
	return t
}
