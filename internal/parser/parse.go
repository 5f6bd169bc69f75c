package parser

import (
	"strings"

	"github.com/roach88/minidsl/internal/ir"
)

// Parse tokenizes input under cfg.
//
// Parentheses are padded and whitespace collapsed before splitting. Each
// word is then read with one word of lookahead:
//
//	logical / "(" / ")"            → marker token
//	key (end, logical, paren next) → {key}
//	key noValueOp                  → {key, op}
//	key valueOp value              → {key, op, value}
//	key valueOp (end)              → {key}, op reread as a key
//	key op value (unknown allowed) → {key, op, value}
//	key op (unknown allowed)       → {key, value: op}
//	key op (otherwise)             → dropped
//
// Keys rejected by cfg are dropped alone. A nil cfg parses permissively.
// Values are always ir.String.
func Parse(input string, cfg *Config) []*ir.Token {
	if cfg == nil {
		cfg = Permissive()
	}
	words := split(input)
	tokens := make([]*ir.Token, 0, len(words))

	for i := 0; i < len(words); {
		word := words[i]
		switch {
		case cfg.IsLogicalOperator(word):
			tokens = append(tokens, ir.NewOp(word))
			i++
			continue
		case word == ir.GroupOpen:
			tokens = append(tokens, ir.Open())
			i++
			continue
		case word == ir.GroupClose:
			tokens = append(tokens, ir.Close())
			i++
			continue
		case !cfg.IsValidField(word):
			i++
			continue
		}

		key := word
		if i+1 >= len(words) {
			tokens = append(tokens, &ir.Token{Key: key})
			i++
			continue
		}

		op := words[i+1]
		switch {
		case isBoundary(cfg, op):
			tokens = append(tokens, &ir.Token{Key: key})
			i++
		case cfg.IsNoValueOperator(op):
			tokens = append(tokens, &ir.Token{Key: key, Op: op})
			i += 2
		case cfg.IsValueOperator(op):
			if i+2 < len(words) {
				tokens = append(tokens, &ir.Token{Key: key, Op: op, Value: ir.String(words[i+2])})
				i += 3
			} else {
				tokens = append(tokens, &ir.Token{Key: key})
				i++
			}
		case cfg.AllowUnknownOperators():
			if i+2 < len(words) && !isBoundary(cfg, words[i+2]) {
				tokens = append(tokens, &ir.Token{Key: key, Op: op, Value: ir.String(words[i+2])})
				i += 3
			} else {
				tokens = append(tokens, &ir.Token{Key: key, Value: ir.String(op)})
				i += 2
			}
		default:
			i += 2
		}
	}
	return tokens
}

// split pads parentheses and splits on whitespace runs.
func split(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	input = strings.ReplaceAll(input, ir.GroupOpen, " "+ir.GroupOpen+" ")
	input = strings.ReplaceAll(input, ir.GroupClose, " "+ir.GroupClose+" ")
	return strings.Fields(input)
}

func isBoundary(cfg *Config, word string) bool {
	return cfg.IsLogicalOperator(word) || word == ir.GroupOpen || word == ir.GroupClose
}
