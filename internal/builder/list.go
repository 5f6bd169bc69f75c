package builder

import (
	"slices"
	"strings"

	"github.com/roach88/minidsl/internal/ir"
)

// ListValue renders items as one value: nil items dropped, the rest
// rendered, sorted and joined by delimiter. A one-character brackets
// string wraps both sides; a longer one uses its first and last
// characters. A nil items slice renders as nil (no value).
func ListValue(items []any, delimiter, brackets string) ir.Value {
	if items == nil {
		return nil
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if v := ir.ValueOf(it); v != nil {
			parts = append(parts, v.String())
		}
	}
	slices.Sort(parts)
	joined := strings.Join(parts, delimiter)

	runes := []rune(brackets)
	switch {
	case len(runes) == 1:
		return ir.String(brackets + joined + brackets)
	case len(runes) >= 2:
		return ir.String(string(runes[0]) + joined + string(runes[len(runes)-1]))
	default:
		return ir.String(joined)
	}
}
