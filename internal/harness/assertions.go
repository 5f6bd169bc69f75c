package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/minidsl/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %q\n", event.Seq, event.Op, event.Clauses)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the harness store and
// returns one message per failure.
func EvaluateAssertions(h *Harness, assertions []Assertion, result *Result) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(h, a, result); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %s", i, err.Error()))
		}
	}
	return errs
}

func evaluate(h *Harness, a Assertion, result *Result) error {
	switch a.Type {
	case AssertClauses:
		if !slices.Equal(result.Clauses, a.Clauses) {
			return failure(a.Type, fmt.Sprintf("%q", a.Clauses), fmt.Sprintf("%q", result.Clauses), result)
		}
	case AssertClauseCount:
		if len(result.Clauses) != a.Count {
			return failure(a.Type, fmt.Sprintf("%d clause(s)", a.Count), fmt.Sprintf("%d clause(s)", len(result.Clauses)), result)
		}
	case AssertContains:
		if !slices.Contains(result.Clauses, a.Clause) {
			return failure(a.Type, fmt.Sprintf("clause %q", a.Clause), fmt.Sprintf("%q", result.Clauses), result)
		}
	case AssertNotContains:
		if slices.Contains(result.Clauses, a.Clause) {
			return failure(a.Type, fmt.Sprintf("no clause %q", a.Clause), "present", result)
		}
	case AssertMatches:
		s, err := ir.ParseStrategy(a.Strategy)
		if err != nil {
			return err
		}
		search := h.clause(a.Expr).Tokens()
		for _, c := range h.store.Clauses() {
			if c.Match(search, s) {
				return nil
			}
		}
		return failure(a.Type, fmt.Sprintf("a clause matching %q by %s", a.Expr, s), "no match", result)
	case AssertTransport:
		if result.Transport != a.Transport {
			return failure(a.Type, a.Transport, result.Transport, result)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func failure(typ, expected, actual string, result *Result) error {
	return &AssertionError{
		Type:     typ,
		Expected: expected,
		Actual:   actual,
		Trace:    result.Trace,
	}
}
