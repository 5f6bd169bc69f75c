package harness

import (
	"fmt"
	"log/slog"

	"github.com/roach88/minidsl/internal/domain"
	"github.com/roach88/minidsl/internal/filters"
	"github.com/roach88/minidsl/internal/ir"
	"github.com/roach88/minidsl/internal/parser"
)

// Harness executes scenario steps against one filters.Store.
type Harness struct {
	cfg   *parser.Config
	store *filters.Store
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Validate the scenario (scenarios built in code skip ParseScenario)
// 2. Resolve the parse config from the scenario's domain
// 3. Apply each step to a fresh filters.Store, tracing the clauses
// 4. Evaluate assertions against the final store
//
// Run returns an error only when the scenario cannot execute; failed
// assertions are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	cfg, err := resolveConfig(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve domain: %w", err)
	}

	h := &Harness{cfg: cfg, store: filters.NewStore()}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.apply(step); err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Op(), err)
		}
		result.AddTrace(step.Op(), h.store.Strings())
	}

	transport, err := h.store.MarshalTransport()
	if err != nil {
		return nil, fmt.Errorf("failed to encode final store: %w", err)
	}
	result.Clauses = h.store.Strings()
	result.Transport = string(transport)

	for _, errMsg := range EvaluateAssertions(h, scenario.Assertions, result) {
		result.AddError(errMsg)
	}

	slog.Debug("scenario executed", "name", scenario.Name, "steps", len(scenario.Steps), "pass", result.Pass)
	return result, nil
}

// resolveConfig loads the scenario's domain. No domain parses permissively.
// Each run uses a private registry so scenarios never share cached configs.
func resolveConfig(s *Scenario) (*parser.Config, error) {
	if s.Domain == "" {
		return nil, nil
	}
	domains, err := domain.LoadFile(s.Domain)
	if err != nil {
		return nil, err
	}
	d, err := domain.Find(domains, s.DomainName)
	if err != nil {
		return nil, err
	}
	return d.Config(parser.NewRegistry())
}

func (h *Harness) apply(step Step) error {
	switch step.Op() {
	case OpParse:
		h.store.Parse(step.Parse, h.cfg)
	case OpAdd:
		h.store.AddAll(h.clauses(step.Add))
	case OpReplace:
		finds := h.clauses(step.Replace.Find)
		withs := h.clauses(step.Replace.With)
		pairs := make([]filters.Replacement, len(finds))
		for i := range finds {
			pairs[i] = filters.Replacement{Find: finds[i], With: withs[i]}
		}
		h.store.ReplaceSequences(pairs)
	case OpModify:
		s, err := ir.ParseStrategy(step.Modify.Strategy)
		if err != nil {
			return err
		}
		h.store.ReplaceMatching(filters.NewStore(h.clauses(step.Modify.Change)...), s)
	case OpRemoveFull:
		s, err := ir.ParseStrategy(step.RemoveFull.Strategy)
		if err != nil {
			return err
		}
		h.store.RemoveFull(h.clauses(step.RemoveFull.Find), s)
	case OpRemoveExact:
		h.store.RemoveExactMatch(h.clauses(step.RemoveExact))
	case OpRemoveMatching:
		s, err := ir.ParseStrategy(step.RemoveMatching.Strategy)
		if err != nil {
			return err
		}
		h.store.RemoveMatching(h.clauses(step.RemoveMatching.Find), s)
	case OpCollapse:
		switch step.Collapse {
		case "and":
			h.store.Collapse(ir.And())
		case "or":
			h.store.Collapse(ir.Or())
		default:
			h.store.Collapse(nil)
		}
	case OpTransport:
		h.store.LoadTransport([]byte(step.Transport), h.cfg)
	case OpClear:
		h.store.Clear()
	default:
		return fmt.Errorf("no operation set")
	}
	return nil
}

// clause parses expr under the harness config.
func (h *Harness) clause(expr string) *ir.Clause {
	return ir.NewClause(parser.Parse(expr, h.cfg)...)
}

// clauses parses each expression into its own clause, keeping positions
// so find/with pairs stay aligned.
func (h *Harness) clauses(exprs []string) []*ir.Clause {
	out := make([]*ir.Clause, len(exprs))
	for i, e := range exprs {
		out[i] = h.clause(e)
	}
	return out
}
