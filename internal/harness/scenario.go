package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/minidsl/internal/ir"
)

// Scenario defines a filter-algebra test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Domain is an optional path to a domain description file.
	// Relative paths are resolved against the scenario file's directory.
	Domain string `yaml:"domain,omitempty"`

	// DomainName selects the domain when the file defines several.
	DomainName string `yaml:"domain_name,omitempty"`

	// Steps are applied in order to one filters.Store.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final store.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one store operation. Exactly one field must be set.
type Step struct {
	// Parse replaces the store with one clause per distinct expression.
	Parse []string `yaml:"parse,omitempty"`

	// Add appends one clause per expression.
	Add []string `yaml:"add,omitempty"`

	// Replace splices with[i] in place of find[i] in every clause.
	Replace *ReplaceStep `yaml:"replace,omitempty"`

	// Modify overwrites tokens matching the change tokens.
	Modify *ModifyStep `yaml:"modify,omitempty"`

	// RemoveFull drops clauses matching the find tokens.
	RemoveFull *MatchStep `yaml:"remove_full,omitempty"`

	// RemoveExact deletes the exact token runs of each expression.
	RemoveExact []string `yaml:"remove_exact,omitempty"`

	// RemoveMatching deletes tokens matching the find tokens.
	RemoveMatching *MatchStep `yaml:"remove_matching,omitempty"`

	// Collapse merges all clauses: "and", "or" or "none".
	Collapse string `yaml:"collapse,omitempty"`

	// Transport replaces the store with a decoded transport payload.
	Transport string `yaml:"transport,omitempty"`

	// Clear empties the store.
	Clear bool `yaml:"clear,omitempty"`
}

// ReplaceStep pairs find and replacement expressions by index.
type ReplaceStep struct {
	Find []string `yaml:"find"`
	With []string `yaml:"with"`
}

// ModifyStep overwrites tokens matched by strategy.
type ModifyStep struct {
	Change   []string `yaml:"change"`
	Strategy string   `yaml:"strategy"`
}

// MatchStep selects tokens or clauses by strategy.
type MatchStep struct {
	Find     []string `yaml:"find"`
	Strategy string   `yaml:"strategy"`
}

// Op names the operation the step sets, or "" when it sets none.
// Multiple set operations are reported by validateStep.
func (s Step) Op() string {
	ops := s.ops()
	if len(ops) == 0 {
		return ""
	}
	return ops[0]
}

func (s Step) ops() []string {
	var ops []string
	if s.Parse != nil {
		ops = append(ops, OpParse)
	}
	if s.Add != nil {
		ops = append(ops, OpAdd)
	}
	if s.Replace != nil {
		ops = append(ops, OpReplace)
	}
	if s.Modify != nil {
		ops = append(ops, OpModify)
	}
	if s.RemoveFull != nil {
		ops = append(ops, OpRemoveFull)
	}
	if s.RemoveExact != nil {
		ops = append(ops, OpRemoveExact)
	}
	if s.RemoveMatching != nil {
		ops = append(ops, OpRemoveMatching)
	}
	if s.Collapse != "" {
		ops = append(ops, OpCollapse)
	}
	if s.Transport != "" {
		ops = append(ops, OpTransport)
	}
	if s.Clear {
		ops = append(ops, OpClear)
	}
	return ops
}

// Step operation names.
const (
	OpParse          = "parse"
	OpAdd            = "add"
	OpReplace        = "replace"
	OpModify         = "modify"
	OpRemoveFull     = "remove_full"
	OpRemoveExact    = "remove_exact"
	OpRemoveMatching = "remove_matching"
	OpCollapse       = "collapse"
	OpTransport      = "transport"
	OpClear          = "clear"
)

// Assertion validates the final store.
type Assertion struct {
	// Type specifies the assertion type:
	// - "clauses": sorted canonical clauses equal Clauses
	// - "clause_count": store holds exactly Count clauses
	// - "contains": a clause renders as Clause
	// - "not_contains": no clause renders as Clause
	// - "matches": some clause matches the tokens of Expr under Strategy
	// - "transport": transport form equals Transport
	Type string `yaml:"type"`

	// Clauses is the expected sorted list (used by clauses).
	Clauses []string `yaml:"clauses,omitempty"`

	// Count is the expected number of clauses (used by clause_count).
	Count int `yaml:"count,omitempty"`

	// Clause is a canonical clause string (used by contains, not_contains).
	Clause string `yaml:"clause,omitempty"`

	// Expr is parsed into search tokens (used by matches).
	Expr string `yaml:"expr,omitempty"`

	// Strategy names the comparator (used by matches).
	Strategy string `yaml:"strategy,omitempty"`

	// Transport is the expected JSON (used by transport).
	Transport string `yaml:"transport,omitempty"`
}

// Assertion type constants.
const (
	AssertClauses     = "clauses"
	AssertClauseCount = "clause_count"
	AssertContains    = "contains"
	AssertNotContains = "not_contains"
	AssertMatches     = "matches"
	AssertTransport   = "transport"
)

// LoadScenario reads and parses a scenario YAML file.
// The domain path is resolved against the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the domain path relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Domain != "" && !filepath.IsAbs(scenario.Domain) && basePath != "" {
		scenario.Domain = filepath.Join(basePath, scenario.Domain)
	}
	if scenario.Domain != "" {
		if _, err := os.Stat(scenario.Domain); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: domain file not found: %s", scenario.Domain)
		}
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks that a step sets exactly one well-formed operation.
func validateStep(index int, s Step) error {
	ops := s.ops()
	switch len(ops) {
	case 0:
		return fmt.Errorf("steps[%d]: no operation set", index)
	case 1:
	default:
		return fmt.Errorf("steps[%d]: multiple operations set: %v", index, ops)
	}

	switch ops[0] {
	case OpReplace:
		if len(s.Replace.Find) == 0 {
			return fmt.Errorf("steps[%d]: replace.find is required", index)
		}
		if len(s.Replace.Find) != len(s.Replace.With) {
			return fmt.Errorf("steps[%d]: replace.find and replace.with must have the same length", index)
		}
	case OpModify:
		if len(s.Modify.Change) == 0 {
			return fmt.Errorf("steps[%d]: modify.change is required", index)
		}
		if _, err := ir.ParseStrategy(s.Modify.Strategy); err != nil {
			return fmt.Errorf("steps[%d]: %w", index, err)
		}
	case OpRemoveFull, OpRemoveMatching:
		m := s.RemoveFull
		if m == nil {
			m = s.RemoveMatching
		}
		if len(m.Find) == 0 {
			return fmt.Errorf("steps[%d]: %s.find is required", index, ops[0])
		}
		if _, err := ir.ParseStrategy(m.Strategy); err != nil {
			return fmt.Errorf("steps[%d]: %w", index, err)
		}
	case OpCollapse:
		switch s.Collapse {
		case "and", "or", "none":
		default:
			return fmt.Errorf("steps[%d]: collapse must be one of and, or, none (got %q)", index, s.Collapse)
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertClauses:
		if a.Clauses == nil {
			return fmt.Errorf("assertions[%d]: clauses is required for clauses (use [] for none)", index)
		}
	case AssertClauseCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for clause_count", index)
		}
	case AssertContains, AssertNotContains:
		if a.Clause == "" {
			return fmt.Errorf("assertions[%d]: clause is required for %s", index, a.Type)
		}
	case AssertMatches:
		if a.Expr == "" {
			return fmt.Errorf("assertions[%d]: expr is required for matches", index)
		}
		if _, err := ir.ParseStrategy(a.Strategy); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertTransport:
		if a.Transport == "" {
			return fmt.Errorf("assertions[%d]: transport is required for transport", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
