package domain

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/minidsl/internal/parser"
)

// OperationType says how an operation renders and parses.
type OperationType string

const (
	// WithArg renders "field op value".
	WithArg OperationType = "with_arg"
	// WithList renders "field op [v1, v2]" from a sorted list.
	WithList OperationType = "with_list"
	// NoValue renders "field op".
	NoValue OperationType = "no_value"
	// NoOpWithArg renders "field value".
	NoOpWithArg OperationType = "no_op_with_arg"
	// NoOpWithList renders "field [v1, v2]".
	NoOpWithList OperationType = "no_op_with_list"
	// NoOpNoValue renders "field".
	NoOpNoValue OperationType = "no_op_no_value"
)

// Valid reports whether t is a known operation type.
func (t OperationType) Valid() bool {
	switch t {
	case WithArg, WithList, NoValue, NoOpWithArg, NoOpWithList, NoOpNoValue:
		return true
	}
	return false
}

// HasOperator reports whether operations of type t carry an operator.
func (t OperationType) HasOperator() bool {
	return t == WithArg || t == WithList || t == NoValue
}

// TakesValue reports whether operations of type t carry a value.
func (t OperationType) TakesValue() bool {
	return t != NoValue && t != NoOpNoValue
}

// IsList reports whether operations of type t take a list of values.
func (t OperationType) IsList() bool {
	return t == WithList || t == NoOpWithList
}

// Operation is one named operation of a domain.
type Operation struct {
	// Name identifies the operation, e.g. "greaterThan".
	Name string `yaml:"name" json:"name"`

	// Operator is the token written in filter text, e.g. "gt".
	// Ignored for no_op_* types.
	Operator string `yaml:"operator,omitempty" json:"operator,omitempty"`

	// Type selects the rendering and parsing shape.
	Type OperationType `yaml:"type" json:"type"`

	// Description is free text for documentation.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// ListDelimiter joins list items. Defaults to a single space.
	ListDelimiter string `yaml:"list_delimiter,omitempty" json:"list_delimiter,omitempty"`

	// ListBrackets wraps a joined list. One character is used on both
	// sides; two or more use the first and last character.
	ListBrackets string `yaml:"list_brackets,omitempty" json:"list_brackets,omitempty"`
}

// Delimiter returns the list delimiter, defaulting to a single space.
func (o Operation) Delimiter() string {
	if o.ListDelimiter == "" {
		return " "
	}
	return o.ListDelimiter
}

// Domain is the description of one filterable entity.
type Domain struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []string    `yaml:"fields,omitempty" json:"fields,omitempty"`
	Operations  []Operation `yaml:"operations" json:"operations"`

	// LogicalOperators replace the default "and"/"or" when set.
	LogicalOperators []string `yaml:"logical_operators,omitempty" json:"logical_operators,omitempty"`

	// AllowUnknownOperators keeps operators the domain does not declare.
	AllowUnknownOperators bool `yaml:"allow_unknown_operators,omitempty" json:"allow_unknown_operators,omitempty"`
}

// Operation returns the operation called name.
func (d *Domain) Operation(name string) (Operation, bool) {
	for _, op := range d.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// HasField reports whether field is declared, ignoring case. A domain
// without fields accepts any field.
func (d *Domain) HasField(field string) bool {
	if len(d.Fields) == 0 {
		return true
	}
	for _, f := range d.Fields {
		if strings.EqualFold(f, field) {
			return true
		}
	}
	return false
}

// ConfigOptions maps the domain onto parser options.
//
// with_arg and with_list operators become value operators, no_value
// operators become no-value operators, and no_op_* operations contribute
// nothing: their shape is recognized by the parser without an operator.
func (d *Domain) ConfigOptions() parser.ConfigOptions {
	opts := parser.ConfigOptions{
		ValidFields:           d.Fields,
		LogicalOperators:      d.LogicalOperators,
		AllowUnknownOperators: d.AllowUnknownOperators,
	}
	seen := make(map[string]bool)
	for _, op := range d.Operations {
		operator := strings.TrimSpace(op.Operator)
		if operator == "" {
			continue
		}
		switch op.Type {
		case WithArg, WithList:
			if !seen["v:"+operator] {
				opts.ValueOperators = append(opts.ValueOperators, operator)
				seen["v:"+operator] = true
			}
		case NoValue:
			if !seen["n:"+operator] {
				opts.NoValueOperators = append(opts.NoValueOperators, operator)
				seen["n:"+operator] = true
			}
		default:
			slog.Warn("ignoring operator on operation without operator",
				"domain", d.Name,
				"operation", op.Name,
				"type", string(op.Type),
				"operator", operator)
		}
	}
	return opts
}

// ParseConfig validates the domain and builds its parser config.
func (d *Domain) ParseConfig() (*parser.Config, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("domain %q: %w", d.Name, errs[0])
	}
	cfg, err := parser.NewConfig(d.ConfigOptions())
	if err != nil {
		return nil, fmt.Errorf("domain %q: %w", d.Name, err)
	}
	return cfg, nil
}

// Config returns the domain's parser config from reg, building and caching
// it on first use. A nil reg uses parser.DefaultRegistry.
func (d *Domain) Config(reg *parser.Registry) (*parser.Config, error) {
	if reg == nil {
		reg = parser.DefaultRegistry
	}
	return reg.Load(d.Name, d.ParseConfig)
}
