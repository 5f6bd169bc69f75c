package parser

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/minidsl/internal/ir"
)

// Configuration error codes (E201-E209)
const (
	ErrOperatorConflict  = "E201" // operator is both value and no-value
	ErrEmptyEntry        = "E202" // empty operator, field or logical entry
	ErrLogicalConflict   = "E203" // logical operator also declared as comparison operator
	ErrReservedToken     = "E204" // "(" or ")" used as operator, field or logical
	ErrWhitespaceInEntry = "E205" // entry contains whitespace and can never be tokenized
)

// ConfigError reports an invalid parse configuration.
type ConfigError struct {
	Code    string
	Entry   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("[%s] %q: %s", e.Code, e.Entry, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsConfigError reports whether err is a ConfigError.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ConfigOptions lists the raw sets a Config is built from.
type ConfigOptions struct {
	// ValueOperators require a value token: "age gt 25".
	ValueOperators []string

	// NoValueOperators take no value: "email isNotNull".
	NoValueOperators []string

	// ValidFields restricts accepted keys. Empty means unrestricted.
	ValidFields []string

	// LogicalOperators default to "and" and "or" when empty.
	LogicalOperators []string

	// AllowUnknownOperators treats any token after a key as an operator.
	AllowUnknownOperators bool
}

// Config is an immutable parse configuration.
// All membership checks are case-insensitive.
type Config struct {
	valueOps     set
	noValueOps   set
	fields       set
	logicalOps   set
	allowUnknown bool
}

// NewConfig validates opts and builds a Config.
// Returns a *ConfigError for the first invalid entry.
func NewConfig(opts ConfigOptions) (*Config, error) {
	logical := opts.LogicalOperators
	if len(logical) == 0 {
		logical = []string{ir.LogicalAnd, ir.LogicalOr}
	}

	cfg := &Config{allowUnknown: opts.AllowUnknownOperators}
	var err error
	if cfg.valueOps, err = newSet("value operator", opts.ValueOperators); err != nil {
		return nil, err
	}
	if cfg.noValueOps, err = newSet("no-value operator", opts.NoValueOperators); err != nil {
		return nil, err
	}
	if cfg.fields, err = newSet("field", opts.ValidFields); err != nil {
		return nil, err
	}
	if cfg.logicalOps, err = newSet("logical operator", logical); err != nil {
		return nil, err
	}

	for _, op := range cfg.valueOps.sorted() {
		if cfg.noValueOps.has(op) {
			return nil, &ConfigError{
				Code:    ErrOperatorConflict,
				Entry:   op,
				Message: "operator cannot be both value and no-value",
			}
		}
	}
	for _, op := range cfg.logicalOps.sorted() {
		if cfg.valueOps.has(op) || cfg.noValueOps.has(op) {
			return nil, &ConfigError{
				Code:    ErrLogicalConflict,
				Entry:   op,
				Message: "logical operator is also declared as a comparison operator",
			}
		}
	}
	return cfg, nil
}

// MustConfig is like NewConfig but panics on error. Intended for tests and
// package-level configs built from literals.
func MustConfig(opts ConfigOptions) *Config {
	cfg, err := NewConfig(opts)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Permissive returns a config with default logical operators, no field
// validation and unknown operators allowed.
func Permissive() *Config {
	return MustConfig(ConfigOptions{AllowUnknownOperators: true})
}

// IsValueOperator reports whether op requires a value.
func (c *Config) IsValueOperator(op string) bool { return c.valueOps.has(op) }

// IsNoValueOperator reports whether op takes no value.
func (c *Config) IsNoValueOperator(op string) bool { return c.noValueOps.has(op) }

// IsLogicalOperator reports whether op is a configured connective.
func (c *Config) IsLogicalOperator(op string) bool { return c.logicalOps.has(op) }

// IsValidField reports whether key is accepted. With no valid fields
// configured every key is accepted.
func (c *Config) IsValidField(key string) bool {
	return len(c.fields) == 0 || c.fields.has(key)
}

// AllowUnknownOperators reports whether unrecognized operators are kept.
func (c *Config) AllowUnknownOperators() bool { return c.allowUnknown }

// ValueOperators returns the value operators, folded and sorted.
func (c *Config) ValueOperators() []string { return c.valueOps.sorted() }

// NoValueOperators returns the no-value operators, folded and sorted.
func (c *Config) NoValueOperators() []string { return c.noValueOps.sorted() }

// ValidFields returns the valid fields, folded and sorted.
func (c *Config) ValidFields() []string { return c.fields.sorted() }

// LogicalOperators returns the logical operators, folded and sorted.
func (c *Config) LogicalOperators() []string { return c.logicalOps.sorted() }

// set holds case-folded entries.
type set map[string]struct{}

func newSet(kind string, entries []string) (set, error) {
	s := make(set, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		switch {
		case e == "":
			return nil, &ConfigError{Code: ErrEmptyEntry, Message: "empty " + kind}
		case e == ir.GroupOpen || e == ir.GroupClose:
			return nil, &ConfigError{Code: ErrReservedToken, Entry: e, Message: kind + " uses a reserved grouping token"}
		case strings.ContainsAny(e, " \t\r\n()"):
			return nil, &ConfigError{Code: ErrWhitespaceInEntry, Entry: e, Message: kind + " contains whitespace or parentheses"}
		}
		s[fold(e)] = struct{}{}
	}
	return s, nil
}

func (s set) has(v string) bool {
	_, ok := s[fold(v)]
	return ok
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// fold applies Unicode case folding. A Caser is not safe for concurrent
// use, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
