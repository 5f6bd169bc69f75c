package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/minidsl/internal/domain"
	"github.com/roach88/minidsl/internal/parser"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeInvalidInput  = "E002" // Bad flag value or unreadable input
	ErrCodeNoDomain      = "E003" // Domain not selected or not found in file
	ErrCodeLoadFailed    = "E004" // Domain file could not be parsed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeInvalidDomain = "E006" // Domain did not produce a parse config
	ErrCodeStore         = "E007" // Snapshot database error
	ErrCodeNoSnapshot    = "E008" // No snapshot under the given name
)

// DomainOptions selects the domain used to parse expressions.
type DomainOptions struct {
	Path string // --domain: YAML file, CUE file or CUE package directory
	Name string // --domain-name: required when the file holds several domains
}

func (o *DomainOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Path, "domain", "", "domain description (.yaml, .yml, .cue or CUE directory); omit to parse permissively")
	cmd.Flags().StringVar(&o.Name, "domain-name", "", "domain to use when the file defines several")
}

// LoadError represents an error that occurred while loading a domain.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDomains reads every domain defined at path.
func LoadDomains(path string) ([]*domain.Domain, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("domain file not found: %s", path)}
	}

	domains, err := domain.LoadFile(path)
	if err != nil {
		var cErr *domain.CompileError
		if errors.As(err, &cErr) {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: cErr.Message, Pos: cErr.Pos}
		}
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
	}
	if len(domains) == 0 {
		return nil, &LoadError{Code: ErrCodeNoDomain, Message: fmt.Sprintf("no domains defined in %s", path)}
	}
	return domains, nil
}

// LoadDomain reads the domain selected by o.
// Returns nil, nil when o names no file.
func LoadDomain(o DomainOptions) (*domain.Domain, error) {
	if o.Path == "" {
		return nil, nil
	}
	domains, err := LoadDomains(o.Path)
	if err != nil {
		return nil, err
	}
	d, err := domain.Find(domains, o.Name)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNoDomain, Message: err.Error()}
	}
	return d, nil
}

// LoadConfig resolves the parse config selected by o.
// Without a domain file the result is nil, which parses permissively.
func LoadConfig(o DomainOptions) (*parser.Config, error) {
	d, err := LoadDomain(o)
	if err != nil || d == nil {
		return nil, err
	}
	cfg, err := d.Config(parser.DefaultRegistry)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidDomain, Message: err.Error()}
	}
	return cfg, nil
}

// loadErrorCode returns the code carried by err, or ErrCodeGeneric.
func loadErrorCode(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
