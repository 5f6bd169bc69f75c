package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/minidsl/internal/domain"
	"github.com/roach88/minidsl/internal/parser"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                     `json:"valid"`
	Domains []string                 `json:"domains,omitempty"`
	Errors  []domain.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <domain-file>",
		Short: "Validate domain descriptions",
		Long: `Validate every domain in a YAML file, CUE file or CUE package directory.

Checks operation names, types and operators, field names, and that the
operators of each domain build a consistent parse configuration.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	domains, err := LoadDomains(path)
	if err != nil {
		code, msg := loadErrorCode(err)
		return formatter.fail(ExitCommandError, code, msg, nil)
	}

	formatter.Verbosef("Found %d domain(s) in %s", len(domains), path)

	var (
		names []string
		errs  []domain.ValidationError
	)
	for _, d := range domains {
		formatter.Verbosef("Validating domain: %s", d.Name)
		names = append(names, d.Name)
		errs = append(errs, validateDomain(d)...)
	}

	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Domains: names})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d domain(s) valid\n", len(domains))
	return nil
}

// validateDomain returns the structural errors of d, or the config error
// when d is structurally valid but its operators conflict.
func validateDomain(d *domain.Domain) []domain.ValidationError {
	errs := d.Validate()
	for i := range errs {
		errs[i].Field = d.Name + "." + errs[i].Field
	}
	if len(errs) > 0 {
		return errs
	}

	if _, err := d.ParseConfig(); err != nil {
		var cfgErr *parser.ConfigError
		if errors.As(err, &cfgErr) {
			return []domain.ValidationError{{
				Field:   d.Name + ".operations",
				Message: cfgErr.Message,
				Code:    cfgErr.Code,
			}}
		}
		return []domain.ValidationError{{
			Field:   d.Name,
			Message: err.Error(),
			Code:    ErrCodeGeneric,
		}}
	}
	return nil
}

// outputValidationErrors reports every validation error and fails with
// ExitFailure.
func outputValidationErrors(formatter *OutputFormatter, errs []domain.ValidationError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: errs}
		if err := formatter.Failure(errs[0].Code, errs[0].Message, result); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}
	return exitErr
}
