package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/minidsl/internal/filters"
	"github.com/roach88/minidsl/internal/ir"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Domain DomainOptions
}

// FiltersResult is the JSON payload for commands that print a filter set.
type FiltersResult struct {
	Clauses   []string        `json:"clauses"`
	Transport json.RawMessage `json:"transport"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <expr>...",
		Short: "Parse filter expressions into canonical form",
		Long: `Parse each argument as one filter clause and print the canonical
clauses in sorted order. Duplicate expressions are parsed once and
expressions that yield no tokens are dropped.

With --format json the transport form is printed too.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args, cmd)
		},
	}

	opts.Domain.addFlags(cmd)
	return cmd
}

func runParse(opts *ParseOptions, exprs []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	fs, err := parseFilters(opts.Domain, exprs, formatter)
	if err != nil {
		return err
	}
	return outputFilters(formatter, fs)
}

// parseFilters loads the selected config and parses exprs into a store.
func parseFilters(o DomainOptions, exprs []string, formatter *OutputFormatter) (*filters.Store, error) {
	cfg, err := LoadConfig(o)
	if err != nil {
		code, msg := loadErrorCode(err)
		return nil, formatter.fail(ExitCommandError, code, msg, nil)
	}
	if cfg == nil {
		formatter.Verbosef("No domain given, parsing permissively")
	}

	fs := filters.NewStore()
	fs.Parse(exprs, cfg)
	formatter.Verbosef("Parsed %d expression(s) into %d clause(s)", len(exprs), fs.Len())
	return fs, nil
}

// outputFilters prints the sorted canonical clauses of fs.
func outputFilters(formatter *OutputFormatter, fs *filters.Store) error {
	transport, err := fs.MarshalTransport()
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("encoding transport: %v", err), err)
	}
	clauses := fs.Strings()
	return formatter.Lines(clauses, FiltersResult{Clauses: clauses, Transport: transport})
}

// joinerFor maps a --join flag value to a joiner token.
func joinerFor(join string) (*ir.Token, error) {
	switch join {
	case "and":
		return ir.And(), nil
	case "or":
		return ir.Or(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid join %q: must be one of [and or none]", join)
	}
}
