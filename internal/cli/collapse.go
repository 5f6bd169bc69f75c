package cli

import (
	"github.com/spf13/cobra"
)

// CollapseOptions holds flags for the collapse command.
type CollapseOptions struct {
	*RootOptions
	Domain DomainOptions
	Join   string
}

// NewCollapseCommand creates the collapse command.
func NewCollapseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CollapseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "collapse <expr>...",
		Short: "Merge filter expressions into one clause",
		Long: `Parse each argument as one clause, then merge the clauses in canonical
order into a single clause. Clauses not already ending in "and" or "or"
are joined with the --join operator.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollapse(opts, args, cmd)
		},
	}

	opts.Domain.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Join, "join", "and", "joining operator (and|or|none)")
	return cmd
}

func runCollapse(opts *CollapseOptions, exprs []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	joiner, err := joinerFor(opts.Join)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
	}

	fs, err := parseFilters(opts.Domain, exprs, formatter)
	if err != nil {
		return err
	}
	fs.Collapse(joiner)
	return outputFilters(formatter, fs)
}
