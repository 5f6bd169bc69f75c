package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/minidsl/internal/filters"
)

// DecodeOptions holds flags for the decode command.
type DecodeOptions struct {
	*RootOptions
	Domain DomainOptions
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decode [file|-]",
		Short: "Rebuild filters from the JSON transport form",
		Long: `Read a transport payload (a JSON array of {key, op, value} objects) from
a file or stdin and print the filters it describes. Clause boundaries
are not part of the transport form, so each element is re-parsed as
its own clause. A malformed payload yields no filters.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			return runDecode(opts, src, cmd)
		},
	}

	opts.Domain.addFlags(cmd)
	return cmd
}

func runDecode(opts *DecodeOptions, src string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var (
		data []byte
		err  error
	)
	if src == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInvalidInput, fmt.Sprintf("reading payload: %v", err), err)
	}

	cfg, err := LoadConfig(opts.Domain)
	if err != nil {
		code, msg := loadErrorCode(err)
		return formatter.fail(ExitCommandError, code, msg, nil)
	}

	fs := filters.NewStore()
	fs.LoadTransport(data, cfg)
	formatter.Verbosef("Decoded %d clause(s)", fs.Len())
	return outputFilters(formatter, fs)
}
