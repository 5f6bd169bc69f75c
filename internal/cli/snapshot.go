package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/minidsl/internal/store"
)

// SnapshotOptions holds flags shared by the snapshot commands.
type SnapshotOptions struct {
	*RootOptions
	Database string
	Name     string
}

func (o *SnapshotOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&o.Name, "name", "", "snapshot name (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("name")
}

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	SnapshotOptions
	Domain DomainOptions
}

// SaveResult is the JSON payload of the save command.
type SaveResult struct {
	store.Snapshot
	Inserted bool `json:"inserted"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{SnapshotOptions: SnapshotOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "save <expr>...",
		Short: "Parse filter expressions and save them as a snapshot",
		Long: `Parse each argument as one clause and record the resulting filter set
under --name. Saving a filter set identical to one already stored under
the same name returns the existing snapshot.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd.Context(), opts, args, cmd)
		},
	}

	opts.addFlags(cmd)
	opts.Domain.addFlags(cmd)
	return cmd
}

func runSave(ctx context.Context, opts *SaveOptions, exprs []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	fs, err := parseFilters(opts.Domain, exprs, formatter)
	if err != nil {
		return err
	}

	st, err := openStore(opts.Database, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	snap, inserted, err := st.Save(contextOrBackground(ctx), opts.Name, fs)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, err.Error(), err)
	}

	if formatter.Format == "json" {
		return formatter.Success(SaveResult{Snapshot: snap, Inserted: inserted})
	}
	status := "saved"
	if !inserted {
		status = "unchanged"
	}
	fmt.Fprintf(formatter.Writer, "%s %s #%d %s (%d clause(s))\n", status, snap.Name, snap.Seq, snap.ID, snap.ClauseCount)
	return nil
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}
	var history bool

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Print the latest snapshot saved under a name",
		Long: `Print the clauses of the latest snapshot saved under --name.
With --history, list every snapshot saved under the name instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if history {
				return runHistory(cmd.Context(), opts, cmd)
			}
			return runLoad(cmd.Context(), opts, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&history, "history", false, "list all snapshots for the name")
	return cmd
}

func runLoad(ctx context.Context, opts *SnapshotOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(opts.Database, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	fs, err := st.Load(contextOrBackground(ctx), opts.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.fail(ExitFailure, ErrCodeNoSnapshot, fmt.Sprintf("no snapshot named %q", opts.Name), err)
	}
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, err.Error(), err)
	}
	return outputFilters(formatter, fs)
}

func runHistory(ctx context.Context, opts *SnapshotOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(opts.Database, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	snaps, err := st.List(contextOrBackground(ctx), opts.Name)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, err.Error(), err)
	}

	lines := make([]string, len(snaps))
	for i, snap := range snaps {
		lines[i] = fmt.Sprintf("#%d %s %s (%d clause(s))", snap.Seq, snap.ID, snap.ContentHash[:12], snap.ClauseCount)
	}
	return formatter.Lines(lines, snaps)
}

func openStore(path string, formatter *OutputFormatter) (*store.Store, error) {
	slog.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, formatter.fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening database: %v", err), err)
	}
	return st, nil
}

// contextOrBackground returns ctx, or context.Background when cobra ran
// the command without one.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
