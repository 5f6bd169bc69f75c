package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/minidsl/internal/filters"
	"github.com/roach88/minidsl/internal/ir"
)

// Snapshot is one saved filter set.
type Snapshot struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Seq         int64        `json:"seq"`
	ContentHash string       `json:"content_hash"`
	ClauseCount int          `json:"clause_count"`
	Clauses     []*ir.Clause `json:"-"`
}

// Filters returns a new filters.Store holding the snapshot's clauses.
func (s Snapshot) Filters() *filters.Store {
	return filters.NewStore(s.Clauses...)
}

// Save records the clauses of fs under name.
//
// Saving the same content as the latest snapshot for name returns that
// snapshot with inserted=false. Otherwise the snapshot gets the next seq for
// name, even when an older snapshot holds the same content.
func (s *Store) Save(ctx context.Context, name string, fs *filters.Store) (snap Snapshot, inserted bool, err error) {
	if strings.TrimSpace(name) == "" {
		return Snapshot{}, false, fmt.Errorf("save snapshot: empty name")
	}
	if fs == nil {
		fs = filters.NewStore()
	}

	data, err := fs.MarshalClauses()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot %q: %w", name, err)
	}
	hash := ir.SnapshotHash(data)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot %q: begin tx: %w", name, err)
	}
	defer tx.Rollback() // No-op if committed

	seq := int64(1)
	latest, err := scanSnapshot(tx.QueryRowContext(ctx, `
		SELECT id, name, seq, content_hash, clause_count, clauses
		FROM snapshots
		WHERE name = ?
		ORDER BY seq DESC
		LIMIT 1
	`, name))
	switch {
	case err == nil && latest.ContentHash == hash:
		slog.Debug("snapshot unchanged", "name", name, "id", latest.ID, "seq", latest.Seq)
		return latest, false, nil
	case err == nil:
		seq = latest.Seq + 1
	case !errors.Is(err, sql.ErrNoRows):
		return Snapshot{}, false, fmt.Errorf("save snapshot %q: %w", name, err)
	}

	snap = Snapshot{
		ID:          s.ids.Generate(),
		Name:        name,
		Seq:         seq,
		ContentHash: hash,
		ClauseCount: fs.Len(),
	}
	for _, c := range fs.Clauses() {
		snap.Clauses = append(snap.Clauses, c.Clone())
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, seq, content_hash, clauses, clause_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Name, snap.Seq, snap.ContentHash, string(data), snap.ClauseCount); err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot %q: commit: %w", name, err)
	}

	slog.Info("saved snapshot", "name", name, "id", snap.ID, "seq", snap.Seq, "clauses", snap.ClauseCount)
	return snap, true, nil
}

// Latest returns the snapshot with the highest seq for name.
// Returns sql.ErrNoRows (wrapped) if name has no snapshots.
func (s *Store) Latest(ctx context.Context, name string) (Snapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, `
		SELECT id, name, seq, content_hash, clause_count, clauses
		FROM snapshots
		WHERE name = ?
		ORDER BY seq DESC
		LIMIT 1
	`, name))
	if err != nil {
		return Snapshot{}, fmt.Errorf("latest snapshot %q: %w", name, err)
	}
	return snap, nil
}

// Load returns the clauses of the latest snapshot for name as a new
// filters.Store.
func (s *Store) Load(ctx context.Context, name string) (*filters.Store, error) {
	snap, err := s.Latest(ctx, name)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded snapshot", "name", name, "id", snap.ID, "seq", snap.Seq)
	return snap.Filters(), nil
}

// Get retrieves a snapshot by ID.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, `
		SELECT id, name, seq, content_hash, clause_count, clauses
		FROM snapshots
		WHERE id = ?
	`, id))
	if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot %q: %w", id, err)
	}
	return snap, nil
}

// List returns every snapshot for name ordered by seq.
// Returns an empty slice (not nil) if there are none.
func (s *Store) List(ctx context.Context, name string) ([]Snapshot, error) {
	return s.query(ctx, "list snapshots", `
		SELECT id, name, seq, content_hash, clause_count, clauses
		FROM snapshots
		WHERE name = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, name)
}

// FindByHash returns every snapshot, under any name, whose content hash
// is hash.
func (s *Store) FindByHash(ctx context.Context, hash string) ([]Snapshot, error) {
	return s.query(ctx, "find snapshots", `
		SELECT id, name, seq, content_hash, clause_count, clauses
		FROM snapshots
		WHERE content_hash = ?
		ORDER BY name COLLATE BINARY ASC, seq ASC
	`, hash)
}

// Names returns the distinct snapshot names in binary order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT name FROM snapshots ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}
	return names, nil
}

func (s *Store) query(ctx context.Context, what, query string, args ...any) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", what, err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", what, err)
	}
	return snaps, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var (
		snap    Snapshot
		clauses string
	)
	if err := row.Scan(&snap.ID, &snap.Name, &snap.Seq, &snap.ContentHash, &snap.ClauseCount, &clauses); err != nil {
		return Snapshot{}, err
	}
	cs, err := filters.UnmarshalClauses([]byte(clauses))
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	snap.Clauses = cs
	return snap, nil
}
