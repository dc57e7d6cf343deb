package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/polymer-explorer/internal/dataset"
	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/infrastructure/database"
	"github.com/emiliopalmerini/polymer-explorer/internal/util"
)

const maxRetries = 2

// SnapshotRepository stores datasets as ordered rows so they load back with
// identical experiment and property order.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Save(ctx context.Context, name, source string, ds *domain.Dataset) (*domain.Snapshot, error) {
	checksum, err := dataset.Fingerprint(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint dataset: %w", err)
	}

	schema := ds.Schema()
	snap := &domain.Snapshot{
		ID:          uuid.New().String(),
		Name:        name,
		Source:      source,
		Checksum:    checksum,
		Experiments: ds.Len(),
		Inputs:      len(schema.Inputs()),
		Outputs:     len(schema.Outputs()),
		ImportedAt:  time.Now().UTC().Truncate(time.Second),
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dataset_snapshots (id, name, source, checksum, experiment_count, input_count, output_count, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Name, snap.Source, snap.Checksum, snap.Experiments, snap.Inputs, snap.Outputs, snap.ImportedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for pos, prop := range schema.All() {
		p, _ := schema.Lookup(prop)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_properties (snapshot_id, position, name, kind) VALUES (?, ?, ?, ?)
		`, snap.ID, pos, prop, p.Kind.String()); err != nil {
			return nil, fmt.Errorf("failed to insert property %q: %w", prop, err)
		}
	}

	valueStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_values (snapshot_id, experiment_position, property_position, value) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare value insert: %w", err)
	}
	defer func() { _ = valueStmt.Close() }()

	all := schema.All()
	for pos, exp := range ds.Experiments() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_experiments (snapshot_id, position, experiment_id) VALUES (?, ?, ?)
		`, snap.ID, pos, exp.ID); err != nil {
			return nil, fmt.Errorf("failed to insert experiment %s: %w", exp.ID, err)
		}
		for propPos, prop := range all {
			v, _ := exp.ValueOf(prop)
			if _, err := valueStmt.ExecContext(ctx, snap.ID, pos, propPos, v); err != nil {
				return nil, fmt.Errorf("failed to insert value %s/%s: %w", exp.ID, prop, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return snap, nil
}

const snapshotColumns = `id, name, source, checksum, experiment_count, input_count, output_count, imported_at`

func scanSnapshot(row interface{ Scan(...any) error }) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var importedAt string
	if err := row.Scan(&s.ID, &s.Name, &s.Source, &s.Checksum, &s.Experiments, &s.Inputs, &s.Outputs, &importedAt); err != nil {
		return nil, err
	}
	s.ImportedAt = util.ParseTimeSQLite(importedAt)
	return &s, nil
}

// Latest returns the most recently imported snapshot, or nil when there is none.
func (r *SnapshotRepository) Latest(ctx context.Context) (*domain.Snapshot, error) {
	return database.WithRetry(ctx, maxRetries, func() (*domain.Snapshot, error) {
		row := r.db.QueryRowContext(ctx, `
			SELECT `+snapshotColumns+` FROM dataset_snapshots ORDER BY imported_at DESC, rowid DESC LIMIT 1
		`)
		s, err := scanSnapshot(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
		}
		return s, nil
	})
}

// Get returns one snapshot's metadata, or nil when id is unknown.
func (r *SnapshotRepository) Get(ctx context.Context, id string) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM dataset_snapshots WHERE id = ?`, id)
	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return s, nil
}

// List returns every snapshot, newest first.
func (r *SnapshotRepository) List(ctx context.Context) ([]domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+` FROM dataset_snapshots ORDER BY imported_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Load rebuilds the dataset stored under id, or returns nil when id is unknown.
func (r *SnapshotRepository) Load(ctx context.Context, id string) (*domain.Dataset, error) {
	return database.WithRetry(ctx, maxRetries, func() (*domain.Dataset, error) {
		return r.load(ctx, id)
	})
}

func (r *SnapshotRepository) load(ctx context.Context, id string) (*domain.Dataset, error) {
	snap, err := r.Get(ctx, id)
	if err != nil || snap == nil {
		return nil, err
	}

	names, inputs, outputs, err := r.properties(ctx, id)
	if err != nil {
		return nil, err
	}
	schema, err := domain.NewSchema(inputs, outputs)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}

	ids, err := r.experimentIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	type values struct{ in, out map[string]float64 }
	byPos := make([]values, len(ids))
	for i := range byPos {
		byPos[i] = values{in: map[string]float64{}, out: map[string]float64{}}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT experiment_position, property_position, value FROM snapshot_values
		WHERE snapshot_id = ? ORDER BY experiment_position, property_position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var expPos, propPos int
		var v float64
		if err := rows.Scan(&expPos, &propPos, &v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		if expPos < 0 || expPos >= len(ids) || propPos < 0 || propPos >= len(names) {
			return nil, fmt.Errorf("%w: snapshot %s has a value at (%d, %d) outside its shape", domain.ErrMalformedDataset, id, expPos, propPos)
		}
		if propPos < len(inputs) {
			byPos[expPos].in[names[propPos]] = v
		} else {
			byPos[expPos].out[names[propPos]] = v
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	experiments := make([]*domain.Experiment, len(ids))
	for i, expID := range ids {
		e, err := domain.NewExperiment(expID, schema, byPos[i].in, byPos[i].out)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", id, err)
		}
		experiments[i] = e
	}
	return domain.NewDataset(schema, experiments)
}

func (r *SnapshotRepository) properties(ctx context.Context, id string) (names, inputs, outputs []string, err error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, kind FROM snapshot_properties WHERE snapshot_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to query snapshot properties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to scan property: %w", err)
		}
		switch kind {
		case domain.KindInput.String():
			if len(outputs) > 0 {
				return nil, nil, nil, fmt.Errorf("%w: snapshot %s lists input %q after outputs", domain.ErrMalformedDataset, id, name)
			}
			inputs = append(inputs, name)
		case domain.KindOutput.String():
			outputs = append(outputs, name)
		default:
			return nil, nil, nil, fmt.Errorf("%w: snapshot %s has property %q of kind %q", domain.ErrMalformedDataset, id, name, kind)
		}
		names = append(names, name)
	}
	return names, inputs, outputs, rows.Err()
}

func (r *SnapshotRepository) experimentIDs(ctx context.Context, id string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT experiment_id FROM snapshot_experiments WHERE snapshot_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot experiments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var expID string
		if err := rows.Scan(&expID); err != nil {
			return nil, fmt.Errorf("failed to scan experiment id: %w", err)
		}
		ids = append(ids, expID)
	}
	return ids, rows.Err()
}

// Delete removes a snapshot and all of its rows.
func (r *SnapshotRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"snapshot_values", "snapshot_experiments", "snapshot_properties"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE snapshot_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_snapshots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return tx.Commit()
}

// LatestSource loads the most recently imported snapshot as a dataset source.
type LatestSource struct {
	repo *SnapshotRepository
}

func NewLatestSource(db *sql.DB) *LatestSource {
	return &LatestSource{repo: NewSnapshotRepository(db)}
}

func (s *LatestSource) Load(ctx context.Context) (*domain.Dataset, error) {
	snap, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("no dataset snapshot imported; run `polyx db import` first")
	}
	ds, err := s.repo.Load(ctx, snap.ID)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("snapshot %s disappeared while loading", snap.ID)
	}
	return ds, nil
}
