// Package storage keeps an imported MPLADS snapshot in SQLite so the server
// can start from a single file instead of the published exports.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mplads/internal/core"
	"mplads/internal/log"
	"mplads/internal/sources"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

var _ sources.Source = (*SQLiteRepository)(nil)

// Snapshot describes the last import.
type Snapshot struct {
	Source     string    `json:"source"`
	ImportedAt time.Time `json:"importedAt"`
	FundRows   int       `json:"fundRows"`
	Profiles   int       `json:"profiles"`
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := migrateUp(db, Migrations, "migrations")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	logger.Debug("Schema migrated", "path", dbPath, "version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Import replaces the stored snapshot with everything src provides. Both
// houses and the spending mapping are written in one transaction; a source
// error aborts the import and leaves the previous snapshot in place.
func (r *SQLiteRepository) Import(ctx context.Context, src sources.Source, sourceName string) (Snapshot, error) {
	funds := make(map[core.House][]core.RawFundRecord, 2)
	for _, house := range []core.House{core.LokSabha, core.RajyaSabha} {
		rows, err := src.LoadFundRecords(ctx, house)
		if err != nil {
			return Snapshot{}, fmt.Errorf("load %s: %w", house, err)
		}
		funds[house] = rows
	}
	spending, err := src.LoadSpending(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load spending: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()
	q := r.queries.WithTx(tx)

	if err := q.DeleteFundRecords(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("clear fund records: %w", err)
	}
	if err := q.DeleteSpendingProfiles(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("clear spending profiles: %w", err)
	}

	snap := Snapshot{Source: sourceName, ImportedAt: time.Now().UTC().Truncate(time.Second)}
	for house, rows := range funds {
		for i, raw := range rows {
			payload, err := json.Marshal(raw)
			if err != nil {
				return Snapshot{}, fmt.Errorf("encode %s row %d: %w", house, i, err)
			}
			if err := q.InsertFundRecord(ctx, InsertFundRecordParams{
				House:    house.String(),
				Position: int64(i),
				Payload:  string(payload),
			}); err != nil {
				return Snapshot{}, fmt.Errorf("insert %s row %d: %w", house, i, err)
			}
			snap.FundRows++
		}
	}
	for name, p := range spending {
		payload, err := json.Marshal(p)
		if err != nil {
			return Snapshot{}, fmt.Errorf("encode profile %q: %w", name, err)
		}
		if err := q.InsertSpendingProfile(ctx, InsertSpendingProfileParams{Name: name, Payload: string(payload)}); err != nil {
			return Snapshot{}, fmt.Errorf("insert profile %q: %w", name, err)
		}
		snap.Profiles++
	}
	if err := q.UpsertSnapshotMeta(ctx, SnapshotMeta{
		Source:     snap.Source,
		ImportedAt: snap.ImportedAt.Format(time.RFC3339),
		FundRows:   int64(snap.FundRows),
		Profiles:   int64(snap.Profiles),
	}); err != nil {
		return Snapshot{}, fmt.Errorf("record snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit import: %w", err)
	}

	r.logger.InfoContext(ctx, "Snapshot imported",
		log.FieldSource, snap.Source,
		log.FieldRecords, snap.FundRows,
		"profiles", snap.Profiles)
	return snap, nil
}

// Snapshot reports the last import, or core.ErrNoData when nothing has been
// imported yet.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (Snapshot, error) {
	meta, err := r.queries.GetSnapshotMeta(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, core.ErrNoData
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	at, err := time.Parse(time.RFC3339, meta.ImportedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse imported_at: %w", err)
	}
	return Snapshot{Source: meta.Source, ImportedAt: at, FundRows: int(meta.FundRows), Profiles: int(meta.Profiles)}, nil
}

// LoadFundRecords returns the stored rows of one house in import order.
func (r *SQLiteRepository) LoadFundRecords(ctx context.Context, house core.House) ([]core.RawFundRecord, error) {
	if !house.IsValid() {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownHouse, house)
	}
	payloads, err := r.queries.ListFundRecords(ctx, house.String())
	if err != nil {
		return nil, fmt.Errorf("list fund records: %w", err)
	}
	out := make([]core.RawFundRecord, 0, len(payloads))
	for i, p := range payloads {
		var rec core.RawFundRecord
		if err := json.Unmarshal([]byte(p), &rec); err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", house, i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadSpending returns the stored spending mapping.
func (r *SQLiteRepository) LoadSpending(ctx context.Context) (map[string]core.RawSpendingProfile, error) {
	rows, err := r.queries.ListSpendingProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list spending profiles: %w", err)
	}
	out := make(map[string]core.RawSpendingProfile, len(rows))
	for _, row := range rows {
		var p core.RawSpendingProfile
		if err := json.Unmarshal([]byte(row.Payload), &p); err != nil {
			return nil, fmt.Errorf("decode profile %q: %w", row.Name, err)
		}
		out[row.Name] = p
	}
	return out, nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
