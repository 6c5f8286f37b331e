package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the snapshot statements.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const deleteFundRecords = `DELETE FROM fund_records`

func (q *Queries) DeleteFundRecords(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteFundRecords)
	return err
}

const deleteSpendingProfiles = `DELETE FROM spending_profiles`

func (q *Queries) DeleteSpendingProfiles(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteSpendingProfiles)
	return err
}

const insertFundRecord = `INSERT INTO fund_records (house, position, payload) VALUES (?, ?, ?)`

type InsertFundRecordParams struct {
	House    string
	Position int64
	Payload  string
}

func (q *Queries) InsertFundRecord(ctx context.Context, arg InsertFundRecordParams) error {
	_, err := q.db.ExecContext(ctx, insertFundRecord, arg.House, arg.Position, arg.Payload)
	return err
}

const insertSpendingProfile = `INSERT INTO spending_profiles (name, payload) VALUES (?, ?)`

type InsertSpendingProfileParams struct {
	Name    string
	Payload string
}

func (q *Queries) InsertSpendingProfile(ctx context.Context, arg InsertSpendingProfileParams) error {
	_, err := q.db.ExecContext(ctx, insertSpendingProfile, arg.Name, arg.Payload)
	return err
}

const listFundRecords = `SELECT payload FROM fund_records WHERE house = ? ORDER BY position`

func (q *Queries) ListFundRecords(ctx context.Context, house string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listFundRecords, house)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		items = append(items, payload)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listSpendingProfiles = `SELECT name, payload FROM spending_profiles ORDER BY name`

type SpendingProfileRow struct {
	Name    string
	Payload string
}

func (q *Queries) ListSpendingProfiles(ctx context.Context) ([]SpendingProfileRow, error) {
	rows, err := q.db.QueryContext(ctx, listSpendingProfiles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SpendingProfileRow
	for rows.Next() {
		var i SpendingProfileRow
		if err := rows.Scan(&i.Name, &i.Payload); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertSnapshotMeta = `INSERT INTO snapshot_meta (id, source, imported_at, fund_rows, profiles)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    source = excluded.source,
    imported_at = excluded.imported_at,
    fund_rows = excluded.fund_rows,
    profiles = excluded.profiles`

type SnapshotMeta struct {
	Source     string
	ImportedAt string
	FundRows   int64
	Profiles   int64
}

func (q *Queries) UpsertSnapshotMeta(ctx context.Context, arg SnapshotMeta) error {
	_, err := q.db.ExecContext(ctx, upsertSnapshotMeta, arg.Source, arg.ImportedAt, arg.FundRows, arg.Profiles)
	return err
}

const getSnapshotMeta = `SELECT source, imported_at, fund_rows, profiles FROM snapshot_meta WHERE id = 1`

func (q *Queries) GetSnapshotMeta(ctx context.Context) (SnapshotMeta, error) {
	row := q.db.QueryRowContext(ctx, getSnapshotMeta)
	var i SnapshotMeta
	err := row.Scan(&i.Source, &i.ImportedAt, &i.FundRows, &i.Profiles)
	return i, err
}
