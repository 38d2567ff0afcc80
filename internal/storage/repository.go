// Package storage is the durable movement archive. The ledger itself stays in
// memory; the archive is an audit mirror fed by movement events.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Movement is one archived ledger movement.
type Movement struct {
	ID            int64
	AccountNumber int64
	Kind          string
	AmountCents   int64
	BalanceCents  int64
	RecordedAt    time.Time
	ArchivedAt    time.Time
}

// AccountRecord mirrors an open account in the archive.
type AccountRecord struct {
	Number     int64
	Branch     string
	OwnerTaxID string
	CreatedAt  time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
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

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// UpsertAccount records the account the first time a movement for it arrives.
// Branch and owner never change, so repeats are a no-op.
func (r *SQLiteRepository) UpsertAccount(ctx context.Context, a AccountRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (number, branch, owner_tax_id)
		VALUES (?, ?, ?)
		ON CONFLICT (number) DO NOTHING
	`, a.Number, a.Branch, a.OwnerTaxID)
	if err != nil {
		return fmt.Errorf("upsert account %d: %w", a.Number, err)
	}
	return nil
}

// InsertMovement appends one movement to the archive.
func (r *SQLiteRepository) InsertMovement(ctx context.Context, m Movement) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO movements (account_number, kind, amount_cents, balance_cents, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.AccountNumber, m.Kind, m.AmountCents, m.BalanceCents, m.RecordedAt)
	if err != nil {
		return 0, fmt.Errorf("insert movement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("movement id: %w", err)
	}

	slog.InfoContext(ctx, "Movement archived",
		"id", id,
		"account", m.AccountNumber,
		"kind", m.Kind,
		"amount_cents", m.AmountCents)

	return id, nil
}

// MovementsByAccount returns archived movements for one account in recorded
// order, oldest first.
func (r *SQLiteRepository) MovementsByAccount(ctx context.Context, accountNumber int64) ([]Movement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_number, kind, amount_cents, balance_cents, recorded_at, archived_at
		FROM movements
		WHERE account_number = ?
		ORDER BY recorded_at, id
	`, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.AccountNumber, &m.Kind, &m.AmountCents, &m.BalanceCents, &m.RecordedAt, &m.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return out, nil
}

// MovementCount reports how many movements are archived, used by the worker's
// periodic summary.
func (r *SQLiteRepository) MovementCount(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}
