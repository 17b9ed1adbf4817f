package aiusage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles extraction_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Spend atomically checks the monthly quota and deducts one call.
// It resets the counter to DefaultMonthlyCalls when last_reset_month is behind month.
// Returns ErrQuotaExhausted when 0 rows are updated (quota exhausted or user absent).
func (s *Store) Spend(ctx context.Context, uid, month string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE extraction_usage SET
			calls_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE calls_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR calls_remaining > 0)
	`, month, DefaultMonthlyCalls, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotaExhausted
	}
	return nil
}

// EnsureUser inserts a new extraction_usage row for uid with the default allowance.
// If the row already exists the insert is silently skipped (ON CONFLICT DO NOTHING).
func (s *Store) EnsureUser(ctx context.Context, uid, month string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO extraction_usage (uid, calls_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, DefaultMonthlyCalls, month)
	return err
}

// Remaining reports the calls left for uid in month. Unknown users and
// stale months report the full allowance.
func (s *Store) Remaining(ctx context.Context, uid, month string) (int, error) {
	var remaining int
	var lastMonth string
	err := s.db.QueryRow(ctx, `
		SELECT calls_remaining, last_reset_month FROM extraction_usage WHERE uid = $1
	`, uid).Scan(&remaining, &lastMonth)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultMonthlyCalls, nil
	}
	if err != nil {
		return 0, err
	}
	if lastMonth < month {
		return DefaultMonthlyCalls, nil
	}
	return remaining, nil
}
