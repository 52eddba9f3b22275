package store

import (
	"context"
	"database/sql"
	"fmt"

	"trustledger/internal/attestation/models"
	"trustledger/internal/platform/postgres"
	id "trustledger/pkg/domain"
)

// appendAttempts bounds the retry loop on position collisions. Each retry
// implies another insert committed in between, so the bound is only reachable
// under sustained contention on one user's list.
const appendAttempts = 10

// PostgresStore persists attestation lists in PostgreSQL. The per-user
// position column preserves insertion order. value and reported_at are uint64
// stored as BIGINT two's complement: values past MaxInt64 read back exactly
// but show as negatives in raw SQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append computes the next position in the insert itself. Concurrent appends
// for one user can pick the same position; the primary key rejects the loser
// and the insert is retried with a fresh position.
func (s *PostgresStore) Append(ctx context.Context, user id.Address, att models.Attestation) error {
	var err error
	for attempt := 0; attempt < appendAttempts; attempt++ {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO attestations (user_address, position, reporter, reported_at, category, value)
			SELECT $1, COALESCE(MAX(position) + 1, 0), $2, $3, $4, $5
			FROM attestations WHERE user_address = $1
		`, user.String(), att.Reporter.String(), int64(att.ReportedAt), att.Category, int64(att.Value))
		if err == nil {
			return nil
		}
		if !postgres.IsUniqueViolation(err) {
			break
		}
	}
	return fmt.Errorf("append attestation: %w", err)
}

func (s *PostgresStore) ListByUser(ctx context.Context, user id.Address) ([]models.Attestation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reporter, reported_at, category, value
		FROM attestations
		WHERE user_address = $1
		ORDER BY position
	`, user.String())
	if err != nil {
		return nil, fmt.Errorf("list attestations: %w", err)
	}
	defer rows.Close()

	var out []models.Attestation
	for rows.Next() {
		var (
			rawReporter string
			reportedAt  int64
			category    string
			value       int64
		)
		if err := rows.Scan(&rawReporter, &reportedAt, &category, &value); err != nil {
			return nil, fmt.Errorf("scan attestation: %w", err)
		}
		reporter, err := id.ParseAddress(rawReporter)
		if err != nil {
			return nil, fmt.Errorf("stored reporter address is corrupt: %w", err)
		}
		out = append(out, models.Attestation{
			Reporter:   reporter,
			ReportedAt: uint64(reportedAt),
			Category:   category,
			Value:      uint64(value),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attestations: %w", err)
	}
	return out, nil
}
