package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trustledger/internal/loans/models"
	"trustledger/internal/platform/postgres"
	id "trustledger/pkg/domain"
	"trustledger/pkg/platform/sentinel"
)

// appendAttempts bounds the retry loop on position collisions. Each retry
// implies another insert committed in between, so the bound is only reachable
// under sustained contention on one user's list.
const appendAttempts = 10

// PostgresStore persists loan records in PostgreSQL. seq is a global BIGSERIAL
// so it increases monotonically across all users; position orders one user's
// list and is the mutation key. amount and timestamps are uint64 stored as
// BIGINT two's complement: values past MaxInt64 read back exactly but show as
// negatives in raw SQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append computes the next position in the insert itself. Concurrent appends
// for one user can pick the same position; the primary key rejects the loser
// and the insert is retried with a fresh position.
func (s *PostgresStore) Append(ctx context.Context, user id.Address, rec models.LoanRecord) (models.LoanRecord, error) {
	var err error
	for attempt := 0; attempt < appendAttempts; attempt++ {
		var seq int64
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO loan_records (user_address, position, provider, issued_at, amount, paid, paid_at)
			SELECT $1, COALESCE(MAX(position) + 1, 0), $2, $3, $4, FALSE, 0
			FROM loan_records WHERE user_address = $1
			RETURNING seq
		`, user.String(), rec.Provider.String(), int64(rec.IssuedAt), int64(rec.Amount)).Scan(&seq)
		if err == nil {
			rec.Seq = uint64(seq)
			return rec, nil
		}
		if !postgres.IsUniqueViolation(err) {
			break
		}
	}
	return models.LoanRecord{}, fmt.Errorf("append loan record: %w", err)
}

func (s *PostgresStore) GetByIndex(ctx context.Context, user id.Address, index uint64) (models.LoanRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, provider, issued_at, amount, paid, paid_at
		FROM loan_records
		WHERE user_address = $1 AND position = $2
	`, user.String(), int64(index))
	rec, err := scanLoanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LoanRecord{}, sentinel.ErrOutOfRange
		}
		return models.LoanRecord{}, fmt.Errorf("get loan record: %w", err)
	}
	return rec, nil
}

// MarkPaid transitions the record only when still unpaid, so concurrent
// payments resolve to exactly one winner. Zero rows affected means either the
// record does not exist (ErrOutOfRange) or it was already paid
// (ErrInvalidState); a re-read distinguishes the two.
func (s *PostgresStore) MarkPaid(ctx context.Context, user id.Address, index uint64, paidAt uint64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE loan_records
		SET paid = TRUE, paid_at = $3
		WHERE user_address = $1 AND position = $2 AND NOT paid
	`, user.String(), int64(index), int64(paidAt))
	if err != nil {
		return fmt.Errorf("mark loan paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark loan paid: %w", err)
	}
	if affected == 0 {
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT TRUE FROM loan_records WHERE user_address = $1 AND position = $2`,
			user.String(), int64(index),
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrOutOfRange
		}
		if err != nil {
			return fmt.Errorf("mark loan paid: %w", err)
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, user id.Address) ([]models.LoanRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, provider, issued_at, amount, paid, paid_at
		FROM loan_records
		WHERE user_address = $1
		ORDER BY position
	`, user.String())
	if err != nil {
		return nil, fmt.Errorf("list loan records: %w", err)
	}
	defer rows.Close()

	var out []models.LoanRecord
	for rows.Next() {
		rec, err := scanLoanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loan records: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoanRecord(row rowScanner) (models.LoanRecord, error) {
	var (
		seq         int64
		rawProvider string
		issuedAt    int64
		amount      int64
		paid        bool
		paidAt      int64
	)
	if err := row.Scan(&seq, &rawProvider, &issuedAt, &amount, &paid, &paidAt); err != nil {
		return models.LoanRecord{}, err
	}
	provider, err := id.ParseAddress(rawProvider)
	if err != nil {
		return models.LoanRecord{}, fmt.Errorf("stored provider address is corrupt: %w", err)
	}
	return models.LoanRecord{
		Seq:      uint64(seq),
		Provider: provider,
		IssuedAt: uint64(issuedAt),
		Amount:   uint64(amount),
		Paid:     paid,
		PaidAt:   uint64(paidAt),
	}, nil
}
