package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trustledger/internal/trust/models"
	id "trustledger/pkg/domain"
	"trustledger/pkg/platform/sentinel"
)

// PostgresStore persists the registry in PostgreSQL. Stores are pure I/O;
// ownership and trust rules live in the service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Owner(ctx context.Context) (id.Address, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_address FROM registry_owner WHERE singleton`,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return id.Address{}, sentinel.ErrNotFound
		}
		return id.Address{}, fmt.Errorf("get registry owner: %w", err)
	}
	owner, err := id.ParseAddress(raw)
	if err != nil {
		return id.Address{}, fmt.Errorf("stored owner address is corrupt: %w", err)
	}
	return owner, nil
}

func (s *PostgresStore) SetOwner(ctx context.Context, owner id.Address) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registry_owner (singleton, owner_address)
		VALUES (TRUE, $1)
		ON CONFLICT (singleton) DO UPDATE SET owner_address = EXCLUDED.owner_address
	`, owner.String())
	if err != nil {
		return fmt.Errorf("set registry owner: %w", err)
	}
	return nil
}

// EnsureOwner seeds the owner row only when absent.
func (s *PostgresStore) EnsureOwner(ctx context.Context, owner id.Address) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registry_owner (singleton, owner_address)
		VALUES (TRUE, $1)
		ON CONFLICT (singleton) DO NOTHING
	`, owner.String())
	if err != nil {
		return fmt.Errorf("ensure registry owner: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsTrusted(ctx context.Context, bank id.Address) (bool, error) {
	var trusted bool
	err := s.db.QueryRowContext(ctx,
		`SELECT trusted FROM trusted_banks WHERE bank_address = $1`,
		bank.String(),
	).Scan(&trusted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Never-written banks are untrusted by default.
			return false, nil
		}
		return false, fmt.Errorf("get trust entry: %w", err)
	}
	return trusted, nil
}

func (s *PostgresStore) SetTrust(ctx context.Context, entry models.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trusted_banks (bank_address, trusted, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (bank_address) DO UPDATE SET
			trusted = EXCLUDED.trusted,
			updated_at = EXCLUDED.updated_at
	`, entry.Bank.String(), entry.Trusted, entry.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("set trust entry: %w", err)
	}
	return nil
}
