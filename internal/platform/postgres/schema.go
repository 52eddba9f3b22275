package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is applied at startup. Statements are idempotent so restarts and
// multi-instance deployments are safe without a migration tool.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS registry_owner (
		singleton     BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
		owner_address TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trusted_banks (
		bank_address TEXT PRIMARY KEY,
		trusted      BOOLEAN NOT NULL,
		updated_at   BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attestations (
		user_address TEXT NOT NULL,
		position     BIGINT NOT NULL,
		reporter     TEXT NOT NULL,
		reported_at  BIGINT NOT NULL,
		category     TEXT NOT NULL,
		value        BIGINT NOT NULL,
		PRIMARY KEY (user_address, position)
	)`,
	`CREATE TABLE IF NOT EXISTS loan_records (
		seq          BIGSERIAL UNIQUE,
		user_address TEXT NOT NULL,
		position     BIGINT NOT NULL,
		provider     TEXT NOT NULL,
		issued_at    BIGINT NOT NULL,
		amount       BIGINT NOT NULL,
		paid         BOOLEAN NOT NULL DEFAULT FALSE,
		paid_at      BIGINT,
		PRIMARY KEY (user_address, position)
	)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id         BIGSERIAL PRIMARY KEY,
		occurred_at BIGINT NOT NULL,
		action     TEXT NOT NULL,
		actor      TEXT NOT NULL,
		subject    TEXT,
		detail     TEXT,
		request_id TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS audit_events_actor_idx ON audit_events (actor, occurred_at)`,
}

// EnsureSchema creates the ledger tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
