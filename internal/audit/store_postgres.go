package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	id "trustledger/pkg/domain"
)

// PostgresStore persists audit events in the audit_events table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	var subject sql.NullString
	if !event.Subject.IsZero() {
		subject = sql.NullString{String: event.Subject.String(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (occurred_at, action, actor, subject, detail, request_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.Timestamp.Unix(), string(event.Action), event.Actor.String(),
		subject, event.Detail, event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByActor(ctx context.Context, actor id.Address) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, action, actor, subject, detail, request_id
		FROM audit_events
		WHERE actor = $1
		ORDER BY occurred_at, id`,
		actor.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			occurredAt int64
			action     string
			actorStr   string
			subject    sql.NullString
			event      Event
		)
		if err := rows.Scan(&occurredAt, &action, &actorStr, &subject, &event.Detail, &event.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Timestamp = time.Unix(occurredAt, 0).UTC()
		event.Action = Action(action)
		if event.Actor, err = id.ParseAddress(actorStr); err != nil {
			return nil, fmt.Errorf("parse audit actor: %w", err)
		}
		if subject.Valid {
			if event.Subject, err = id.ParseAddress(subject.String); err != nil {
				return nil, fmt.Errorf("parse audit subject: %w", err)
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
