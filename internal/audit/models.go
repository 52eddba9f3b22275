package audit

import (
	"context"
	"time"

	id "trustledger/pkg/domain"
)

// Action names a ledger mutation worth keeping a compliance trail for.
type Action string

const (
	ActionTrustGranted             Action = "trust_granted"
	ActionTrustRevoked             Action = "trust_revoked"
	ActionOwnershipTransferred     Action = "ownership_transferred"
	ActionAttestationAccepted      Action = "attestation_accepted"
	ActionAttestationRejected      Action = "attestation_rejected"
	ActionLoanRecorded             Action = "loan_recorded"
	ActionLoanPaid                 Action = "loan_paid"
	ActionTrustSourceChanged       Action = "trust_source_changed"
	ActionAttestationSourceChanged Action = "attestation_source_changed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time  `json:"timestamp"`
	Action    Action     `json:"action"`
	Actor     id.Address `json:"actor"`
	Subject   id.Address `json:"subject,omitzero"`
	Detail    string     `json:"detail,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
}

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actor id.Address) ([]Event, error)
}
