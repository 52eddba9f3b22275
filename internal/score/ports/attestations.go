// Package ports defines the capability interfaces the score calculator
// depends on. The attestation source can be the in-process ledger or a remote
// instance, and is swappable at runtime.
package ports

import (
	"context"

	attmodels "trustledger/internal/attestation/models"
	id "trustledger/pkg/domain"
)

// AttestationSource yields a user's attestations in insertion order.
type AttestationSource interface {
	ListByUser(ctx context.Context, user id.Address) ([]attmodels.Attestation, error)
}

// OwnerGate is the registry's authorization predicate for owner-only
// administrative actions.
type OwnerGate interface {
	RequireOwner(ctx context.Context, caller id.Address) error
}
