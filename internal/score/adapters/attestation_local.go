// Package adapters provides attestation-source implementations for the score
// calculator: an in-process ledger and a remote instance over HTTP.
package adapters

import (
	"context"

	attmodels "trustledger/internal/attestation/models"
	id "trustledger/pkg/domain"
)

// Ledger is the slice of the attestation service the local adapter needs.
type Ledger interface {
	GetAttestations(ctx context.Context, user id.Address) ([]attmodels.Attestation, error)
}

// LocalAttestationSource reads from the in-process attestation ledger.
type LocalAttestationSource struct {
	ledger Ledger
}

func NewLocalAttestationSource(ledger Ledger) *LocalAttestationSource {
	return &LocalAttestationSource{ledger: ledger}
}

func (a *LocalAttestationSource) ListByUser(ctx context.Context, user id.Address) ([]attmodels.Attestation, error) {
	return a.ledger.GetAttestations(ctx, user)
}
