// Package ports defines the capability interfaces the attestation ledger
// depends on. The ledger's contract is the interface shape, not a concrete
// collaborator: the trust source can be the in-process registry or a remote
// instance, and is swappable at runtime.
package ports

import (
	"context"

	id "trustledger/pkg/domain"
)

// TrustOracle answers "is this reporter currently authorized?". The check is
// synchronous and evaluated at write time; it is never re-evaluated for
// records already written, so revocation is not retroactive.
type TrustOracle interface {
	IsTrusted(ctx context.Context, reporter id.Address) (bool, error)
}

// OwnerGate is the registry's authorization predicate for owner-only
// administrative actions, shared so the invariant lives in one place.
type OwnerGate interface {
	RequireOwner(ctx context.Context, caller id.Address) error
}
