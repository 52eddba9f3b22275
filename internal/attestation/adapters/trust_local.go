// Package adapters provides concrete TrustOracle implementations: the
// in-process registry service and an HTTP client for a remote registry.
package adapters

import (
	"context"

	id "trustledger/pkg/domain"
)

// Registry is the slice of the trust service the local oracle needs.
type Registry interface {
	IsTrusted(ctx context.Context, bank id.Address) (bool, error)
}

// LocalTrustOracle consults the registry running in the same process.
type LocalTrustOracle struct {
	registry Registry
}

func NewLocalTrustOracle(registry Registry) *LocalTrustOracle {
	return &LocalTrustOracle{registry: registry}
}

func (a *LocalTrustOracle) IsTrusted(ctx context.Context, reporter id.Address) (bool, error) {
	return a.registry.IsTrusted(ctx, reporter)
}
