// Package service implements the trust registry: the single authorization
// authority deciding which reporting banks may write attestations, and who
// administers that set.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"trustledger/internal/audit"
	"trustledger/internal/trust/metrics"
	"trustledger/internal/trust/models"
	id "trustledger/pkg/domain"
	dErrors "trustledger/pkg/domain-errors"
	"trustledger/pkg/requestcontext"
)

// Store is the persistence the registry needs. Implementations are pure I/O;
// every rule lives here.
type Store interface {
	Owner(ctx context.Context) (id.Address, error)
	SetOwner(ctx context.Context, owner id.Address) error
	IsTrusted(ctx context.Context, bank id.Address) (bool, error)
	SetTrust(ctx context.Context, entry models.Entry) error
}

// Service enforces the registry's invariants: only the owner mutates trust
// state, lookups default to untrusted, and failed operations change nothing.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
	tracer  trace.Tracer
}

func New(store Store, logger *slog.Logger, m *metrics.Metrics, pub *audit.Publisher) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("trust store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{
		store:   store,
		logger:  logger,
		metrics: m,
		audit:   pub,
		tracer:  otel.Tracer("trustledger/trust"),
	}, nil
}

// RequireOwner is the registry's single authorization predicate. Other
// modules consult it through their owner-gate ports, so the "only the owner
// may do Y" invariant lives in exactly one place.
func (s *Service) RequireOwner(ctx context.Context, caller id.Address) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthenticated, "caller identity is required")
	}
	owner, err := s.store.Owner(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registry owner")
	}
	if caller != owner {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the registry owner")
	}
	return nil
}

// SetTrust grants or revokes a bank's trusted flag. Owner-only. Setting the
// same value twice is a successful no-op.
func (s *Service) SetTrust(ctx context.Context, caller, bank id.Address, trusted bool) error {
	ctx, span := s.tracer.Start(ctx, "trust.SetTrust")
	defer span.End()

	if err := s.RequireOwner(ctx, caller); err != nil {
		return err
	}
	if bank.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "bank address is required")
	}

	entry := models.Entry{
		Bank:      bank,
		Trusted:   trusted,
		UpdatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.SetTrust(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update trust entry")
	}

	s.metrics.ObserveUpdate(trusted)
	action := audit.ActionTrustRevoked
	if trusted {
		action = audit.ActionTrustGranted
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{Action: action, Actor: caller, Subject: bank})
	}
	s.logger.InfoContext(ctx, "trust entry updated",
		"bank", bank,
		"trusted", trusted,
	)
	return nil
}

// IsTrusted reports a bank's current standing. Banks never written are
// untrusted by default; the lookup itself never fails on absence.
func (s *Service) IsTrusted(ctx context.Context, bank id.Address) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "trust.IsTrusted")
	defer span.End()

	trusted, err := s.store.IsTrusted(ctx, bank)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up trust entry")
	}
	s.metrics.ObserveCheck(trusted)
	return trusted, nil
}

// TransferOwnership replaces the registry owner. Owner-only; the new owner is
// validated for format only, not reachability.
func (s *Service) TransferOwnership(ctx context.Context, caller, newOwner id.Address) error {
	ctx, span := s.tracer.Start(ctx, "trust.TransferOwnership")
	defer span.End()

	if err := s.RequireOwner(ctx, caller); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "new owner address is required")
	}
	if err := s.store.SetOwner(ctx, newOwner); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to transfer ownership")
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{Action: audit.ActionOwnershipTransferred, Actor: caller, Subject: newOwner})
	}
	s.logger.InfoContext(ctx, "registry ownership transferred",
		"previous_owner", caller,
		"new_owner", newOwner,
	)
	return nil
}

// Owner exposes the current owner for wiring and diagnostics.
func (s *Service) Owner(ctx context.Context) (id.Address, error) {
	owner, err := s.store.Owner(ctx)
	if err != nil {
		return id.Address{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registry owner")
	}
	return owner, nil
}
