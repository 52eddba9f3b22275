// Package service implements the attestation ledger: per-user append-only
// lists of claims, each write gated by a live trust check.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"trustledger/internal/attestation/metrics"
	"trustledger/internal/attestation/models"
	"trustledger/internal/attestation/ports"
	"trustledger/internal/audit"
	id "trustledger/pkg/domain"
	dErrors "trustledger/pkg/domain-errors"
	"trustledger/pkg/requestcontext"
)

// Store is the persistence the ledger needs.
type Store interface {
	Append(ctx context.Context, user id.Address, att models.Attestation) error
	ListByUser(ctx context.Context, user id.Address) ([]models.Attestation, error)
}

// Service enforces the ledger's invariants: a write requires the reporter to
// be trusted at submission time, records are immutable, and lists keep
// insertion order forever.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
	tracer  trace.Tracer

	ownerGate ports.OwnerGate

	// oracle is swappable at runtime (owner-gated), so reads take the lock.
	mu          sync.RWMutex
	oracle      ports.TrustOracle
	oracleLabel string
}

func New(store Store, oracle ports.TrustOracle, ownerGate ports.OwnerGate, logger *slog.Logger, m *metrics.Metrics, pub *audit.Publisher) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("attestation store is required")
	}
	if oracle == nil {
		return nil, fmt.Errorf("trust oracle is required")
	}
	if ownerGate == nil {
		return nil, fmt.Errorf("owner gate is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{
		store:       store,
		logger:      logger,
		metrics:     m,
		audit:       pub,
		tracer:      otel.Tracer("trustledger/attestation"),
		ownerGate:   ownerGate,
		oracle:      oracle,
		oracleLabel: "local",
	}, nil
}

// Submit appends one attestation to the user's list. The caller must be
// trusted at call time; a rejected submit appends nothing.
func (s *Service) Submit(ctx context.Context, caller, user id.Address, category string, value uint64) error {
	ctx, span := s.tracer.Start(ctx, "attestation.Submit")
	defer span.End()

	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthenticated, "caller identity is required")
	}
	if user.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "user address is required")
	}
	if category == "" {
		return dErrors.New(dErrors.CodeValidation, "category is required")
	}

	trusted, err := s.trustOracle().IsTrusted(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeDependencyFailed, "trust registry check failed")
	}
	if !trusted {
		s.metrics.ObserveSubmit(false)
		if s.audit != nil {
			s.audit.Emit(ctx, audit.Event{
				Action:  audit.ActionAttestationRejected,
				Actor:   caller,
				Subject: user,
				Detail:  category,
			})
		}
		return dErrors.New(dErrors.CodeNotTrusted, "reporter is not a trusted bank")
	}

	att := models.Attestation{
		Reporter:   caller,
		ReportedAt: uint64(requestcontext.Now(ctx).Unix()),
		Category:   category,
		Value:      value,
	}
	if err := s.store.Append(ctx, user, att); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append attestation")
	}

	s.metrics.ObserveSubmit(true)
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{
			Action:  audit.ActionAttestationAccepted,
			Actor:   caller,
			Subject: user,
			Detail:  category,
		})
	}
	s.logger.InfoContext(ctx, "attestation accepted",
		"reporter", caller,
		"user", user,
		"category", category,
	)
	return nil
}

// GetAttestations returns the user's full list in insertion order. An unknown
// user yields an empty list, not an error.
func (s *Service) GetAttestations(ctx context.Context, user id.Address) ([]models.Attestation, error) {
	ctx, span := s.tracer.Start(ctx, "attestation.GetAttestations")
	defer span.End()

	if user.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user address is required")
	}
	list, err := s.store.ListByUser(ctx, user)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list attestations")
	}
	s.metrics.ObserveRead()
	return list, nil
}

// SetTrustSource repoints which trust registry the ledger consults. Gated by
// the registry owner: the original contract left this open to anyone, which
// would let any caller swap in a permissive registry.
func (s *Service) SetTrustSource(ctx context.Context, caller id.Address, oracle ports.TrustOracle, label string) error {
	if oracle == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "trust oracle is required")
	}
	if err := s.ownerGate.RequireOwner(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	s.oracle = oracle
	s.oracleLabel = label
	s.mu.Unlock()

	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{
			Action: audit.ActionTrustSourceChanged,
			Actor:  caller,
			Detail: label,
		})
	}
	s.logger.InfoContext(ctx, "trust source repointed", "source", label)
	return nil
}

// TrustSourceLabel reports which oracle is currently consulted.
func (s *Service) TrustSourceLabel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.oracleLabel
}

func (s *Service) trustOracle() ports.TrustOracle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.oracle
}
