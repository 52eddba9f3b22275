// Package service implements the score calculator: a stateless read model
// that folds a user's attestations into a raw score and normalizes it by a
// caller-supplied adjustment factor.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"trustledger/internal/audit"
	"trustledger/internal/score/metrics"
	"trustledger/internal/score/ports"
	id "trustledger/pkg/domain"
	dErrors "trustledger/pkg/domain-errors"
	"trustledger/pkg/platform/fixedpoint"
)

// Service computes scores on demand. It stores nothing: every calculation
// reads the attestation source fresh.
type Service struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
	tracer  trace.Tracer

	ownerGate ports.OwnerGate

	// source is swappable at runtime (owner-gated), so reads take the lock.
	mu          sync.RWMutex
	source      ports.AttestationSource
	sourceLabel string
}

func New(source ports.AttestationSource, ownerGate ports.OwnerGate, logger *slog.Logger, m *metrics.Metrics, pub *audit.Publisher) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("attestation source is required")
	}
	if ownerGate == nil {
		return nil, fmt.Errorf("owner gate is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{
		logger:      logger,
		metrics:     m,
		audit:       pub,
		tracer:      otel.Tracer("trustledger/score"),
		ownerGate:   ownerGate,
		source:      source,
		sourceLabel: "local",
	}, nil
}

// CalculateScore returns the user's normalized score: the raw category fold
// scaled by Precision/adjustmentFactor, multiply before divide, floored. An
// adjustment factor of zero yields zero instead of dividing by it.
func (s *Service) CalculateScore(ctx context.Context, user id.Address, adjustmentFactor uint64) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "score.CalculateScore")
	defer span.End()

	if user.IsZero() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "user address is required")
	}

	attestations, err := s.attestationSource().ListByUser(ctx, user)
	if err != nil {
		s.metrics.ObserveSourceFailure()
		return 0, dErrors.Wrap(err, dErrors.CodeDependencyFailed, "attestation lookup failed")
	}

	raw := RawScore(attestations)
	if adjustmentFactor == 0 {
		s.metrics.ObserveScore(0)
		return 0, nil
	}
	score := fixedpoint.MulDiv(raw, fixedpoint.Precision, adjustmentFactor)

	s.metrics.ObserveScore(score)
	s.logger.InfoContext(ctx, "score computed",
		"user", user,
		"attestations", len(attestations),
		"raw", raw,
		"score", score,
	)
	return score, nil
}

// SetAttestationSource repoints which attestation ledger the calculator
// reads. Gated by the registry owner: the original contract left this open to
// anyone, which would let any caller feed the calculator fabricated claims.
func (s *Service) SetAttestationSource(ctx context.Context, caller id.Address, source ports.AttestationSource, label string) error {
	if source == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "attestation source is required")
	}
	if err := s.ownerGate.RequireOwner(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	s.source = source
	s.sourceLabel = label
	s.mu.Unlock()

	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{
			Action: audit.ActionAttestationSourceChanged,
			Actor:  caller,
			Detail: label,
		})
	}
	s.logger.InfoContext(ctx, "attestation source repointed", "source", label)
	return nil
}

// AttestationSourceLabel reports which source is currently consulted.
func (s *Service) AttestationSourceLabel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourceLabel
}

func (s *Service) attestationSource() ports.AttestationSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}
