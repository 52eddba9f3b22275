// Package service implements the loan-compliance ledger: per-user loan lists
// with an Issued -> Paid lifecycle and a time-windowed compliance metric.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"trustledger/internal/audit"
	"trustledger/internal/loans/metrics"
	"trustledger/internal/loans/models"
	id "trustledger/pkg/domain"
	dErrors "trustledger/pkg/domain-errors"
	"trustledger/pkg/platform/fixedpoint"
	"trustledger/pkg/platform/sentinel"
	"trustledger/pkg/requestcontext"
)

// Store is the persistence the ledger needs. Append assigns the stable
// sequence number; GetByIndex and MarkPaid address records by position.
// MarkPaid must evaluate the unpaid precondition atomically with the write:
// it returns sentinel.ErrInvalidState when the record is already paid and
// sentinel.ErrOutOfRange when it does not exist.
type Store interface {
	Append(ctx context.Context, user id.Address, rec models.LoanRecord) (models.LoanRecord, error)
	GetByIndex(ctx context.Context, user id.Address, index uint64) (models.LoanRecord, error)
	MarkPaid(ctx context.Context, user id.Address, index uint64, paidAt uint64) error
	ListByUser(ctx context.Context, user id.Address) ([]models.LoanRecord, error)
}

// Service enforces the ledger's invariants: only a loan's own provider marks
// it paid, the transition happens at most once, and a failed operation leaves
// the record untouched.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
	tracer  trace.Tracer
}

func New(store Store, logger *slog.Logger, m *metrics.Metrics, pub *audit.Publisher) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("loan store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{
		store:   store,
		logger:  logger,
		metrics: m,
		audit:   pub,
		tracer:  otel.Tracer("trustledger/loans"),
	}, nil
}

// AddLoanRecord appends a new unpaid loan reported by the caller. The ledger
// is intentionally ungated here: any caller may report a loan under their own
// identity as provider.
func (s *Service) AddLoanRecord(ctx context.Context, caller, user id.Address, amount uint64) (models.LoanRecord, error) {
	ctx, span := s.tracer.Start(ctx, "loans.AddLoanRecord")
	defer span.End()

	if caller.IsZero() {
		return models.LoanRecord{}, dErrors.New(dErrors.CodeUnauthenticated, "caller identity is required")
	}
	if user.IsZero() {
		return models.LoanRecord{}, dErrors.New(dErrors.CodeInvalidInput, "user address is required")
	}

	rec := models.LoanRecord{
		Provider: caller,
		IssuedAt: uint64(requestcontext.Now(ctx).Unix()),
		Amount:   amount,
	}
	stored, err := s.store.Append(ctx, user, rec)
	if err != nil {
		return models.LoanRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append loan record")
	}

	s.metrics.ObserveLoanAdded()
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{Action: audit.ActionLoanRecorded, Actor: caller, Subject: user})
	}
	s.logger.InfoContext(ctx, "loan recorded",
		"provider", caller,
		"user", user,
		"seq", stored.Seq,
	)
	return stored, nil
}

// MarkLoanAsPaid transitions the loan at the given position to paid. Fails
// without mutating state when the position does not exist, the caller is not
// the original provider, or the loan is already paid.
func (s *Service) MarkLoanAsPaid(ctx context.Context, caller, user id.Address, index uint64) error {
	ctx, span := s.tracer.Start(ctx, "loans.MarkLoanAsPaid")
	defer span.End()

	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthenticated, "caller identity is required")
	}

	rec, err := s.store.GetByIndex(ctx, user, index)
	if err != nil {
		if errors.Is(err, sentinel.ErrOutOfRange) {
			s.metrics.ObservePaymentRejection("index_out_of_bounds")
			return dErrors.New(dErrors.CodeIndexOutOfBounds, "no loan record at that index")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load loan record")
	}
	if rec.Provider != caller {
		s.metrics.ObservePaymentRejection("not_original_provider")
		return dErrors.New(dErrors.CodeNotOriginalProvider, "only the issuing provider may mark this loan paid")
	}
	if rec.Paid {
		s.metrics.ObservePaymentRejection("already_paid")
		return dErrors.New(dErrors.CodeAlreadyPaid, "loan is already marked paid")
	}

	// The paid guard above is a fast path over a snapshot; the store write is
	// conditional on the record still being unpaid, which is what actually
	// keeps concurrent payments to a single transition.
	paidAt := uint64(requestcontext.Now(ctx).Unix())
	if err := s.store.MarkPaid(ctx, user, index, paidAt); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrInvalidState):
			s.metrics.ObservePaymentRejection("already_paid")
			return dErrors.New(dErrors.CodeAlreadyPaid, "loan is already marked paid")
		case errors.Is(err, sentinel.ErrOutOfRange):
			s.metrics.ObservePaymentRejection("index_out_of_bounds")
			return dErrors.New(dErrors.CodeIndexOutOfBounds, "no loan record at that index")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark loan paid")
	}

	s.metrics.ObserveLoanPaid()
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{Action: audit.ActionLoanPaid, Actor: caller, Subject: user})
	}
	s.logger.InfoContext(ctx, "loan marked paid",
		"provider", caller,
		"user", user,
		"index", index,
		"seq", rec.Seq,
	)
	return nil
}

// GetLoanHistory returns the user's full loan list in insertion order.
func (s *Service) GetLoanHistory(ctx context.Context, user id.Address) ([]models.LoanRecord, error) {
	if user.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user address is required")
	}
	list, err := s.store.ListByUser(ctx, user)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list loan records")
	}
	return list, nil
}

// GetCompliancePercentage returns the paid ratio over loans issued in the
// trailing five-year window, floored to an integer in [0,100]. A user with no
// loans in the window scores 100: they have not failed any payment.
func (s *Service) GetCompliancePercentage(ctx context.Context, user id.Address) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "loans.GetCompliancePercentage")
	defer span.End()

	if user.IsZero() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "user address is required")
	}
	list, err := s.store.ListByUser(ctx, user)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list loan records")
	}

	now := uint64(requestcontext.Now(ctx).Unix())
	windowStart := fixedpoint.SatSub(now, models.FiveYearsInSeconds)

	var total, paid uint64
	for _, rec := range list {
		if !rec.InWindow(windowStart) {
			continue
		}
		total++
		if rec.Paid {
			paid++
		}
	}

	percentage := uint64(fixedpoint.Precision)
	if total > 0 {
		percentage = fixedpoint.ScalePercent(paid, total)
	}
	s.metrics.ObserveCompliance(percentage)
	return percentage, nil
}
