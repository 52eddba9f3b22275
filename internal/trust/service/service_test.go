package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	truststore "trustledger/internal/trust/store"
	id "trustledger/pkg/domain"
	dErrors "trustledger/pkg/domain-errors"
)

// =============================================================================
// Trust Registry Service Test Suite
// =============================================================================
// Justification for unit tests: the registry is the single authorization
// authority for the whole service. Owner gating, default-untrusted lookups,
// and no-mutation-on-failure are invariants every other module leans on.

var (
	owner    = id.MustParseAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	stranger = id.MustParseAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	bank     = id.MustParseAddress("0xcccccccccccccccccccccccccccccccccccccccc")
)

type TrustServiceSuite struct {
	suite.Suite
	store   *truststore.InMemoryStore
	service *Service
}

func TestTrustServiceSuite(t *testing.T) {
	suite.Run(t, new(TrustServiceSuite))
}

func (s *TrustServiceSuite) SetupTest() {
	s.store = truststore.NewInMemoryStore()
	s.Require().NoError(s.store.SetOwner(context.Background(), owner))

	var err error
	s.service, err = New(s.store, slog.Default(), nil, nil)
	s.Require().NoError(err)
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *TrustServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, slog.Default(), nil, nil)
		s.Error(err)
		s.Contains(err.Error(), "trust store is required")
	})

	s.Run("nil logger returns error", func() {
		_, err := New(s.store, nil, nil, nil)
		s.Error(err)
	})
}

// =============================================================================
// Authorization Predicate Tests
// =============================================================================

func (s *TrustServiceSuite) TestRequireOwner() {
	ctx := context.Background()

	s.Run("owner passes", func() {
		s.NoError(s.service.RequireOwner(ctx, owner))
	})

	s.Run("non-owner is rejected", func() {
		err := s.service.RequireOwner(ctx, stranger)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("zero caller is unauthenticated", func() {
		err := s.service.RequireOwner(ctx, id.Address{})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthenticated))
	})
}

// =============================================================================
// SetTrust Tests
// =============================================================================

func (s *TrustServiceSuite) TestSetTrust() {
	ctx := context.Background()

	s.Run("owner grants trust", func() {
		s.NoError(s.service.SetTrust(ctx, owner, bank, true))

		trusted, err := s.service.IsTrusted(ctx, bank)
		s.NoError(err)
		s.True(trusted)
	})

	s.Run("owner revokes trust", func() {
		s.Require().NoError(s.service.SetTrust(ctx, owner, bank, true))
		s.NoError(s.service.SetTrust(ctx, owner, bank, false))

		trusted, err := s.service.IsTrusted(ctx, bank)
		s.NoError(err)
		s.False(trusted)
	})

	s.Run("setting the same value twice is a no-op success", func() {
		s.NoError(s.service.SetTrust(ctx, owner, bank, true))
		s.NoError(s.service.SetTrust(ctx, owner, bank, true))

		trusted, err := s.service.IsTrusted(ctx, bank)
		s.NoError(err)
		s.True(trusted)
	})

	s.Run("non-owner cannot mutate and state is unchanged", func() {
		s.SetupTest()
		err := s.service.SetTrust(ctx, stranger, bank, true)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		trusted, err := s.service.IsTrusted(ctx, bank)
		s.NoError(err)
		s.False(trusted)
	})

	s.Run("zero bank address is rejected", func() {
		err := s.service.SetTrust(ctx, owner, id.Address{}, true)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// =============================================================================
// IsTrusted Tests
// =============================================================================

func (s *TrustServiceSuite) TestIsTrusted() {
	ctx := context.Background()

	s.Run("unknown bank defaults to untrusted without error", func() {
		trusted, err := s.service.IsTrusted(ctx, stranger)
		s.NoError(err)
		s.False(trusted)
	})
}

// =============================================================================
// Ownership Transfer Tests
// =============================================================================

func (s *TrustServiceSuite) TestTransferOwnership() {
	ctx := context.Background()

	s.Run("owner hands off and loses the gate", func() {
		s.NoError(s.service.TransferOwnership(ctx, owner, stranger))

		s.NoError(s.service.RequireOwner(ctx, stranger))
		err := s.service.RequireOwner(ctx, owner)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("non-owner cannot transfer", func() {
		s.SetupTest()
		err := s.service.TransferOwnership(ctx, stranger, stranger)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("zero new owner is rejected", func() {
		s.SetupTest()
		err := s.service.TransferOwnership(ctx, owner, id.Address{})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
