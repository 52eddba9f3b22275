package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	attmodels "trustledger/internal/attestation/models"
	id "trustledger/pkg/domain"
	dErrors "trustledger/pkg/domain-errors"
)

// =============================================================================
// Score Calculator Service Test Suite
// =============================================================================
// Justification for unit tests: the category fold, the divide-by-zero policy,
// and the multiply-before-divide scaling are arithmetic invariants best pinned
// down with exact values.

var (
	owner = id.MustParseAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	user  = id.MustParseAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

// stubSource serves a fixed attestation list, or fails outright.
type stubSource struct {
	list []attmodels.Attestation
	err  error
}

func (s *stubSource) ListByUser(_ context.Context, _ id.Address) ([]attmodels.Attestation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

// stubGate admits exactly one owner address.
type stubGate struct{ owner id.Address }

func (g *stubGate) RequireOwner(_ context.Context, caller id.Address) error {
	if caller != g.owner {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the registry owner")
	}
	return nil
}

type ScoreServiceSuite struct {
	suite.Suite
	source  *stubSource
	service *Service
}

func TestScoreServiceSuite(t *testing.T) {
	suite.Run(t, new(ScoreServiceSuite))
}

func (s *ScoreServiceSuite) SetupTest() {
	s.source = &stubSource{}

	var err error
	s.service, err = New(s.source, &stubGate{owner: owner}, slog.Default(), nil, nil)
	s.Require().NoError(err)
}

func att(category string, value uint64) attmodels.Attestation {
	return attmodels.Attestation{Category: category, Value: value}
}

// =============================================================================
// CalculateScore Tests
// =============================================================================

func (s *ScoreServiceSuite) TestCalculateScore() {
	ctx := context.Background()

	s.Run("raw score equals scaled result at factor one hundred", func() {
		s.source.list = []attmodels.Attestation{
			att(CategoryHighIncome, 60),
			att(CategoryHighSavingsRate, 40),
		}
		score, err := s.service.CalculateScore(ctx, user, 100)
		s.NoError(err)
		s.Equal(uint64(100), score)
	})

	s.Run("lower adjustment factor scales the score up", func() {
		s.source.list = []attmodels.Attestation{att(CategoryHighIncome, 100)}
		score, err := s.service.CalculateScore(ctx, user, 60)
		s.NoError(err)
		s.Equal(uint64(166), score) // 100*100/60 floored
	})

	s.Run("debt subtracts from the raw score", func() {
		s.source.list = []attmodels.Attestation{
			att(CategoryHighIncome, 80),
			att(CategoryDebtLevel, 30),
		}
		score, err := s.service.CalculateScore(ctx, user, 100)
		s.NoError(err)
		s.Equal(uint64(50), score)
	})

	s.Run("debt saturates at zero", func() {
		s.source.list = []attmodels.Attestation{
			att(CategoryHighIncome, 20),
			att(CategoryDebtLevel, 50),
		}
		score, err := s.service.CalculateScore(ctx, user, 100)
		s.NoError(err)
		s.Equal(uint64(0), score)
	})

	s.Run("unknown categories have no effect", func() {
		s.source.list = []attmodels.Attestation{
			att(CategoryHighIncome, 30),
			att("CATEGORIA_DESCONOCIDA", 1_000),
		}
		score, err := s.service.CalculateScore(ctx, user, 100)
		s.NoError(err)
		s.Equal(uint64(30), score)
	})

	s.Run("zero adjustment factor yields zero, not an error", func() {
		s.source.list = []attmodels.Attestation{att(CategoryHighIncome, 100)}
		score, err := s.service.CalculateScore(ctx, user, 0)
		s.NoError(err)
		s.Equal(uint64(0), score)
	})

	s.Run("no attestations yields zero", func() {
		s.source.list = nil
		score, err := s.service.CalculateScore(ctx, user, 100)
		s.NoError(err)
		s.Equal(uint64(0), score)
	})

	s.Run("source failure surfaces as dependency failure", func() {
		s.source.err = errors.New("ledger unreachable")
		defer func() { s.source.err = nil }()

		_, err := s.service.CalculateScore(ctx, user, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeDependencyFailed))
	})

	s.Run("zero user is rejected", func() {
		_, err := s.service.CalculateScore(ctx, id.Address{}, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// =============================================================================
// Attestation Source Repointing Tests
// =============================================================================

func (s *ScoreServiceSuite) TestSetAttestationSource() {
	ctx := context.Background()
	replacement := &stubSource{list: []attmodels.Attestation{att(CategoryHighIncome, 77)}}

	s.Run("owner repoints and the new source takes effect", func() {
		s.NoError(s.service.SetAttestationSource(ctx, owner, replacement, "secondary"))
		s.Equal("secondary", s.service.AttestationSourceLabel())

		score, err := s.service.CalculateScore(ctx, user, 100)
		s.NoError(err)
		s.Equal(uint64(77), score)
	})

	s.Run("non-owner cannot repoint", func() {
		err := s.service.SetAttestationSource(ctx, user, replacement, "evil")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("nil source is rejected", func() {
		err := s.service.SetAttestationSource(ctx, owner, nil, "nil")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// =============================================================================
// Raw Fold Saturation
// =============================================================================

func TestRawScore_Saturation(t *testing.T) {
	list := []attmodels.Attestation{
		att(CategoryHighIncome, math.MaxUint64),
		att(CategoryHighSavingsRate, 10),
	}
	assert.Equal(t, uint64(math.MaxUint64), RawScore(list))
}
