//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"trustledger/internal/platform/postgres"
	"trustledger/internal/trust/models"
	"trustledger/internal/trust/store"
	id "trustledger/pkg/domain"
	"trustledger/pkg/platform/sentinel"
	"trustledger/pkg/testutil/containers"
)

type TrustPostgresSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.PostgresStore
}

func TestTrustPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(TrustPostgresSuite))
}

func (s *TrustPostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.pg.DB))
	s.store = store.NewPostgres(s.pg.DB)
}

func (s *TrustPostgresSuite) TearDownSuite() {
	s.pg.Terminate(context.Background())
}

func (s *TrustPostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "registry_owner", "trusted_banks"))
}

func (s *TrustPostgresSuite) TestOwnerLifecycle() {
	ctx := context.Background()
	first := id.MustParseAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	second := id.MustParseAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	_, err := s.store.Owner(ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.EnsureOwner(ctx, first))
	owner, err := s.store.Owner(ctx)
	s.Require().NoError(err)
	s.Equal(first, owner)

	// EnsureOwner never overwrites an existing owner.
	s.Require().NoError(s.store.EnsureOwner(ctx, second))
	owner, err = s.store.Owner(ctx)
	s.Require().NoError(err)
	s.Equal(first, owner)

	// SetOwner does.
	s.Require().NoError(s.store.SetOwner(ctx, second))
	owner, err = s.store.Owner(ctx)
	s.Require().NoError(err)
	s.Equal(second, owner)
}

func (s *TrustPostgresSuite) TestTrustFlagUpsert() {
	ctx := context.Background()
	bank := id.MustParseAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	trusted, err := s.store.IsTrusted(ctx, bank)
	s.Require().NoError(err)
	s.False(trusted, "unknown bank defaults to untrusted")

	s.Require().NoError(s.store.SetTrust(ctx, models.Entry{Bank: bank, Trusted: true, UpdatedAt: time.Unix(1, 0)}))
	trusted, err = s.store.IsTrusted(ctx, bank)
	s.Require().NoError(err)
	s.True(trusted)

	s.Require().NoError(s.store.SetTrust(ctx, models.Entry{Bank: bank, Trusted: false, UpdatedAt: time.Unix(2, 0)}))
	trusted, err = s.store.IsTrusted(ctx, bank)
	s.Require().NoError(err)
	s.False(trusted)
}
