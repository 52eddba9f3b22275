package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustledger/internal/loans/models"
	id "trustledger/pkg/domain"
	"trustledger/pkg/platform/sentinel"
)

func TestInMemoryStore_MarkPaidOnce(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	user := id.MustParseAddress("0xdddddddddddddddddddddddddddddddddddddddd")
	prov := id.MustParseAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	_, err := s.Append(ctx, user, models.LoanRecord{Provider: prov, IssuedAt: 1_000, Amount: 500})
	require.NoError(t, err)

	require.NoError(t, s.MarkPaid(ctx, user, 0, 2_000))

	// The paid state is a one-way transition; a second write is refused and
	// the original paid_at survives.
	assert.ErrorIs(t, s.MarkPaid(ctx, user, 0, 3_000), sentinel.ErrInvalidState)

	rec, err := s.GetByIndex(ctx, user, 0)
	require.NoError(t, err)
	assert.True(t, rec.Paid)
	assert.Equal(t, uint64(2_000), rec.PaidAt)
}

func TestInMemoryStore_MarkPaidOutOfRange(t *testing.T) {
	s := NewInMemoryStore()
	user := id.MustParseAddress("0xdddddddddddddddddddddddddddddddddddddddd")

	assert.ErrorIs(t, s.MarkPaid(context.Background(), user, 0, 2_000), sentinel.ErrOutOfRange)
}
