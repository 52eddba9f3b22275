package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "trustledger/pkg/domain-errors"
)

// TestParseAddress_Invariants validates the parsing invariant: addresses must
// be 0x-prefixed, 40 hex digits, and non-zero.
//
// Justification: this is a pure function enforcing a domain invariant at the
// trust boundary; every identity in the system passes through it.
func TestParseAddress_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAddress("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects missing prefix", func(t *testing.T) {
		_, err := ParseAddress(strings.Repeat("ab", AddressLen))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := ParseAddress("0xabcd")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non-hex digits", func(t *testing.T) {
		_, err := ParseAddress("0x" + strings.Repeat("zz", AddressLen))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects zero address", func(t *testing.T) {
		_, err := ParseAddress("0x" + strings.Repeat("00", AddressLen))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid address case-insensitively", func(t *testing.T) {
		addr, err := ParseAddress("0xAbCdEf0123456789abcdef0123456789ABCDEF01")
		require.NoError(t, err)
		assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", addr.String())
	})
}

func TestAddress_String_RoundTrip(t *testing.T) {
	addr := MustParseAddress("0x1111111111111111111111111111111111111111")
	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)
}

func TestAddress_IsZero(t *testing.T) {
	assert.True(t, ZeroAddress.IsZero())
	assert.True(t, Address{}.IsZero())
	assert.False(t, MustParseAddress("0x1111111111111111111111111111111111111111").IsZero())
}

func TestAddress_TextMarshalling(t *testing.T) {
	addr := MustParseAddress("0x2222222222222222222222222222222222222222")

	text, err := addr.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, addr.String(), string(text))

	var decoded Address
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, addr, decoded)
}
