// Package domain holds the identity types shared by every ledger module.
//
// Identities are opaque 20-byte account addresses. They are equality-comparable
// and carry no ordering semantics; parsing enforces format validity at trust
// boundaries so services never see a malformed address.
package domain

import (
	"encoding/hex"
	"strings"

	dErrors "trustledger/pkg/domain-errors"
)

// AddressLen is the fixed width of an account address in bytes.
const AddressLen = 20

// Address identifies an account: a user, a reporting bank, or the registry
// owner. The zero value means "no address" and is never a valid identity.
type Address [AddressLen]byte

// ZeroAddress is the absent identity. Guards compare against it to detect
// unauthenticated callers.
var ZeroAddress Address

// ParseAddress parses a 0x-prefixed, 40-hex-digit account address. It rejects
// empty input, malformed hex, wrong widths, and the all-zero address.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must not be empty")
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must be 0x-prefixed")
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address is not valid hex")
	}
	if len(raw) != AddressLen {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must be 20 bytes")
	}
	var addr Address
	copy(addr[:], raw)
	if addr == ZeroAddress {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "zero address is not a valid identity")
	}
	return addr, nil
}

// MustParseAddress is ParseAddress for fixtures and wiring code where the
// input is a compile-time constant. It panics on invalid input.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// String renders the address as lowercase 0x-prefixed hex.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the absent identity.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// MarshalText implements encoding.TextMarshaler so addresses serialize as hex
// strings in JSON payloads.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with the same validation
// rules as ParseAddress.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
