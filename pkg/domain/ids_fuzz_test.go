//go:build go1.18

package domain

import (
	"strings"
	"testing"
)

// FuzzParseAddress tests that parsing never panics on arbitrary input and
// that every accepted address round-trips through its string form.
//
// Justification: trust boundary functions must handle arbitrary input safely.
func FuzzParseAddress(f *testing.F) {
	f.Add("")
	f.Add("0x1111111111111111111111111111111111111111")
	f.Add("0x" + strings.Repeat("00", AddressLen))
	f.Add("not-an-address")
	f.Add("0X1111111111111111111111111111111111111111")
	f.Add("'; DROP TABLE trusted_banks;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("0x1111111111111111111111111111111111111111\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		addr, err := ParseAddress(input)
		if err != nil {
			return
		}

		if addr.IsZero() {
			t.Error("zero address was accepted")
		}

		roundTrip, err2 := ParseAddress(addr.String())
		if err2 != nil {
			t.Errorf("valid address failed round-trip: %v", err2)
		}
		if roundTrip != addr {
			t.Error("round-trip changed address value")
		}
	})
}
