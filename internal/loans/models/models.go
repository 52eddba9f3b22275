// Package models holds the loan-compliance ledger's domain records.
package models

import id "trustledger/pkg/domain"

// FiveYearsInSeconds bounds the trailing window the compliance percentage is
// computed over (5 * 365 * 24 * 60 * 60).
const FiveYearsInSeconds uint64 = 157_680_000

// LoanRecord tracks one loan's Issued -> Paid lifecycle. A record is created
// unpaid, transitions to paid at most once (only by its own provider), and is
// never mutated again. PaidAt stays 0 until the transition.
//
// Within a user's list a record is addressed by its position at read time.
// Seq is a stable, monotonically increasing identifier assigned at creation
// so callers can correlate records across interleaved additions; position
// remains the mutation contract.
type LoanRecord struct {
	Seq      uint64     `json:"seq"`
	Provider id.Address `json:"provider"`
	IssuedAt uint64     `json:"issued_at"`
	Amount   uint64     `json:"amount"`
	Paid     bool       `json:"paid"`
	PaidAt   uint64     `json:"paid_at"`
}

// InWindow reports whether the loan was issued at or after windowStart.
func (r LoanRecord) InWindow(windowStart uint64) bool {
	return r.IssuedAt >= windowStart
}
