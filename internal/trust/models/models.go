// Package models holds the trust registry's domain records.
package models

import (
	"time"

	id "trustledger/pkg/domain"
)

// Entry is one bank's standing in the registry. Addresses never written carry
// an implicit untrusted entry; the registry only materializes explicit sets.
type Entry struct {
	Bank      id.Address
	Trusted   bool
	UpdatedAt time.Time
}
