// Package models holds the attestation ledger's domain records.
package models

import id "trustledger/pkg/domain"

// Attestation is a timestamped, categorized numeric claim about a user,
// written by a trusted reporter. Immutable once created: the ledger appends,
// never mutates, never reorders, never deletes.
type Attestation struct {
	Reporter   id.Address `json:"reporter"`
	ReportedAt uint64     `json:"reported_at"`
	Category   string     `json:"category"`
	Value      uint64     `json:"value"`
}
