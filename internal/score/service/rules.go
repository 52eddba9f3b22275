package service

import (
	attmodels "trustledger/internal/attestation/models"
	"trustledger/pkg/platform/fixedpoint"
)

// Attestation categories with scoring weight. The rule set is open: unknown
// categories fold through with no effect rather than failing, so reporters
// can introduce new labels before the calculator learns to weight them.
const (
	CategoryHighIncome      = "INGRESO_ALTO"
	CategoryHighSavingsRate = "TASA_AHORRO_ALTA"
	CategoryDebtLevel       = "NIVEL_DEUDA"
)

// RawScore folds attestations in list order through the per-category rule
// table. Debt subtracts with saturation at zero: a raw score never goes
// negative regardless of how the list is ordered.
// This is pure domain logic - no I/O, no side effects.
func RawScore(attestations []attmodels.Attestation) uint64 {
	var raw uint64
	for _, att := range attestations {
		switch att.Category {
		case CategoryHighIncome, CategoryHighSavingsRate:
			raw = fixedpoint.SatAdd(raw, att.Value)
		case CategoryDebtLevel:
			raw = fixedpoint.SatSub(raw, att.Value)
		}
	}
	return raw
}
