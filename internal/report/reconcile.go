package report

import (
	"math"

	"github.com/rs/zerolog"

	"saleocr/internal/logger"
)

// Reconciler repairs rows whose numeric fields disagree, using the
// identities amount = unit_price * quantity and net = amount + tax.
//
// OCR-original values win over derived ones: a correction only overwrites a
// field that is absent, was itself derived, or is numerically implausible.
// The pass is deterministic and idempotent, so running it again over its own
// output changes nothing.
type Reconciler struct {
	rules Rules
	log   zerolog.Logger
}

// NewReconciler builds a reconciler for the given rule set.
func NewReconciler(rules Rules) *Reconciler {
	return &Reconciler{
		rules: rules,
		log:   logger.WithComponent("reconciler"),
	}
}

// Reconcile returns a repaired copy of rows. The input is not mutated.
func (r *Reconciler) Reconcile(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = r.reconcileRow(row)
	}
	return out
}

func (r *Reconciler) reconcileRow(row Row) Row {
	if row.UnitPrice.Valid && row.QuantitySold.Valid {
		calc := round2(row.UnitPrice.Value * row.QuantitySold.Value)
		if row.Amount.Valid && math.Abs(calc-row.Amount.Value) <= r.rules.AmountTolerance {
			if row.Amount.Value != calc {
				r.log.Debug().
					Str("barcode", row.Barcode).
					Float64("ocr_amount", row.Amount.Value).
					Float64("calc_amount", calc).
					Msg("amount replaced by unit_price*quantity")
			}
			row.Amount = derived(calc)
			if !row.Tax.Valid || row.Tax.Derived {
				row.Tax = derived(round2(row.Amount.Value * r.rules.TaxRate))
			}
			if !row.NetAmount.Valid || row.NetAmount.Derived {
				row.NetAmount = derived(round2(row.Amount.Value + row.Tax.Value))
			}
		}
	}

	// Negative tax only ever comes from a misread sign, never the report.
	if (!row.Tax.Valid || row.Tax.Value < 0) && row.Amount.Valid {
		row.Tax = derived(round2(row.Amount.Value * r.rules.TaxRate))
	}

	if !row.NetAmount.Valid {
		if row.Amount.Valid && row.Tax.Valid {
			row.NetAmount = derived(round2(row.Amount.Value + row.Tax.Value))
		} else {
			row.NetAmount = derived(0)
		}
	}
	return row
}
