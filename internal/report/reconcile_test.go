package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saleocr/internal/report"
)

func ocrValue(v float64) report.Amount {
	return report.Amount{Value: v, Valid: true}
}

func TestReconcilerToleranceBoundary(t *testing.T) {
	r := report.NewReconciler(report.DefaultRules())

	t.Run("difference of exactly 1.0 is corrected", func(t *testing.T) {
		rows := r.Reconcile([]report.Row{{
			UnitPrice:    ocrValue(10.0),
			QuantitySold: ocrValue(3),
			Amount:       ocrValue(31.0), // calc is 30.0
		}})
		require.Len(t, rows, 1)
		assert.Equal(t, 30.0, rows[0].Amount.Value)
		assert.True(t, rows[0].Amount.Derived)
	})

	t.Run("difference above tolerance is left alone", func(t *testing.T) {
		rows := r.Reconcile([]report.Row{{
			UnitPrice:    ocrValue(10.0),
			QuantitySold: ocrValue(3),
			Amount:       ocrValue(32.01),
			Tax:          ocrValue(2.24),
			NetAmount:    ocrValue(34.25),
		}})
		require.Len(t, rows, 1)
		assert.Equal(t, 32.01, rows[0].Amount.Value)
		assert.False(t, rows[0].Amount.Derived)
		assert.Equal(t, 2.24, rows[0].Tax.Value)
	})
}

func TestReconcilerRecomputesDerivedDependents(t *testing.T) {
	r := report.NewReconciler(report.DefaultRules())

	t.Run("derived tax and net follow the corrected amount", func(t *testing.T) {
		rows := r.Reconcile([]report.Row{{
			UnitPrice:    ocrValue(10.0),
			QuantitySold: ocrValue(3),
			Amount:       ocrValue(30.5),
			Tax:          report.Amount{Value: 2.14, Valid: true, Derived: true},
			NetAmount:    report.Amount{Value: 32.64, Valid: true, Derived: true},
		}})
		require.Len(t, rows, 1)
		assert.Equal(t, 30.0, rows[0].Amount.Value)
		assert.Equal(t, 2.1, rows[0].Tax.Value) // 30 * 0.07
		assert.Equal(t, 32.1, rows[0].NetAmount.Value)
	})

	t.Run("OCR-original tax survives the correction", func(t *testing.T) {
		rows := r.Reconcile([]report.Row{{
			UnitPrice:    ocrValue(10.0),
			QuantitySold: ocrValue(3),
			Amount:       ocrValue(30.5),
			Tax:          ocrValue(2.11),
			NetAmount:    ocrValue(32.61),
		}})
		require.Len(t, rows, 1)
		assert.Equal(t, 30.0, rows[0].Amount.Value)
		assert.Equal(t, 2.11, rows[0].Tax.Value)
		assert.Equal(t, 32.61, rows[0].NetAmount.Value)
	})
}

func TestReconcilerNegativeTax(t *testing.T) {
	r := report.NewReconciler(report.DefaultRules())

	rows := r.Reconcile([]report.Row{{
		UnitPrice:    ocrValue(50.0),
		QuantitySold: ocrValue(2),
		Amount:       ocrValue(100.0),
		Tax:          ocrValue(-7.0), // misread sign
		NetAmount:    ocrValue(107.0),
	}})
	require.Len(t, rows, 1)
	assert.Equal(t, 7.0, rows[0].Tax.Value)
	assert.True(t, rows[0].Tax.Derived)
}

func TestReconcilerNetDefaults(t *testing.T) {
	r := report.NewReconciler(report.DefaultRules())

	t.Run("net from amount plus tax", func(t *testing.T) {
		rows := r.Reconcile([]report.Row{{
			Amount: ocrValue(100.0),
			Tax:    ocrValue(7.0),
		}})
		require.Len(t, rows, 1)
		assert.Equal(t, 107.0, rows[0].NetAmount.Value)
		assert.True(t, rows[0].NetAmount.Derived)
	})

	t.Run("net zero when nothing is known", func(t *testing.T) {
		rows := r.Reconcile([]report.Row{{}})
		require.Len(t, rows, 1)
		assert.True(t, rows[0].NetAmount.Valid)
		assert.Equal(t, 0.0, rows[0].NetAmount.Value)
	})
}

func TestReconcilerIdempotent(t *testing.T) {
	r := report.NewReconciler(report.DefaultRules())

	input := []report.Row{
		{
			UnitPrice:    ocrValue(10.0),
			QuantitySold: ocrValue(3),
			Amount:       ocrValue(31.0),
		},
		{
			UnitPrice:    ocrValue(12.25),
			QuantitySold: ocrValue(4),
			Amount:       ocrValue(49.0),
			Tax:          ocrValue(3.43),
			NetAmount:    ocrValue(52.43),
		},
		{
			UnitPrice:    ocrValue(99.0),
			QuantitySold: ocrValue(1),
			Amount:       ocrValue(150.0), // far outside tolerance
			Tax:          ocrValue(-1.0),
		},
	}

	once := r.Reconcile(input)
	twice := r.Reconcile(once)
	assert.Equal(t, once, twice)
}
