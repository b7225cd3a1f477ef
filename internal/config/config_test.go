package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saleocr/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.EngineTesseract, cfg.OCREngine)
	assert.Equal(t, "tha+eng", cfg.OCRLanguages)
	assert.Equal(t, 400, cfg.OCRDPI)
	assert.Equal(t, "processed_data", cfg.OutputDir)
	assert.Equal(t, 0.07, cfg.TaxRate)
	assert.Equal(t, 1.0, cfg.AmountTolerance)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Empty(t, cfg.ForwardAPIBase)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OCR_ENGINE", config.EngineVision)
	t.Setenv("TAX_RATE", "0.1")
	t.Setenv("PRODUCT_NAME_FALLBACK", "สินค้าไม่ทราบชื่อ")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.EngineVision, cfg.OCREngine)

	rules := cfg.ReportRules()
	assert.Equal(t, 0.1, rules.TaxRate)
	assert.Equal(t, "สินค้าไม่ทราบชื่อ", rules.NameFallback)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown engine", "OCR_ENGINE", "textract"},
		{"dpi out of range", "OCR_DPI", "30"},
		{"tax rate above one", "TAX_RATE", "7"},
		{"negative tolerance", "AMOUNT_TOLERANCE", "-0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
