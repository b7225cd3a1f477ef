// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"saleocr/internal/logger"
	"saleocr/internal/report"
)

// OCR engine names accepted by OCR_ENGINE.
const (
	EngineTesseract = "tesseract"
	EngineVision    = "vision"
)

type Config struct {
	// OCR Configuration
	OCREngine    string // tesseract or vision
	OCRLanguages string // tesseract language string, e.g. "tha+eng"
	OCRDPI       int
	PdftoppmPath string

	// Output and forwarding
	OutputDir      string
	ForwardAPIBase string // empty disables forwarding

	// Extraction heuristics
	TaxRate             float64
	AmountTolerance     float64
	ProductNameFallback string

	// HTTP server
	ListenAddr string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OCREngine:           getEnv("OCR_ENGINE", EngineTesseract),
		OCRLanguages:        getEnv("OCR_LANGUAGES", "tha+eng"),
		OCRDPI:              getEnvInt("OCR_DPI", 400),
		PdftoppmPath:        getEnv("PDFTOPPM_PATH", "pdftoppm"),
		OutputDir:           getEnv("OUTPUT_DIR", "processed_data"),
		ForwardAPIBase:      getEnv("FORWARD_API_BASE", ""),
		TaxRate:             getEnvFloat("TAX_RATE", 0.07),
		AmountTolerance:     getEnvFloat("AMOUNT_TOLERANCE", 1.0),
		ProductNameFallback: getEnv("PRODUCT_NAME_FALLBACK", ""),
		ListenAddr:          getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:       getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:           getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.OCREngine != EngineTesseract && c.OCREngine != EngineVision {
		return fmt.Errorf("OCR_ENGINE must be %q or %q, got %q", EngineTesseract, EngineVision, c.OCREngine)
	}
	if c.OCRDPI < 72 || c.OCRDPI > 1200 {
		return fmt.Errorf("OCR_DPI must be between 72 and 1200, got %d", c.OCRDPI)
	}
	if c.TaxRate <= 0 || c.TaxRate >= 1 {
		return fmt.Errorf("TAX_RATE must be a fraction between 0 and 1, got %v", c.TaxRate)
	}
	if c.AmountTolerance < 0 {
		return fmt.Errorf("AMOUNT_TOLERANCE must not be negative, got %v", c.AmountTolerance)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// ReportRules returns the extraction rules with the environment overrides
// applied on top of the defaults.
func (c *Config) ReportRules() report.Rules {
	rules := report.DefaultRules()
	rules.TaxRate = c.TaxRate
	rules.AmountTolerance = c.AmountTolerance
	if c.ProductNameFallback != "" {
		rules.NameFallback = c.ProductNameFallback
	}
	return rules
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
