// Package ocr turns scanned PDF documents into per-page plain text.
//
// Two engines are available:
//
//   - tesseract: rasterizes each page locally with poppler's pdftoppm and
//     reads it with gosseract (libtesseract). This is the default and
//     matches the production setup for the Thai supplier reports, which are
//     scanned at 400dpi and OCR'd with tha+eng.
//   - vision: sends the PDF inline to the Google Cloud Vision API. Requires
//     GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS in the
//     environment; synchronous processing is limited to 20MB and 5 pages.
//
// Either way the result is an ordered sequence of page texts. The extraction
// pipeline downstream consumes nothing but those strings.
package ocr

import (
	"context"
	"time"
)

// Service defines the interface for page text extraction.
type Service interface {
	// Pages extracts text from the document at path, one string per page,
	// in page order.
	Pages(ctx context.Context, path string) ([]string, error)

	// PagesWithMetadata extracts text with additional processing metadata.
	PagesWithMetadata(ctx context.Context, path string) (*Result, error)
}

// Result contains the extracted pages with processing metadata.
type Result struct {
	// Pages is the per-page text in page order.
	Pages []string `json:"pages"`

	// PageCount is the number of pages processed.
	PageCount int `json:"page_count"`

	// ProcessedAt is when OCR processing completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long the OCR processing took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}

// Config holds the engine selection and the knobs for the local engine.
type Config struct {
	// Engine is "tesseract" or "vision".
	Engine string

	// Languages is the tesseract language string, e.g. "tha+eng".
	Languages string

	// DPI is the rasterization resolution for the local engine.
	DPI int

	// PdftoppmPath locates the poppler rasterizer binary.
	PdftoppmPath string
}

// NewService builds the configured OCR engine.
func NewService(ctx context.Context, cfg Config) (Service, error) {
	switch cfg.Engine {
	case "", "tesseract":
		return NewTesseractService(cfg), nil
	case "vision":
		return NewGoogleVisionService(ctx)
	default:
		return nil, wrapError("NewService", ErrUnknownEngine, cfg.Engine)
	}
}
