package ocr

import (
	"errors"
	"fmt"
)

// Common OCR processing errors
var (
	// ErrUnknownEngine is returned when the configured engine name matches
	// no implementation.
	ErrUnknownEngine = errors.New("unknown OCR engine")

	// ErrInvalidPDF is returned when the input is not a readable PDF document.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrOCRFailed is returned when the engine fails to read a page.
	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrEmptyDocument is returned when no page yields any text. The
	// extraction pipeline cannot recover from this; the document must be
	// reported as unprocessable.
	ErrEmptyDocument = errors.New("document contains no readable text")

	// ErrRasterizerMissing is returned when the pdftoppm binary cannot be
	// found. Install poppler-utils or point PDFTOPPM_PATH at the binary.
	ErrRasterizerMissing = errors.New("pdftoppm binary not found")

	// ErrPDFTooLarge is returned when the PDF exceeds the Cloud Vision
	// synchronous processing limit (20MB).
	ErrPDFTooLarge = errors.New("PDF file size exceeds the maximum limit (20MB)")

	// ErrTooManyPages is returned when the PDF has too many pages for
	// Cloud Vision synchronous processing (5 pages).
	ErrTooManyPages = errors.New("PDF has too many pages (maximum 5 pages for synchronous processing)")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")
)

// Error wraps failures with context about the OCR operation that produced them.
type Error struct {
	// Op is the operation that failed (e.g., "PagesWithMetadata").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps err as an *Error unless it already is one.
func wrapError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *Error
	if errors.As(err, &ocrErr) {
		return err
	}

	return &Error{Op: op, Err: err, Details: details}
}
