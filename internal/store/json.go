// Package store persists processed documents as JSON files.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"saleocr/internal/logger"
	"saleocr/internal/report"
)

// Writer writes documents under a base directory, one file per source
// document, named after the document identifier without its extension.
type Writer struct {
	dir string
	log zerolog.Logger
}

// NewWriter creates a writer rooted at dir. The directory is created on the
// first save.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir: dir,
		log: logger.WithComponent("store"),
	}
}

// Save writes doc as pretty-printed JSON and returns the path of the
// written file.
func (w *Writer) Save(doc *report.Document, documentID string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.dir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(documentID), filepath.Ext(documentID))
	if stem == "" {
		stem = "document"
	}
	path := filepath.Join(w.dir, stem+".json")

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.log.Info().
		Str("path", path).
		Int("items", len(doc.Items)).
		Msg("document saved")
	return path, nil
}
