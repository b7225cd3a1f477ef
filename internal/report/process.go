// Package report reconstructs structured sale line items from noisy,
// OCR-derived text.
//
// The source documents are scanned tabular supplier sale reports with no
// reliable column alignment, so the pipeline never assumes layout: raw page
// text is flattened into a token stream, identifier roles are recognized by
// digit shape, and rows are reassembled around barcode anchors using bounded
// look-back and look-ahead windows. Numeric spellings with ambiguous
// thousand separators are normalized by heuristic, and a final
// reconciliation pass repairs amounts that disagree with
// unit_price*quantity within a configured tolerance.
//
// The pipeline is synchronous, keeps no state between documents, and treats
// every recoverable failure as an absent value: the only fatal condition is
// input with no text at all. Separate documents may be processed
// concurrently by independent Processors.
package report

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"saleocr/internal/logger"
)

// ErrNoText is returned when the input pages contain no text at all. This is
// the pipeline's only fatal condition; the caller should treat the document
// as unprocessable.
var ErrNoText = errors.New("document contains no text")

// Processor runs the full text-to-document pipeline over one report.
type Processor struct {
	assembler *Assembler
	reconcile *Reconciler
	header    *HeaderExtractor
	log       zerolog.Logger
}

// NewProcessor builds a processor from the given rules. It fails only when
// an identifier pattern does not compile.
func NewProcessor(rules Rules) (*Processor, error) {
	assembler, err := NewAssembler(rules)
	if err != nil {
		return nil, err
	}
	return &Processor{
		assembler: assembler,
		reconcile: NewReconciler(rules),
		header:    NewHeaderExtractor(rules),
		log:       logger.WithComponent("report"),
	}, nil
}

// Process turns the per-page OCR text of one report into a Document.
// documentID is the source file name; it seeds the period fallback and has
// no other meaning to the pipeline.
func (p *Processor) Process(pages []string, documentID string) (*Document, error) {
	fullText := strings.Join(pages, "\n")
	if strings.TrimSpace(fullText) == "" {
		return nil, ErrNoText
	}

	meta := p.header.Extract(fullText, documentID)
	tokens := Tokenize(fullText)
	rows, rejected := p.assembler.Rows(tokens)
	rows = p.reconcile.Reconcile(rows)

	doc := buildDocument(meta, rows)

	p.log.Info().
		Str("document_id", documentID).
		Int("pages", len(pages)).
		Int("tokens", len(tokens)).
		Int("items", len(doc.Items)).
		Int("rejected_rows", rejected).
		Msg("report processed")
	return doc, nil
}
