package report

import (
	"fmt"
	"regexp"
)

// Classifier decides which identifier role a token plays based on its digit
// shape. The shapes come from Rules; every pattern must match the whole
// token, so a product code embedded in a longer string never matches.
//
// Document numbers also fall inside the product code digit range, which is
// why the assembler checks invoice and document membership before anything
// else during its forward scan.
type Classifier struct {
	barcode     *regexp.Regexp
	productCode *regexp.Regexp
	invoiceNo   *regexp.Regexp
	documentNo  *regexp.Regexp
}

// NewClassifier compiles the identifier patterns from rules.
func NewClassifier(rules Rules) (*Classifier, error) {
	c := &Classifier{}
	for _, p := range []struct {
		name    string
		pattern string
		dst     **regexp.Regexp
	}{
		{"barcode", rules.BarcodePattern, &c.barcode},
		{"product code", rules.ProductCodePattern, &c.productCode},
		{"invoice", rules.InvoicePattern, &c.invoiceNo},
		{"document", rules.DocumentPattern, &c.documentNo},
	} {
		re, err := regexp.Compile(`^(?:` + p.pattern + `)$`)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", p.name, p.pattern, err)
		}
		*p.dst = re
	}
	return c, nil
}

// IsBarcode reports whether tok is a 13-digit article barcode.
func (c *Classifier) IsBarcode(tok string) bool { return c.barcode.MatchString(tok) }

// IsProductCode reports whether tok has the internal product code shape.
func (c *Classifier) IsProductCode(tok string) bool { return c.productCode.MatchString(tok) }

// IsInvoiceNo reports whether tok has the invoice number shape.
func (c *Classifier) IsInvoiceNo(tok string) bool { return c.invoiceNo.MatchString(tok) }

// IsDocumentNo reports whether tok has the document number shape.
func (c *Classifier) IsDocumentNo(tok string) bool { return c.documentNo.MatchString(tok) }
