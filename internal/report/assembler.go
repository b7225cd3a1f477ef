package report

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"saleocr/internal/logger"
)

var (
	digitPattern        = regexp.MustCompile(`\d`)
	numericShapePattern = regexp.MustCompile(`^\d+[.,]?\d*$`)
)

// Assembler reconstructs provisional line items from the flat token stream.
//
// The scan keeps a single forward cursor and never backtracks over a
// committed row. Each barcode token becomes an anchor: the assembler looks
// back a bounded window for the nearest product code, then walks forward
// claiming the first invoice-shaped and document-shaped tokens plus up to
// MaxNumbers numeric values. Tokens that are none of those and carry no
// digits are buffered as product name words.
//
// A committed row consumes its whole span, so consecutive rows never share
// tokens. A rejected anchor advances the cursor by a single position and the
// rejected span stays available to later anchors.
type Assembler struct {
	rules    Rules
	classify *Classifier
	log      zerolog.Logger
}

// NewAssembler builds an assembler for the given rule set.
func NewAssembler(rules Rules) (*Assembler, error) {
	c, err := NewClassifier(rules)
	if err != nil {
		return nil, err
	}
	return &Assembler{
		rules:    rules,
		classify: c,
		log:      logger.WithComponent("assembler"),
	}, nil
}

// Rows scans tokens left to right and returns the accepted rows in emission
// order, plus the number of barcode anchors rejected by the minimal-field
// check. Rejections are silent beyond that count.
func (a *Assembler) Rows(tokens []string) ([]Row, int) {
	var rows []Row
	rejected := 0

	i := 0
	for i < len(tokens) {
		if !a.classify.IsBarcode(tokens[i]) {
			i++
			continue
		}
		row, end, ok := a.assemble(tokens, i)
		if !ok {
			rejected++
			i++
			continue
		}
		rows = append(rows, row)
		i = end
	}

	if rejected > 0 {
		a.log.Debug().
			Int("accepted", len(rows)).
			Int("rejected", rejected).
			Msg("barcode anchors rejected by minimal-field check")
	}
	return rows, rejected
}

// assemble builds one candidate row around the barcode anchor at index i.
// end is the position the outer scan resumes from when the row commits.
func (a *Assembler) assemble(tokens []string, i int) (row Row, end int, ok bool) {
	row.Barcode = tokens[i]

	// Nearest product code inside the look-back window.
	for j := i - 1; j >= 0 && j >= i-a.rules.LookBack; j-- {
		if a.classify.IsProductCode(tokens[j]) {
			row.ProductCode = tokens[j]
			break
		}
	}

	var numbers []float64
	var nameTokens []string
	k := i + 1
	for k < len(tokens) && len(numbers) < a.rules.MaxNumbers {
		tok := tokens[k]

		if row.InvoiceNo == "" && a.classify.IsInvoiceNo(tok) {
			row.InvoiceNo = tok
			k++
			continue
		}
		if row.DocumentNo == "" && a.classify.IsDocumentNo(tok) {
			row.DocumentNo = tok
			k++
			continue
		}

		if v, parsed := ParseAmount(tok); parsed {
			numbers = append(numbers, v)
		} else if !numericShapePattern.MatchString(tok) {
			nameTokens = append(nameTokens, tok)
		}
		k++
	}

	if row.ProductCode == "" || row.InvoiceNo == "" || row.DocumentNo == "" ||
		len(numbers) < a.rules.MinNumbers {
		return Row{}, 0, false
	}

	// Fixed positional convention: [unit_price, quantity, amount, tax, net].
	// Positions beyond the collected count stay absent, not zero.
	fields := []*Amount{&row.UnitPrice, &row.QuantitySold, &row.Amount, &row.Tax, &row.NetAmount}
	for idx, v := range numbers {
		if idx >= len(fields) {
			break
		}
		*fields[idx] = original(v)
	}

	// Fill the gaps the page did not yield. These stay flagged as derived
	// so the reconciler may recompute them later.
	if !row.Tax.Valid && row.Amount.Valid {
		row.Tax = derived(round2(row.Amount.Value * a.rules.TaxRate))
	}
	if !row.NetAmount.Valid && row.Amount.Valid && row.Tax.Valid {
		row.NetAmount = derived(round2(row.Amount.Value + row.Tax.Value))
	}

	row.ProductName = a.productName(nameTokens)
	return row, k, true
}

// productName joins the buffered name words, dropping any that still carry a
// digit. Names too short to be real fall back to the configured default.
func (a *Assembler) productName(nameTokens []string) string {
	kept := make([]string, 0, len(nameTokens))
	for _, t := range nameTokens {
		if !digitPattern.MatchString(t) {
			kept = append(kept, t)
		}
	}
	name := strings.TrimSpace(strings.Join(kept, " "))
	if utf8.RuneCountInString(name) < a.rules.MinNameRunes {
		return a.rules.NameFallback
	}
	return name
}
