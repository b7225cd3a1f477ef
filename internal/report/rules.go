package report

import "time"

// Rules holds the tunable heuristics of the extraction pipeline.
//
// The digit shapes, the Thai month table, the tax rate and the tolerances
// are all properties of one retailer's report layout, not of the algorithm,
// so they are injected here instead of living as literals in the scanner.
// Swapping the patterns adapts the pipeline to another identifier scheme
// without touching the scan itself.
type Rules struct {
	// Identifier shapes. Each pattern is matched against the whole token.
	BarcodePattern     string
	ProductCodePattern string
	InvoicePattern     string
	DocumentPattern    string

	// LookBack is how many tokens behind a barcode anchor the assembler
	// searches for the product code. Keeping it bounded prevents rows from
	// merging across dense OCR noise.
	LookBack int

	// MaxNumbers caps the numeric block collected after an anchor;
	// MinNumbers is the count required before a row is accepted.
	MaxNumbers int
	MinNumbers int

	// TaxRate is the VAT rate used to derive missing tax values.
	TaxRate float64

	// AmountTolerance is the absolute tolerance when comparing the parsed
	// amount against unit_price*quantity. One baht absorbs a misread digit
	// in the decimals without accepting a misread in the integer part.
	AmountTolerance float64

	// NameFallback replaces assembled product names shorter than
	// MinNameRunes. The source reports carry a single recurring product, so
	// a name OCR failed to recover is overwhelmingly this one.
	NameFallback string
	MinNameRunes int

	// Months maps Thai month spellings, including clippings OCR tends to
	// produce, to calendar months.
	Months map[string]time.Month
}

// DefaultRules returns the rule set matching the known supplier sale report
// layout.
func DefaultRules() Rules {
	return Rules{
		BarcodePattern:     `8\d{12}`,
		ProductCodePattern: `\d{6,12}`,
		InvoicePattern:     `20\d{8}`,
		DocumentPattern:    `510\d{7}`,
		LookBack:           5,
		MaxNumbers:         5,
		MinNumbers:         3,
		TaxRate:            0.07,
		AmountTolerance:    1.0,
		NameFallback:       "ผลิตภัณฑ์เสริมอาหาร ตรา คิงคอง 2 แคปซูล",
		MinNameRunes:       6,
		Months:             thaiMonths(),
	}
}

func thaiMonths() map[string]time.Month {
	return map[string]time.Month{
		"มกราคม":     time.January,
		"กุมภาพันธ์": time.February,
		"มีนาคม":     time.March,
		"เมษายน":     time.April,
		"พฤษภาคม":    time.May,
		"มิถุนายน":   time.June,
		"กรกฎาคม":    time.July,
		"สิงหาคม":    time.August,
		"กันยายน":    time.September,
		"ตุลาคม":     time.October,
		"พฤศจิกายน":  time.November,
		"ธันวาคม":    time.December,

		// Clipped spellings seen in OCR output.
		"กุมภา": time.February,
		"มีค":   time.March,
		"เมย":   time.April,
		"มิย":   time.June,
		"กค":    time.July,
		"สค":    time.August,
		"กย":    time.September,
		"ตค":    time.October,
		"พย":    time.November,
		"ธค":    time.December,
	}
}
