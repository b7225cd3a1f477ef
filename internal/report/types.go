package report

// Amount is a monetary or quantity value recovered from OCR text.
// Valid reports whether a value was recovered at all; Derived marks values
// computed from other fields instead of read off the page, so the
// reconciliation pass can tell corrections apart from OCR originals.
type Amount struct {
	Value   float64
	Valid   bool
	Derived bool
}

func original(v float64) Amount { return Amount{Value: v, Valid: true} }
func derived(v float64) Amount  { return Amount{Value: v, Valid: true, Derived: true} }

// Row is a provisional line item assembled around one barcode anchor.
// Rows missing a required identifier never leave the assembler.
type Row struct {
	ProductCode string
	Barcode     string
	ProductName string
	InvoiceNo   string
	DocumentNo  string

	UnitPrice    Amount
	QuantitySold Amount
	Amount       Amount
	Tax          Amount
	NetAmount    Amount
}

// HeaderMeta holds the vendor identity and reporting period extracted from
// the report header. Empty fields mean extraction failed; that is never an
// error by itself.
type HeaderMeta struct {
	VendorID        string `json:"vendor_id"`
	VendorName      string `json:"vendor_name"`
	PeriodStartDate string `json:"period_start_date"`
	PeriodEndDate   string `json:"period_end_date"`
}

// LineItem is one accepted sale line in its final, serializable form.
type LineItem struct {
	No              int     `json:"no"`
	ProductCode     string  `json:"product_code"`
	Barcode         string  `json:"barcode"`
	ProductName     string  `json:"product_name"`
	InvoiceNo       string  `json:"invoice_no"`
	Document        string  `json:"document"`
	UnitPrice       float64 `json:"unit_price"`
	QuantitySold    float64 `json:"quantity_sold"`
	Amount          float64 `json:"amount"`
	Tax             float64 `json:"tax"`
	NetAmount       float64 `json:"net_amount"`
	VendorID        string  `json:"vendor_id"`
	VendorName      string  `json:"vendor_name"`
	PeriodStartDate string  `json:"period_start_date"`
	PeriodEndDate   string  `json:"period_end_date"`
}

// Document is the one artifact a processed report produces.
type Document struct {
	Header HeaderMeta `json:"header"`
	Items  []LineItem `json:"items"`
}
