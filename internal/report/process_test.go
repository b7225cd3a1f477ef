package report_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saleocr/internal/report"
)

func newProcessor(t *testing.T) *report.Processor {
	t.Helper()
	p, err := report.NewProcessor(report.DefaultRules())
	require.NoError(t, err)
	return p
}

func TestProcessorEndToEnd(t *testing.T) {
	p := newProcessor(t)

	pages := []string{
		"รายงานการขายสินค้า - แยกตามผู้ขาย รอบวันที่ 1 - 31 ธันวาคม 2567\n" +
			"Vendor 2040334 / คิงคองคือป (2040334)",
		"1 | 123456 | 8851234567890 | ผลิตภัณฑ์เสริมอาหาร ตราคิงคอง | 2012345678 | 5101234567 | 10.50 | 3 | 31.50 | 2.21 | 33.71\n" +
			"2 | 654321 | 8850987654321 | ผลิตภัณฑ์เสริมอาหาร ตราคิงคอง | 2087654321 | 5107654321 | 100.00 | 2 | 200.00 | 14.00 | 214.00",
	}

	doc, err := p.Process(pages, "SALE_2040334_202512H01.pdf")
	require.NoError(t, err)

	assert.Equal(t, "2040334", doc.Header.VendorID)
	assert.Equal(t, "คิงคองคือป (2040334)", doc.Header.VendorName)
	assert.Equal(t, "2024-12-01", doc.Header.PeriodStartDate)
	assert.Equal(t, "2024-12-31", doc.Header.PeriodEndDate)

	require.Len(t, doc.Items, 2)
	for i, item := range doc.Items {
		assert.Equal(t, i+1, item.No, "sequence numbers run 1..N")
		assert.Equal(t, "2040334", item.VendorID)
		assert.Equal(t, "2024-12-01", item.PeriodStartDate)
		assert.Equal(t, "2024-12-31", item.PeriodEndDate)
	}

	first := doc.Items[0]
	assert.Equal(t, "123456", first.ProductCode)
	assert.Equal(t, "8851234567890", first.Barcode)
	assert.Equal(t, "2012345678", first.InvoiceNo)
	assert.Equal(t, "5101234567", first.Document)
	assert.Equal(t, 10.5, first.UnitPrice)
	assert.Equal(t, 3.0, first.QuantitySold)
	assert.Equal(t, 31.5, first.Amount)

	second := doc.Items[1]
	assert.Equal(t, "8850987654321", second.Barcode)
	assert.Equal(t, 200.0, second.Amount)
	assert.Equal(t, 14.0, second.Tax)
	assert.Equal(t, 214.0, second.NetAmount)
}

func TestProcessorNoText(t *testing.T) {
	p := newProcessor(t)

	t.Run("zero pages", func(t *testing.T) {
		_, err := p.Process(nil, "empty.pdf")
		assert.ErrorIs(t, err, report.ErrNoText)
	})

	t.Run("whitespace-only pages", func(t *testing.T) {
		_, err := p.Process([]string{"  \n ", "\t"}, "blank.pdf")
		assert.ErrorIs(t, err, report.ErrNoText)
	})
}

func TestProcessorTextWithoutRows(t *testing.T) {
	p := newProcessor(t)

	doc, err := p.Process([]string{"some scanned text without any table"}, "SALE_202501H01.pdf")
	require.NoError(t, err)
	assert.Empty(t, doc.Items)
	// The period fallback still applies even when no rows survive.
	assert.Equal(t, "2025-01-01", doc.Header.PeriodStartDate)
}

func TestDocumentJSONShape(t *testing.T) {
	p := newProcessor(t)

	doc, err := p.Process([]string{
		"Vendor 2040334 / คิงคองคือป (2040334) รอบวันที่ 1 - 31 ธันวาคม 2567",
		"123456 8851234567890 2012345678 5101234567 10.50 3 31.50",
	}, "SALE.pdf")
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	header, ok := decoded["header"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"vendor_id", "vendor_name", "period_start_date", "period_end_date"} {
		assert.Contains(t, header, key)
	}

	items, ok := decoded["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	for _, key := range []string{
		"no", "product_code", "barcode", "product_name", "invoice_no", "document",
		"unit_price", "quantity_sold", "amount", "tax", "net_amount",
		"vendor_id", "vendor_name", "period_start_date", "period_end_date",
	} {
		assert.Contains(t, item, key)
	}
	assert.Equal(t, float64(1), item["no"])
	assert.Equal(t, "8851234567890", item["barcode"])
}
