package report

// buildDocument merges header metadata into the reconciled rows and numbers
// them 1..N in emission order. Rows that still lack one of the core numeric
// fields after reconciliation are dropped without comment; absent tax or net
// values serialize as zero.
func buildDocument(meta HeaderMeta, rows []Row) *Document {
	doc := &Document{
		Header: meta,
		Items:  []LineItem{},
	}

	no := 1
	for _, row := range rows {
		if !row.UnitPrice.Valid || !row.QuantitySold.Valid || !row.Amount.Valid {
			continue
		}
		doc.Items = append(doc.Items, LineItem{
			No:              no,
			ProductCode:     row.ProductCode,
			Barcode:         row.Barcode,
			ProductName:     row.ProductName,
			InvoiceNo:       row.InvoiceNo,
			Document:        row.DocumentNo,
			UnitPrice:       row.UnitPrice.Value,
			QuantitySold:    row.QuantitySold.Value,
			Amount:          row.Amount.Value,
			Tax:             row.Tax.Value,
			NetAmount:       row.NetAmount.Value,
			VendorID:        meta.VendorID,
			VendorName:      meta.VendorName,
			PeriodStartDate: meta.PeriodStartDate,
			PeriodEndDate:   meta.PeriodEndDate,
		})
		no++
	}
	return doc
}
