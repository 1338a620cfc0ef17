package sales

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// csvTimeLayout matches the JSON encoding of sold_at, offset included.
const csvTimeLayout = time.RFC3339Nano

var csvHeader = []string{
	"sale_id", "sold_at", "cashier", "item_name", "sku", "barcode",
	"qty", "unit", "unit_price", "line_total",
}

// WriteCSV streams the report rows exactly as displayed.
func WriteCSV(w io.Writer, report Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range report.Rows {
		record := []string{
			strconv.FormatInt(row.SaleID, 10),
			row.SoldAt.Format(csvTimeLayout),
			row.Cashier,
			row.ItemName,
			deref(row.SKU),
			deref(row.Barcode),
			row.Qty.String(),
			row.Unit,
			row.UnitPrice.String(),
			row.LineTotal.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
