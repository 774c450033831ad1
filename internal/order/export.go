package order

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"id", "transaction_code", "date", "status", "method", "subtotal", "shipping", "total"}

// ExportCSV writes one row per order after the header row.
func ExportCSV(w io.Writer, orders []*Order) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, o := range orders {
		method := o.Method.Label
		if method == "" {
			method = o.Method.ID
		}

		row := []string{
			o.ID,
			o.TransactionCode,
			o.CreatedAt.Format(time.RFC3339),
			string(o.Status),
			method,
			strconv.FormatInt(o.Subtotal, 10),
			strconv.FormatInt(o.ShippingFee, 10),
			strconv.FormatInt(o.Total, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
