package cart

import "context"

type LineView struct {
	Line
	UnitPrice int64 `json:"unitPrice"`
	Subtotal  int64 `json:"subtotal"`
}

type View struct {
	CustomerID   string     `json:"customerId"`
	Lines        []LineView `json:"lines"`
	Subtotal     int64      `json:"subtotal"`
	DiscountCode string     `json:"discountCode,omitempty"`
	Discount     int64      `json:"discount"`
	Total        int64      `json:"total"`
}

// MapLedgerToView prices every line once and derives the cart totals from
// those same prices.
func MapLedgerToView(ctx context.Context, l *Ledger) View {
	lines := l.Lines()
	v := View{
		CustomerID:   l.CustomerID(),
		Lines:        make([]LineView, 0, len(lines)),
		DiscountCode: l.DiscountCode(),
	}

	for _, line := range lines {
		unit := l.unitPrice(ctx, line)
		sub := unit * int64(line.Qty)
		v.Lines = append(v.Lines, LineView{Line: line, UnitPrice: unit, Subtotal: sub})
		v.Subtotal += sub
	}

	v.Discount = l.Discount(ctx, v.Subtotal)
	v.Total = v.Subtotal - v.Discount
	return v
}
