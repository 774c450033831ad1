package order

import (
	"time"

	"bakery-be/internal/checkout"
)

// MapItemsToSnapshot freezes assembled items and their summary for the
// payment screen.
func MapItemsToSnapshot(items []OrderItem, summary Summary, methodID string, now time.Time) checkout.Snapshot {
	out := make([]checkout.SnapshotItem, 0, len(items))
	for _, it := range items {
		out = append(out, checkout.SnapshotItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Qty:       it.Qty,
			UnitLabel: it.UnitLabel,
			Variant:   it.Variant,
			Subtotal:  it.Subtotal,
		})
	}

	return checkout.Snapshot{
		Items:       out,
		Subtotal:    summary.Subtotal,
		ShippingFee: summary.ShippingFee,
		Discount:    summary.Discount,
		Total:       summary.Total,
		MethodID:    methodID,
		CreatedAt:   now,
	}
}
