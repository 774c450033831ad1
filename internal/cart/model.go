package cart

import "bakery-be/internal/product"

const (
	MinQty = 1
	MaxQty = 99
)

// Clamp forces qty into [MinQty, MaxQty].
func Clamp(qty int) int {
	if qty < MinQty {
		return MinQty
	}
	if qty > MaxQty {
		return MaxQty
	}
	return qty
}

// Key identifies a cart line. Lines with the same key merge.
type Key struct {
	ProductID   string `json:"productId"`
	Variant     string `json:"variant,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

const (
	MetaSize      = "size"
	MetaPackageID = "packageId"
)

type Line struct {
	ProductID string       `json:"productId"`
	Qty       int          `json:"qty"`
	Variant   string       `json:"variant,omitempty"`
	UnitMode  product.Mode `json:"unitMode,omitempty"`
	UnitLabel string       `json:"unitLabel,omitempty"`
	// PriceOverride is the unit price frozen when the line was added. It wins
	// over the live catalog price.
	PriceOverride *int64            `json:"priceOverride,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Fingerprint   string            `json:"fingerprint,omitempty"`
}

func (l Line) Key() Key {
	return Key{ProductID: l.ProductID, Variant: l.Variant, Fingerprint: l.Fingerprint}
}

func (l Line) clone() Line {
	if l.PriceOverride != nil {
		p := *l.PriceOverride
		l.PriceOverride = &p
	}
	if l.Metadata != nil {
		m := make(map[string]string, len(l.Metadata))
		for k, v := range l.Metadata {
			m[k] = v
		}
		l.Metadata = m
	}
	return l
}

// Snapshot is an add-to-cart payload whose price was resolved by the pricing
// engine and must not be recomputed later.
type Snapshot struct {
	ProductID     string            `json:"productId"`
	Qty           int               `json:"qty"`
	Variant       string            `json:"variant,omitempty"`
	UnitMode      product.Mode      `json:"unitMode,omitempty"`
	UnitLabel     string            `json:"unitLabel,omitempty"`
	PriceOverride *int64            `json:"priceOverride,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Fingerprint   string            `json:"fingerprint,omitempty"`
}

// record is the persisted cart shape. Version 0 records are a bare line array.
type record struct {
	Lines        []Line `json:"lines"`
	DiscountCode string `json:"discountCode,omitempty"`
}
