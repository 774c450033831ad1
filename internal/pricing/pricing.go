// Package pricing resolves the unit price a customer pays for a product under
// one of its selling modes.
package pricing

import (
	"sort"

	"bakery-be/internal/product"

	"github.com/shopspring/decimal"
)

// Selection is what the customer picked on the product page.
type Selection struct {
	Mode      product.Mode `json:"mode"`
	Size      string       `json:"size,omitempty"`
	PackageID string       `json:"packageId,omitempty"`
	// BundleQuantities holds per-component counts for bundle purchases.
	BundleQuantities map[string]int `json:"bundleQuantities,omitempty"`
}

type Quote struct {
	UnitPrice int64  `json:"unitPrice"`
	Subtotal  int64  `json:"subtotal"`
	UnitLabel string `json:"unitLabel"`
}

const (
	labelPackage = "package"
	labelBundle  = "bundle"
)

// QuoteFor never fails. Unknown modes and missing config fall back to the
// product's flat price and generic unit label.
func QuoteFor(p *product.Product, sel *Selection, qty int) Quote {
	if p == nil {
		return Quote{UnitLabel: product.DefaultUnit}
	}

	flat := Quote{
		UnitPrice: p.Price,
		Subtotal:  p.Price * int64(qty),
		UnitLabel: p.UnitLabel(),
	}

	cfg := p.Selling
	if cfg == nil || sel == nil || !cfg.Has(sel.Mode) {
		return flat
	}

	switch sel.Mode {
	case product.ModePiece:
		if cfg.Piece == nil {
			return flat
		}
		unit := TierPrice(cfg.Piece.PricePerPiece, cfg.Piece.Tiers, qty)
		return Quote{UnitPrice: unit, Subtotal: unit * int64(qty), UnitLabel: p.UnitLabel()}

	case product.ModeWhole:
		if cfg.Whole == nil || len(cfg.Whole.Sizes) == 0 {
			return flat
		}
		size := pickSize(cfg.Whole.Sizes, sel.Size)
		return Quote{UnitPrice: size.Price, Subtotal: size.Price * int64(qty), UnitLabel: size.Label}

	case product.ModePackage:
		if cfg.Package == nil {
			return flat
		}
		unit := PackagePrice(p.Price, cfg.Package)
		return Quote{UnitPrice: unit, Subtotal: unit * int64(qty), UnitLabel: labelPackage}

	case product.ModeBundle:
		if cfg.Bundle == nil {
			return flat
		}
		total := 0
		for _, n := range sel.BundleQuantities {
			if n > 0 {
				total += n
			}
		}
		if total == 0 {
			total = qty
		}
		unit := ApplyPercent(p.Price, cfg.Bundle.DiscountPercent)
		return Quote{UnitPrice: unit, Subtotal: unit * int64(total), UnitLabel: labelBundle}
	}

	return flat
}

// TierPrice returns the price of the highest tier whose threshold qty reaches,
// or base when none qualifies.
func TierPrice(base int64, tiers []product.Tier, qty int) int64 {
	if len(tiers) == 0 {
		return base
	}

	sorted := make([]product.Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinQty > sorted[j].MinQty })

	for _, t := range sorted {
		if t.MinQty <= qty {
			return t.Price
		}
	}
	return base
}

func pickSize(sizes []product.Size, label string) product.Size {
	for _, s := range sizes {
		if s.Label == label {
			return s
		}
	}
	return sizes[0]
}

// PackagePrice computes the unit price of a package. Auto packages are priced
// from the anchor product's current price, so they follow catalog changes.
func PackagePrice(anchorPrice int64, cfg *product.PackageConfig) int64 {
	if cfg.PriceType == product.PriceTypeManual {
		return cfg.ManualPrice
	}

	var sum int64
	for _, c := range cfg.Components {
		sum += anchorPrice * int64(c.Qty)
	}
	return ApplyPercent(sum, cfg.DiscountPercent)
}

// ApplyPercent reduces amount by percent and rounds to the nearest rupiah.
func ApplyPercent(amount int64, percent float64) int64 {
	if percent <= 0 {
		return amount
	}
	if percent > 100 {
		percent = 100
	}

	factor := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(percent)).Div(decimal.NewFromInt(100))
	return decimal.NewFromInt(amount).Mul(factor).Round(0).IntPart()
}

// ModeLabel is the unit label an order line shows for a selling mode when the
// cart line carries none.
func ModeLabel(mode product.Mode, size string) string {
	switch mode {
	case product.ModePiece:
		return product.DefaultUnit
	case product.ModeWhole:
		return size
	case product.ModePackage:
		return labelPackage
	case product.ModeBundle:
		return labelBundle
	}
	return ""
}

func Supports(p *product.Product, mode product.Mode) bool {
	return p != nil && p.Selling.Has(mode)
}
