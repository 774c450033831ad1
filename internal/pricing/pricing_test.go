package pricing

import (
	"testing"

	"bakery-be/internal/product"

	"github.com/stretchr/testify/assert"
)

func croissant() *product.Product {
	return &product.Product{
		ID:    "croissant",
		Price: 10000,
		Selling: &product.SellingConfig{
			Modes: []product.Mode{product.ModePiece, product.ModeBundle},
			Piece: &product.PieceConfig{
				PricePerPiece: 10000,
				Tiers: []product.Tier{
					{MinQty: 6, Price: 9200},
					{MinQty: 12, Price: 8500},
				},
			},
			Bundle: &product.BundleConfig{MinTotalQty: 6, DiscountPercent: 10},
		},
	}
}

func TestQuoteFor_PieceTiers(t *testing.T) {
	p := croissant()
	sel := &Selection{Mode: product.ModePiece}

	tests := []struct {
		qty  int
		unit int64
	}{
		{1, 10000},
		{5, 10000},
		{6, 9200},
		{11, 9200},
		{12, 8500},
		{20, 8500},
	}

	for _, tt := range tests {
		q := QuoteFor(p, sel, tt.qty)
		assert.Equal(t, tt.unit, q.UnitPrice, "qty %d", tt.qty)
		assert.Equal(t, tt.unit*int64(tt.qty), q.Subtotal)
		assert.Equal(t, "pcs", q.UnitLabel)
	}
}

func TestTierPrice_UnsortedInput(t *testing.T) {
	tiers := []product.Tier{{MinQty: 12, Price: 8500}, {MinQty: 6, Price: 9200}}
	assert.Equal(t, int64(9200), TierPrice(10000, tiers, 7))
	assert.Equal(t, int64(10000), TierPrice(10000, nil, 100))
	assert.Equal(t, 12, tiers[0].MinQty, "input is not reordered")
}

func TestQuoteFor_Fallbacks(t *testing.T) {
	t.Run("NoSellingConfig", func(t *testing.T) {
		p := &product.Product{Price: 28000}
		q := QuoteFor(p, &Selection{Mode: product.ModePiece}, 2)
		assert.Equal(t, Quote{UnitPrice: 28000, Subtotal: 56000, UnitLabel: "pcs"}, q)
	})

	t.Run("NilSelection", func(t *testing.T) {
		q := QuoteFor(croissant(), nil, 3)
		assert.Equal(t, int64(10000), q.UnitPrice)
		assert.Equal(t, int64(30000), q.Subtotal)
	})

	t.Run("ModeNotEnabled", func(t *testing.T) {
		q := QuoteFor(croissant(), &Selection{Mode: product.ModeWhole}, 1)
		assert.Equal(t, int64(10000), q.UnitPrice)
	})

	t.Run("NilProduct", func(t *testing.T) {
		q := QuoteFor(nil, nil, 1)
		assert.Equal(t, "pcs", q.UnitLabel)
		assert.Zero(t, q.Subtotal)
	})

	t.Run("CustomUnit", func(t *testing.T) {
		q := QuoteFor(&product.Product{Price: 5, Unit: "box"}, nil, 1)
		assert.Equal(t, "box", q.UnitLabel)
	})
}

func TestQuoteFor_Whole(t *testing.T) {
	p := &product.Product{
		Price: 185000,
		Selling: &product.SellingConfig{
			Modes: []product.Mode{product.ModeWhole},
			Whole: &product.WholeConfig{Sizes: []product.Size{
				{Label: "16cm", Price: 185000},
				{Label: "20cm", Price: 245000},
			}},
		},
	}

	q := QuoteFor(p, &Selection{Mode: product.ModeWhole, Size: "20cm"}, 2)
	assert.Equal(t, Quote{UnitPrice: 245000, Subtotal: 490000, UnitLabel: "20cm"}, q)

	q = QuoteFor(p, &Selection{Mode: product.ModeWhole, Size: "30cm"}, 1)
	assert.Equal(t, int64(185000), q.UnitPrice, "unknown size uses the first entry")

	q = QuoteFor(p, &Selection{Mode: product.ModeWhole}, 1)
	assert.Equal(t, "16cm", q.UnitLabel)
}

func TestQuoteFor_Package(t *testing.T) {
	t.Run("Manual", func(t *testing.T) {
		p := &product.Product{
			Price: 250000,
			Selling: &product.SellingConfig{
				Modes:   []product.Mode{product.ModePackage},
				Package: &product.PackageConfig{PriceType: product.PriceTypeManual, ManualPrice: 235000},
			},
		}
		q := QuoteFor(p, &Selection{Mode: product.ModePackage}, 2)
		assert.Equal(t, Quote{UnitPrice: 235000, Subtotal: 470000, UnitLabel: "package"}, q)
	})

	t.Run("Auto", func(t *testing.T) {
		p := &product.Product{
			Price: 8000,
			Selling: &product.SellingConfig{
				Modes: []product.Mode{product.ModePackage},
				Package: &product.PackageConfig{
					PriceType:       product.PriceTypeAuto,
					DiscountPercent: 12.5,
					Components: []product.PackageComponent{
						{ProductID: "a", Qty: 10},
						{ProductID: "b", Qty: 10},
					},
				},
			},
		}
		q := QuoteFor(p, &Selection{Mode: product.ModePackage}, 1)
		// 8000 * 20 = 160000, minus 12.5%
		assert.Equal(t, int64(140000), q.UnitPrice)
	})

	t.Run("AutoFollowsAnchorPrice", func(t *testing.T) {
		cfg := &product.PackageConfig{
			PriceType:  product.PriceTypeAuto,
			Components: []product.PackageComponent{{Qty: 3}},
		}
		assert.Equal(t, int64(3000), PackagePrice(1000, cfg))
		assert.Equal(t, int64(3600), PackagePrice(1200, cfg))
	})
}

func TestQuoteFor_Bundle(t *testing.T) {
	p := croissant()

	q := QuoteFor(p, &Selection{
		Mode:             product.ModeBundle,
		BundleQuantities: map[string]int{"a": 4, "b": 3},
	}, 1)
	assert.Equal(t, int64(9000), q.UnitPrice)
	assert.Equal(t, int64(63000), q.Subtotal, "subtotal uses the aggregated component count")
	assert.Equal(t, "bundle", q.UnitLabel)

	q = QuoteFor(p, &Selection{Mode: product.ModeBundle}, 2)
	assert.Equal(t, int64(18000), q.Subtotal, "falls back to requested quantity")
}

func TestApplyPercent(t *testing.T) {
	assert.Equal(t, int64(1000), ApplyPercent(1000, 0))
	assert.Equal(t, int64(0), ApplyPercent(1000, 150))
	assert.Equal(t, int64(2), ApplyPercent(3, 50), "1.5 rounds half away from zero")
	assert.Equal(t, int64(8999), ApplyPercent(9999, 10))
}

func TestModeLabel(t *testing.T) {
	assert.Equal(t, "pcs", ModeLabel(product.ModePiece, ""))
	assert.Equal(t, "20cm", ModeLabel(product.ModeWhole, "20cm"))
	assert.Equal(t, "package", ModeLabel(product.ModePackage, ""))
	assert.Equal(t, "bundle", ModeLabel(product.ModeBundle, ""))
	assert.Equal(t, "", ModeLabel("", ""))
}

func TestSupports(t *testing.T) {
	assert.True(t, Supports(croissant(), product.ModePiece))
	assert.False(t, Supports(croissant(), product.ModeWhole))
	assert.False(t, Supports(nil, product.ModePiece))
}
