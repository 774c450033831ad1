package product

import (
	"context"
	"sort"
	"sync"
)

// StaticCatalog serves products from memory. It backs the storefront when no
// database is configured and doubles as a test fixture.
type StaticCatalog struct {
	mu       sync.RWMutex
	products map[string]*Product
}

func NewStaticCatalog(products ...*Product) *StaticCatalog {
	c := &StaticCatalog{products: make(map[string]*Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *StaticCatalog) GetProductByID(_ context.Context, id string) (*Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (c *StaticCatalog) List(_ context.Context, onlyActive bool) ([]*Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Product, 0, len(c.products))
	for _, p := range c.products {
		if onlyActive && p.Status != StatusActive {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Put inserts or replaces a product, e.g. when staff change a price.
func (c *StaticCatalog) Put(p *Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

// DefaultCatalog is the storefront's seed menu.
func DefaultCatalog() *StaticCatalog {
	return NewStaticCatalog(
		&Product{
			ID:     "croissant-butter",
			Name:   "Butter Croissant",
			Price:  10000,
			Unit:   "pcs",
			Stock:  120,
			Status: StatusActive,
			Selling: &SellingConfig{
				Modes: []Mode{ModePiece, ModeBundle},
				Piece: &PieceConfig{
					PricePerPiece: 10000,
					Tiers: []Tier{
						{MinQty: 6, Price: 9200},
						{MinQty: 12, Price: 8500},
					},
				},
				Bundle: &BundleConfig{MinTotalQty: 6, DiscountPercent: 10},
			},
		},
		&Product{
			ID:     "black-forest",
			Name:   "Black Forest Cake",
			Price:  185000,
			Unit:   "loyang",
			Stock:  15,
			Status: StatusActive,
			Selling: &SellingConfig{
				Modes: []Mode{ModeWhole},
				Whole: &WholeConfig{Sizes: []Size{
					{Label: "16cm", Price: 185000},
					{Label: "20cm", Price: 245000},
					{Label: "24cm", Price: 320000},
				}},
			},
		},
		&Product{
			ID:     "paket-arisan",
			Name:   "Paket Arisan",
			Price:  8000,
			Unit:   "box",
			Stock:  40,
			Status: StatusActive,
			Selling: &SellingConfig{
				Modes: []Mode{ModePackage},
				Package: &PackageConfig{
					ID: "arisan-20",
					Components: []PackageComponent{
						{ProductID: "kue-lapis", Name: "Kue Lapis", Qty: 10},
						{ProductID: "risoles", Name: "Risoles", Qty: 10},
					},
					PriceType:       PriceTypeAuto,
					DiscountPercent: 12.5,
				},
			},
		},
		&Product{
			ID:     "hampers-lebaran",
			Name:   "Hampers Lebaran",
			Price:  250000,
			Unit:   "hampers",
			Stock:  25,
			Status: StatusActive,
			Selling: &SellingConfig{
				Modes: []Mode{ModePackage},
				Package: &PackageConfig{
					ID: "lebaran-01",
					Components: []PackageComponent{
						{ProductID: "nastar", Name: "Nastar", Qty: 1},
						{ProductID: "kastengel", Name: "Kastengel", Qty: 1},
					},
					PriceType:   PriceTypeManual,
					ManualPrice: 235000,
				},
			},
		},
		&Product{ID: "kue-lapis", Name: "Kue Lapis", Price: 4500, Stock: 200, Status: StatusActive},
		&Product{ID: "risoles", Name: "Risoles", Price: 6000, Stock: 200, Status: StatusActive},
		&Product{ID: "roti-sobek", Name: "Roti Sobek Coklat", Price: 28000, Stock: 60, Status: StatusActive},
	)
}
