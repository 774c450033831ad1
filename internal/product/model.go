package product

// Mode is a selling mode describing how a product's price is computed.
type Mode string

const (
	ModePiece   Mode = "piece"
	ModeWhole   Mode = "whole"
	ModePackage Mode = "package"
	ModeBundle  Mode = "bundle"
)

type PriceType string

const (
	PriceTypeManual PriceType = "manual"
	PriceTypeAuto   PriceType = "auto"
)

const (
	StatusActive  = "active"
	StatusDisable = "disable"

	DefaultUnit = "pcs"
)

type Tier struct {
	MinQty int   `json:"minQty"`
	Price  int64 `json:"price"`
}

type PieceConfig struct {
	PricePerPiece int64  `json:"pricePerPiece"`
	Tiers         []Tier `json:"tiers,omitempty"`
}

type Size struct {
	Label string `json:"label"`
	Price int64  `json:"price"`
}

type WholeConfig struct {
	Sizes []Size `json:"sizes"`
}

type PackageComponent struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
}

type PackageConfig struct {
	ID              string             `json:"id,omitempty"`
	Components      []PackageComponent `json:"components"`
	PriceType       PriceType          `json:"priceType"`
	ManualPrice     int64              `json:"manualPrice,omitempty"`
	DiscountPercent float64            `json:"discountPercent,omitempty"`
}

type BundleConfig struct {
	MinTotalQty     int     `json:"minTotalQty"`
	DiscountPercent float64 `json:"discountPercent"`
}

type SellingConfig struct {
	Modes   []Mode         `json:"modes"`
	Piece   *PieceConfig   `json:"piece,omitempty"`
	Whole   *WholeConfig   `json:"whole,omitempty"`
	Package *PackageConfig `json:"package,omitempty"`
	Bundle  *BundleConfig  `json:"bundle,omitempty"`
}

// Has reports whether the config enables the given mode.
func (c *SellingConfig) Has(m Mode) bool {
	if c == nil {
		return false
	}
	for _, mode := range c.Modes {
		if mode == m {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Price       int64          `json:"price"`
	Unit        string         `json:"unit,omitempty"`
	Stock       int            `json:"stock"`
	Status      string         `json:"status"`
	ImageURL    *string        `json:"imageUrl,omitempty"`
	Description *string        `json:"description,omitempty"`
	Selling     *SellingConfig `json:"selling,omitempty"`
}

// UnitLabel returns the product's generic unit label.
func (p *Product) UnitLabel() string {
	if p == nil || p.Unit == "" {
		return DefaultUnit
	}
	return p.Unit
}
