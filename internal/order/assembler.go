package order

import (
	"context"
	"crypto/rand"
	"time"

	"bakery-be/internal/cart"
	"bakery-be/internal/checkout"
	"bakery-be/internal/logger"
	"bakery-be/internal/pricing"
	"bakery-be/internal/product"
	"bakery-be/internal/utils"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const fallbackUnitLabel = "unit"

// Assembler turns cart lines into frozen orders.
type Assembler struct {
	catalog product.Catalog
	now     func() time.Time
	itemID  func(time.Time) string
}

func NewAssembler(catalog product.Catalog) *Assembler {
	return &Assembler{
		catalog: catalog,
		now:     time.Now,
		itemID: func(t time.Time) string {
			return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
		},
	}
}

// CreateOrderItems resolves each line's price, label and variant once.
// Frozen prices win over anything derived from the catalog.
func (a *Assembler) CreateOrderItems(ctx context.Context, lines []cart.Line) []OrderItem {
	now := a.now()
	items := make([]OrderItem, 0, len(lines))

	for _, line := range lines {
		p := a.lookup(ctx, line.ProductID)
		size := line.Metadata[cart.MetaSize]

		var unit int64
		switch {
		case line.PriceOverride != nil:
			unit = *line.PriceOverride
		case p != nil:
			var sel *pricing.Selection
			if line.UnitMode != "" {
				sel = &pricing.Selection{
					Mode:      line.UnitMode,
					Size:      size,
					PackageID: line.Metadata[cart.MetaPackageID],
				}
			}
			unit = pricing.QuoteFor(p, sel, line.Qty).UnitPrice
		}

		name := line.ProductID
		if p != nil && p.Name != "" {
			name = p.Name
		}

		items = append(items, OrderItem{
			ID:        a.itemID(now),
			ProductID: line.ProductID,
			Name:      name,
			UnitPrice: unit,
			Qty:       line.Qty,
			UnitLabel: unitLabel(line, p, size),
			Variant:   firstNonEmpty(line.Variant, size, line.Metadata[cart.MetaPackageID]),
			Subtotal:  unit * int64(line.Qty),
		})
	}

	return items
}

func (a *Assembler) lookup(ctx context.Context, id string) *product.Product {
	if a.catalog == nil {
		return nil
	}
	p, err := a.catalog.GetProductByID(ctx, id)
	if err != nil {
		logger.FromCtx(ctx).Warn("order item without catalog entry",
			zap.String("layer", "assembler"),
			zap.String("product_id", id),
			zap.Error(err),
		)
		return nil
	}
	return p
}

func unitLabel(line cart.Line, p *product.Product, size string) string {
	if line.UnitLabel != "" {
		return line.UnitLabel
	}
	if label := pricing.ModeLabel(line.UnitMode, size); label != "" {
		return label
	}
	if p != nil && p.Unit != "" {
		return p.Unit
	}
	return fallbackUnitLabel
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// CalculateSummary totals items. The total never goes below zero.
func CalculateSummary(items []OrderItem, shippingFee, discount int64) Summary {
	var subtotal int64
	for _, it := range items {
		subtotal += it.Subtotal
	}

	total := subtotal + shippingFee - discount
	if total < 0 {
		total = 0
	}

	return Summary{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Discount:    discount,
		Total:       total,
	}
}

type CreateOrderParams struct {
	Lines       []cart.Line
	Shipping    checkout.ShippingInfo
	Method      Method
	CustomerID  string
	ShippingFee int64
	Discount    int64
	Status      Status

	// Provisional identifiers issued by a payment session. Fresh ones are
	// generated when empty.
	OrderID         string
	TransactionCode string
}

func (a *Assembler) CreateOrder(ctx context.Context, params CreateOrderParams) (*Order, error) {
	if len(params.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	status := params.Status
	if status == "" {
		status = StatusProcessing
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	now := a.now()
	items := a.CreateOrderItems(ctx, params.Lines)
	summary := CalculateSummary(items, params.ShippingFee, params.Discount)

	id := params.OrderID
	if id == "" {
		id = utils.GenerateOrderID(now)
	}
	code := params.TransactionCode
	if code == "" {
		code = utils.GenerateTransactionCode()
	}

	o := &Order{
		ID:              id,
		TransactionCode: code,
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           items,
		Subtotal:        summary.Subtotal,
		ShippingFee:     summary.ShippingFee,
		Discount:        summary.Discount,
		Total:           summary.Total,
		Method:          params.Method,
		Status:          status,
		Shipping:        params.Shipping,
		CustomerID:      params.CustomerID,
	}

	logger.FromCtx(ctx).Info("order assembled",
		zap.String("layer", "assembler"),
		zap.String("order_id", o.ID),
		zap.Int("items", len(items)),
		zap.Int64("total", o.Total),
	)

	return o, nil
}
