package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"bakery-be/internal/logger"
	"bakery-be/internal/product"
	"bakery-be/internal/store"
	"bakery-be/internal/voucher"

	"go.uber.org/zap"
)

// Ledger is one customer's cart. Every mutation clamps quantities, notifies
// subscribers and echoes the lines to the recovery store.
type Ledger struct {
	customerID string
	catalog    product.Catalog
	vouchers   *voucher.Resolver
	store      store.Store

	mu           sync.Mutex
	lines        []Line
	discountCode string

	subMu  sync.Mutex
	nextID int
	subs   map[int]func([]Line)
}

func NewLedger(customerID string, catalog product.Catalog, vouchers *voucher.Resolver, s store.Store) *Ledger {
	return &Ledger{
		customerID: customerID,
		catalog:    catalog,
		vouchers:   vouchers,
		store:      s,
		subs:       make(map[int]func([]Line)),
	}
}

func (l *Ledger) CustomerID() string { return l.customerID }

// Restore loads previously persisted lines. A missing or unreadable record
// leaves the ledger empty.
func (l *Ledger) Restore(ctx context.Context) {
	if l.store == nil {
		return
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "cart"),
		zap.String("method", "Restore"),
	)

	var raw json.RawMessage
	version, err := store.Load(ctx, l.store, store.CartKey(l.customerID), &raw)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn("cart record unreadable", zap.Error(err))
		}
		return
	}

	var rec record
	if version == 0 {
		err = json.Unmarshal(raw, &rec.Lines)
	} else {
		err = json.Unmarshal(raw, &rec)
	}
	if err != nil {
		log.Warn("cart record unreadable", zap.Int("version", version), zap.Error(err))
		return
	}

	lines := make([]Line, 0, len(rec.Lines))
	for _, line := range rec.Lines {
		if line.ProductID == "" {
			continue
		}
		line.Qty = Clamp(line.Qty)
		lines = append(lines, line)
	}

	l.mu.Lock()
	l.lines = lines
	l.discountCode = rec.DiscountCode
	l.mu.Unlock()

	log.Debug("cart restored", zap.Int("lines", len(lines)), zap.Int("version", version))
}

func (l *Ledger) indexOf(k Key) int {
	for i, line := range l.lines {
		if line.Key() == k {
			return i
		}
	}
	return -1
}

// Add merges qty into the line for (productID, variant) or creates one.
func (l *Ledger) Add(ctx context.Context, productID string, qty int, variant string) error {
	return l.AddWithSnapshot(ctx, Snapshot{ProductID: productID, Qty: qty, Variant: variant})
}

// AddWithSnapshot adds a line carrying a frozen price and selling-mode
// details. Merging into an existing line sums quantities and keeps the most
// recent snapshot.
func (l *Ledger) AddWithSnapshot(ctx context.Context, s Snapshot) error {
	if s.ProductID == "" {
		return ErrProductRequired
	}

	incoming := Line{
		ProductID:     s.ProductID,
		Qty:           Clamp(s.Qty),
		Variant:       s.Variant,
		UnitMode:      s.UnitMode,
		UnitLabel:     s.UnitLabel,
		PriceOverride: s.PriceOverride,
		Metadata:      s.Metadata,
		Fingerprint:   s.Fingerprint,
	}.clone()

	l.mutate(ctx, func() error {
		i := l.indexOf(incoming.Key())
		if i < 0 {
			l.lines = append(l.lines, incoming)
			return nil
		}

		existing := &l.lines[i]
		existing.Qty = Clamp(existing.Qty + incoming.Qty)
		if incoming.PriceOverride != nil {
			existing.PriceOverride = incoming.PriceOverride
		}
		if incoming.UnitMode != "" {
			existing.UnitMode = incoming.UnitMode
		}
		if incoming.UnitLabel != "" {
			existing.UnitLabel = incoming.UnitLabel
		}
		if incoming.Metadata != nil {
			existing.Metadata = incoming.Metadata
		}
		return nil
	})
	return nil
}

func (l *Ledger) SetQuantity(ctx context.Context, k Key, qty int) error {
	return l.mutate(ctx, func() error {
		i := l.indexOf(k)
		if i < 0 {
			return ErrLineNotFound
		}
		l.lines[i].Qty = Clamp(qty)
		return nil
	})
}

func (l *Ledger) Increment(ctx context.Context, k Key) error {
	return l.mutate(ctx, func() error {
		i := l.indexOf(k)
		if i < 0 {
			return ErrLineNotFound
		}
		l.lines[i].Qty = Clamp(l.lines[i].Qty + 1)
		return nil
	})
}

// Decrement lowers the line by one and removes it once it would drop below 1.
func (l *Ledger) Decrement(ctx context.Context, k Key) error {
	return l.mutate(ctx, func() error {
		i := l.indexOf(k)
		if i < 0 {
			return ErrLineNotFound
		}
		if l.lines[i].Qty-1 < MinQty {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			return nil
		}
		l.lines[i].Qty--
		return nil
	})
}

func (l *Ledger) Remove(ctx context.Context, k Key) error {
	return l.mutate(ctx, func() error {
		i := l.indexOf(k)
		if i < 0 {
			return ErrLineNotFound
		}
		l.lines = append(l.lines[:i], l.lines[i+1:]...)
		return nil
	})
}

// Clear empties the cart and drops the applied discount code.
func (l *Ledger) Clear(ctx context.Context) {
	_ = l.mutate(ctx, func() error {
		l.lines = nil
		l.discountCode = ""
		return nil
	})
}

// ApplyDiscountCode sets the code used by Total. An empty code clears it.
// Unknown codes are not kept.
func (l *Ledger) ApplyDiscountCode(ctx context.Context, code string) voucher.Application {
	var app voucher.Application
	subtotal := l.Subtotal(ctx)

	_ = l.mutate(ctx, func() error {
		if code == "" || l.vouchers == nil {
			l.discountCode = ""
			return nil
		}
		app = l.vouchers.Apply(code, subtotal)
		if app.Voucher == nil {
			return nil
		}
		l.discountCode = app.Voucher.Code
		return nil
	})
	return app
}

func (l *Ledger) DiscountCode() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.discountCode
}

// Lines returns a copy of the current lines.
func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.copyLines()
}

func (l *Ledger) copyLines() []Line {
	out := make([]Line, len(l.lines))
	for i, line := range l.lines {
		out[i] = line.clone()
	}
	return out
}

func (l *Ledger) IsEmpty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines) == 0
}

// Subtotal sums each line at its frozen price, falling back to the live
// catalog price for lines without one.
func (l *Ledger) Subtotal(ctx context.Context) int64 {
	var total int64
	for _, line := range l.Lines() {
		total += l.unitPrice(ctx, line) * int64(line.Qty)
	}
	return total
}

func (l *Ledger) unitPrice(ctx context.Context, line Line) int64 {
	if line.PriceOverride != nil {
		return *line.PriceOverride
	}
	if l.catalog == nil {
		return 0
	}

	p, err := l.catalog.GetProductByID(ctx, line.ProductID)
	if err != nil {
		logger.FromCtx(ctx).Warn("cart line priced at zero",
			zap.String("layer", "cart"),
			zap.String("product_id", line.ProductID),
			zap.Error(err),
		)
		return 0
	}
	return p.Price
}

// Total is the subtotal less the applied voucher discount.
func (l *Ledger) Total(ctx context.Context) int64 {
	subtotal := l.Subtotal(ctx)
	return subtotal - l.Discount(ctx, subtotal)
}

func (l *Ledger) Discount(ctx context.Context, subtotal int64) int64 {
	code := l.DiscountCode()
	if code == "" || l.vouchers == nil {
		return 0
	}
	return l.vouchers.Discount(code, subtotal)
}

// Subscribe registers fn to receive the lines after every mutation. The
// returned func removes the subscription.
func (l *Ledger) Subscribe(fn func([]Line)) func() {
	l.subMu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	l.subMu.Unlock()

	return func() {
		l.subMu.Lock()
		delete(l.subs, id)
		l.subMu.Unlock()
	}
}

func (l *Ledger) mutate(ctx context.Context, fn func() error) error {
	l.mu.Lock()
	if err := fn(); err != nil {
		l.mu.Unlock()
		return err
	}
	snapshot := l.copyLines()
	if l.store != nil {
		store.Persist(ctx, l.store, store.CartKey(l.customerID), record{Lines: snapshot, DiscountCode: l.discountCode})
	}
	l.mu.Unlock()

	l.subMu.Lock()
	subs := make([]func([]Line), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.subMu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return nil
}
