package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"bakery-be/internal/analytics"
	"bakery-be/internal/cart"
	"bakery-be/internal/checkout"
	"bakery-be/internal/logger"
	"bakery-be/internal/order"
	"bakery-be/internal/utils"
	"bakery-be/internal/voucher"

	"go.uber.org/zap"
)

const (
	DefaultProcessingDelay = 1500 * time.Millisecond
	DefaultRetention       = 10 * time.Minute
)

var wib = time.FixedZone("WIB", 7*60*60)

type Config struct {
	Window          time.Duration
	ProcessingDelay time.Duration
	// Retention is how long a cancelled, expired or receipted session stays
	// readable before it is dropped.
	Retention time.Duration
}

type Deps struct {
	Carts     cart.Service
	Drafts    *checkout.Store
	Assembler *order.Assembler
	Orders    order.Service
	Vouchers  *voucher.Resolver
	Tracker   analytics.Tracker
	Notifier  analytics.Notifier
}

type stopper interface {
	Stop() bool
}

// View is the gateway screen for one customer.
type View struct {
	Status          Status             `json:"status"`
	Method          Method             `json:"method"`
	OrderID         string             `json:"orderId"`
	TransactionCode string             `json:"transactionCode"`
	PaymentCode     string             `json:"paymentCode,omitempty"`
	Deadline        time.Time          `json:"deadline"`
	RemainingMs     int64              `json:"remainingMs"`
	ShowCountdown   bool               `json:"showCountdown"`
	Instructions    []string           `json:"instructions"`
	Snapshot        *checkout.Snapshot `json:"snapshot,omitempty"`
	Order           *order.Order       `json:"order,omitempty"`
	ReceiptReady    bool               `json:"receiptReady"`
}

type entry struct {
	mu       sync.Mutex
	session  *Session
	method   Method
	snapshot *checkout.Snapshot
	order    *order.Order
	ready    bool

	// gen invalidates timers armed for an earlier deadline.
	gen     int
	expiry  stopper
	receipt stopper
	evict   stopper
	dropped bool
}

func (e *entry) stopTimers() {
	if e.expiry != nil {
		e.expiry.Stop()
		e.expiry = nil
	}
	if e.receipt != nil {
		e.receipt.Stop()
		e.receipt = nil
	}
	if e.evict != nil {
		e.evict.Stop()
		e.evict = nil
	}
}

// Service runs at most one gateway session per customer. Each session is
// guarded by its own mutex, which is also what decides the race between the
// deadline timer and a confirmation.
type Service struct {
	deps Deps
	cfg  Config

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) stopper

	ids utils.OrderIDs

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewService(deps Deps, cfg Config) *Service {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.ProcessingDelay < 0 {
		cfg.ProcessingDelay = DefaultProcessingDelay
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if deps.Tracker == nil {
		deps.Tracker = analytics.Nop{}
	}
	if deps.Notifier == nil {
		deps.Notifier = analytics.Nop{}
	}

	return &Service{
		deps: deps,
		cfg:  cfg,
		now:  time.Now,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		sessions: make(map[string]*entry),
	}
}

// SelectMethod records the method picked on the payment step.
func (s *Service) SelectMethod(ctx context.Context, customerID, methodID string) (Method, error) {
	m, ok := FindMethod(methodID)
	if !ok {
		return Method{}, ErrUnknownMethod
	}
	if err := s.deps.Drafts.SetPaymentMethodID(ctx, customerID, m.ID); err != nil {
		return Method{}, err
	}

	s.deps.Tracker.Track(ctx, analytics.EventMethodSelected, analytics.Props{"method": m.ID})
	return m, nil
}

// Start freezes the checkout into a snapshot and opens a fresh session. Any
// previous session of the customer is discarded.
func (s *Service) Start(ctx context.Context, customerID, methodID string) (*View, error) {
	if customerID == "" {
		return nil, ErrCustomerRequired
	}
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "payment"),
		zap.String("method", "Start"),
	)

	draft := s.deps.Drafts.Draft(ctx, customerID)
	if methodID == "" {
		methodID = draft.PaymentMethodID
	}
	method, ok := FindMethod(methodID)
	if !ok {
		return nil, ErrUnknownMethod
	}

	if draft.Shipping == nil {
		s.deps.Notifier.Notify(ctx, analytics.LevelWarning, "Lengkapi data pengiriman terlebih dahulu")
		return nil, ErrShippingRequired
	}
	if errs := checkout.ValidateShipping(*draft.Shipping); errs != nil {
		s.deps.Notifier.Notify(ctx, analytics.LevelWarning, "Periksa kembali data pengiriman")
		return nil, errs
	}

	ledger, err := s.deps.Carts.Ledger(ctx, customerID)
	if err != nil {
		return nil, err
	}
	lines := ledger.Lines()
	if len(lines) == 0 {
		return nil, order.ErrEmptyCart
	}

	if err := s.deps.Drafts.SetPaymentMethodID(ctx, customerID, method.ID); err != nil {
		return nil, err
	}

	now := s.now()
	items := s.deps.Assembler.CreateOrderItems(ctx, lines)
	subtotal := order.CalculateSummary(items, 0, 0).Subtotal

	code := discountCode(draft, ledger)
	discount := s.discount(ctx, code, subtotal, true)

	summary := order.CalculateSummary(items, draft.Shipping.ShippingFee, discount)
	snap := order.MapItemsToSnapshot(items, summary, method.ID, now)
	if err := s.deps.Drafts.SaveSnapshot(ctx, customerID, snap); err != nil {
		return nil, err
	}

	var e *entry
	for {
		e = s.entryFor(customerID)
		e.mu.Lock()
		if !e.dropped {
			break
		}
		e.mu.Unlock()
	}
	defer e.mu.Unlock()

	e.stopTimers()
	e.session = newSession(method.ID, now, s.cfg.Window, s.newIDs)
	e.method = method
	e.snapshot = &snap
	e.order = nil
	e.ready = false
	s.armExpiry(customerID, e)

	log.Info("payment session started",
		zap.String("order_id", e.session.OrderID),
		zap.String("payment_method", method.ID),
		zap.Int64("total", snap.Total),
	)
	s.deps.Tracker.Track(ctx, analytics.EventGatewayView, s.props(e))

	return s.view(e, now), nil
}

func discountCode(draft checkout.Draft, ledger *cart.Ledger) string {
	if draft.VoucherCode != "" {
		return draft.VoucherCode
	}
	return ledger.DiscountCode()
}

func (s *Service) discount(ctx context.Context, code string, subtotal int64, announce bool) int64 {
	if code == "" || s.deps.Vouchers == nil {
		return 0
	}

	app := s.deps.Vouchers.Apply(code, subtotal)
	if announce {
		switch app.Reason {
		case voucher.ReasonNone:
		case voucher.ReasonMinSubtotal:
			s.deps.Notifier.Notify(ctx, analytics.LevelInfo, "Belanja belum mencapai minimum voucher "+code)
		case voucher.ReasonExpired:
			s.deps.Notifier.Notify(ctx, analytics.LevelInfo, "Voucher "+code+" sudah kedaluwarsa")
		default:
			s.deps.Notifier.Notify(ctx, analytics.LevelInfo, "Voucher "+code+" tidak ditemukan")
		}
	}
	return app.Amount
}

func (s *Service) newIDs(now time.Time) (string, string) {
	return s.ids.Next(now), utils.GenerateTransactionCode()
}

func (s *Service) entryFor(customerID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[customerID]
	if !ok {
		e = &entry{}
		s.sessions[customerID] = e
	}
	return e
}

// acquire returns the customer's entry with its mutex held.
func (s *Service) acquire(customerID string) (*entry, error) {
	if customerID == "" {
		return nil, ErrCustomerRequired
	}

	s.mu.Lock()
	e, ok := s.sessions[customerID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	if e.session == nil || e.dropped {
		e.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// retireLocked drops the entry once it has sat in a terminal state for the
// retention period. Must be called with e.mu held.
func (s *Service) retireLocked(customerID string, e *entry) {
	if e.evict != nil {
		e.evict.Stop()
	}

	gen := e.gen
	e.evict = s.afterFunc(s.cfg.Retention, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.gen != gen || e.dropped {
			return
		}
		e.evict = nil
		e.dropped = true
		e.stopTimers()

		s.mu.Lock()
		if s.sessions[customerID] == e {
			delete(s.sessions, customerID)
		}
		s.mu.Unlock()
	})
}

// armExpiry must be called with e.mu held.
func (s *Service) armExpiry(customerID string, e *entry) {
	wait := e.session.Deadline.Sub(s.now())
	if wait < 0 {
		wait = 0
	}

	e.gen++
	gen := e.gen
	e.expiry = s.afterFunc(wait, func() {
		ctx := logger.WithCustomerID(context.Background(), customerID)

		e.mu.Lock()
		defer e.mu.Unlock()
		if e.gen != gen {
			return
		}
		s.expireLocked(ctx, customerID, e)
	})
}

func (s *Service) expireLocked(ctx context.Context, customerID string, e *entry) {
	changed, err := e.session.Transition(EventExpire, s.now(), nil)
	if errors.Is(err, ErrDeadlineNotReached) {
		s.armExpiry(customerID, e)
		return
	}
	if !changed {
		return
	}

	e.expiry = nil
	s.retireLocked(customerID, e)
	logger.FromCtx(ctx).Info("payment session expired",
		zap.String("layer", "payment"),
		zap.String("order_id", e.session.OrderID),
	)
	s.deps.Notifier.Notify(ctx, analytics.LevelWarning, "Waktu pembayaran habis. Buat kode pembayaran baru untuk melanjutkan")
	s.deps.Tracker.Track(ctx, analytics.EventPaymentTimeout, s.props(e))
}

// settle expires an idle session whose deadline already passed but whose
// timer has not fired yet.
func (s *Service) settle(ctx context.Context, customerID string, e *entry) {
	if e.session.Status == StatusIdle && !s.now().Before(e.session.Deadline) {
		s.expireLocked(ctx, customerID, e)
	}
}

func (s *Service) Status(ctx context.Context, customerID string) (*View, error) {
	e, err := s.acquire(customerID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	s.settle(ctx, customerID, e)
	return s.view(e, s.now()), nil
}

// Confirm simulates a successful payment. The order is recorded under the
// session's provisional ids; on failure the session stays idle.
func (s *Service) Confirm(ctx context.Context, customerID string) (*View, error) {
	e, err := s.acquire(customerID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "payment"),
		zap.String("method", "Confirm"),
	)

	sess := e.session
	changed, err := sess.Transition(EventComplete, s.now(), func() error {
		o, err := s.placeOrder(ctx, customerID, e)
		if err != nil {
			return err
		}
		e.order = o
		return nil
	})
	if errors.Is(err, ErrSessionExpired) {
		s.settle(ctx, customerID, e)
		return nil, err
	}
	if err != nil {
		if !errors.Is(err, ErrInvalidTransition) {
			log.Warn("order assembly failed", zap.String("order_id", sess.OrderID), zap.Error(err))
			s.deps.Notifier.Notify(ctx, analytics.LevelWarning, "Pesanan gagal dibuat, silakan coba lagi")
		}
		return nil, err
	}
	if !changed {
		return s.view(e, s.now()), nil
	}

	e.stopTimers()
	log.Info("payment completed", zap.String("order_id", sess.OrderID), zap.Int64("total", e.order.Total))
	s.deps.Tracker.Track(ctx, analytics.EventPaymentSuccess, s.props(e))
	s.deps.Notifier.Notify(ctx, analytics.LevelSuccess, "Pembayaran berhasil")

	if s.cfg.ProcessingDelay == 0 {
		e.ready = true
		s.retireLocked(customerID, e)
	} else {
		gen := e.gen
		e.receipt = s.afterFunc(s.cfg.ProcessingDelay, func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.gen == gen {
				e.receipt = nil
				e.ready = true
				s.retireLocked(customerID, e)
			}
		})
	}

	return s.view(e, s.now()), nil
}

func (s *Service) placeOrder(ctx context.Context, customerID string, e *entry) (*order.Order, error) {
	ledger, err := s.deps.Carts.Ledger(ctx, customerID)
	if err != nil {
		return nil, err
	}
	lines := ledger.Lines()
	if len(lines) == 0 {
		return nil, order.ErrEmptyCart
	}

	draft := s.deps.Drafts.Draft(ctx, customerID)
	var shipping checkout.ShippingInfo
	if draft.Shipping != nil {
		shipping = checkout.NormalizeShipping(*draft.Shipping)
	}

	items := s.deps.Assembler.CreateOrderItems(ctx, lines)
	code := discountCode(draft, ledger)
	discount := s.discount(ctx, code, order.CalculateSummary(items, 0, 0).Subtotal, false)

	o, err := s.deps.Assembler.CreateOrder(ctx, order.CreateOrderParams{
		Lines:           lines,
		Shipping:        shipping,
		Method:          e.method.Descriptor(),
		CustomerID:      customerID,
		ShippingFee:     shipping.ShippingFee,
		Discount:        discount,
		OrderID:         e.session.OrderID,
		TransactionCode: e.session.TransactionCode,
	})
	if err != nil {
		return nil, err
	}
	if discount > 0 {
		o.VoucherCode = utils.StrPtr(code)
	}
	if draft.ReferralCode != "" {
		o.ReferralCode = utils.StrPtr(draft.ReferralCode)
	}

	if err := s.deps.Orders.Record(ctx, o); err != nil {
		return nil, err
	}

	ledger.Clear(ctx)
	s.deps.Drafts.Reset(ctx, customerID)
	s.deps.Drafts.ClearSnapshot(ctx, customerID)

	return o, nil
}

// Regenerate issues new provisional ids and a new deadline for an expired
// session.
func (s *Service) Regenerate(ctx context.Context, customerID string) (*View, error) {
	e, err := s.acquire(customerID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	s.settle(ctx, customerID, e)
	if _, err := e.session.Transition(EventRegenerate, s.now(), nil); err != nil {
		return nil, err
	}

	e.stopTimers()
	s.armExpiry(customerID, e)
	s.deps.Tracker.Track(ctx, analytics.EventPaymentRegenerate, s.props(e))

	return s.view(e, s.now()), nil
}

// Cancel abandons the session. Ledgers, cart and draft are left untouched.
func (s *Service) Cancel(ctx context.Context, customerID string) (*View, error) {
	e, err := s.acquire(customerID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	changed, err := e.session.Transition(EventCancel, s.now(), nil)
	if err != nil {
		return nil, err
	}

	if changed {
		e.stopTimers()
		s.retireLocked(customerID, e)
		s.deps.Tracker.Track(ctx, analytics.EventPaymentCancel, s.props(e))
	}

	return s.view(e, s.now()), nil
}

func (s *Service) props(e *entry) analytics.Props {
	props := analytics.Props{
		"method":   e.method.ID,
		"order_id": e.session.OrderID,
	}
	if e.snapshot != nil {
		props["total"] = e.snapshot.Total
	}
	return props
}

func (s *Service) view(e *entry, now time.Time) *View {
	sess := e.session
	code := PaymentCode(e.method, sess.OrderID, sess.TransactionCode)

	var total int64
	if e.snapshot != nil {
		total = e.snapshot.Total
	}

	v := &View{
		Status:          sess.Status,
		Method:          e.method,
		OrderID:         sess.OrderID,
		TransactionCode: sess.TransactionCode,
		PaymentCode:     code,
		Deadline:        sess.Deadline,
		RemainingMs:     sess.Remaining(now).Milliseconds(),
		ShowCountdown:   e.method.QR && sess.Status == StatusIdle,
		Instructions: InjectVariables(GetInstructions(e.method.ID), InstructionVars{
			"amount":       utils.FormatRupiah(total),
			"payment_code": code,
			"deadline":     sess.Deadline.In(wib).Format("15:04 WIB"),
		}),
		ReceiptReady: e.ready,
	}
	if e.snapshot != nil {
		snap := *e.snapshot
		v.Snapshot = &snap
	}
	if e.order != nil {
		v.Order = e.order
	}
	return v
}
