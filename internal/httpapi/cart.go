package httpapi

import (
	"context"
	"net/http"

	"bakery-be/internal/analytics"
	"bakery-be/internal/cart"
	"bakery-be/internal/voucher"
)

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
	Variant   string `json:"variant"`
}

type LineRequest struct {
	cart.Key
	Qty int `json:"qty"`
}

type VoucherRequest struct {
	Code string `json:"code"`
}

type VoucherResponse struct {
	Application voucher.Application `json:"application"`
	Cart        cart.View           `json:"cart"`
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) (*cart.Ledger, bool) {
	l, err := h.Carts.Ledger(r.Context(), customerID(r))
	if err != nil {
		respondErr(w, r, err)
		return nil, false
	}
	return l, true
}

// withLedger runs fn against the caller's cart and answers with the
// resulting cart view.
func (h *Handler) withLedger(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, l *cart.Ledger) error) {
	l, ok := h.ledger(w, r)
	if !ok {
		return
	}
	if fn != nil {
		if err := fn(r.Context(), l); err != nil {
			respondErr(w, r, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, cart.MapLedgerToView(r.Context(), l))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.withLedger(w, r, nil)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.withLedger(w, r, func(ctx context.Context, l *cart.Ledger) error {
		l.Clear(ctx)
		return nil
	})
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}
	h.withLedger(w, r, func(ctx context.Context, l *cart.Ledger) error {
		return l.Add(ctx, req.ProductID, req.Qty, req.Variant)
	})
}

func (h *Handler) AddCartSnapshot(w http.ResponseWriter, r *http.Request) {
	var req cart.Snapshot
	if !decode(w, r, &req) {
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}
	h.withLedger(w, r, func(ctx context.Context, l *cart.Ledger) error {
		return l.AddWithSnapshot(ctx, req)
	})
}

func (h *Handler) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req LineRequest
	if !decode(w, r, &req) {
		return
	}
	h.withLedger(w, r, func(ctx context.Context, l *cart.Ledger) error {
		return l.SetQuantity(ctx, req.Key, req.Qty)
	})
}

func (h *Handler) IncrementCartItem(w http.ResponseWriter, r *http.Request) {
	var req cart.Key
	if !decode(w, r, &req) {
		return
	}
	h.withLedger(w, r, func(ctx context.Context, l *cart.Ledger) error {
		return l.Increment(ctx, req)
	})
}

func (h *Handler) DecrementCartItem(w http.ResponseWriter, r *http.Request) {
	var req cart.Key
	if !decode(w, r, &req) {
		return
	}
	h.withLedger(w, r, func(ctx context.Context, l *cart.Ledger) error {
		return l.Decrement(ctx, req)
	})
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	var req cart.Key
	if !decode(w, r, &req) {
		return
	}
	h.withLedger(w, r, func(ctx context.Context, l *cart.Ledger) error {
		return l.Remove(ctx, req)
	})
}

// ApplyCartVoucher sets the cart's discount code. A code that yields no
// discount is reported back with its reason.
func (h *Handler) ApplyCartVoucher(w http.ResponseWriter, r *http.Request) {
	var req VoucherRequest
	if !decode(w, r, &req) {
		return
	}

	l, ok := h.ledger(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	app := l.ApplyDiscountCode(ctx, req.Code)
	h.announceVoucher(ctx, req.Code, app)

	respondJSON(w, http.StatusOK, VoucherResponse{
		Application: app,
		Cart:        cart.MapLedgerToView(ctx, l),
	})
}

func (h *Handler) announceVoucher(ctx context.Context, code string, app voucher.Application) {
	if code == "" {
		return
	}
	switch app.Reason {
	case voucher.ReasonNone:
		if app.Amount > 0 {
			h.Notifier.Notify(ctx, analytics.LevelSuccess, "Voucher "+app.Voucher.Code+" berhasil dipakai")
		}
	case voucher.ReasonMinSubtotal:
		h.Notifier.Notify(ctx, analytics.LevelInfo, "Belanja belum mencapai minimum voucher "+code)
	case voucher.ReasonExpired:
		h.Notifier.Notify(ctx, analytics.LevelInfo, "Voucher "+code+" sudah kedaluwarsa")
	case voucher.ReasonUnknown:
		h.Notifier.Notify(ctx, analytics.LevelInfo, "Voucher "+code+" tidak ditemukan")
	}
}
