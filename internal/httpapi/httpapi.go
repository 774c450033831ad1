// Package httpapi exposes the storefront engine as JSON over chi.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"bakery-be/internal/analytics"
	"bakery-be/internal/cart"
	"bakery-be/internal/checkout"
	"bakery-be/internal/logger"
	"bakery-be/internal/middleware"
	"bakery-be/internal/order"
	"bakery-be/internal/payment"
	"bakery-be/internal/product"
	"bakery-be/internal/user"
	"bakery-be/internal/utils"
	"bakery-be/internal/voucher"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const CustomerHeader = "X-Customer-ID"

type Deps struct {
	Products product.Service
	Carts    cart.Service
	Drafts   *checkout.Store
	Vouchers *voucher.Resolver
	Payments *payment.Service
	Orders   order.Service
	Users    user.Service
	Tracker  analytics.Tracker
	Notifier analytics.Notifier
}

type Handler struct {
	Deps
}

func NewHandler(d Deps) *Handler {
	if d.Tracker == nil {
		d.Tracker = analytics.Nop{}
	}
	if d.Notifier == nil {
		d.Notifier = analytics.Nop{}
	}
	return &Handler{Deps: d}
}

// Register mounts every /api route on r. Payment confirm and regenerate go
// through the strict rate limit tier.
func (h *Handler) Register(r chi.Router, limiter *middleware.RateLimiter) {
	strict := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		strict = limiter.Limit(middleware.TierStrict)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/products/{id}/quote", h.QuoteProduct)
		r.Get("/payment/methods", h.ListPaymentMethods)

		r.Group(func(r chi.Router) {
			r.Use(h.withCustomer)

			r.Get("/cart", h.GetCart)
			r.Delete("/cart", h.ClearCart)
			r.Post("/cart/items", h.AddCartItem)
			r.Post("/cart/snapshot-items", h.AddCartSnapshot)
			r.Patch("/cart/items", h.SetCartQuantity)
			r.Post("/cart/items/increment", h.IncrementCartItem)
			r.Post("/cart/items/decrement", h.DecrementCartItem)
			r.Delete("/cart/items", h.RemoveCartItem)
			r.Put("/cart/voucher", h.ApplyCartVoucher)

			r.Get("/checkout/draft", h.GetDraft)
			r.Delete("/checkout/draft", h.ResetDraft)
			r.Put("/checkout/shipping", h.SetShipping)
			r.Put("/checkout/payment-method", h.SetPaymentMethod)
			r.Put("/checkout/voucher", h.SetDraftVoucher)
			r.Put("/checkout/referral", h.SetReferral)

			r.Post("/payment/session", h.StartPayment)
			r.Get("/payment/session", h.PaymentStatus)
			r.With(strict).Post("/payment/session/confirm", h.ConfirmPayment)
			r.With(strict).Post("/payment/session/regenerate", h.RegeneratePayment)
			r.Post("/payment/session/cancel", h.CancelPayment)

			r.Get("/orders", h.ListOrders)
			r.Get("/orders/{id}", h.GetOrder)
			r.Get("/orders/{id}/whatsapp", h.OrderWhatsApp)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/orders", h.AdminListOrders)
			r.Get("/orders.csv", h.AdminExportOrders)
			r.Patch("/orders/{id}/status", h.AdminUpdateStatus)
			r.Post("/orders/{id}/items/{itemId}/review", h.AdminMarkReviewed)
		})
	})
}

// withCustomer resolves the X-Customer-ID header, issuing an id when it is
// absent, and echoes the id back on the response.
func (h *Handler) withCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := h.Users.EnsureCustomerID(ctx, r.Header.Get(CustomerHeader))
		if err != nil {
			respondErr(w, r, err)
			return
		}

		ctx = utils.SetUserContext(ctx, id, utils.GetUserRoleFromContext(ctx))
		ctx = logger.WithCustomerID(ctx, id)
		w.Header().Set(CustomerHeader, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func customerID(r *http.Request) string {
	id, _ := utils.GetCustomerIDFromContext(r.Context())
	return id
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// respondErr maps domain errors to HTTP statuses.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var fields checkout.FieldErrors
	if errors.As(err, &fields) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  checkout.ErrInvalidShipping.Error(),
			Code:   "invalid_shipping",
			Fields: fields,
		})
		return
	}

	status, code := classify(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "httpapi"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondError(w, status, code, "internal server error")
		return
	}
	respondError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrItemNotFound),
		errors.Is(err, payment.ErrSessionNotFound),
		errors.Is(err, checkout.ErrSnapshotNotFound):
		return http.StatusNotFound, "not_found"

	case errors.Is(err, cart.ErrCustomerRequired),
		errors.Is(err, checkout.ErrCustomerRequired),
		errors.Is(err, order.ErrCustomerRequired),
		errors.Is(err, payment.ErrCustomerRequired),
		errors.Is(err, cart.ErrProductRequired),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, payment.ErrUnknownMethod),
		errors.Is(err, payment.ErrShippingRequired),
		errors.Is(err, user.ErrInvalidHint):
		return http.StatusBadRequest, "invalid_argument"

	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrOrderExists),
		errors.Is(err, payment.ErrSessionExpired),
		errors.Is(err, payment.ErrInvalidTransition):
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal_error"
}
