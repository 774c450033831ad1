package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bakery-be/internal/payment"
)

func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, payment.Methods())
}

// StartPayment opens the gateway screen. An empty methodId falls back to the
// method saved on the checkout draft.
func (h *Handler) StartPayment(w http.ResponseWriter, r *http.Request) {
	var req MethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	view, err := h.Payments.Start(r.Context(), customerID(r), req.MethodID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (h *Handler) sessionCall(fn func(ctx context.Context, customerID string) (*payment.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := fn(r.Context(), customerID(r))
		if err != nil {
			respondErr(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}

func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	h.sessionCall(h.Payments.Status)(w, r)
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	h.sessionCall(h.Payments.Confirm)(w, r)
}

func (h *Handler) RegeneratePayment(w http.ResponseWriter, r *http.Request) {
	h.sessionCall(h.Payments.Regenerate)(w, r)
}

func (h *Handler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	h.sessionCall(h.Payments.Cancel)(w, r)
}
