package httpapi

import (
	"net/http"

	"bakery-be/internal/analytics"
	"bakery-be/internal/checkout"
	"bakery-be/internal/logger"

	"go.uber.org/zap"
)

type DraftResponse struct {
	checkout.Draft
	// Prefill is what the shipping form shows: the saved draft, else the
	// customer's profile defaults.
	Prefill checkout.ShippingInfo `json:"prefill"`
}

type MethodRequest struct {
	MethodID string `json:"methodId"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

// GetDraft opens the checkout wizard.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cid := customerID(r)

	draft := h.Drafts.Draft(ctx, cid)

	var defaults *checkout.ShippingInfo
	if h.Users != nil {
		d, err := h.Users.DefaultShipping(ctx, cid)
		if err != nil {
			logger.FromCtx(ctx).Warn("profile defaults unavailable",
				zap.String("layer", "httpapi"),
				zap.String("method", "GetDraft"),
				zap.Error(err),
			)
		}
		defaults = d
	}

	h.Tracker.Track(ctx, analytics.EventCheckoutStart, nil)

	respondJSON(w, http.StatusOK, DraftResponse{
		Draft:   draft,
		Prefill: checkout.Prefill(draft.Shipping, defaults),
	})
}

func (h *Handler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	h.Drafts.Reset(r.Context(), customerID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetShipping(w http.ResponseWriter, r *http.Request) {
	var req checkout.ShippingInfo
	if !decode(w, r, &req) {
		return
	}

	if fields := checkout.ValidateShipping(req); fields != nil {
		respondErr(w, r, fields)
		return
	}

	ctx := r.Context()
	cid := customerID(r)
	if err := h.Drafts.SetShipping(ctx, cid, checkout.NormalizeShipping(req)); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.Drafts.Draft(ctx, cid))
}

func (h *Handler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req MethodRequest
	if !decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	cid := customerID(r)
	if _, err := h.Payments.SelectMethod(ctx, cid, req.MethodID); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.Drafts.Draft(ctx, cid))
}

func (h *Handler) SetDraftVoucher(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	cid := customerID(r)
	if err := h.Drafts.SetVoucherCode(ctx, cid, req.Code); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.Drafts.Draft(ctx, cid))
}

func (h *Handler) SetReferral(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	cid := customerID(r)
	if err := h.Drafts.SetReferralCode(ctx, cid, req.Code); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.Drafts.Draft(ctx, cid))
}
