package httpapi

import (
	"net/http"
	"net/url"

	"bakery-be/internal/logger"
	"bakery-be/internal/order"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WhatsAppResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ReviewRequest struct {
	ReviewID string `json:"reviewId"`
}

func orderList(orders []*order.Order) []*order.Order {
	if orders == nil {
		return []*order.Order{}
	}
	return orders
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.CustomerOrders(r.Context(), customerID(r))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orderList(orders))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.CustomerOrder(r.Context(), customerID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// OrderWhatsApp returns the confirmation text and a wa.me link carrying it.
func (h *Handler) OrderWhatsApp(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.CustomerOrder(r.Context(), customerID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	msg := order.WhatsAppMessage(o)
	respondJSON(w, http.StatusOK, WhatsAppResponse{
		Message: msg,
		URL:     "https://wa.me/?text=" + url.QueryEscape(msg),
	})
}

func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.AllOrders(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orderList(orders))
}

func (h *Handler) AdminExportOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.AllOrders(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := order.ExportCSV(w, orders); err != nil {
		logger.FromCtx(r.Context()).Error("csv export interrupted",
			zap.String("layer", "httpapi"),
			zap.String("method", "AdminExportOrders"),
			zap.Error(err),
		)
	}
}

func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decode(w, r, &req) {
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	o, err := h.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handler) AdminMarkReviewed(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.Orders.MarkItemReviewed(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId"), req.ReviewID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
