package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"bakery-be/internal/cart"
	"bakery-be/internal/pricing"
	"bakery-be/internal/product"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.List(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if products == nil {
		products = []*product.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type QuoteResponse struct {
	ProductID string             `json:"productId"`
	Qty       int                `json:"qty"`
	Selection *pricing.Selection `json:"selection,omitempty"`
	pricing.Quote
}

// QuoteProduct prices qty units of a product in the requested selling mode.
// Bundle component counts come as repeated bundle=<component>:<qty> params.
func (h *Handler) QuoteProduct(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	qty := 1
	if raw := q.Get("qty"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < cart.MinQty || n > cart.MaxQty {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "qty must be between 1 and 99")
			return
		}
		qty = n
	}

	bundle, ok := parseBundle(q["bundle"])
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_bundle", "bundle must be component:qty with qty between 0 and 99")
		return
	}

	p, err := h.Products.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	var sel *pricing.Selection
	if mode := q.Get("mode"); mode != "" {
		sel = &pricing.Selection{
			Mode:             product.Mode(mode),
			Size:             q.Get("size"),
			PackageID:        q.Get("packageId"),
			BundleQuantities: bundle,
		}
	}

	respondJSON(w, http.StatusOK, QuoteResponse{
		ProductID: p.ID,
		Qty:       qty,
		Selection: sel,
		Quote:     pricing.QuoteFor(p, sel, qty),
	})
}

func parseBundle(raw []string) (map[string]int, bool) {
	if len(raw) == 0 {
		return nil, true
	}

	out := make(map[string]int, len(raw))
	for _, item := range raw {
		id, count, found := strings.Cut(item, ":")
		id = strings.TrimSpace(id)
		if !found || id == "" {
			return nil, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 0 || n > cart.MaxQty {
			return nil, false
		}
		out[id] += n
		if out[id] > cart.MaxQty {
			return nil, false
		}
	}
	return out, true
}
