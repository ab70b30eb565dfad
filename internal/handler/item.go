package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/money"
)

// itemDTO is the wire shape of a catalog item. Price stays in minor units;
// FullPrice is the display string the storefront pages render.
type itemDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
	FullPrice   string `json:"full_price"`
}

func toItemDTO(it item.Item) itemDTO {
	return itemDTO{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Currency:    it.Currency.String(),
		FullPrice:   money.FormatMinor(it.Price),
	}
}

// ListItems serves GET /.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]itemDTO, len(items))
	for i, it := range items {
		out[i] = toItemDTO(it)
	}
	respondJSON(w, http.StatusOK, struct {
		Items []itemDTO `json:"items"`
	}{Items: out})
}

// GetItem serves GET /item/{id}: the item plus the publishable gateway key
// for its currency.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.items.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Item      itemDTO `json:"item"`
		PublicKey string  `json:"public_key"`
	}{
		Item:      toItemDTO(*it),
		PublicKey: h.keys.PublicKey(it.Currency),
	})
}
