package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/StpaPSBB/storefront/internal/domain/cart"
	"github.com/StpaPSBB/storefront/internal/domain/money"
)

type orderLineDTO struct {
	Item              itemDTO `json:"item"`
	Quantity          int     `json:"quantity"`
	FullQuantityPrice string  `json:"full_quantity_price"`
}

type orderDiscountDTO struct {
	Name       string `json:"name"`
	PercentOff int    `json:"percent_off"`
}

type orderTaxDTO struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

type orderDTO struct {
	ID             string            `json:"id"`
	Items          []orderLineDTO    `json:"items"`
	Discount       *orderDiscountDTO `json:"discount,omitempty"`
	Tax            *orderTaxDTO      `json:"tax,omitempty"`
	Currency       string            `json:"currency"`
	Total          int64             `json:"total"`
	TotalFullPrice string            `json:"total_full_price"`
}

func toOrderDTO(c *cart.Cart) orderDTO {
	lines := make([]orderLineDTO, len(c.Lines))
	for i, l := range c.Lines {
		lineTotal := l.Item.Price * int64(l.Quantity)
		lines[i] = orderLineDTO{
			Item:              toItemDTO(l.Item),
			Quantity:          l.Quantity,
			FullQuantityPrice: money.FormatMinor(lineTotal),
		}
	}

	total := cart.ComputeTotal(c)
	dto := orderDTO{
		ID:             c.ID,
		Items:          lines,
		Currency:       c.Currency().String(),
		Total:          total,
		TotalFullPrice: money.FormatMinor(total),
	}
	if c.Discount != nil {
		dto.Discount = &orderDiscountDTO{Name: c.Discount.Name, PercentOff: c.Discount.PercentOff}
	}
	if c.Tax != nil {
		dto.Tax = &orderTaxDTO{Name: c.Tax.Name, Percentage: c.Tax.Percentage}
	}
	return dto
}

// GetOrder serves GET /order: the session's cart, created on first use, with
// its computed total and the publishable key for its currency.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(w, r)
	c, err := h.carts.GetOrCreate(r.Context(), token)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Order     orderDTO `json:"order"`
		PublicKey string   `json:"public_key"`
	}{
		Order:     toOrderDTO(c),
		PublicKey: h.keys.PublicKey(c.Currency()),
	})
}

// AddToOrder serves POST /add_to_order/{item_id}: add one unit of the item to
// the session's cart, incrementing the quantity if the line already exists.
func (h *Handler) AddToOrder(w http.ResponseWriter, r *http.Request) {
	it, err := h.items.GetByID(r.Context(), chi.URLParam(r, "item_id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	token := h.sessionToken(w, r)
	c, err := h.carts.GetOrCreate(r.Context(), token)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.carts.AddItem(r.Context(), c, it, 1); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "item added to order"})
}

// ClearOrder serves POST /clear_order. Clearing a session without a cart is
// reported, not failed.
func (h *Handler) ClearOrder(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(w, r)
	cleared, err := h.carts.Clear(r.Context(), token)
	if err != nil {
		respondError(w, r, err)
		return
	}

	msg := "order cleared"
	if !cleared {
		msg = "you have no order yet"
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// AddDiscount serves POST /add_discount with body {"discount_name": ...}.
// Unknown names are 404; a currency conflict is 400 and leaves the cart's
// discount unset.
func (h *Handler) AddDiscount(w http.ResponseWriter, r *http.Request) {
	name, err := readStringField(r, "discount_name")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	d, err := h.promos.FindDiscountByName(r.Context(), name)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token := h.sessionToken(w, r)
	c, err := h.carts.GetOrCreate(r.Context(), token)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.carts.AttachDiscount(r.Context(), c, d); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{
		Message: "discount " + d.Name + " added to order",
	})
}

// AddTax serves POST /add_tax with body {"tax_name": ...}, mirroring
// AddDiscount.
func (h *Handler) AddTax(w http.ResponseWriter, r *http.Request) {
	name, err := readStringField(r, "tax_name")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	t, err := h.promos.FindTaxByName(r.Context(), name)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token := h.sessionToken(w, r)
	c, err := h.carts.GetOrCreate(r.Context(), token)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.carts.AttachTax(r.Context(), c, t); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{
		Message: "tax " + t.Name + " added to order",
	})
}
