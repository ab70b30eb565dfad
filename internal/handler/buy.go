package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// BuyItem serves GET /buy/{id}: a single-item checkout session id for
// client-side redirect. Gateway failures surface as 500 with the provider
// message.
func (h *Handler) BuyItem(w http.ResponseWriter, r *http.Request) {
	sessionID, err := h.checkouts.BuyItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		ID string `json:"id"`
	}{ID: sessionID})
}

// BuyItemIntent serves GET /buy_intent/{item_id}: a payment-intent client
// secret plus the publishable key for on-page confirmation.
func (h *Handler) BuyItemIntent(w http.ResponseWriter, r *http.Request) {
	res, err := h.checkouts.BuyItemIntent(r.Context(), chi.URLParam(r, "item_id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		ClientSecret string `json:"clientSecret"`
		PublicKey    string `json:"publicKey"`
	}{
		ClientSecret: res.ClientSecret,
		PublicKey:    res.PublicKey,
	})
}

// BuyOrder serves GET /buy_order: a checkout session for the whole cart.
// Empty and mixed-currency carts are rejected before the gateway is called.
func (h *Handler) BuyOrder(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(w, r)
	c, err := h.carts.GetOrCreate(r.Context(), token)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sessionID, err := h.checkouts.BuyCart(r.Context(), c)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		ID string `json:"id"`
	}{ID: sessionID})
}
