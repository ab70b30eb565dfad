package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
)

// Management endpoints. Creating a discount or tax performs its external
// registration side effect; deleting performs the coupon delete or tax-rate
// deactivation.

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
}

// AdminListItems serves GET /admin/items.
func (h *Handler) AdminListItems(w http.ResponseWriter, r *http.Request) {
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

// AdminCreateItem serves POST /admin/items.
func (h *Handler) AdminCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	it := &item.Item{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    currency,
	}
	if err := it.Validate(); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := h.items.Create(r.Context(), it); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toItemDTO(*it))
}

// AdminDeleteItem serves DELETE /admin/items/{id}.
func (h *Handler) AdminDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type discountDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PercentOff int    `json:"percent_off"`
	Duration   string `json:"duration"`
	Currency   string `json:"currency"`
	CouponRef  string `json:"coupon_ref"`
}

func toDiscountDTO(d promo.Discount) discountDTO {
	return discountDTO{
		ID:         d.ID,
		Name:       d.Name,
		PercentOff: d.PercentOff,
		Duration:   string(d.Duration),
		Currency:   d.Currency.String(),
		CouponRef:  d.CouponRef,
	}
}

type upsertDiscountRequest struct {
	Name       string `json:"name"`
	PercentOff int    `json:"percent_off"`
	Duration   string `json:"duration"`
	Currency   string `json:"currency"`
}

func (req upsertDiscountRequest) toParams() (promo.CreateDiscountParams, error) {
	p := promo.CreateDiscountParams{
		Name:       req.Name,
		PercentOff: req.PercentOff,
		Duration:   promo.Duration(req.Duration),
	}
	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		return p, err
	}
	p.Currency = currency
	return p, nil
}

// AdminListDiscounts serves GET /admin/discounts.
func (h *Handler) AdminListDiscounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.promos.ListDiscounts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]discountDTO, len(discounts))
	for i, d := range discounts {
		out[i] = toDiscountDTO(d)
	}
	respondJSON(w, http.StatusOK, struct {
		Discounts []discountDTO `json:"discounts"`
	}{Discounts: out})
}

// AdminCreateDiscount serves POST /admin/discounts. The gateway coupon is
// registered here, exactly once for the record's lifetime.
func (h *Handler) AdminCreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req upsertDiscountRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	params, err := req.toParams()
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	d, err := h.promoSvc.CreateDiscount(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toDiscountDTO(*d))
}

// AdminRegisterDiscount serves POST /admin/discounts/{id}/register, creating
// the gateway coupon for a record stored without one (seeded or imported).
// A registered record responds 409.
func (h *Handler) AdminRegisterDiscount(w http.ResponseWriter, r *http.Request) {
	d, err := h.promoSvc.RegisterDiscount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toDiscountDTO(*d))
}

// AdminUpdateDiscount serves PUT /admin/discounts/{id}. Registered records
// respond 409: terms are immutable once mirrored to the gateway.
func (h *Handler) AdminUpdateDiscount(w http.ResponseWriter, r *http.Request) {
	var req upsertDiscountRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	params, err := req.toParams()
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.promoSvc.UpdateDiscount(r.Context(), chi.URLParam(r, "id"), params); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "discount updated"})
}

// AdminDeleteDiscount serves DELETE /admin/discounts/{id}: gateway coupon
// delete, then the record.
func (h *Handler) AdminDeleteDiscount(w http.ResponseWriter, r *http.Request) {
	if err := h.promoSvc.DeleteDiscount(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type taxDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
	Currency   string `json:"currency"`
	TaxRateRef string `json:"tax_rate_ref"`
}

func toTaxDTO(t promo.Tax) taxDTO {
	return taxDTO{
		ID:         t.ID,
		Name:       t.Name,
		Percentage: t.Percentage,
		Currency:   t.Currency.String(),
		TaxRateRef: t.TaxRateRef,
	}
}

type upsertTaxRequest struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
	Currency   string `json:"currency"`
}

func (req upsertTaxRequest) toParams() (promo.CreateTaxParams, error) {
	p := promo.CreateTaxParams{
		Name:       req.Name,
		Percentage: req.Percentage,
	}
	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		return p, err
	}
	p.Currency = currency
	return p, nil
}

// AdminListTaxes serves GET /admin/taxes.
func (h *Handler) AdminListTaxes(w http.ResponseWriter, r *http.Request) {
	taxes, err := h.promos.ListTaxes(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]taxDTO, len(taxes))
	for i, t := range taxes {
		out[i] = toTaxDTO(t)
	}
	respondJSON(w, http.StatusOK, struct {
		Taxes []taxDTO `json:"taxes"`
	}{Taxes: out})
}

// AdminCreateTax serves POST /admin/taxes, registering the gateway tax rate.
func (h *Handler) AdminCreateTax(w http.ResponseWriter, r *http.Request) {
	var req upsertTaxRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	params, err := req.toParams()
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	t, err := h.promoSvc.CreateTax(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTaxDTO(*t))
}

// AdminRegisterTax serves POST /admin/taxes/{id}/register, creating the
// gateway tax rate for a record stored without one.
func (h *Handler) AdminRegisterTax(w http.ResponseWriter, r *http.Request) {
	t, err := h.promoSvc.RegisterTax(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTaxDTO(*t))
}

// AdminUpdateTax serves PUT /admin/taxes/{id}, rejecting registered records
// with 409.
func (h *Handler) AdminUpdateTax(w http.ResponseWriter, r *http.Request) {
	var req upsertTaxRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	params, err := req.toParams()
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.promoSvc.UpdateTax(r.Context(), chi.URLParam(r, "id"), params); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "tax updated"})
}

// AdminDeleteTax serves DELETE /admin/taxes/{id}: gateway tax rate
// deactivation, then the record.
func (h *Handler) AdminDeleteTax(w http.ResponseWriter, r *http.Request) {
	if err := h.promoSvc.DeleteTax(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
