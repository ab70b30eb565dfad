package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/StpaPSBB/storefront/internal/domain/cart"
	"github.com/StpaPSBB/storefront/internal/domain/checkout"
	"github.com/StpaPSBB/storefront/internal/domain/item"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
	"github.com/StpaPSBB/storefront/internal/gateway"
)

// maxBodySize caps request bodies; every accepted body is a tiny JSON object.
const maxBodySize = 1 << 16

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// respondError maps domain errors onto the HTTP taxonomy: not-found 404,
// invariant violations 400, gateway failures 500 with the provider message
// verbatim, everything else a logged opaque 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, item.ErrNotFound),
		errors.Is(err, promo.ErrNotFound),
		errors.Is(err, cart.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrMixedCurrency),
		errors.Is(err, checkout.ErrPromoNotRegistered),
		errors.Is(err, promo.ErrInvalidPercent):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, promo.ErrRegistered):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}

	var mismatch *cart.CurrencyMismatchError
	if errors.As(err, &mismatch) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: mismatch.Error()})
		return
	}

	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: gwErr.Msg})
		return
	}

	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// readStringField extracts a single string field from a small JSON body,
// ignoring any other keys.
func readStringField(r *http.Request, field string) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}

	var value string
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != field {
			return d.Skip()
		}
		v, err := d.Str()
		value = v
		return err
	}); err != nil {
		return "", errors.Wrap(err, "parse body")
	}
	if value == "" {
		return "", errors.Errorf("%s required", field)
	}
	return value, nil
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "parse body")
	}
	return nil
}
