package derived

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"dashboard/internal/api"
	"dashboard/internal/brand"
	"dashboard/internal/pricing"
	"dashboard/internal/wallet"
)

// RegistrationSource fetches backend resources by path; backend.Client satisfies it.
type RegistrationSource interface {
	GetJSON(ctx context.Context, path string, out any) error
}

type Handlers struct {
	Backend RegistrationSource
}

type DiscountPriceRequest struct {
	Price        decimal.Decimal  `json:"price"`
	Discount     *decimal.Decimal `json:"discount"`
	DiscountType string           `json:"discountType"`
}

func (h Handlers) DiscountPrice(w http.ResponseWriter, r *http.Request) {
	var req DiscountPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.Price.IsNegative() {
		api.WriteFieldError(w, http.StatusUnprocessableEntity, "price", "VALIDATION_FAILED", "price must not be negative")
		return
	}

	// An unknown type is tolerated and leaves the price as is.
	typ, _ := pricing.ParseDiscountType(req.DiscountType)
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"price":         req.Price,
		"discountPrice": pricing.DiscountPrice(req.Price, req.Discount, typ),
	})
}

type MaskedAccountRequest struct {
	AccountNumber string `json:"accountNumber"`
}

func (h Handlers) MaskedAccount(w http.ResponseWriter, r *http.Request) {
	var req MaskedAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"masked": wallet.MaskAccountNumber(req.AccountNumber)})
}

func (h Handlers) BrandCompletion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	var reg brand.Registration
	if err := h.Backend.GetJSON(r.Context(), "/brands/"+url.PathEscape(id)+"/registration", &reg); err != nil {
		api.WriteWorkflowError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"registration": reg,
		"percentage":   brand.CompletionPercentage(reg),
	})
}

func Mount(r chi.Router, h Handlers) {
	r.Post("/derived/discount-price", h.DiscountPrice)
	r.Post("/derived/masked-account", h.MaskedAccount)
	r.Get("/brands/{id}/completion", h.BrandCompletion)
}
