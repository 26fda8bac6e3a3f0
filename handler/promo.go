package handler

import (
	"errors"
	"net/http"

	"hushhly/middleware"
	"hushhly/model"
	"hushhly/promo"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// ValidatePromo handles POST /api/promo/validate. When a price is supplied the
// response also carries the discounted price.
func (h *Handler) ValidatePromo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.ValidatePromoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Price < 0 {
		SendJSONError(w, http.StatusBadRequest, errors.New("invalid price"), "Price cannot be negative")
		return
	}

	userID := middleware.GetUserID(r)

	if req.Price > 0 {
		res, err := h.Promos.Apply(ctx, req.Code, req.Tier, userID, req.Price)
		if err != nil {
			sendServiceError(w, r, err, "Failed to validate promo code")
			return
		}
		SendJSONSuccess(w, http.StatusOK, res)
		return
	}

	res, err := h.Promos.Validate(ctx, req.Code, req.Tier, userID)
	if err != nil {
		sendServiceError(w, r, err, "Failed to validate promo code")
		return
	}
	SendJSONSuccess(w, http.StatusOK, res)
}

// SavePromo handles POST /api/admin/promo
func (h *Handler) SavePromo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.PromoCode
	if !decodeJSON(w, r, &req) {
		return
	}

	saved, err := h.Promos.Save(ctx, req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to save promo code")
		return
	}

	log.Info().
		Str("code", saved.Code).
		Str("admin_ip", middleware.ClientIP(r)).
		Msg("Promo code saved by admin")

	SendJSONSuccess(w, http.StatusOK, saved)
}

// PromoUsage handles GET /api/admin/promo/{code}/usage
func (h *Handler) PromoUsage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	code := promo.NormalizeCode(mux.Vars(r)["code"])

	_, found, err := h.Promos.Get(ctx, code)
	if err != nil {
		sendServiceError(w, r, err, "Failed to load promo code")
		return
	}
	if !found {
		SendJSONError(w, http.StatusNotFound, errors.New("promo code not found"), promo.MsgInvalidCode)
		return
	}

	usages, err := h.Promos.Usage(ctx, code)
	if err != nil {
		sendServiceError(w, r, err, "Failed to load promo usage")
		return
	}

	SendJSONSuccess(w, http.StatusOK, map[string]interface{}{
		"code":   code,
		"uses":   len(usages),
		"usages": usages,
	})
}
