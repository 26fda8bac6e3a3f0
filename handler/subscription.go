package handler

import (
	"errors"
	"net/http"

	"hushhly/middleware"
	"hushhly/model"
)

// Subscribe handles POST /api/subscription
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.SubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.Subscriptions.Subscribe(ctx, middleware.GetUserID(r), req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to purchase subscription")
		return
	}

	SendJSONSuccess(w, http.StatusCreated, sub)
}

// GetSubscription handles GET /api/subscription
func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	sub, found, err := h.Subscriptions.GetSubscription(ctx, middleware.GetUserID(r))
	if err != nil {
		sendServiceError(w, r, err, "Failed to load subscription")
		return
	}
	if !found {
		SendJSONError(w, http.StatusNotFound, errors.New("no subscription"), "You do not have a subscription yet")
		return
	}

	SendJSONSuccess(w, http.StatusOK, sub)
}

// Tiers handles GET /api/subscription/tiers
func (h *Handler) Tiers(w http.ResponseWriter, r *http.Request) {
	SendJSONSuccess(w, http.StatusOK, h.Subscriptions.Tiers())
}
