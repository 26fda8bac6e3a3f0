package handler

import (
	"net/http"

	"hushhly/middleware"
	"hushhly/model"
)

const defaultRecommendationCount = 3

// GetPreferences handles GET /api/preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	prefs, err := h.Recommender.GetPreferences(ctx, middleware.GetUserID(r))
	if err != nil {
		sendServiceError(w, r, err, "Failed to load preferences")
		return
	}

	SendJSONSuccess(w, http.StatusOK, prefs)
}

// SavePreferences handles PUT /api/preferences
func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.UserPreferences
	if !decodeJSON(w, r, &req) {
		return
	}

	prefs, err := h.Recommender.SavePreferences(ctx, middleware.GetUserID(r), req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to save preferences")
		return
	}

	SendJSONSuccess(w, http.StatusOK, prefs)
}

// Recommendations handles GET /api/recommendations?count=
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	count, err := queryInt(r, "count", defaultRecommendationCount)
	if err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Count must be a non-negative number")
		return
	}

	recs, err := h.Recommender.GetRecommendations(ctx, middleware.GetUserID(r), count)
	if err != nil {
		sendServiceError(w, r, err, "Failed to build recommendations")
		return
	}

	SendJSONSuccess(w, http.StatusOK, recs)
}

// Insights handles GET /api/insights
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	insights, err := h.Recommender.GetInsights(ctx, middleware.GetUserID(r))
	if err != nil {
		sendServiceError(w, r, err, "Failed to build insights")
		return
	}

	SendJSONSuccess(w, http.StatusOK, insights)
}

// GetPlans handles GET /api/plans
func (h *Handler) GetPlans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	plans, err := h.Recommender.GetPlans(ctx, middleware.GetUserID(r))
	if err != nil {
		sendServiceError(w, r, err, "Failed to load plans")
		return
	}

	SendJSONSuccess(w, http.StatusOK, plans)
}

// CreatePlan handles POST /api/plans
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.CreatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.Recommender.CreatePlan(ctx, middleware.GetUserID(r), req.Goal, req.Days)
	if err != nil {
		sendServiceError(w, r, err, "Failed to create plan")
		return
	}

	SendJSONSuccess(w, http.StatusCreated, plan)
}
