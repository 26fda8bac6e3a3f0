package handler

import (
	"net/http"

	"hushhly/middleware"

	"github.com/gorilla/mux"
)

type pageVisitRequest struct {
	Path string `json:"path"`
}

type startMeditationRequest struct {
	Type string `json:"type"`
}

type endMeditationRequest struct {
	Completed bool `json:"completed"`
}

// StartSession handles POST /api/activity/session/start
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	record, err := h.Activity.StartSession(ctx, middleware.GetUserID(r))
	if err != nil {
		sendServiceError(w, r, err, "Failed to start session")
		return
	}

	SendJSONSuccess(w, http.StatusOK, record)
}

// EndSession handles POST /api/activity/session/end
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	record, err := h.Activity.EndSession(ctx, middleware.GetUserID(r))
	if err != nil {
		sendServiceError(w, r, err, "Failed to end session")
		return
	}

	SendJSONSuccess(w, http.StatusOK, record)
}

// TrackPageVisit handles POST /api/activity/pages
func (h *Handler) TrackPageVisit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req pageVisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	visit, err := h.Activity.TrackPageVisit(ctx, middleware.GetUserID(r), req.Path)
	if err != nil {
		sendServiceError(w, r, err, "Failed to track page visit")
		return
	}

	SendJSONSuccess(w, http.StatusCreated, visit)
}

// StartMeditation handles POST /api/activity/meditations
func (h *Handler) StartMeditation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req startMeditationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.Activity.StartMeditationSession(ctx, middleware.GetUserID(r), req.Type)
	if err != nil {
		sendServiceError(w, r, err, "Failed to start meditation")
		return
	}

	SendJSONSuccess(w, http.StatusCreated, session)
}

// EndMeditation handles POST /api/activity/meditations/{id}/end
func (h *Handler) EndMeditation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req endMeditationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.Activity.EndMeditationSession(ctx, middleware.GetUserID(r), mux.Vars(r)["id"], req.Completed)
	if err != nil {
		sendServiceError(w, r, err, "Failed to end meditation")
		return
	}

	SendJSONSuccess(w, http.StatusOK, session)
}

// ActivitySummary handles GET /api/activity/summary. With ?format=pretty the
// figures come back as display strings.
func (h *Handler) ActivitySummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID := middleware.GetUserID(r)

	if r.URL.Query().Get("format") == "pretty" {
		summary, err := h.Activity.GetFormattedActivitySummary(ctx, userID)
		if err != nil {
			sendServiceError(w, r, err, "Failed to load activity summary")
			return
		}
		SendJSONSuccess(w, http.StatusOK, summary)
		return
	}

	summary, err := h.Activity.GetActivitySummary(ctx, userID)
	if err != nil {
		sendServiceError(w, r, err, "Failed to load activity summary")
		return
	}
	SendJSONSuccess(w, http.StatusOK, summary)
}
