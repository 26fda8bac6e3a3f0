package handler

import (
	"net/http"

	"hushhly/middleware"
	"hushhly/model"

	"github.com/gorilla/mux"
)

// ListReminders handles GET /api/reminders
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	sessions, err := h.Reminders.Upcoming(ctx, middleware.GetUserID(r))
	if err != nil {
		sendServiceError(w, r, err, "Failed to load scheduled sessions")
		return
	}

	SendJSONSuccess(w, http.StatusOK, sessions)
}

// ScheduleReminder handles POST /api/reminders
func (h *Handler) ScheduleReminder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.ScheduleSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.Reminders.Schedule(ctx, middleware.GetUserID(r), req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to schedule session")
		return
	}

	SendJSONSuccess(w, http.StatusCreated, session)
}

// CancelReminder handles DELETE /api/reminders/{id}
func (h *Handler) CancelReminder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.Reminders.Cancel(ctx, middleware.GetUserID(r), mux.Vars(r)["id"]); err != nil {
		sendServiceError(w, r, err, "Failed to cancel session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
