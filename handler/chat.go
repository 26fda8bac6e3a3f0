package handler

import (
	"net/http"

	"hushhly/middleware"
	"hushhly/model"
)

// SendChat handles POST /api/chat
func (h *Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.Chat.Send(ctx, middleware.GetUserID(r), req.Message)
	if err != nil {
		sendServiceError(w, r, err, "Failed to send message")
		return
	}

	SendJSONSuccess(w, http.StatusOK, reply)
}

// ChatHistory handles GET /api/chat/history
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	history, err := h.Chat.History(ctx, middleware.GetUserID(r))
	if err != nil {
		sendServiceError(w, r, err, "Failed to load chat history")
		return
	}

	SendJSONSuccess(w, http.StatusOK, history)
}
