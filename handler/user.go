package handler

import (
	"net/http"

	"hushhly/middleware"
	"hushhly/model"
	"hushhly/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type userFieldRequest struct {
	Value string `json:"value"`
}

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Accounts.Register(ctx, req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to process registration")
		return
	}

	if h.Mail != nil {
		go func(to, name string) {
			if err := h.Mail.SendWelcomeEmail(to, name); err != nil {
				log.Error().Err(err).Str("email", to).Msg("Failed to send welcome email")
			}
		}(user.Email, user.Name)
	}

	SendJSONSuccess(w, http.StatusCreated, user.ToResponse())
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Accounts.Login(ctx, req)
	if err != nil {
		sendServiceError(w, r, err, "Login failed")
		return
	}

	SendJSONSuccess(w, http.StatusOK, resp)
}

// Me handles GET /api/user/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := h.Accounts.GetUser(ctx, middleware.GetUserID(r))
	if err != nil {
		sendServiceError(w, r, err, "Failed to load profile")
		return
	}

	SendJSONSuccess(w, http.StatusOK, user.ToResponse())
}

// RecordAction handles POST /api/user/actions
func (h *Handler) RecordAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req userFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Accounts.RecordAction(ctx, middleware.GetUserID(r), req.Value)
	if err != nil {
		sendServiceError(w, r, err, "Failed to record action")
		return
	}

	SendJSONSuccess(w, http.StatusOK, user.ToResponse())
}

// AddTag handles POST /api/admin/users/{id}/tags
func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req userFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Accounts.AddTag(ctx, mux.Vars(r)["id"], req.Value)
	if err != nil {
		sendServiceError(w, r, err, "Failed to add tag")
		return
	}

	SendJSONSuccess(w, http.StatusOK, user.ToResponse())
}

// PasswordRequirements handles GET /api/auth/password-requirements
func (h *Handler) PasswordRequirements(w http.ResponseWriter, r *http.Request) {
	SendJSONSuccess(w, http.StatusOK, map[string]string{
		"requirements": utils.GetPasswordRequirements(h.config.Password),
	})
}
