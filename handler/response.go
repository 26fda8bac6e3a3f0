package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"hushhly/activity"
	"hushhly/payment"
	"hushhly/promo"
	"hushhly/utils"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SendJSONError sends a JSON error response
func SendJSONError(w http.ResponseWriter, statusCode int, err error, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   err.Error(),
		Message: message,
	}

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		log.Error().Err(encodeErr).Msg("Failed to encode error response")
	}
}

// SendJSONSuccess sends a JSON success response
func SendJSONSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode success response")
	}
}

// statusFor maps service errors onto HTTP status codes. Anything unknown is
// an internal failure.
func statusFor(err error) int {
	var promoErr *payment.PromoError
	switch {
	case errors.As(err, &promoErr):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrEmptyUserID),
		errors.Is(err, utils.ErrInvalidEmail),
		errors.Is(err, utils.ErrWeakPassword),
		errors.Is(err, utils.ErrInvalidAmount),
		errors.Is(err, utils.ErrInvalidPagePath),
		errors.Is(err, utils.ErrEmptyField),
		errors.Is(err, utils.ErrUnknownAction),
		errors.Is(err, utils.ErrInvalidSchedule),
		errors.Is(err, promo.ErrInvalidPromo),
		errors.Is(err, payment.ErrUnknownTier),
		errors.Is(err, payment.ErrUnknownPaymentMethod):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, payment.ErrPaymentDeclined),
		errors.Is(err, payment.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, utils.ErrUserNotFound),
		errors.Is(err, utils.ErrNotFound),
		errors.Is(err, activity.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrEmailTaken),
		errors.Is(err, activity.ErrSessionAlreadyEnded),
		errors.Is(err, payment.ErrAlreadySubscribed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// sendServiceError writes err with the status statusFor picks. Internal
// errors are logged and their text replaced by message.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg(message)
		SendJSONError(w, status, errors.New("internal error"), message)
		return
	}

	var promoErr *payment.PromoError
	if errors.As(err, &promoErr) {
		SendJSONError(w, status, err, promoErr.Message)
		return
	}
	SendJSONError(w, status, err, message)
}

// decodeJSON decodes the request body into v, answering 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return false
	}
	return true
}
