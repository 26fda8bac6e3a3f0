package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"hushhly/promo"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

// PromoQR handles GET /api/promo/{code}/qr - renders a share link for an
// active promo code as a PNG QR code
func (h *Handler) PromoQR(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	code := promo.NormalizeCode(mux.Vars(r)["code"])

	p, found, err := h.Promos.Get(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("Failed to load promo code for QR")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to verify promo code")
		return
	}
	if !found || !p.Active {
		log.Warn().Str("code", code).Msg("Promo code not found for QR generation")
		SendJSONError(w, http.StatusNotFound, errors.New("promo code not found"), promo.MsgInvalidCode)
		return
	}

	query := r.URL.Query()

	// Get size parameter (default: 256, min: 128, max: 1024)
	size := 256
	if sizeStr := query.Get("size"); sizeStr != "" {
		parsedSize, err := strconv.Atoi(sizeStr)
		if err != nil {
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid size parameter"), "Size must be a number")
			return
		}
		if parsedSize < 128 || parsedSize > 1024 {
			SendJSONError(w, http.StatusBadRequest, errors.New("size out of range"), "Size must be between 128 and 1024")
			return
		}
		size = parsedSize
	}

	level := qrcode.Medium
	if raw := query.Get("level"); raw != "" {
		parsed, ok := parseLevel(raw)
		if !ok {
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid level parameter"), "Level must be: low, medium, high, or highest")
			return
		}
		level = parsed
	}

	shareURL := fmt.Sprintf("%s/redeem?code=%s", h.baseURL, url.QueryEscape(p.Code))

	png, err := qrcode.Encode(shareURL, level, size)
	if err != nil {
		log.Error().Err(err).Str("url", shareURL).Msg("Failed to generate QR code")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))

	if _, err := w.Write(png); err != nil {
		log.Error().Err(err).Msg("Failed to write QR code response")
		return
	}

	log.Info().
		Str("code", p.Code).
		Int("size", size).
		Str("level", levelStr(level)).
		Msg("Promo QR code generated")
}

func parseLevel(s string) (qrcode.RecoveryLevel, bool) {
	switch s {
	case "low":
		return qrcode.Low, true
	case "medium":
		return qrcode.Medium, true
	case "high":
		return qrcode.High, true
	case "highest":
		return qrcode.Highest, true
	default:
		return qrcode.Medium, false
	}
}

// levelStr converts qrcode.RecoveryLevel to string for logging
func levelStr(level qrcode.RecoveryLevel) string {
	switch level {
	case qrcode.Low:
		return "low"
	case qrcode.Medium:
		return "medium"
	case qrcode.High:
		return "high"
	case qrcode.Highest:
		return "highest"
	default:
		return "unknown"
	}
}
