package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError sends the same {error, message} envelope the handlers use
func writeError(w http.ResponseWriter, status int, errText, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errText,
		"message": message,
	})
}
