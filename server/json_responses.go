package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("Failed to write JSON response")
	}
}

// writeJSONError writes an {"error", "message"} response
func writeJSONError(w http.ResponseWriter, errorCode, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}
