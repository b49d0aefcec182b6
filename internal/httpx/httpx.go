// Package httpx has small response helpers shared by the gateway and the
// demo services.
package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status and a JSON content type.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the platform's error envelope.
func Error(w http.ResponseWriter, status int, errName, message string) {
	JSON(w, status, map[string]any{
		"success": false,
		"error":   errName,
		"message": message,
	})
}
