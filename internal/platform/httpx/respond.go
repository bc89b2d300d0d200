package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON serialises payload as the response body with the given status.
// Encoding failures after the header is written are logged by callers via
// middleware; there is nothing useful to do here.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
