package server

import (
	"encoding/json"
	"net/http"
)

// disableCaching keeps responses that set credentials out of shared and
// browser caches.
func disableCaching(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func setCookies(w http.ResponseWriter, set []*http.Cookie) {
	for _, c := range set {
		http.SetCookie(w, c)
	}
}
