package server

import (
	"encoding/json"
	"net/http"
)

type tokenHookRequest struct {
	Claims map[string]any `json:"claims"`
}

type tokenHookResponse struct {
	Suppress []string `json:"suppress"`
}

// TokenIssuanceHookHandler computes the suppression set for a token about to
// be issued: every claim present that is neither standard nor allow-listed.
// Pure policy, no upstream calls.
func (s *Server) TokenIssuanceHookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenHookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		present := make([]string, 0, len(req.Claims))
		for name := range req.Claims {
			present = append(present, name)
		}

		writeJSON(w, http.StatusOK, tokenHookResponse{Suppress: s.filter.Suppressed(present)})
	}
}
