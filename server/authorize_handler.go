package server

import (
	"encoding/json"
	"net/http"
)

type authorizeRequest struct {
	IdentitySource string `json:"identitySource"`
}

// AuthorizeHandler answers allow/deny for a forwarded request. The identity
// source is taken from the JSON body when present, falling back to the
// request's own Cookie header. The response is always 200 with a decision;
// the authorizer never surfaces errors to its caller.
func (s *Server) AuthorizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authorizeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.IdentitySource == "" {
			req.IdentitySource = r.Header.Get("Cookie")
		}

		decision := s.authorizer.Authorize(r.Context(), req.IdentitySource, r.Header.Get(OriginVerifyHeader))
		writeJSON(w, http.StatusOK, decision)
	}
}
