package server

import "net/http"

// SignoutHandler destroys the session by expiring every cookie the service
// could ever have issued, then redirects to the post-logout URL. No upstream
// calls are made.
func (s *Server) SignoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCookies(w, s.codec.ExpiredCookies())
		disableCaching(w)
		http.Redirect(w, r, s.cfg.PostLogoutRedirectURL, http.StatusFound)
	}
}
