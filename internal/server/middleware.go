package server

import "net/http"

// requireAPIKey guards a handler with the shared-secret header check. A
// missing configured secret is a server misconfiguration, not a client
// error; a mismatched header is an authorization failure. Both reject the
// request before any pipeline work starts.
func (s *Server) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			writeError(w, http.StatusInternalServerError, "API key not configured")
			return
		}
		if r.Header.Get("X-API-Key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next(w, r)
	}
}
