package httpapi

import (
	"net/http"
	"slices"

	"github.com/dmitrijs2005/matchmaker/internal/server/auth"
)

// checkOrigin applies the CORS origin list to websocket upgrades.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(s.corsOrigins, "*") {
		return true
	}
	return slices.Contains(s.corsOrigins, origin)
}

// handleWebsocket registers a live connection for the token holder. The token
// is read from the "token" query parameter or the Authorization header.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearerToken(r)
	}
	userID, err := auth.VerifyUserToken(token, s.userSecret)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Warn(r.Context(), "websocket upgrade failed", "userId", userID, "error", err)
		return
	}

	unregister := s.svc.Registry.Register(userID, conn)
	defer func() {
		unregister()
		_ = conn.Close()
	}()
	s.logger.Info(r.Context(), "websocket connected", "userId", userID)

	// Clients only receive; the read loop ends when the peer goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.logger.Debug(r.Context(), "websocket closed", "userId", userID, "error", err)
			return
		}
	}
}
