package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// SweepSessionsHandler bulk-deletes expired sessions on demand.
// Routed behind RequireAdmin; the background ticker covers the
// steady state.
func (s *Server) SweepSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := s.services.Sessions.SweepExpired(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("[SweepSessionsHandler] sweep failed")
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
	}
}
