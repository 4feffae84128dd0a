package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"gameday-assistant/internal/responder"
	"gameday-assistant/internal/snapshot"
	"gameday-assistant/internal/types"
)

// handleProxyRespond is the assistant backend RemoteClient talks to. It asks
// the model and answers from the mock responder when the model fails.
func (s *Server) handleProxyRespond(w http.ResponseWriter, r *http.Request) {
	var req types.ProxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var snap snapshot.AppSnapshot
	if len(req.Snapshot) > 0 && string(req.Snapshot) != "null" {
		if err := json.Unmarshal(req.Snapshot, &snap); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid snapshot")
			return
		}
	}
	if snap.ScreenHint == "" {
		snap.ScreenHint = snapshot.ScreenHint(snap.RouteName)
	}

	out, err := s.proxy.RespondWithSource(r.Context(), responder.Request{
		Input:        req.Input.Normalized(),
		Snapshot:     snap,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		s.logger.Error("proxy responders failed", zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "assistant is unavailable")
		return
	}
	if out.PrimaryErr != nil {
		s.logger.Warn("model reply failed, answered with mock", zap.Error(out.PrimaryErr))
	}
	s.logger.Debug("proxy answered",
		zap.String("source", string(out.Source)),
		zap.Any("snapshot", snapshot.RedactForLogs(&snap)),
	)
	writeJSON(w, http.StatusOK, out.Response.Shaped())
}
