package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gameday-assistant/internal/appstate"
	"gameday-assistant/internal/assistant"
	"gameday-assistant/internal/store"
	"gameday-assistant/internal/types"
)

// sessionState is what the session endpoints report back.
type sessionState struct {
	Assistant assistant.State `json:"assistant"`
	App       appstate.View   `json:"app"`
}

func stateOf(sess *store.Session) sessionState {
	return sessionState{Assistant: sess.Assistant.State(), App: sess.App.View()}
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *store.Session {
	sid := s.getOrCreateSessionID(w, r)
	sess, created := s.sessions.GetOrCreate(sid)
	if created {
		s.logger.Info("session started", zap.String("session", sid))
	}
	return sess
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req types.InputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in := req.Input
	if strings.TrimSpace(in.Text) == "" && in.AudioURI == "" && in.ImageURI == "" {
		s.writeError(w, http.StatusBadRequest, "text, audioUri or imageUri is required")
		return
	}
	sess := s.session(w, r)
	resp := sess.Assistant.SendInput(r.Context(), in)
	writeJSON(w, http.StatusOK, types.TurnResponse{
		SessionID: sess.ID,
		Response:  resp,
		State:     stateOf(sess),
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req types.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Action.Type) == "" {
		s.writeError(w, http.StatusBadRequest, "action.type is required")
		return
	}
	sess := s.session(w, r)
	out := sess.Assistant.ExecuteAction(r.Context(), req.Action)
	writeJSON(w, http.StatusOK, types.ActionResponse{
		OK:      out.OK,
		Blocked: out.Blocked,
		Error:   out.Error,
		Action:  out.Action,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	history := sess.Assistant.History()
	if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); all {
		history = sess.Assistant.FullHistory()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": sess.ID,
		"entries":   history,
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Assistant.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *Server) handleProactive(w http.ResponseWriter, r *http.Request) {
	var req types.ProactiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sess := s.session(w, r)
	sess.Assistant.SetProactiveEnabled(req.Enabled)
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req types.VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sess := s.session(w, r)
	if req.Visible {
		sess.Assistant.Open()
	} else {
		sess.Assistant.Close()
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

// handleRoute applies a navigation made by the UI itself, which in turn
// drives the proactive check.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req types.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Route) == "" {
		s.writeError(w, http.StatusBadRequest, "route is required")
		return
	}
	sess := s.session(w, r)
	sess.App.Navigate(req.Route, req.Params)
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		s.writeError(w, http.StatusNotFound, "event store is not configured")
		return
	}
	sid := s.getOrCreateSessionID(w, r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := s.events.RecentEvents(r.Context(), sid, limit)
	if err != nil {
		s.logger.Error("failed to load events", zap.String("session", sid), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": sid, "events": events})
}

// handleDeleteSession ends the caller's session: the assistant is dropped,
// its stored events are removed and the cookie is cleared.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := getSessionID(r)
	if sid == "" {
		s.writeError(w, http.StatusNotFound, "no session")
		return
	}
	if sess, ok := s.sessions.Get(sid); ok {
		// late route changes must not queue suggestions on a dropped session
		sess.Assistant.SetEnabled(false)
		s.sessions.Delete(sid)
	}
	if s.events != nil {
		if err := s.events.DeleteSessionEvents(r.Context(), sid); err != nil {
			s.logger.Error("failed to delete events", zap.String("session", sid), zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "failed to delete session events")
			return
		}
	}
	ClearSessionCookie(w, r)
	s.logger.Info("session ended", zap.String("session", sid))
	w.WriteHeader(http.StatusNoContent)
}
