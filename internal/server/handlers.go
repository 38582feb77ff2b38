package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"reactiongame/internal/analytics"
	"reactiongame/internal/engine"
	"reactiongame/internal/leaderboard"
	"reactiongame/internal/modes"
	"reactiongame/internal/persistence"
	"reactiongame/internal/sessions"
)

type modeView struct {
	Mode        modes.Mode `json:"mode"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Duration    int        `json:"duration"`
	MaxMissed   int        `json:"maxMissed"`
	BasePoints  int        `json:"basePoints"`
	Moving      bool       `json:"moving"`
}

type createRequest struct {
	Mode string `json:"mode"`
}

type createResponse struct {
	ID    string       `json:"id"`
	Code  string       `json:"code"`
	State engine.State `json:"state"`
}

type hitResponse struct {
	Hit   bool         `json:"hit"`
	State engine.State `json:"state"`
}

type statsResponse struct {
	Live     *analytics.SessionStats `json:"live"`
	Recorded *analytics.SessionStats `json:"recorded,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Errorf("[Server] Encoding response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// session resolves the {id} path value, which may be a uuid or a share
// code, and writes a 404 when nothing matches.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *sessions.Session {
	sess := s.Sessions.Get(r.PathValue("id"))
	if sess == nil {
		s.writeError(w, http.StatusNotFound, "session not found")
	}
	return sess
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	all := modes.All()
	list := make([]modeView, 0, len(all))
	for _, cfg := range all {
		list = append(list, modeView{
			Mode:        cfg.Mode,
			Name:        cfg.Name,
			Description: cfg.Description,
			Duration:    cfg.Duration,
			MaxMissed:   cfg.MaxMissed,
			BasePoints:  cfg.BasePoints,
			Moving:      cfg.Moving,
		})
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	all := s.Sessions.List()
	list := make([]sessions.Info, 0, len(all))
	for _, sess := range all {
		list = append(list, sess.Info())
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	s.Log.Debug("[Handle:CreateSession] Request Received")

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mode, err := modes.Parse(req.Mode)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.Sessions.Create(r.Context(), mode)
	if err != nil {
		s.Log.Errorf("[Handle:CreateSession] %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	s.Log.Debugf("[Handle:CreateSession] Created session %s", sess.Code)
	s.writeJSON(w, http.StatusCreated, createResponse{
		ID:    sess.ID,
		Code:  sess.Code,
		State: sess.Engine.Snapshot(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Engine.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.Log.Debug("[Handle:DeleteSession] Request Received")
	if !s.Sessions.Delete(r.Context(), r.PathValue("id")) {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// transition runs one lifecycle operation and answers with the new state.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, name string, op func(*sessions.Session) error) {
	s.Log.Debugf("[Handle:%s] Request Received", name)
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if err := op(sess); err != nil {
		if errors.Is(err, engine.ErrInvalidTransition) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.Log.Errorf("[Handle:%s] %v", name, err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Engine.Snapshot())
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "Pause", func(sess *sessions.Session) error {
		return sess.Engine.Pause()
	})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "Resume", func(sess *sessions.Session) error {
		return sess.Engine.Resume()
	})
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "End", func(sess *sessions.Session) error {
		return sess.Engine.End(r.Context())
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "Restart", func(sess *sessions.Session) error {
		return sess.Engine.Restart(r.Context())
	})
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	s.Log.Debug("[Handle:Hit] Request Received")
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	hit := sess.Engine.Hit(r.Context(), r.PathValue("targetID"))
	s.writeJSON(w, http.StatusOK, hitResponse{Hit: hit, State: sess.Engine.Snapshot()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var resp statsResponse
	if live, ok := s.Tracker.Stats(sess.ID); ok {
		resp.Live = &live
	}
	if s.DB != nil {
		recorded, err := analytics.NewQueries(s.DB).GetSessionStats(r.Context(), sess.ID)
		if err != nil {
			s.Log.Errorf("[DB] GetSessionStats error: %v", err)
		} else {
			resp.Recorded = recorded
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var mode modes.Mode
	if raw := q.Get("mode"); raw != "" {
		m, err := modes.Parse(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	limit := leaderboard.OverallLimit
	if mode != "" {
		limit = leaderboard.ModeLimit
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	history, err := s.Store.ScoreHistory(r.Context())
	if err != nil && !errors.Is(err, persistence.ErrMalformed) {
		s.Log.Errorf("[Handle:Leaderboard] %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read score history")
		return
	}

	history = persistence.Clean(history)
	var records []leaderboard.ScoreRecord
	if mode != "" {
		records = leaderboard.ForMode(history, mode, limit)
	} else {
		records = leaderboard.Top(history, limit)
	}
	if records == nil {
		records = []leaderboard.ScoreRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	mode, err := modes.Parse(r.PathValue("mode"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	best, err := s.Store.BestScore(r.Context(), mode)
	if errors.Is(err, persistence.ErrMalformed) {
		s.Log.Warnf("[Store] Ignoring malformed best score for %s", mode)
		best, err = 0, nil
	}
	if err != nil {
		s.Log.Errorf("[Handle:Best] %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read best score")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"mode": mode, "bestScore": best})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(r.Context()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db_error", "error": err.Error()})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
