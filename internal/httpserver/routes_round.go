// internal/httpserver/routes_round.go
//
// Session and round routes. Each handler forwards one command to the
// session's engine and answers with the snapshot taken afterwards.
//   - POST   /session          → new engine, signed token (also set as cookie)
//   - DELETE /session          → close engine, clear cookie
//   - GET    /session/history  → this session's finished rounds
//   - GET    /round/           → snapshot
//   - POST   /round/start      → Initialize(difficulty)
//   - POST   /round/select     → SelectTile(tileId)
//   - POST   /round/again      → PlayAgain
//   - POST   /round/menu       → ReturnToMenu
//   - GET    /leaderboard      → best finished rounds per difficulty
//   - GET    /palette          → palette entries

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/colorcascade/internal/game"
	"github.com/robalobadob/colorcascade/internal/results"
	"github.com/robalobadob/colorcascade/internal/store"
)

// stateRes wraps a snapshot with display text for the difficulty.
type stateRes struct {
	game.Snapshot
	Label string `json:"label"`
}

func newStateRes(s game.Snapshot) stateRes {
	return stateRes{Snapshot: s, Label: s.Difficulty.Label()}
}

// -----------------------------------------------------------------------------
// /session

type newSessionRes struct {
	SessionID string   `json:"sessionId"`
	Token     string   `json:"token"`
	State     stateRes `json:"state"`
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.opts.Store.Create(r.Context(), s.newEngine())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create session")
		writeError(w, "create_failed", http.StatusInternalServerError)
		return
	}
	tok, exp, err := s.signSessionToken(sess.ID)
	if err != nil {
		_ = s.opts.Store.Delete(r.Context(), sess.ID)
		hlog.FromRequest(r).Error().Err(err).Msg("sign session token")
		writeError(w, "sign_failed", http.StatusInternalServerError)
		return
	}
	s.setSessionCookie(w, tok, exp)
	hlog.FromRequest(r).Info().Str("session", sess.ID).Msg("session created")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(newSessionRes{
		SessionID: sess.ID,
		Token:     tok,
		State:     newStateRes(sess.Engine.Snapshot()),
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.opts.Store.Delete(r.Context(), sess.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, "delete_failed", http.StatusInternalServerError)
		return
	}
	s.clearSessionCookie(w)
	hlog.FromRequest(r).Info().Str("session", sess.ID).Int("totalScore", sess.Engine.TotalScore()).Msg("session ended")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if s.opts.Results == nil {
		_ = json.NewEncoder(w).Encode([]results.Result{})
		return
	}
	rows, err := s.opts.Results.SessionHistory(r.Context(), sess.ID, queryLimit(r, 50, 200))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("session history")
		writeError(w, "db_error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}

// -----------------------------------------------------------------------------
// /round

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	_ = json.NewEncoder(w).Encode(newStateRes(sess.Engine.Snapshot()))
}

type startReq struct {
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "bad_json", http.StatusBadRequest)
		return
	}
	d, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, "unknown_difficulty", http.StatusBadRequest)
		return
	}
	if err := sess.Engine.Initialize(d); err != nil {
		writeError(w, "unknown_difficulty", http.StatusBadRequest)
		return
	}
	sess.MarkRoundStarted(s.opts.Now())
	hlog.FromRequest(r).Debug().Str("session", sess.ID).Str("difficulty", string(d)).Msg("round started")
	_ = json.NewEncoder(w).Encode(newStateRes(sess.Engine.Snapshot()))
}

type selectReq struct {
	TileID *int `json:"tileId"`
}

type selectRes struct {
	Outcome game.Outcome `json:"outcome"`
	State   stateRes     `json:"state"`
}

// handleSelect forwards a tile selection. Ignored selections are not
// errors: they return 200 with outcome.accepted=false.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TileID == nil {
		writeError(w, "bad_request", http.StatusBadRequest)
		return
	}

	out := sess.Engine.SelectTile(*req.TileID)
	snap := sess.Engine.Snapshot()
	if out.Completed {
		s.recordCompletion(r, sess, snap)
	}
	_ = json.NewEncoder(w).Encode(selectRes{Outcome: out, State: newStateRes(snap)})
}

// recordCompletion appends a finished round to the results log (best effort).
func (s *Server) recordCompletion(r *http.Request, sess *store.Session, snap game.Snapshot) {
	elapsed := sess.RoundElapsed(s.opts.Now())
	logger := hlog.FromRequest(r)
	logger.Info().
		Str("session", sess.ID).
		Str("difficulty", string(snap.Difficulty)).
		Int("moves", snap.Moves).
		Int("totalScore", snap.TotalScore).
		Dur("elapsed", elapsed).
		Msg("round complete")

	if s.opts.Results == nil {
		return
	}
	err := s.opts.Results.Insert(r.Context(), results.Result{
		SessionID:  sess.ID,
		Difficulty: string(snap.Difficulty),
		Pairs:      snap.Pairs,
		Moves:      snap.Moves,
		TotalScore: snap.TotalScore,
		ElapsedMs:  elapsed.Milliseconds(),
		FinishedAt: s.opts.Now(),
	})
	if err != nil {
		logger.Warn().Err(err).Str("session", sess.ID).Msg("record round result")
	}
}

func (s *Server) handleAgain(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := sess.Engine.PlayAgain(); err != nil {
		writeError(w, "no_active_round", http.StatusConflict)
		return
	}
	sess.MarkRoundStarted(s.opts.Now())
	_ = json.NewEncoder(w).Encode(newStateRes(sess.Engine.Snapshot()))
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Engine.ReturnToMenu()
	sess.MarkRoundStarted(time.Time{})
	_ = json.NewEncoder(w).Encode(newStateRes(sess.Engine.Snapshot()))
}

// -----------------------------------------------------------------------------
// /leaderboard, /palette

type leaderboardRes struct {
	Difficulty game.Difficulty  `json:"difficulty"`
	Top        []results.Result `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	d, err := game.ParseDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		writeError(w, "unknown_difficulty", http.StatusBadRequest)
		return
	}
	top := []results.Result{}
	if s.opts.Results != nil {
		top, err = s.opts.Results.Leaderboard(r.Context(), string(d), queryLimit(r, 20, 100))
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
			writeError(w, "db_error", http.StatusInternalServerError)
			return
		}
	}
	_ = json.NewEncoder(w).Encode(leaderboardRes{Difficulty: d, Top: top})
}

type paletteRes struct {
	Colors       []game.Color `json:"colors"`
	Difficulties []string     `json:"difficulties"`
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	labels := make([]string, len(game.Difficulties))
	for i, d := range game.Difficulties {
		labels[i] = d.Label()
	}
	_ = json.NewEncoder(w).Encode(paletteRes{Colors: s.opts.Palette, Difficulties: labels})
}
