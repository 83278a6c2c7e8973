// internal/results/store.go
//
// Append-only log of finished rounds, backed by the round_results table.
// Rows are written when a selection completes a round and are only read
// back for leaderboards and per-session history; they never rebuild an
// engine.

package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is fixed width so finished_at sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Result is one completed round.
type Result struct {
	SessionID  string    `json:"sessionId"`
	Difficulty string    `json:"difficulty"`
	Pairs      int       `json:"pairs"`
	Moves      int       `json:"moves"`
	TotalScore int       `json:"totalScore"`
	ElapsedMs  int64     `json:"elapsedMs"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Store reads and writes round_results.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert records a completed round. FinishedAt defaults to now.
func (s *Store) Insert(ctx context.Context, r Result) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO round_results
			(session_id, difficulty, pairs, moves, total_score, elapsed_ms, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Difficulty, r.Pairs, r.Moves, r.TotalScore, r.ElapsedMs,
		r.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// Leaderboard returns the best rounds for a difficulty: fewest moves, then
// fastest, then earliest. Limit defaults to 20.
func (s *Store) Leaderboard(ctx context.Context, difficulty string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(ctx, `
		SELECT session_id, difficulty, pairs, moves, total_score, elapsed_ms, finished_at
		FROM round_results
		WHERE difficulty=?
		ORDER BY moves ASC, elapsed_ms ASC, finished_at ASC
		LIMIT ?`, difficulty, limit)
}

// SessionHistory returns a session's completed rounds, newest first.
func (s *Store) SessionHistory(ctx context.Context, sessionID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.query(ctx, `
		SELECT session_id, difficulty, pairs, moves, total_score, elapsed_ms, finished_at
		FROM round_results
		WHERE session_id=?
		ORDER BY finished_at DESC, id DESC
		LIMIT ?`, sessionID, limit)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var (
			r        Result
			finished string
		)
		if err := rows.Scan(&r.SessionID, &r.Difficulty, &r.Pairs, &r.Moves, &r.TotalScore, &r.ElapsedMs, &finished); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.FinishedAt, _ = time.Parse(timeLayout, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}
