// Package store is the persistence collaborator: it records finished
// and aborted matches for external history/stats consumers. The match
// core never blocks on it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deafSpy/lolgames-sub001/internal/match"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	Pool *pgxpool.Pool
}

func New(dsn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// Bootstrap creates the history table when it does not exist yet.
func (s *Store) Bootstrap(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS match_history (
    match_id     TEXT PRIMARY KEY,
    game_type    TEXT NOT NULL,
    winner_id    TEXT,
    is_draw      BOOLEAN NOT NULL DEFAULT FALSE,
    aborted      BOOLEAN NOT NULL DEFAULT FALSE,
    participants JSONB NOT NULL,
    vs_bot       BOOLEAN NOT NULL DEFAULT FALSE,
    duration_ms  BIGINT NOT NULL,
    total_moves  INT NOT NULL,
    finished_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	return err
}

// RecordResult implements match.Recorder.
func (s *Store) RecordResult(ctx context.Context, res match.Result) error {
	participants, err := json.Marshal(res.Participants)
	if err != nil {
		return err
	}
	var winner *string
	if res.WinnerID != "" {
		winner = &res.WinnerID
	}
	_, err = s.Pool.Exec(ctx, `
INSERT INTO match_history
    (match_id, game_type, winner_id, is_draw, aborted, participants, vs_bot, duration_ms, total_moves)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (match_id) DO NOTHING`,
		res.MatchID, string(res.GameType), winner, res.IsDraw, res.Aborted,
		participants, res.VsBot, res.DurationMS, res.TotalMoves)
	return err
}

// HistoryRow is one finished match as served by the public API.
type HistoryRow struct {
	MatchID    string    `json:"match_id"`
	GameType   string    `json:"game_type"`
	WinnerID   string    `json:"winner_id,omitempty"`
	IsDraw     bool      `json:"is_draw"`
	Aborted    bool      `json:"aborted"`
	VsBot      bool      `json:"vs_bot"`
	DurationMS int64     `json:"duration_ms"`
	TotalMoves int       `json:"total_moves"`
	FinishedAt time.Time `json:"finished_at"`
}

// Result fetches one recorded match by id.
func (s *Store) Result(ctx context.Context, matchID string) (HistoryRow, error) {
	var r HistoryRow
	err := s.Pool.QueryRow(ctx, `
SELECT match_id, game_type, COALESCE(winner_id, ''), is_draw, aborted, vs_bot, duration_ms, total_moves, finished_at
FROM match_history
WHERE match_id = $1`, matchID).
		Scan(&r.MatchID, &r.GameType, &r.WinnerID, &r.IsDraw, &r.Aborted,
			&r.VsBot, &r.DurationMS, &r.TotalMoves, &r.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return HistoryRow{}, ErrNotFound
	}
	return r, err
}

func (s *Store) RecentResults(ctx context.Context, limit int) ([]HistoryRow, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
SELECT match_id, game_type, COALESCE(winner_id, ''), is_draw, aborted, vs_bot, duration_ms, total_moves, finished_at
FROM match_history
ORDER BY finished_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []HistoryRow
	for rows.Next() {
		var r HistoryRow
		if err := rows.Scan(&r.MatchID, &r.GameType, &r.WinnerID, &r.IsDraw, &r.Aborted,
			&r.VsBot, &r.DurationMS, &r.TotalMoves, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
