package match

import (
	"context"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

type Participant struct {
	SeatID string `json:"seat_id"`
	Name   string `json:"name"`
	IsBot  bool   `json:"is_bot"`
}

// Result is the one record handed to the history collaborator when a
// match finishes or aborts.
type Result struct {
	MatchID      string        `json:"match_id"`
	GameType     game.Variant  `json:"game_type"`
	WinnerID     string        `json:"winner_id,omitempty"`
	IsDraw       bool          `json:"is_draw"`
	Aborted      bool          `json:"aborted"`
	Participants []Participant `json:"participants"`
	VsBot        bool          `json:"vs_bot"`
	DurationMS   int64         `json:"duration_ms"`
	TotalMoves   int           `json:"total_moves"`
}

// Recorder is the external history/stats sink. The session treats it
// as fire-and-forget and never blocks the match on it.
type Recorder interface {
	RecordResult(ctx context.Context, res Result) error
}

// NopRecorder drops results; used when no database is configured.
type NopRecorder struct{}

func (NopRecorder) RecordResult(context.Context, Result) error { return nil }
