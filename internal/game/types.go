package game

import "encoding/json"

type Variant string

const (
	VariantConnect4  Variant = "connect4"
	VariantRPS       Variant = "rps"
	VariantQuoridor  Variant = "quoridor"
	VariantSequence  Variant = "sequence"
	VariantGems      Variant = "gems"
	VariantBlackjack Variant = "blackjack"
)

// Move is the tagged payload a client submits for one turn. Params is
// decoded by the variant engine; a shape the engine cannot decode is
// rejected before any state is touched.
type Move struct {
	Action string          `json:"action"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Outcome reports a terminal result. WinnerSeatID is empty on a draw.
type Outcome struct {
	WinnerSeatID string `json:"winner_seat_id,omitempty"`
	IsDraw       bool   `json:"is_draw"`
}

// State is one immutable snapshot of a match. Engines never mutate a
// State they were handed; Apply returns a fresh value.
type State interface {
	// Phase names the current sub-phase ("playing", "commit", "betting", ...).
	Phase() string
	// AuthorizedSeats lists every seat allowed to submit a move right now.
	// Sequential phases return exactly one seat, simultaneous phases
	// return all seats that have not acted yet.
	AuthorizedSeats() []string
	// Snapshot returns a JSON-serializable view redacted for the given
	// viewer. An empty viewer id gets the spectator view.
	Snapshot(viewerSeatID string) any
}

// Engine is the pure rule engine for one variant. No I/O, no timers.
type Engine interface {
	Init(seatIDs []string) State
	// Legal returns nil, ErrNotYourTurn, ErrInvalidPayload or an
	// *IllegalMoveError. It never mutates st.
	Legal(st State, seatID string, mv Move) error
	// Apply validates via Legal and returns the successor state.
	Apply(st State, seatID string, mv Move) (State, error)
	Terminal(st State) (Outcome, bool)
	// TimeoutMove picks the move played on behalf of a seat whose turn
	// window expired. ok=false means the variant has no safe default and
	// the seat forfeits instead.
	TimeoutMove(st State, seatID string) (Move, bool)
}

// SeatAdder is implemented by engines whose tables admit new seats
// after play has started. The newcomer enters with the variant's
// starting resources and acts from the next natural entry point.
type SeatAdder interface {
	AddSeat(st State, seatID string) (State, error)
}

// BotAgent produces a move for a bot seat from a read-only snapshot.
// Decision logic only; thinking delays and failure recovery live in the
// scheduler that calls it.
type BotAgent interface {
	Decide(st State, seatID string) (Move, error)
}

type BotLevel string

const (
	BotEasy   BotLevel = "easy"
	BotMedium BotLevel = "medium"
	BotHard   BotLevel = "hard"
)
