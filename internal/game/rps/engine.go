// Package rps implements the simultaneous-commit rock-paper-scissors
// engine: first to N round wins, with a round cap converting to a score
// decision so repeated draws cannot run forever.
package rps

import (
	"encoding/json"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

var choices = []Choice{Rock, Paper, Scissors}

var beatenBy = map[Choice]Choice{Rock: Paper, Paper: Scissors, Scissors: Rock}

// Compare returns 1 if a beats b, -1 if b beats a and 0 on a draw.
func Compare(a, b Choice) int {
	if a == b {
		return 0
	}
	if beatenBy[b] == a {
		return 1
	}
	return -1
}

type State struct {
	Seats      [2]string
	Round      int
	Commits    [2]Choice
	Scores     [2]int
	History    [2][]Choice
	LastResult string // seat id of last round winner, "" for draw
	TargetWins int
	RoundCap   int
}

func (s *State) Phase() string { return "commit" }

func (s *State) AuthorizedSeats() []string {
	var out []string
	for i, id := range s.Seats {
		if s.Commits[i] == "" {
			out = append(out, id)
		}
	}
	return out
}

func (s *State) Snapshot(viewerSeatID string) any {
	committed := make(map[string]bool, 2)
	for i, id := range s.Seats {
		committed[id] = s.Commits[i] != ""
	}
	snap := map[string]any{
		"round":       s.Round,
		"scores":      map[string]int{s.Seats[0]: s.Scores[0], s.Seats[1]: s.Scores[1]},
		"committed":   committed,
		"target_wins": s.TargetWins,
		"last_result": s.LastResult,
	}
	// own pending choice only; the opponent's stays hidden until reveal
	if i := s.seatIndex(viewerSeatID); i >= 0 && s.Commits[i] != "" {
		snap["my_choice"] = string(s.Commits[i])
	}
	return snap
}

func (s *State) seatIndex(seatID string) int {
	for i, id := range s.Seats {
		if id == seatID {
			return i
		}
	}
	return -1
}

type commitParams struct {
	Choice string `json:"choice"`
}

type Engine struct {
	targetWins int
	roundCap   int
}

func New(cfg game.Config) game.Engine {
	return &Engine{targetWins: cfg.RPSTargetWins, roundCap: cfg.RPSRoundCap}
}

func (e *Engine) Init(seatIDs []string) game.State {
	st := &State{Round: 1, TargetWins: e.targetWins, RoundCap: e.roundCap}
	copy(st.Seats[:], seatIDs)
	return st
}

func (e *Engine) Legal(st game.State, seatID string, mv game.Move) error {
	s, ok := st.(*State)
	if !ok {
		return game.ErrInvalidPayload
	}
	idx := s.seatIndex(seatID)
	if idx < 0 {
		return game.ErrNotYourTurn
	}
	if mv.Action != "commit" {
		return game.ErrInvalidPayload
	}
	var p commitParams
	if err := json.Unmarshal(mv.Params, &p); err != nil {
		return game.ErrInvalidPayload
	}
	switch Choice(p.Choice) {
	case Rock, Paper, Scissors:
	default:
		return game.Illegal("unknown_choice")
	}
	if s.Commits[idx] != "" {
		return game.Illegal("already_committed")
	}
	return nil
}

func (e *Engine) Apply(st game.State, seatID string, mv game.Move) (game.State, error) {
	if err := e.Legal(st, seatID, mv); err != nil {
		return nil, err
	}
	s := st.(*State)
	var p commitParams
	_ = json.Unmarshal(mv.Params, &p)

	next := s.clone()
	next.Commits[next.seatIndex(seatID)] = Choice(p.Choice)
	if next.Commits[0] != "" && next.Commits[1] != "" {
		next.resolveRound()
	}
	return next, nil
}

func (s *State) clone() *State {
	next := *s
	for i := range s.History {
		next.History[i] = append([]Choice(nil), s.History[i]...)
	}
	return &next
}

func (s *State) resolveRound() {
	a, b := s.Commits[0], s.Commits[1]
	switch Compare(a, b) {
	case 1:
		s.Scores[0]++
		s.LastResult = s.Seats[0]
	case -1:
		s.Scores[1]++
		s.LastResult = s.Seats[1]
	default:
		s.LastResult = ""
	}
	s.History[0] = append(s.History[0], a)
	s.History[1] = append(s.History[1], b)
	s.Commits = [2]Choice{}
	s.Round++
}

func (e *Engine) Terminal(st game.State) (game.Outcome, bool) {
	s := st.(*State)
	for i := range s.Seats {
		if s.Scores[i] >= s.TargetWins {
			return game.Outcome{WinnerSeatID: s.Seats[i]}, true
		}
	}
	if s.Round > s.RoundCap {
		// cap reached with neither at target: decide on score
		if s.Scores[0] > s.Scores[1] {
			return game.Outcome{WinnerSeatID: s.Seats[0]}, true
		}
		if s.Scores[1] > s.Scores[0] {
			return game.Outcome{WinnerSeatID: s.Seats[1]}, true
		}
		return game.Outcome{IsDraw: true}, true
	}
	return game.Outcome{}, false
}

func (e *Engine) TimeoutMove(st game.State, seatID string) (game.Move, bool) {
	s, ok := st.(*State)
	if !ok || s.seatIndex(seatID) < 0 {
		return game.Move{}, false
	}
	return commitMove(choices[rand.Intn(len(choices))]), true
}

func commitMove(c Choice) game.Move {
	raw, _ := json.Marshal(commitParams{Choice: string(c)})
	return game.Move{Action: "commit", Params: raw}
}

func init() {
	game.Register(game.Definition{
		Variant:   game.VariantRPS,
		MinSeats:  2,
		MaxSeats:  2,
		TwoPlayer: true,
		NewEngine: New,
		NewBot:    NewBot,
	})
}
