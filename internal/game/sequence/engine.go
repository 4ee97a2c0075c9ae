// Package sequence implements the tile-sequencing card game: cards play
// onto their matching board cell, the four corners are wild for every
// team, and a completed five-in-a-row locks its chips against removal.
package sequence

import (
	"encoding/json"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
	"github.com/deafSpy/lolgames-sub001/internal/game/grid"
)

const (
	Side  = 10
	cells = Side * Side
)

// lines is every 5-cell window on the board.
var lines = grid.Lines(Side, Side, 5)

func isCorner(idx int) bool {
	return idx == 0 || idx == Side-1 || idx == cells-Side || idx == cells-1
}

type State struct {
	Seats     [2]string
	Board     [cells]int8 // 0 empty, seat index + 1
	Locked    [cells]bool
	Layout    [cells]Card // "" on corners
	Hands     [2][]Card
	Deck      []Card
	Completed [2]int
	Target    int
	Turn      int
	Moves     int
}

func (s *State) Phase() string { return "playing" }

func (s *State) AuthorizedSeats() []string { return []string{s.Seats[s.Turn]} }

func (s *State) Snapshot(viewerSeatID string) any {
	layout := make([]string, cells)
	for i, c := range s.Layout {
		layout[i] = string(c)
	}
	board := make([]int8, cells)
	copy(board[:], s.Board[:])
	locked := make([]bool, cells)
	copy(locked[:], s.Locked[:])
	snap := map[string]any{
		"board":     board,
		"locked":    locked,
		"layout":    layout,
		"side":      Side,
		"turn_seat": s.Seats[s.Turn],
		"completed": map[string]int{s.Seats[0]: s.Completed[0], s.Seats[1]: s.Completed[1]},
		"target":    s.Target,
		"deck_left": len(s.Deck),
		"moves":     s.Moves,
	}
	if i := s.seatIndex(viewerSeatID); i >= 0 {
		snap["hand"] = append([]Card(nil), s.Hands[i]...)
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

func (s *State) clone() *State {
	next := *s
	for i := range s.Hands {
		next.Hands[i] = append([]Card(nil), s.Hands[i]...)
	}
	next.Deck = append([]Card(nil), s.Deck...)
	return &next
}

func (s *State) handIndex(seat int, card Card) int {
	for i, c := range s.Hands[seat] {
		if c == card {
			return i
		}
	}
	return -1
}

type playParams struct {
	Card string `json:"card"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type Engine struct {
	target   int
	handSize int
	rng      *rand.Rand
}

func New(cfg game.Config) game.Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Engine{
		target:   cfg.SequencesToWin,
		handSize: cfg.SequenceHandSize,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (e *Engine) Init(seatIDs []string) game.State {
	st := &State{Layout: buildLayout(), Deck: newDeck(e.rng), Target: e.target}
	copy(st.Seats[:], seatIDs)
	for i := range st.Seats {
		st.Hands[i] = append([]Card(nil), st.Deck[:e.handSize]...)
		st.Deck = st.Deck[e.handSize:]
	}
	return st
}

func (e *Engine) Legal(st game.State, seatID string, mv game.Move) error {
	s, ok := st.(*State)
	if !ok {
		return game.ErrInvalidPayload
	}
	idx := s.seatIndex(seatID)
	if idx < 0 || idx != s.Turn {
		return game.ErrNotYourTurn
	}
	if mv.Action != "play" {
		return game.ErrInvalidPayload
	}
	var p playParams
	if err := json.Unmarshal(mv.Params, &p); err != nil {
		return game.ErrInvalidPayload
	}
	if p.Row < 0 || p.Row >= Side || p.Col < 0 || p.Col >= Side {
		return game.Illegal("cell_out_of_range")
	}
	card := Card(p.Card)
	if s.handIndex(idx, card) < 0 {
		return game.Illegal("card_not_in_hand")
	}
	cell := grid.Index(Side, p.Row, p.Col)
	switch {
	case card.isOneEyedJack():
		if s.Board[cell] == 0 || int(s.Board[cell]) == idx+1 {
			return game.Illegal("no_opponent_chip")
		}
		if s.Locked[cell] {
			return game.Illegal("chip_locked")
		}
	case card.isTwoEyedJack():
		if isCorner(cell) {
			return game.Illegal("corner_cell")
		}
		if s.Board[cell] != 0 {
			return game.Illegal("cell_occupied")
		}
	default:
		if s.Layout[cell] != card {
			return game.Illegal("card_cell_mismatch")
		}
		if s.Board[cell] != 0 {
			return game.Illegal("cell_occupied")
		}
	}
	return nil
}

func (e *Engine) Apply(st game.State, seatID string, mv game.Move) (game.State, error) {
	if err := e.Legal(st, seatID, mv); err != nil {
		return nil, err
	}
	s := st.(*State)
	idx := s.seatIndex(seatID)
	var p playParams
	_ = json.Unmarshal(mv.Params, &p)
	card := Card(p.Card)
	cell := grid.Index(Side, p.Row, p.Col)

	next := s.clone()
	if card.isOneEyedJack() {
		next.Board[cell] = 0
	} else {
		next.Board[cell] = int8(idx + 1)
		next.creditSequences(idx)
	}
	hi := next.handIndex(idx, card)
	next.Hands[idx] = append(next.Hands[idx][:hi], next.Hands[idx][hi+1:]...)
	if len(next.Deck) > 0 {
		next.Hands[idx] = append(next.Hands[idx], next.Deck[0])
		next.Deck = next.Deck[1:]
	}
	next.Moves++
	next.Turn = 1 - next.Turn
	return next, nil
}

// creditSequences scans for newly completed five-in-a-rows for the
// seat's team. Corners count as wild; a line sharing more than one cell
// with an already credited sequence does not count again.
func (s *State) creditSequences(seat int) {
	team := int8(seat + 1)
	for _, line := range lines {
		owned, locked := 0, 0
		for _, idx := range line {
			if isCorner(idx) || s.Board[idx] == team {
				owned++
			}
			if s.Locked[idx] {
				locked++
			}
		}
		if owned < len(line) || locked > 1 {
			continue
		}
		for _, idx := range line {
			s.Locked[idx] = true
		}
		s.Completed[seat]++
	}
}

func (e *Engine) Terminal(st game.State) (game.Outcome, bool) {
	s := st.(*State)
	for i := range s.Seats {
		if s.Completed[i] >= s.Target {
			return game.Outcome{WinnerSeatID: s.Seats[i]}, true
		}
	}
	if len(s.Hands[0]) == 0 && len(s.Hands[1]) == 0 {
		return game.Outcome{IsDraw: true}, true
	}
	return game.Outcome{}, false
}

func (e *Engine) TimeoutMove(st game.State, seatID string) (game.Move, bool) {
	s, ok := st.(*State)
	if !ok {
		return game.Move{}, false
	}
	idx := s.seatIndex(seatID)
	if idx < 0 {
		return game.Move{}, false
	}
	moves := legalMoves(s, idx)
	if len(moves) == 0 {
		return game.Move{}, false
	}
	return moves[e.rng.Intn(len(moves))], true
}

// legalMoves enumerates every playable (card, cell) pair for a seat.
func legalMoves(s *State, seat int) []game.Move {
	var out []game.Move
	seen := map[Card]bool{}
	for _, card := range s.Hands[seat] {
		if seen[card] {
			continue
		}
		seen[card] = true
		switch {
		case card.isOneEyedJack():
			for idx := 0; idx < cells; idx++ {
				if s.Board[idx] != 0 && int(s.Board[idx]) != seat+1 && !s.Locked[idx] {
					out = append(out, playMove(card, idx))
				}
			}
		case card.isTwoEyedJack():
			for idx := 0; idx < cells; idx++ {
				if !isCorner(idx) && s.Board[idx] == 0 {
					out = append(out, playMove(card, idx))
				}
			}
		default:
			for idx := 0; idx < cells; idx++ {
				if s.Layout[idx] == card && s.Board[idx] == 0 {
					out = append(out, playMove(card, idx))
				}
			}
		}
	}
	return out
}

func playMove(card Card, idx int) game.Move {
	raw, _ := json.Marshal(playParams{Card: string(card), Row: idx / Side, Col: idx % Side})
	return game.Move{Action: "play", Params: raw}
}

func init() {
	game.Register(game.Definition{
		Variant:   game.VariantSequence,
		MinSeats:  2,
		MaxSeats:  2,
		TwoPlayer: true,
		NewEngine: New,
		NewBot:    NewBot,
	})
}
