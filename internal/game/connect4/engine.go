// Package connect4 implements the four-in-a-row rule engine and bots.
package connect4

import (
	"encoding/json"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
	"github.com/deafSpy/lolgames-sub001/internal/game/grid"
)

const (
	Cols  = 7
	Rows  = 6
	cells = Cols * Rows
)

// wins is every 4-cell window on the board, precomputed once.
var wins = grid.Lines(Cols, Rows, 4)

// State is the full four-in-a-row position. The board is flat row-major
// with row 0 at the top; a drop lands in the highest-index empty row of
// its column. Cell values: 0 empty, 1 first seat, 2 second seat.
type State struct {
	Seats [2]string
	Board [cells]int8
	Turn  int
	Moves int
}

func (s *State) Phase() string { return "playing" }

func (s *State) AuthorizedSeats() []string { return []string{s.Seats[s.Turn]} }

func (s *State) Snapshot(string) any {
	board := make([]int8, cells)
	copy(board, s.Board[:])
	return map[string]any{
		"board":     board,
		"cols":      Cols,
		"rows":      Rows,
		"turn_seat": s.Seats[s.Turn],
		"moves":     s.Moves,
	}
}

func (s *State) seatIndex(seatID string) int {
	for i, id := range s.Seats {
		if id == seatID {
			return i
		}
	}
	return -1
}

// dropRow returns the row a piece would land in, or -1 if the column is
// full.
func (s *State) dropRow(col int) int {
	for row := Rows - 1; row >= 0; row-- {
		if s.Board[grid.Index(Cols, row, col)] == 0 {
			return row
		}
	}
	return -1
}

type dropParams struct {
	Column int `json:"column"`
}

type Engine struct{}

func New(game.Config) game.Engine { return &Engine{} }

func (Engine) Init(seatIDs []string) game.State {
	st := &State{}
	copy(st.Seats[:], seatIDs)
	return st
}

func (Engine) Legal(st game.State, seatID string, mv game.Move) error {
	s, ok := st.(*State)
	if !ok {
		return game.ErrInvalidPayload
	}
	idx := s.seatIndex(seatID)
	if idx < 0 || idx != s.Turn {
		return game.ErrNotYourTurn
	}
	if mv.Action != "drop" {
		return game.ErrInvalidPayload
	}
	var p dropParams
	if err := json.Unmarshal(mv.Params, &p); err != nil {
		return game.ErrInvalidPayload
	}
	if p.Column < 0 || p.Column >= Cols {
		return game.Illegal("column_out_of_range")
	}
	if s.dropRow(p.Column) < 0 {
		return game.Illegal("column_full")
	}
	return nil
}

func (e Engine) Apply(st game.State, seatID string, mv game.Move) (game.State, error) {
	if err := e.Legal(st, seatID, mv); err != nil {
		return nil, err
	}
	s := st.(*State)
	var p dropParams
	_ = json.Unmarshal(mv.Params, &p)

	next := *s
	row := next.dropRow(p.Column)
	next.Board[grid.Index(Cols, row, p.Column)] = int8(next.Turn + 1)
	next.Moves++
	next.Turn = 1 - next.Turn
	return &next, nil
}

func (Engine) Terminal(st game.State) (game.Outcome, bool) {
	s := st.(*State)
	if w := winnerCell(&s.Board); w != 0 {
		return game.Outcome{WinnerSeatID: s.Seats[w-1]}, true
	}
	if s.Moves == cells {
		return game.Outcome{IsDraw: true}, true
	}
	return game.Outcome{}, false
}

func (Engine) TimeoutMove(st game.State, seatID string) (game.Move, bool) {
	s, ok := st.(*State)
	if !ok {
		return game.Move{}, false
	}
	cols := openColumns(&s.Board)
	if len(cols) == 0 {
		return game.Move{}, false
	}
	return dropMove(cols[rand.Intn(len(cols))]), true
}

// winnerCell scans every 4-window and returns the owning cell value of a
// completed line, or 0.
func winnerCell(board *[cells]int8) int8 {
	for _, line := range wins {
		v := board[line[0]]
		if v == 0 {
			continue
		}
		if board[line[1]] == v && board[line[2]] == v && board[line[3]] == v {
			return v
		}
	}
	return 0
}

func openColumns(board *[cells]int8) []int {
	var cols []int
	for c := 0; c < Cols; c++ {
		if board[grid.Index(Cols, 0, c)] == 0 {
			cols = append(cols, c)
		}
	}
	return cols
}

func dropMove(col int) game.Move {
	raw, _ := json.Marshal(dropParams{Column: col})
	return game.Move{Action: "drop", Params: raw}
}

func init() {
	game.Register(game.Definition{
		Variant:   game.VariantConnect4,
		MinSeats:  2,
		MaxSeats:  2,
		TwoPlayer: true,
		NewEngine: New,
		NewBot:    NewBot,
	})
}
