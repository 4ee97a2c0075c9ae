// Package quoridor implements the wall-building pathing game: pawns
// race to the far row, walls cut edges of the grid graph, and a wall is
// only legal while every player keeps at least one path to goal.
package quoridor

import (
	"encoding/json"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

const (
	Size         = 9
	wallSlots    = Size - 1
	WallsPerSeat = 10
)

type Orientation string

const (
	Horizontal Orientation = "h"
	Vertical   Orientation = "v"
)

// Wall occupies the intersection (Row, Col) with 0 ≤ Row, Col < 8. A
// horizontal wall blocks vertical movement across cell columns Col and
// Col+1; a vertical wall blocks horizontal movement across cell rows
// Row and Row+1.
type Wall struct {
	Row         int         `json:"row"`
	Col         int         `json:"col"`
	Orientation Orientation `json:"orientation"`
}

type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type State struct {
	Seats     [2]string
	Pawns     [2]Pos
	WallsLeft [2]int
	Walls     []Wall
	Turn      int
	Moves     int
}

// goalRow is the row a seat must reach: seat 0 starts on row 8 and
// races to row 0, seat 1 the reverse.
func goalRow(seat int) int {
	if seat == 0 {
		return 0
	}
	return Size - 1
}

func (s *State) Phase() string { return "playing" }

func (s *State) AuthorizedSeats() []string { return []string{s.Seats[s.Turn]} }

func (s *State) Snapshot(string) any {
	return map[string]any{
		"pawns":      map[string]Pos{s.Seats[0]: s.Pawns[0], s.Seats[1]: s.Pawns[1]},
		"walls":      append([]Wall(nil), s.Walls...),
		"walls_left": map[string]int{s.Seats[0]: s.WallsLeft[0], s.Seats[1]: s.WallsLeft[1]},
		"turn_seat":  s.Seats[s.Turn],
		"size":       Size,
		"moves":      s.Moves,
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

func (s *State) clone() *State {
	next := *s
	next.Walls = append([]Wall(nil), s.Walls...)
	return &next
}

// stepOpen reports whether a pawn may step from a to the orthogonally
// adjacent b, considering board edges and wall segments only.
func (s *State) stepOpen(a, b Pos) bool {
	if b.Row < 0 || b.Row >= Size || b.Col < 0 || b.Col >= Size {
		return false
	}
	for _, w := range s.Walls {
		if blocksStep(w, a, b) {
			return false
		}
	}
	return true
}

func blocksStep(w Wall, a, b Pos) bool {
	switch {
	case a.Col == b.Col && w.Orientation == Horizontal:
		top := min(a.Row, b.Row)
		return w.Row == top && (w.Col == a.Col-1 || w.Col == a.Col)
	case a.Row == b.Row && w.Orientation == Vertical:
		left := min(a.Col, b.Col)
		return w.Col == left && (w.Row == a.Row-1 || w.Row == a.Row)
	}
	return false
}

var dirs = [4]Pos{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

// pawnMoves enumerates every destination the seat's pawn may occupy,
// including straight jumps over the adjacent opponent and the diagonal
// fallbacks when the straight jump is itself blocked.
func (s *State) pawnMoves(seat int) []Pos {
	me := s.Pawns[seat]
	opp := s.Pawns[1-seat]
	var out []Pos
	for _, d := range dirs {
		step := Pos{Row: me.Row + d.Row, Col: me.Col + d.Col}
		if !s.stepOpen(me, step) {
			continue
		}
		if step != opp {
			out = append(out, step)
			continue
		}
		jump := Pos{Row: opp.Row + d.Row, Col: opp.Col + d.Col}
		if s.stepOpen(opp, jump) {
			out = append(out, jump)
			continue
		}
		// straight jump hits a wall or the edge: diagonals off the
		// opponent become available
		for _, p := range [2]Pos{
			{Row: opp.Row + d.Col, Col: opp.Col + d.Row},
			{Row: opp.Row - d.Col, Col: opp.Col - d.Row},
		} {
			if p != me && s.stepOpen(opp, p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// wallCollides applies the same-center and same-orientation-overlap
// rules against the walls already on the board.
func (s *State) wallCollides(w Wall) bool {
	for _, ex := range s.Walls {
		if ex.Row == w.Row && ex.Col == w.Col {
			return true
		}
		if ex.Orientation != w.Orientation {
			continue
		}
		if w.Orientation == Horizontal && ex.Row == w.Row && abs(ex.Col-w.Col) == 1 {
			return true
		}
		if w.Orientation == Vertical && ex.Col == w.Col && abs(ex.Row-w.Row) == 1 {
			return true
		}
	}
	return false
}

type moveParams struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type wallParams struct {
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Orientation string `json:"orientation"`
}

type Engine struct{}

func New(game.Config) game.Engine { return &Engine{} }

func (Engine) Init(seatIDs []string) game.State {
	st := &State{
		Pawns:     [2]Pos{{Row: Size - 1, Col: Size / 2}, {Row: 0, Col: Size / 2}},
		WallsLeft: [2]int{WallsPerSeat, WallsPerSeat},
	}
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
	switch mv.Action {
	case "move":
		var p moveParams
		if err := json.Unmarshal(mv.Params, &p); err != nil {
			return game.ErrInvalidPayload
		}
		dst := Pos{Row: p.Row, Col: p.Col}
		for _, m := range s.pawnMoves(idx) {
			if m == dst {
				return nil
			}
		}
		return game.Illegal("unreachable_cell")
	case "wall":
		var p wallParams
		if err := json.Unmarshal(mv.Params, &p); err != nil {
			return game.ErrInvalidPayload
		}
		w := Wall{Row: p.Row, Col: p.Col, Orientation: Orientation(p.Orientation)}
		if w.Orientation != Horizontal && w.Orientation != Vertical {
			return game.ErrInvalidPayload
		}
		if s.WallsLeft[idx] == 0 {
			return game.Illegal("no_walls_left")
		}
		if w.Row < 0 || w.Row >= wallSlots || w.Col < 0 || w.Col >= wallSlots {
			return game.Illegal("wall_out_of_range")
		}
		if s.wallCollides(w) {
			return game.Illegal("wall_collision")
		}
		probe := s.clone()
		probe.Walls = append(probe.Walls, w)
		for seat := range probe.Seats {
			if !probe.pathExists(seat) {
				return game.Illegal("wall_blocks_path")
			}
		}
		return nil
	default:
		return game.ErrInvalidPayload
	}
}

func (e Engine) Apply(st game.State, seatID string, mv game.Move) (game.State, error) {
	if err := e.Legal(st, seatID, mv); err != nil {
		return nil, err
	}
	s := st.(*State)
	idx := s.seatIndex(seatID)
	next := s.clone()
	switch mv.Action {
	case "move":
		var p moveParams
		_ = json.Unmarshal(mv.Params, &p)
		next.Pawns[idx] = Pos{Row: p.Row, Col: p.Col}
	case "wall":
		var p wallParams
		_ = json.Unmarshal(mv.Params, &p)
		next.Walls = append(next.Walls, Wall{Row: p.Row, Col: p.Col, Orientation: Orientation(p.Orientation)})
		next.WallsLeft[idx]--
	}
	next.Moves++
	next.Turn = 1 - next.Turn
	return next, nil
}

func (Engine) Terminal(st game.State) (game.Outcome, bool) {
	s := st.(*State)
	for seat := range s.Seats {
		if s.Pawns[seat].Row == goalRow(seat) {
			return game.Outcome{WinnerSeatID: s.Seats[seat]}, true
		}
	}
	return game.Outcome{}, false
}

func (Engine) TimeoutMove(st game.State, seatID string) (game.Move, bool) {
	s, ok := st.(*State)
	if !ok {
		return game.Move{}, false
	}
	idx := s.seatIndex(seatID)
	if idx < 0 {
		return game.Move{}, false
	}
	moves := s.pawnMoves(idx)
	if len(moves) == 0 {
		return game.Move{}, false
	}
	return pawnMove(moves[rand.Intn(len(moves))]), true
}

func pawnMove(p Pos) game.Move {
	raw, _ := json.Marshal(moveParams{Row: p.Row, Col: p.Col})
	return game.Move{Action: "move", Params: raw}
}

func wallMove(w Wall) game.Move {
	raw, _ := json.Marshal(wallParams{Row: w.Row, Col: w.Col, Orientation: string(w.Orientation)})
	return game.Move{Action: "wall", Params: raw}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func init() {
	game.Register(game.Definition{
		Variant:   game.VariantQuoridor,
		MinSeats:  2,
		MaxSeats:  2,
		TwoPlayer: true,
		NewEngine: New,
		NewBot:    NewBot,
	})
}
