package quoridor

import (
	"errors"
	"testing"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

func TestInitialPosition(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"a", "b"})
	s := st.(*State)
	if s.Pawns[0] != (Pos{Row: 8, Col: 4}) || s.Pawns[1] != (Pos{Row: 0, Col: 4}) {
		t.Fatalf("pawns = %v", s.Pawns)
	}
	if s.WallsLeft[0] != WallsPerSeat || s.WallsLeft[1] != WallsPerSeat {
		t.Fatalf("walls left = %v", s.WallsLeft)
	}
	if d := s.distanceToGoal(0); d != 8 {
		t.Fatalf("seat 0 start distance = %d, want 8", d)
	}
}

func TestPawnStepAndTurn(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"a", "b"})

	next, err := e.Apply(st, "a", pawnMove(Pos{Row: 7, Col: 4}))
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	s := next.(*State)
	if s.Pawns[0] != (Pos{Row: 7, Col: 4}) {
		t.Fatalf("pawn = %v", s.Pawns[0])
	}
	if got := s.AuthorizedSeats(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("authorized = %v", got)
	}
	if err := e.Legal(next, "a", pawnMove(Pos{Row: 6, Col: 4})); !errors.Is(err, game.ErrNotYourTurn) {
		t.Fatalf("out of turn: %v", err)
	}
}

func TestDiagonalStepRejected(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"a", "b"})
	if err := e.Legal(st, "a", pawnMove(Pos{Row: 7, Col: 5})); !game.IsIllegal(err) {
		t.Fatalf("diagonal step: got %v, want illegal", err)
	}
	if err := e.Legal(st, "a", pawnMove(Pos{Row: 5, Col: 4})); !game.IsIllegal(err) {
		t.Fatalf("two-cell step: got %v, want illegal", err)
	}
}

func TestJumpOverAdjacentOpponent(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"a", "b"})
	s := st.(*State)
	s.Pawns[0] = Pos{Row: 4, Col: 4}
	s.Pawns[1] = Pos{Row: 3, Col: 4}

	if err := e.Legal(s, "a", pawnMove(Pos{Row: 2, Col: 4})); err != nil {
		t.Fatalf("straight jump: %v", err)
	}
	// the occupied cell itself is not a destination
	if err := e.Legal(s, "a", pawnMove(Pos{Row: 3, Col: 4})); !game.IsIllegal(err) {
		t.Fatalf("moving onto opponent: got %v, want illegal", err)
	}
}

func TestBlockedJumpOpensDiagonals(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"a", "b"})
	s := st.(*State)
	s.Pawns[0] = Pos{Row: 4, Col: 4}
	s.Pawns[1] = Pos{Row: 3, Col: 4}
	// wall behind the opponent blocks the straight jump
	s.Walls = append(s.Walls, Wall{Row: 2, Col: 4, Orientation: Horizontal})

	if err := e.Legal(s, "a", pawnMove(Pos{Row: 2, Col: 4})); !game.IsIllegal(err) {
		t.Fatalf("straight jump through wall: got %v, want illegal", err)
	}
	for _, dst := range []Pos{{Row: 3, Col: 3}, {Row: 3, Col: 5}} {
		if err := e.Legal(s, "a", pawnMove(dst)); err != nil {
			t.Fatalf("diagonal %v: %v", dst, err)
		}
	}
}

func TestWallCollisions(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"a", "b"})
	s := st.(*State)
	s.Walls = append(s.Walls, Wall{Row: 4, Col: 4, Orientation: Horizontal})

	cases := []struct {
		wall   Wall
		reason string
	}{
		{Wall{Row: 4, Col: 4, Orientation: Vertical}, "same center"},
		{Wall{Row: 4, Col: 5, Orientation: Horizontal}, "overlap right"},
		{Wall{Row: 4, Col: 3, Orientation: Horizontal}, "overlap left"},
	}
	for _, tc := range cases {
		if err := e.Legal(s, "a", wallMove(tc.wall)); !game.IsIllegal(err) {
			t.Fatalf("%s: got %v, want illegal", tc.reason, err)
		}
	}
	// perpendicular neighbor is fine
	if err := e.Legal(s, "a", wallMove(Wall{Row: 3, Col: 4, Orientation: Vertical})); err != nil {
		t.Fatalf("adjacent perpendicular wall: %v", err)
	}
}

func TestWallNeverBlocksLastPath(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"a", "b"})
	s := st.(*State)
	// fence pawn b (row 0, col 4) in on both sides
	s.Walls = append(s.Walls,
		Wall{Row: 0, Col: 3, Orientation: Vertical},
		Wall{Row: 0, Col: 4, Orientation: Vertical},
	)
	if !s.pathExists(1) {
		t.Fatal("setup still must leave a path")
	}

	// sealing the floor would strand b entirely
	err := e.Legal(s, "a", wallMove(Wall{Row: 1, Col: 4, Orientation: Horizontal}))
	var illegal *game.IllegalMoveError
	if !errors.As(err, &illegal) || illegal.Reason != "wall_blocks_path" {
		t.Fatalf("got %v, want wall_blocks_path", err)
	}

	// a wall elsewhere on the same turn is still allowed
	if err := e.Legal(s, "a", wallMove(Wall{Row: 6, Col: 0, Orientation: Horizontal})); err != nil {
		t.Fatalf("harmless wall: %v", err)
	}
}

func TestWallBudgetEnforced(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"a", "b"})
	s := st.(*State)
	s.WallsLeft[0] = 0
	err := e.Legal(s, "a", wallMove(Wall{Row: 4, Col: 4, Orientation: Horizontal}))
	var illegal *game.IllegalMoveError
	if !errors.As(err, &illegal) || illegal.Reason != "no_walls_left" {
		t.Fatalf("got %v, want no_walls_left", err)
	}
}

func TestWinOnGoalRow(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"a", "b"})
	s := st.(*State)
	s.Pawns[0] = Pos{Row: 1, Col: 0}

	next, err := e.Apply(s, "a", pawnMove(Pos{Row: 0, Col: 0}))
	if err != nil {
		t.Fatalf("winning step: %v", err)
	}
	out, done := e.Terminal(next)
	if !done || out.WinnerSeatID != "a" {
		t.Fatalf("outcome = %+v done=%v, want winner a", out, done)
	}
}

func TestDistanceToGoalUnreachable(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"a", "b"})
	s := st.(*State)
	s.Walls = append(s.Walls,
		Wall{Row: 0, Col: 3, Orientation: Vertical},
		Wall{Row: 0, Col: 4, Orientation: Vertical},
		Wall{Row: 1, Col: 4, Orientation: Horizontal},
	)
	if d := s.distanceToGoal(1); d != -1 {
		t.Fatalf("distance = %d, want -1 for a sealed pawn", d)
	}
}
