package rps

import (
	"testing"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

func testConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.RPSTargetWins = 2
	cfg.RPSRoundCap = 5
	return cfg
}

func commit(t *testing.T, e game.Engine, st game.State, seatID string, c Choice) game.State {
	t.Helper()
	next, err := e.Apply(st, seatID, commitMove(c))
	if err != nil {
		t.Fatalf("commit seat=%s choice=%s: %v", seatID, c, err)
	}
	return next
}

func TestCompare(t *testing.T) {
	for _, a := range choices {
		if Compare(a, a) != 0 {
			t.Fatalf("%s vs itself should draw", a)
		}
		for _, b := range choices {
			if Compare(a, b) != -Compare(b, a) {
				t.Fatalf("Compare(%s,%s) not antisymmetric", a, b)
			}
		}
	}
	if Compare(Rock, Scissors) != 1 || Compare(Paper, Rock) != 1 || Compare(Scissors, Paper) != 1 {
		t.Fatal("beat relation broken")
	}
}

func TestRoundResolution(t *testing.T) {
	e := New(testConfig())
	st := e.Init([]string{"a", "b"})

	st = commit(t, e, st, "a", Rock)
	s := st.(*State)
	if len(s.AuthorizedSeats()) != 1 || s.AuthorizedSeats()[0] != "b" {
		t.Fatalf("authorized = %v, want [b]", s.AuthorizedSeats())
	}
	st = commit(t, e, st, "b", Scissors)

	s = st.(*State)
	if s.Round != 2 {
		t.Fatalf("round = %d, want 2", s.Round)
	}
	if s.Scores[0] != 1 || s.Scores[1] != 0 {
		t.Fatalf("scores = %v, want a leading 1-0", s.Scores)
	}
	if s.LastResult != "a" {
		t.Fatalf("last result = %q, want a", s.LastResult)
	}
	if s.Commits[0] != "" || s.Commits[1] != "" {
		t.Fatal("commits not cleared after reveal")
	}
}

func TestDoubleCommitRejected(t *testing.T) {
	e := New(testConfig())
	st := e.Init([]string{"a", "b"})
	st = commit(t, e, st, "a", Rock)
	if _, err := e.Apply(st, "a", commitMove(Paper)); !game.IsIllegal(err) {
		t.Fatalf("second commit: got %v, want illegal", err)
	}
}

func TestCommitHiddenFromOpponent(t *testing.T) {
	e := New(testConfig())
	st := e.Init([]string{"a", "b"})
	st = commit(t, e, st, "a", Rock)

	own := st.Snapshot("a").(map[string]any)
	if own["my_choice"] != "rock" {
		t.Fatalf("own view missing choice: %v", own)
	}
	for _, viewer := range []string{"b", ""} {
		snap := st.Snapshot(viewer).(map[string]any)
		if _, leaked := snap["my_choice"]; leaked {
			t.Fatalf("choice leaked to viewer %q", viewer)
		}
		committed := snap["committed"].(map[string]bool)
		if !committed["a"] || committed["b"] {
			t.Fatalf("committed flags wrong for viewer %q: %v", viewer, committed)
		}
	}
}

func TestTargetWinsEndsMatch(t *testing.T) {
	e := New(testConfig())
	st := e.Init([]string{"a", "b"})
	for i := 0; i < 2; i++ {
		st = commit(t, e, st, "a", Paper)
		st = commit(t, e, st, "b", Rock)
	}
	out, done := e.Terminal(st)
	if !done || out.WinnerSeatID != "a" {
		t.Fatalf("outcome = %+v done=%v, want winner a", out, done)
	}
}

func TestRoundCapDecidesOnScore(t *testing.T) {
	e := New(testConfig())
	st := e.Init([]string{"a", "b"})
	// one win for b, the rest draws until the cap
	st = commit(t, e, st, "a", Rock)
	st = commit(t, e, st, "b", Paper)
	for st.(*State).Round <= st.(*State).RoundCap {
		st = commit(t, e, st, "a", Rock)
		st = commit(t, e, st, "b", Rock)
	}
	out, done := e.Terminal(st)
	if !done || out.WinnerSeatID != "b" {
		t.Fatalf("outcome = %+v done=%v, want winner b on score", out, done)
	}
}

func TestRoundCapAllDrawsIsDraw(t *testing.T) {
	e := New(testConfig())
	st := e.Init([]string{"a", "b"})
	for st.(*State).Round <= st.(*State).RoundCap {
		st = commit(t, e, st, "a", Scissors)
		st = commit(t, e, st, "b", Scissors)
	}
	out, done := e.Terminal(st)
	if !done || !out.IsDraw {
		t.Fatalf("outcome = %+v done=%v, want draw", out, done)
	}
}

func TestTimeoutMoveIsLegal(t *testing.T) {
	e := New(testConfig())
	st := e.Init([]string{"a", "b"})
	mv, ok := e.TimeoutMove(st, "b")
	if !ok {
		t.Fatal("expected timeout move")
	}
	if err := e.Legal(st, "b", mv); err != nil {
		t.Fatalf("timeout move not legal: %v", err)
	}
}
