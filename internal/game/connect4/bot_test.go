package connect4

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

func botColumn(t *testing.T, b game.BotAgent, st game.State, seatID string) int {
	t.Helper()
	mv, err := b.Decide(st, seatID)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	var p dropParams
	if err := json.Unmarshal(mv.Params, &p); err != nil {
		t.Fatalf("params: %v", err)
	}
	return p.Column
}

func TestMediumBotTakesWin(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"bot", "opp"})
	s := st.(*State)
	// bot has three in column 2
	for i := 0; i < 3; i++ {
		place(&s.Board, 2, 1)
		place(&s.Board, 6, 2)
	}
	b := NewBot(game.BotMedium, rand.New(rand.NewSource(1)))
	if col := botColumn(t, b, s, "bot"); col != 2 {
		t.Fatalf("bot played %d, want the winning column 2", col)
	}
}

func TestMediumBotBlocksLoss(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"bot", "opp"})
	s := st.(*State)
	// opponent threatens column 4
	for i := 0; i < 3; i++ {
		place(&s.Board, 4, 2)
	}
	place(&s.Board, 0, 1)
	b := NewBot(game.BotMedium, rand.New(rand.NewSource(1)))
	if col := botColumn(t, b, s, "bot"); col != 4 {
		t.Fatalf("bot played %d, want the blocking column 4", col)
	}
}

func TestHardBotTakesImmediateWin(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"bot", "opp"})
	s := st.(*State)
	for i := 0; i < 3; i++ {
		place(&s.Board, 1, 1)
		place(&s.Board, 6, 2)
	}
	b := NewBot(game.BotHard, rand.New(rand.NewSource(7)))
	if col := botColumn(t, b, s, "bot"); col != 1 {
		t.Fatalf("bot played %d, want the winning column 1", col)
	}
}

func TestEasyBotPlaysLegalMoves(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"bot", "opp"})
	b := NewBot(game.BotEasy, rand.New(rand.NewSource(3)))
	for i := 0; i < 20; i++ {
		mv, err := b.Decide(st, "bot")
		if err != nil {
			t.Fatalf("decide: %v", err)
		}
		if err := e.Legal(st, "bot", mv); err != nil {
			t.Fatalf("easy bot produced illegal move: %v", err)
		}
	}
}

func TestBotsFinishAGame(t *testing.T) {
	e := New(game.DefaultConfig())
	st := e.Init([]string{"x", "y"})
	bots := map[string]game.BotAgent{
		"x": NewBot(game.BotHard, rand.New(rand.NewSource(11))),
		"y": NewBot(game.BotMedium, rand.New(rand.NewSource(12))),
	}
	for moves := 0; moves <= cells; moves++ {
		if _, done := e.Terminal(st); done {
			return
		}
		seatID := st.AuthorizedSeats()[0]
		mv, err := bots[seatID].Decide(st, seatID)
		if err != nil {
			t.Fatalf("decide: %v", err)
		}
		st, err = e.Apply(st, seatID, mv)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	if _, done := e.Terminal(st); !done {
		t.Fatal("game did not finish within the board size")
	}
}
