package sequence

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/deafSpy/lolgames-sub001/internal/game"
	"github.com/deafSpy/lolgames-sub001/internal/game/grid"
)

func TestBotCompletesSequenceWhenPossible(t *testing.T) {
	e := testEngine(1)
	st := e.Init([]string{"bot", "opp"}).(*State)
	for _, idx := range []int{1, 2, 3} {
		st.Board[idx] = 1
	}
	st.Hands[0] = []Card{"jd"}

	b := NewBot(game.BotHard, rand.New(rand.NewSource(1)))
	mv, err := b.Decide(st, "bot")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	var p playParams
	if err := json.Unmarshal(mv.Params, &p); err != nil {
		t.Fatalf("params: %v", err)
	}
	if got := grid.Index(Side, p.Row, p.Col); got != 4 {
		t.Fatalf("bot played cell %d, want the completing cell 4", got)
	}
}

func TestBotMovesAreLegal(t *testing.T) {
	e := testEngine(5)
	st := e.Init([]string{"bot", "opp"})
	b := NewBot(game.BotMedium, rand.New(rand.NewSource(5)))
	for i := 0; i < 10; i++ {
		mv, err := b.Decide(st, "bot")
		if err != nil {
			t.Fatalf("decide: %v", err)
		}
		if err := e.Legal(st, "bot", mv); err != nil {
			t.Fatalf("illegal bot move %+v: %v", mv, err)
		}
	}
}

func TestBotsPlayToCompletion(t *testing.T) {
	e := testEngine(31)
	st := e.Init([]string{"x", "y"})
	bots := map[string]game.BotAgent{
		"x": NewBot(game.BotHard, rand.New(rand.NewSource(41))),
		"y": NewBot(game.BotHard, rand.New(rand.NewSource(42))),
	}
	for moves := 0; moves < 300; moves++ {
		if _, done := e.Terminal(st); done {
			return
		}
		seatID := st.AuthorizedSeats()[0]
		mv, err := bots[seatID].Decide(st, seatID)
		if err != nil {
			// a hand of dead cards stalls the seat; the session layer
			// resolves that by timeout policy, not the engine
			if _, ok := e.TimeoutMove(st, seatID); !ok {
				return
			}
			t.Fatalf("decide: %v", err)
		}
		st, err = e.Apply(st, seatID, mv)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	t.Fatal("game did not finish within 300 moves")
}
