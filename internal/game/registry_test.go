package game_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/deafSpy/lolgames-sub001/internal/game"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/blackjack"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/connect4"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/gems"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/quoridor"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/rps"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/sequence"
)

func TestAllVariantsRegistered(t *testing.T) {
	want := []game.Variant{
		game.VariantBlackjack,
		game.VariantConnect4,
		game.VariantGems,
		game.VariantQuoridor,
		game.VariantRPS,
		game.VariantSequence,
	}
	got := game.Variants()
	if len(got) != len(want) {
		t.Fatalf("variants = %v, want %v", got, want)
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }) {
		t.Fatalf("variants not sorted: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("variants = %v, want %v", got, want)
		}
	}
}

func TestLookup(t *testing.T) {
	def, ok := game.Lookup(game.VariantConnect4)
	if !ok || def.MinSeats != 2 || def.MaxSeats != 2 || !def.TwoPlayer {
		t.Fatalf("connect4 def = %+v ok=%v", def, ok)
	}
	if def.NewEngine == nil || def.NewBot == nil {
		t.Fatal("connect4 def missing constructors")
	}
	if _, ok := game.Lookup("checkers"); ok {
		t.Fatal("unregistered variant resolved")
	}
}

func TestCapacity(t *testing.T) {
	bj, ok := game.Lookup(game.VariantBlackjack)
	if !ok {
		t.Fatal("blackjack not registered")
	}
	cfg := game.DefaultConfig()
	if got := bj.Capacity(cfg); got != 5 {
		t.Fatalf("default capacity = %d, want 5", got)
	}
	cfg.BlackjackMaxSeats = 3
	if got := bj.Capacity(cfg); got != 3 {
		t.Fatalf("tuned capacity = %d, want 3", got)
	}
	cfg.BlackjackMaxSeats = 1
	if got := bj.Capacity(cfg); got != 5 {
		t.Fatalf("capacity below the minimum = %d, want the registered 5", got)
	}

	c4, _ := game.Lookup(game.VariantConnect4)
	cfg.BlackjackMaxSeats = 3
	if got := c4.Capacity(cfg); got != 2 {
		t.Fatalf("connect4 capacity = %d, want the fixed 2", got)
	}
}

func TestIllegalMoveError(t *testing.T) {
	err := game.Illegal("column_full")
	if !game.IsIllegal(err) {
		t.Fatal("Illegal() not recognized by IsIllegal")
	}
	var ime *game.IllegalMoveError
	if !errors.As(err, &ime) || ime.Reason != "column_full" {
		t.Fatalf("error = %v", err)
	}
	if game.IsIllegal(game.ErrNotYourTurn) {
		t.Fatal("sentinel mistaken for an illegal move")
	}
}
