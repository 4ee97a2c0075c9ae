package sequence

import "math/rand"

// Card is rank+suit, e.g. "as", "10d", "jh". Jacks never appear on the
// board layout: two-eyed jacks (diamonds, clubs) place on any open
// non-corner cell, one-eyed jacks (hearts, spades) remove an opponent
// chip instead of placing.
type Card string

var (
	suits      = []string{"s", "h", "d", "c"}
	boardRanks = []string{"a", "2", "3", "4", "5", "6", "7", "8", "9", "10", "q", "k"}
)

func (c Card) suit() string { return string(c[len(c)-1:]) }

func (c Card) isTwoEyedJack() bool { return c == "jd" || c == "jc" }

func (c Card) isOneEyedJack() bool { return c == "jh" || c == "js" }

// boardCards lists the 48 distinct non-jack cards in a fixed order; the
// layout places each of them twice.
func boardCards() []Card {
	out := make([]Card, 0, 48)
	for _, s := range suits {
		for _, r := range boardRanks {
			out = append(out, Card(r+s))
		}
	}
	return out
}

// newDeck builds the two-deck draw pile (96 board cards + 8 jacks) and
// shuffles it.
func newDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, 104)
	for copies := 0; copies < 2; copies++ {
		deck = append(deck, boardCards()...)
		for _, s := range suits {
			deck = append(deck, Card("j"+s))
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// buildLayout maps every non-corner cell to a card, deterministically:
// the first deck pass fills non-corner cells in row-major order, the
// second pass fills the remainder in reverse so the two copies of each
// card land far apart.
func buildLayout() [cells]Card {
	var layout [cells]Card
	open := make([]int, 0, cells-4)
	for idx := 0; idx < cells; idx++ {
		if !isCorner(idx) {
			open = append(open, idx)
		}
	}
	cards := boardCards()
	for i, c := range cards {
		layout[open[i]] = c
	}
	for i, c := range cards {
		layout[open[len(open)-1-i]] = c
	}
	return layout
}
