package gems

import (
	"math/rand"
	"strconv"
)

type Color string

const (
	White Color = "white"
	Blue  Color = "blue"
	Green Color = "green"
	Red   Color = "red"
	Black Color = "black"
	Gold  Color = "gold" // wildcard, never a card bonus
)

var gemColors = []Color{White, Blue, Green, Red, Black}

// Card is one market card: buying it grants Points and a permanent
// Bonus discount of one gem of its bonus color.
type Card struct {
	ID     string        `json:"id"`
	Tier   int           `json:"tier"`
	Points int           `json:"points"`
	Bonus  Color         `json:"bonus"`
	Cost   map[Color]int `json:"cost"`
}

// Patron awards bonus points to the first player whose purchased-card
// bonuses meet its requirement.
type Patron struct {
	ID       string        `json:"id"`
	Points   int           `json:"points"`
	Requires map[Color]int `json:"requires"`
}

var tierShapes = []struct {
	count     int
	minPoints int
	maxPoints int
	costTotal int
}{
	{count: 40, minPoints: 0, maxPoints: 1, costTotal: 4},
	{count: 30, minPoints: 1, maxPoints: 3, costTotal: 7},
	{count: 20, minPoints: 3, maxPoints: 5, costTotal: 11},
}

// buildDecks generates the three shuffled tier decks. Costs and points
// are drawn from tier-scaled ranges; the exact card list is not part of
// the rules, only the affordability semantics are.
func buildDecks(rng *rand.Rand) [3][]Card {
	var decks [3][]Card
	serial := 0
	for tier, shape := range tierShapes {
		deck := make([]Card, 0, shape.count)
		for i := 0; i < shape.count; i++ {
			serial++
			cost := map[Color]int{}
			spread := 2 + rng.Intn(2) // colors the cost touches
			for j := 0; j < shape.costTotal; j++ {
				cost[gemColors[(i+j%spread)%len(gemColors)]]++
			}
			deck = append(deck, Card{
				ID:     "card_" + strconv.Itoa(serial),
				Tier:   tier + 1,
				Points: shape.minPoints + rng.Intn(shape.maxPoints-shape.minPoints+1),
				Bonus:  gemColors[i%len(gemColors)],
				Cost:   cost,
			})
		}
		rng.Shuffle(len(deck), func(a, b int) { deck[a], deck[b] = deck[b], deck[a] })
		decks[tier] = deck
	}
	return decks
}

func buildPatrons(rng *rand.Rand) []Patron {
	patrons := make([]Patron, 0, 4)
	for i := 0; i < 4; i++ {
		req := map[Color]int{}
		if rng.Intn(2) == 0 {
			// 4 + 4 of two colors
			a := gemColors[rng.Intn(len(gemColors))]
			b := a
			for b == a {
				b = gemColors[rng.Intn(len(gemColors))]
			}
			req[a], req[b] = 4, 4
		} else {
			// 3 + 3 + 3 of three colors
			perm := rng.Perm(len(gemColors))
			for _, j := range perm[:3] {
				req[gemColors[j]] = 3
			}
		}
		patrons = append(patrons, Patron{ID: "patron_" + strconv.Itoa(i+1), Points: 3, Requires: req})
	}
	return patrons
}
