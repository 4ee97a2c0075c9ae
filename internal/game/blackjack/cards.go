package blackjack

import "math/rand"

type Card string

var ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "j", "q", "k", "a"}
var cardSuits = []string{"s", "h", "d", "c"}

func (c Card) rank() string { return string(c[:len(c)-1]) }

// pipValue is the card's low value; aces count 1 here and may be
// promoted by HandValue.
func (c Card) pipValue() int {
	switch r := c.rank(); r {
	case "a":
		return 1
	case "j", "q", "k", "10":
		return 10
	default:
		return int(r[0] - '0')
	}
}

// HandValue computes the best total under ace high/low dual reckoning.
// soft is true when an ace is currently counted as eleven.
func HandValue(cards []Card) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		total += c.pipValue()
		if c.rank() == "a" {
			aces++
		}
	}
	if aces > 0 && total+10 <= 21 {
		return total + 10, true
	}
	return total, false
}

func isBlackjack(cards []Card) bool {
	if len(cards) != 2 {
		return false
	}
	v, _ := HandValue(cards)
	return v == 21
}

// newShoe builds a freshly shuffled four-deck shoe.
func newShoe(rng *rand.Rand) []Card {
	shoe := make([]Card, 0, 4*52)
	for d := 0; d < 4; d++ {
		for _, s := range cardSuits {
			for _, r := range ranks {
				shoe = append(shoe, Card(r+s))
			}
		}
	}
	rng.Shuffle(len(shoe), func(i, j int) { shoe[i], shoe[j] = shoe[j], shoe[i] })
	return shoe
}
