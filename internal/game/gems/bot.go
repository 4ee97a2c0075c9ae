package gems

import (
	"encoding/json"
	"errors"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

// Bot follows a fixed priority order: buy an affordable card with
// points, buy an affordable reserved card, buy any card that advances a
// patron requirement, take gems (three distinct preferred, two of one
// color only when the bank allows), reserve a high-point card, take
// whatever single gems remain, buy anything affordable, and only then
// pass.
type Bot struct {
	rng *rand.Rand
}

func NewBot(_ game.BotLevel, rng *rand.Rand) game.BotAgent {
	return &Bot{rng: rng}
}

func (b *Bot) Decide(st game.State, seatID string) (game.Move, error) {
	s, ok := st.(*State)
	if !ok {
		return game.Move{}, errors.New("gems: wrong state type")
	}
	idx := s.seatIndex(seatID)
	if idx < 0 {
		return game.Move{}, errors.New("gems: unknown seat")
	}
	p := s.Players[idx]

	if mv, ok := bestAffordable(s, p, func(c Card) bool { return c.Points > 0 }); ok {
		return mv, nil
	}
	for i, card := range p.Reserved {
		if CanAfford(p, card) {
			return buyReservedMove(i), nil
		}
	}
	if mv, ok := bestAffordable(s, p, func(c Card) bool { return advancesPatron(s, p, c) }); ok {
		return mv, nil
	}
	if mv, ok := b.takeMove(s, p); ok {
		return mv, nil
	}
	if mv, ok := reserveHighest(s, p); ok {
		return mv, nil
	}
	if mv, ok := takeAvailableMove(s, p); ok {
		return mv, nil
	}
	// any affordable card beats passing; pass is only legal when stuck
	if mv, ok := bestAffordable(s, p, func(Card) bool { return true }); ok {
		return mv, nil
	}
	return game.Move{Action: "pass"}, nil
}

func bestAffordable(s *State, p *PlayerState, want func(Card) bool) (game.Move, bool) {
	bestTier, bestIdx, bestPoints := -1, -1, -1
	for t := range s.FaceUp {
		for i, card := range s.FaceUp[t] {
			if want(card) && CanAfford(p, card) && card.Points > bestPoints {
				bestTier, bestIdx, bestPoints = t, i, card.Points
			}
		}
	}
	if bestTier < 0 {
		return game.Move{}, false
	}
	return buyMarketMove(bestTier+1, bestIdx), true
}

// advancesPatron reports whether buying the card moves any patron
// requirement closer.
func advancesPatron(s *State, p *PlayerState, card Card) bool {
	for _, patron := range s.Patrons {
		if need, ok := patron.Requires[card.Bonus]; ok && p.bonusCount(card.Bonus) < need {
			return true
		}
	}
	return false
}

// takeMove prefers the three colors the cheapest unaffordable card
// still needs, then two of one color when the bank holds four or more.
func (b *Bot) takeMove(s *State, p *PlayerState) (game.Move, bool) {
	if p.tokenTotal()+3 > s.TokenLimit {
		return game.Move{}, false
	}
	needed := neededColors(s, p)
	var pick []string
	for _, c := range needed {
		if s.Bank[c] > 0 && len(pick) < 3 {
			pick = append(pick, string(c))
		}
	}
	for _, c := range gemColors {
		if len(pick) == 3 {
			break
		}
		if s.Bank[c] > 0 && !contains(pick, string(c)) {
			pick = append(pick, string(c))
		}
	}
	if len(pick) == 3 {
		raw, _ := json.Marshal(takeParams{Colors: pick})
		return game.Move{Action: "take", Params: raw}, true
	}
	for _, c := range needed {
		if s.Bank[c] >= 4 {
			raw, _ := json.Marshal(takeParams{Colors: []string{string(c), string(c)}})
			return game.Move{Action: "take", Params: raw}, true
		}
	}
	return game.Move{}, false
}

// neededColors ranks gem colors by how short the player is of them
// across the face-up market.
func neededColors(s *State, p *PlayerState) []Color {
	shortage := map[Color]int{}
	for t := range s.FaceUp {
		for _, card := range s.FaceUp[t] {
			for _, c := range gemColors {
				short := card.Cost[c] - p.bonusCount(c) - p.Tokens[c]
				if short > 0 {
					shortage[c] += short
				}
			}
		}
	}
	out := append([]Color(nil), gemColors...)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if shortage[out[j]] > shortage[out[i]] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

func reserveHighest(s *State, p *PlayerState) (game.Move, bool) {
	if len(p.Reserved) >= reserveLimit {
		return game.Move{}, false
	}
	bestTier, bestIdx, bestPoints := -1, -1, -1
	for t := range s.FaceUp {
		for i, card := range s.FaceUp[t] {
			if card.Points > bestPoints {
				bestTier, bestIdx, bestPoints = t, i, card.Points
			}
		}
	}
	if bestTier < 0 {
		return game.Move{}, false
	}
	raw, _ := json.Marshal(cardParams{Tier: bestTier + 1, Index: bestIdx})
	return game.Move{Action: "reserve", Params: raw}, true
}

func buyMarketMove(tier, index int) game.Move {
	raw, _ := json.Marshal(cardParams{Tier: tier, Index: index})
	return game.Move{Action: "buy", Params: raw}
}

func buyReservedMove(index int) game.Move {
	raw, _ := json.Marshal(cardParams{Source: "reserved", Index: index})
	return game.Move{Action: "buy", Params: raw}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
