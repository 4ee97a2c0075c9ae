package rps

import (
	"errors"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

const (
	historyWindow = 8
	randomOpening = 3
	mixinPercent  = 30
)

// Bot predicts the opponent's next choice by recency-weighted frequency
// over their recent history and counter-picks it, with a random mix-in
// so it stays exploitable-resistant. The first rounds are pure random
// because there is no history to read.
type Bot struct {
	rng *rand.Rand
}

func NewBot(_ game.BotLevel, rng *rand.Rand) game.BotAgent {
	return &Bot{rng: rng}
}

func (b *Bot) Decide(st game.State, seatID string) (game.Move, error) {
	s, ok := st.(*State)
	if !ok {
		return game.Move{}, errors.New("rps: wrong state type")
	}
	me := s.seatIndex(seatID)
	if me < 0 {
		return game.Move{}, errors.New("rps: unknown seat")
	}
	opp := s.History[1-me]
	if len(opp) < randomOpening || b.rng.Intn(100) < mixinPercent {
		return commitMove(choices[b.rng.Intn(len(choices))]), nil
	}
	return commitMove(beatenBy[predict(opp)]), nil
}

// predict weighs the opponent's last choices with linearly increasing
// recency weight and returns the heaviest.
func predict(history []Choice) Choice {
	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	weights := map[Choice]int{}
	for i, c := range history[start:] {
		weights[c] += i + 1
	}
	best := history[len(history)-1]
	bestWeight := -1
	for _, c := range choices {
		if weights[c] > bestWeight {
			best = c
			bestWeight = weights[c]
		}
	}
	return best
}
