package blackjack

import (
	"encoding/json"
	"errors"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

// Bot bets by tournament position (chip rank against the field average,
// proximity to the next elimination checkpoint) and plays fixed basic
// strategy: hard and soft total tables against the dealer upcard,
// double only on 10-11 into a weak dealer, split only aces and eights.
type Bot struct {
	rng *rand.Rand
}

func NewBot(_ game.BotLevel, rng *rand.Rand) game.BotAgent {
	return &Bot{rng: rng}
}

func (b *Bot) Decide(st game.State, seatID string) (game.Move, error) {
	s, ok := st.(*State)
	if !ok {
		return game.Move{}, errors.New("blackjack: wrong state type")
	}
	idx := s.seatIndex(seatID)
	if idx < 0 {
		return game.Move{}, errors.New("blackjack: unknown seat")
	}
	p := &s.Seats[idx]

	switch s.Stage {
	case PhaseBetting:
		raw, _ := json.Marshal(betParams{Amount: b.betSize(s, p)})
		return game.Move{Action: "bet", Params: raw}, nil
	case PhasePlayerTurn:
		return game.Move{Action: b.playAction(s, p)}, nil
	}
	return game.Move{}, errors.New("blackjack: no decision in phase " + s.Stage)
}

// betSize scales the stake with urgency: trailing the field average
// near a checkpoint forces bigger bets, leading allows the minimum.
func (b *Bot) betSize(s *State, p *SeatState) int64 {
	var total int64
	live := 0
	for i := range s.Seats {
		if !s.Seats[i].Eliminated {
			total += s.Seats[i].Chips
			live++
		}
	}
	if live == 0 {
		return s.MinBet
	}
	avg := total / int64(live)
	handsToCheckpoint := s.Checkpoint - (s.HandNum-1)%s.Checkpoint

	bet := s.MinBet
	if p.Chips > 0 {
		bet = maxInt64(s.MinBet, p.Chips/20)
	}
	if p.Chips < avg && handsToCheckpoint <= 2 {
		// behind with the axe falling: push hard
		bet = maxInt64(bet, p.Chips/4)
	} else if p.Chips >= avg {
		bet = s.MinBet
	}
	if bet > p.Chips {
		bet = p.Chips
	}
	return bet
}

func (b *Bot) playAction(s *State, p *SeatState) string {
	hand := &p.Hands[p.ActiveHand]
	up := dealerUpValue(s.Dealer)
	total, soft := HandValue(hand.Cards)

	if len(p.Hands) == 1 && len(hand.Cards) == 2 && hand.Cards[0].rank() == hand.Cards[1].rank() {
		r := hand.Cards[0].rank()
		if (r == "a" || r == "8") && p.Chips >= hand.Bet {
			return "split"
		}
	}
	canDouble := len(hand.Cards) == 2 && !hand.Doubled && p.Chips >= hand.Bet
	if canDouble && !soft && (total == 10 || total == 11) && up >= 2 && up <= 9 {
		return "double"
	}
	if soft {
		switch {
		case total >= 19:
			return "stand"
		case total == 18 && up <= 8:
			return "stand"
		default:
			return "hit"
		}
	}
	switch {
	case total >= 17:
		return "stand"
	case total >= 13 && up <= 6:
		return "stand"
	case total == 12 && up >= 4 && up <= 6:
		return "stand"
	default:
		return "hit"
	}
}

// dealerUpValue reads the visible dealer card, with ace as 11.
func dealerUpValue(dealer []Card) int {
	if len(dealer) == 0 {
		return 10
	}
	if dealer[0].rank() == "a" {
		return 11
	}
	return dealer[0].pipValue()
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
