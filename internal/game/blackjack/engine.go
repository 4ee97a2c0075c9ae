// Package blackjack implements the casino tournament game: simultaneous
// betting, sequential player turns, a deterministic dealer, 3:2
// blackjack payouts and chip-rank elimination at fixed hand-count
// checkpoints. Dealer play, payout and elimination all resolve inside
// the Apply that completes the last player turn, so the engine never
// waits on anything but seats.
package blackjack

import (
	"encoding/json"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

const (
	PhaseBetting    = "betting"
	PhasePlayerTurn = "player_turn"
	PhaseDone       = "done"

	reshuffleBelow = 52
)

// Hand is one stack of cards with its own stake; a split seat plays
// two.
type Hand struct {
	Cards   []Card `json:"cards"`
	Bet     int64  `json:"bet"`
	Stood   bool   `json:"stood"`
	Busted  bool   `json:"busted"`
	Doubled bool   `json:"doubled"`
}

func (h *Hand) done() bool {
	if h.Stood || h.Busted {
		return true
	}
	v, _ := HandValue(h.Cards)
	return v >= 21
}

type SeatState struct {
	ID         string `json:"id"`
	Chips      int64  `json:"chips"`
	Bet        int64  `json:"bet"`
	HasBet     bool   `json:"has_placed_bet"`
	Hands      []Hand `json:"hands"`
	ActiveHand int    `json:"active_hand"`
	Eliminated bool   `json:"eliminated"`
}

func (p *SeatState) roundDone() bool {
	for i := range p.Hands {
		if !p.Hands[i].done() {
			return false
		}
	}
	return true
}

type State struct {
	Seats       []SeatState
	Dealer      []Card
	Shoe        []Card
	Stage       string
	TurnIdx     int
	HandNum     int
	MinBet      int64
	DealerStand int
	Checkpoint  int
	LastResults map[string]int64 // net chip delta of the previous hand
	Moves       int
}

func (s *State) Phase() string { return s.Stage }

func (s *State) AuthorizedSeats() []string {
	switch s.Stage {
	case PhaseBetting:
		var out []string
		for i := range s.Seats {
			if !s.Seats[i].Eliminated && !s.Seats[i].HasBet {
				out = append(out, s.Seats[i].ID)
			}
		}
		return out
	case PhasePlayerTurn:
		return []string{s.Seats[s.TurnIdx].ID}
	default:
		return nil
	}
}

func (s *State) Snapshot(viewerSeatID string) any {
	seats := make([]SeatState, len(s.Seats))
	copy(seats, s.Seats)
	dealer := append([]Card(nil), s.Dealer...)
	if s.Stage == PhasePlayerTurn && len(dealer) > 1 {
		// hole card stays hidden while players act
		dealer = append(dealer[:1:1], Card("??"))
	}
	snap := map[string]any{
		"phase":        s.Stage,
		"seats":        seats,
		"dealer":       dealer,
		"hand_num":     s.HandNum,
		"min_bet":      s.MinBet,
		"checkpoint":   s.Checkpoint,
		"last_results": s.LastResults,
		"moves":        s.Moves,
	}
	if s.Stage == PhasePlayerTurn {
		snap["turn_seat"] = s.Seats[s.TurnIdx].ID
	}
	return snap
}

func (s *State) seatIndex(seatID string) int {
	for i := range s.Seats {
		if s.Seats[i].ID == seatID {
			return i
		}
	}
	return -1
}

func (s *State) clone() *State {
	next := *s
	next.Seats = make([]SeatState, len(s.Seats))
	for i, p := range s.Seats {
		cp := p
		cp.Hands = make([]Hand, len(p.Hands))
		for j, h := range p.Hands {
			ch := h
			ch.Cards = append([]Card(nil), h.Cards...)
			cp.Hands[j] = ch
		}
		next.Seats[i] = cp
	}
	next.Dealer = append([]Card(nil), s.Dealer...)
	next.Shoe = append([]Card(nil), s.Shoe...)
	next.LastResults = make(map[string]int64, len(s.LastResults))
	for k, v := range s.LastResults {
		next.LastResults[k] = v
	}
	return &next
}

type betParams struct {
	Amount int64 `json:"amount"`
}

type Engine struct {
	startChips  int64
	minBet      int64
	dealerStand int
	checkpoint  int
	rng         *rand.Rand
}

func New(cfg game.Config) game.Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Engine{
		startChips:  cfg.BlackjackStartChips,
		minBet:      cfg.BlackjackMinBet,
		dealerStand: cfg.BlackjackDealerStand,
		checkpoint:  cfg.BlackjackCheckpointEvery,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (e *Engine) Init(seatIDs []string) game.State {
	st := &State{
		Stage:       PhaseBetting,
		HandNum:     1,
		MinBet:      e.minBet,
		DealerStand: e.dealerStand,
		Checkpoint:  e.checkpoint,
		Shoe:        newShoe(e.rng),
		LastResults: map[string]int64{},
	}
	for _, id := range seatIDs {
		st.Seats = append(st.Seats, SeatState{ID: id, Chips: e.startChips})
	}
	return st
}

func (e *Engine) Legal(st game.State, seatID string, mv game.Move) error {
	s, ok := st.(*State)
	if !ok {
		return game.ErrInvalidPayload
	}
	idx := s.seatIndex(seatID)
	if idx < 0 {
		return game.ErrNotYourTurn
	}
	p := &s.Seats[idx]
	switch s.Stage {
	case PhaseBetting:
		if p.Eliminated || p.HasBet {
			return game.ErrNotYourTurn
		}
		if mv.Action != "bet" {
			return game.ErrInvalidPayload
		}
		var bp betParams
		if err := json.Unmarshal(mv.Params, &bp); err != nil {
			return game.ErrInvalidPayload
		}
		if bp.Amount < s.MinBet {
			return game.Illegal("below_min_bet")
		}
		if bp.Amount > p.Chips {
			return game.Illegal("insufficient_chips")
		}
		return nil
	case PhasePlayerTurn:
		if idx != s.TurnIdx {
			return game.ErrNotYourTurn
		}
		hand := &p.Hands[p.ActiveHand]
		switch mv.Action {
		case "hit", "stand":
			return nil
		case "double":
			if len(hand.Cards) != 2 || hand.Doubled {
				return game.Illegal("double_first_two_only")
			}
			if p.Chips < hand.Bet {
				return game.Illegal("insufficient_chips")
			}
			return nil
		case "split":
			if len(p.Hands) > 1 {
				return game.Illegal("already_split")
			}
			if len(hand.Cards) != 2 || hand.Cards[0].rank() != hand.Cards[1].rank() {
				return game.Illegal("not_a_pair")
			}
			if p.Chips < hand.Bet {
				return game.Illegal("insufficient_chips")
			}
			return nil
		default:
			return game.ErrInvalidPayload
		}
	default:
		return game.ErrNotYourTurn
	}
}

func (e *Engine) Apply(st game.State, seatID string, mv game.Move) (game.State, error) {
	if err := e.Legal(st, seatID, mv); err != nil {
		return nil, err
	}
	s := st.(*State)
	next := s.clone()
	idx := next.seatIndex(seatID)
	p := &next.Seats[idx]

	switch next.Stage {
	case PhaseBetting:
		var bp betParams
		_ = json.Unmarshal(mv.Params, &bp)
		p.Bet = bp.Amount
		p.Chips -= bp.Amount
		p.HasBet = true
		if next.allBetsIn() {
			next.deal()
		}
	case PhasePlayerTurn:
		hand := &p.Hands[p.ActiveHand]
		switch mv.Action {
		case "hit":
			hand.Cards = append(hand.Cards, next.draw())
			if v, _ := HandValue(hand.Cards); v > 21 {
				hand.Busted = true
			}
		case "stand":
			hand.Stood = true
		case "double":
			p.Chips -= hand.Bet
			hand.Bet *= 2
			hand.Doubled = true
			hand.Cards = append(hand.Cards, next.draw())
			if v, _ := HandValue(hand.Cards); v > 21 {
				hand.Busted = true
			} else {
				hand.Stood = true
			}
		case "split":
			p.Chips -= hand.Bet
			second := Hand{Cards: []Card{hand.Cards[1]}, Bet: hand.Bet}
			hand.Cards = hand.Cards[:1]
			hand.Cards = append(hand.Cards, next.draw())
			second.Cards = append(second.Cards, next.draw())
			p.Hands = append(p.Hands, second)
		}
		next.advanceTurn()
	}
	next.Moves++
	return next, nil
}

func (s *State) allBetsIn() bool {
	for i := range s.Seats {
		if !s.Seats[i].Eliminated && !s.Seats[i].HasBet {
			return false
		}
	}
	return true
}

func (s *State) draw() Card {
	// a 5-seat hand with splits can outrun the between-hands reshuffle
	if len(s.Shoe) == 0 {
		s.Shoe = newShoe(rand.New(rand.NewSource(rand.Int63())))
	}
	c := s.Shoe[0]
	s.Shoe = s.Shoe[1:]
	return c
}

// deal moves from betting into player turns: two cards per live seat,
// two for the dealer.
func (s *State) deal() {
	for i := range s.Seats {
		p := &s.Seats[i]
		if p.Eliminated {
			continue
		}
		p.Hands = []Hand{{Bet: p.Bet}}
		p.ActiveHand = 0
	}
	for round := 0; round < 2; round++ {
		for i := range s.Seats {
			if s.Seats[i].Eliminated {
				continue
			}
			h := &s.Seats[i].Hands[0]
			h.Cards = append(h.Cards, s.draw())
		}
		s.Dealer = append(s.Dealer, s.draw())
	}
	s.Stage = PhasePlayerTurn
	s.TurnIdx = -1
	s.advanceTurn()
}

// advanceTurn moves the active hand/seat cursor; once every live seat
// is done it runs the dealer, pays out and opens the next hand.
func (s *State) advanceTurn() {
	if s.TurnIdx >= 0 {
		p := &s.Seats[s.TurnIdx]
		for p.ActiveHand < len(p.Hands) && p.Hands[p.ActiveHand].done() {
			p.ActiveHand++
		}
		if p.ActiveHand < len(p.Hands) {
			return
		}
	}
	for i := s.TurnIdx + 1; i < len(s.Seats); i++ {
		p := &s.Seats[i]
		if p.Eliminated || p.roundDone() {
			continue
		}
		s.TurnIdx = i
		return
	}
	s.settleHand()
}

// settleHand plays the dealer under house rules, pays every live hand
// and applies the elimination checkpoint.
func (s *State) settleHand() {
	anyLive := false
	for i := range s.Seats {
		p := &s.Seats[i]
		if p.Eliminated {
			continue
		}
		for j := range p.Hands {
			if !p.Hands[j].Busted {
				anyLive = true
			}
		}
	}
	if anyLive {
		for {
			v, _ := HandValue(s.Dealer)
			if v >= s.DealerStand {
				break
			}
			s.Dealer = append(s.Dealer, s.draw())
		}
	}
	dealerVal, _ := HandValue(s.Dealer)
	dealerBust := dealerVal > 21
	dealerBJ := isBlackjack(s.Dealer)

	s.LastResults = map[string]int64{}
	for i := range s.Seats {
		p := &s.Seats[i]
		if p.Eliminated {
			continue
		}
		before := p.Chips
		var staked int64
		for j := range p.Hands {
			h := &p.Hands[j]
			staked += h.Bet
			v, _ := HandValue(h.Cards)
			switch {
			case h.Busted:
				// stake already gone
			case isBlackjack(h.Cards) && len(p.Hands) == 1 && !dealerBJ:
				p.Chips += h.Bet + h.Bet*3/2
			case dealerBust || v > dealerVal:
				p.Chips += h.Bet * 2
			case v == dealerVal:
				p.Chips += h.Bet
			}
		}
		s.LastResults[p.ID] = p.Chips - before - staked
	}

	if s.HandNum%s.Checkpoint == 0 {
		s.eliminateLowest()
	}
	for i := range s.Seats {
		p := &s.Seats[i]
		if !p.Eliminated && p.Chips < s.MinBet {
			p.Eliminated = true
		}
	}

	s.HandNum++
	if len(s.Shoe) < reshuffleBelow {
		s.Shoe = newShoe(rand.New(rand.NewSource(rand.Int63())))
	}
	for i := range s.Seats {
		p := &s.Seats[i]
		p.Bet = 0
		p.HasBet = false
		p.Hands = nil
		p.ActiveHand = 0
	}
	s.Dealer = nil
	if s.liveSeats() <= 1 {
		s.Stage = PhaseDone
		return
	}
	s.Stage = PhaseBetting
}

// eliminateLowest removes the lowest-chip live seat at a tournament
// checkpoint.
func (s *State) eliminateLowest() {
	lowest := -1
	for i := range s.Seats {
		p := &s.Seats[i]
		if p.Eliminated {
			continue
		}
		if lowest < 0 || p.Chips < s.Seats[lowest].Chips {
			lowest = i
		}
	}
	if lowest >= 0 && s.liveSeats() > 1 {
		s.Seats[lowest].Eliminated = true
	}
}

func (s *State) liveSeats() int {
	n := 0
	for i := range s.Seats {
		if !s.Seats[i].Eliminated {
			n++
		}
	}
	return n
}

func (e *Engine) Terminal(st game.State) (game.Outcome, bool) {
	s := st.(*State)
	if s.Stage != PhaseDone {
		return game.Outcome{}, false
	}
	for i := range s.Seats {
		if !s.Seats[i].Eliminated {
			return game.Outcome{WinnerSeatID: s.Seats[i].ID}, true
		}
	}
	return game.Outcome{IsDraw: true}, true
}

// AddSeat admits a late player with the starting stack. An empty hand
// list keeps the newcomer out of the current hand; they bet from the
// next betting stage.
func (e *Engine) AddSeat(st game.State, seatID string) (game.State, error) {
	s, ok := st.(*State)
	if !ok {
		return nil, game.ErrInvalidPayload
	}
	if s.Stage == PhaseDone {
		return nil, game.ErrInvalidPayload
	}
	if s.seatIndex(seatID) >= 0 {
		return nil, game.ErrInvalidPayload
	}
	next := s.clone()
	seat := SeatState{ID: seatID, Chips: e.startChips}
	if next.Stage != PhaseBetting {
		// sit out the hand in play
		seat.HasBet = true
	}
	next.Seats = append(next.Seats, seat)
	return next, nil
}

func (e *Engine) TimeoutMove(st game.State, seatID string) (game.Move, bool) {
	s, ok := st.(*State)
	if !ok {
		return game.Move{}, false
	}
	switch s.Stage {
	case PhaseBetting:
		raw, _ := json.Marshal(betParams{Amount: s.MinBet})
		return game.Move{Action: "bet", Params: raw}, true
	case PhasePlayerTurn:
		return game.Move{Action: "stand"}, true
	}
	return game.Move{}, false
}

func init() {
	game.Register(game.Definition{
		Variant:   game.VariantBlackjack,
		MinSeats:  2,
		MaxSeats:  5,
		NewEngine: New,
		NewBot:    NewBot,
	})
}
