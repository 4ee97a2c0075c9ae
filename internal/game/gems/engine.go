// Package gems implements the gem-collecting economy game: a tiered
// card market, a shared token bank, patron bonuses and a point-target
// endgame. Affordability is cost minus owned-card discounts, clamped at
// zero, with the remaining deficit payable in wildcard (gold) tokens.
package gems

import (
	"encoding/json"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

const (
	faceUpPerTier  = 4
	reserveLimit   = 3
	tokensPerColor = 4
	goldTokens     = 5
)

type PlayerState struct {
	Tokens   map[Color]int `json:"tokens"`
	Cards    []Card        `json:"cards"`
	Reserved []Card        `json:"reserved"`
	Patrons  []Patron      `json:"patrons"`
	Points   int           `json:"points"`
	Turns    int           `json:"turns"`
}

type State struct {
	Seats      [2]string
	Players    [2]*PlayerState
	Bank       map[Color]int
	FaceUp     [3][]Card
	Decks      [3][]Card
	Patrons    []Patron
	Target     int
	TokenLimit int
	Closing    bool
	Passes     int // consecutive passes, guards a dead bank
	Turn       int
	Moves      int
}

func (s *State) Phase() string { return "playing" }

func (s *State) AuthorizedSeats() []string { return []string{s.Seats[s.Turn]} }

func (s *State) Snapshot(string) any {
	players := map[string]*PlayerState{}
	for i, id := range s.Seats {
		players[id] = s.Players[i]
	}
	faceUp := make([][]Card, 3)
	deckLeft := make([]int, 3)
	for t := range s.FaceUp {
		faceUp[t] = append([]Card(nil), s.FaceUp[t]...)
		deckLeft[t] = len(s.Decks[t])
	}
	return map[string]any{
		"players":   players,
		"bank":      s.Bank,
		"face_up":   faceUp,
		"deck_left": deckLeft,
		"patrons":   s.Patrons,
		"target":    s.Target,
		"closing":   s.Closing,
		"turn_seat": s.Seats[s.Turn],
		"moves":     s.Moves,
	}
}

func (s *State) seatIndex(seatID string) int {
	for i, id := range s.Seats {
		if id == seatID {
			return i
		}
	}
	return -1
}

func (s *State) clone() *State {
	next := *s
	next.Bank = cloneTokens(s.Bank)
	for i, p := range s.Players {
		cp := *p
		cp.Tokens = cloneTokens(p.Tokens)
		cp.Cards = append([]Card(nil), p.Cards...)
		cp.Reserved = append([]Card(nil), p.Reserved...)
		cp.Patrons = append([]Patron(nil), p.Patrons...)
		next.Players[i] = &cp
	}
	for t := range s.FaceUp {
		next.FaceUp[t] = append([]Card(nil), s.FaceUp[t]...)
		next.Decks[t] = append([]Card(nil), s.Decks[t]...)
	}
	next.Patrons = append([]Patron(nil), s.Patrons...)
	return &next
}

func cloneTokens(m map[Color]int) map[Color]int {
	out := make(map[Color]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// bonusCount is the permanent discount a player holds in a color.
func (p *PlayerState) bonusCount(c Color) int {
	n := 0
	for _, card := range p.Cards {
		if card.Bonus == c {
			n++
		}
	}
	return n
}

func (p *PlayerState) tokenTotal() int {
	n := 0
	for _, v := range p.Tokens {
		n += v
	}
	return n
}

// Deficit returns how many wildcard gems a purchase would need after
// discounts and colored tokens are applied.
func Deficit(p *PlayerState, card Card) int {
	deficit := 0
	for _, c := range gemColors {
		need := card.Cost[c] - p.bonusCount(c)
		if need < 0 {
			need = 0
		}
		short := need - p.Tokens[c]
		if short > 0 {
			deficit += short
		}
	}
	return deficit
}

// CanAfford reports whether the wildcard deficit is covered by held
// gold. Monotonic: adding tokens or discounts never flips it false.
func CanAfford(p *PlayerState, card Card) bool {
	return Deficit(p, card) <= p.Tokens[Gold]
}

type takeParams struct {
	Colors  []string `json:"colors"`
	Discard []string `json:"discard,omitempty"`
}

type cardParams struct {
	Source string `json:"source,omitempty"` // "market" (default) or "reserved"
	Tier   int    `json:"tier,omitempty"`   // 1-based, market only
	Index  int    `json:"index"`
}

type Engine struct {
	target     int
	tokenLimit int
	rng        *rand.Rand
}

func New(cfg game.Config) game.Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Engine{target: cfg.GemsPointTarget, tokenLimit: cfg.GemsTokenLimit, rng: rand.New(rand.NewSource(seed))}
}

func (e *Engine) Init(seatIDs []string) game.State {
	st := &State{
		Decks:      buildDecks(e.rng),
		Patrons:    buildPatrons(e.rng),
		Target:     e.target,
		TokenLimit: e.tokenLimit,
		Bank:       map[Color]int{Gold: goldTokens},
	}
	copy(st.Seats[:], seatIDs)
	for _, c := range gemColors {
		st.Bank[c] = tokensPerColor
	}
	for t := range st.Decks {
		st.FaceUp[t] = append([]Card(nil), st.Decks[t][:faceUpPerTier]...)
		st.Decks[t] = st.Decks[t][faceUpPerTier:]
	}
	for i := range st.Seats {
		st.Players[i] = &PlayerState{Tokens: map[Color]int{}}
	}
	return st
}

func (e *Engine) Legal(st game.State, seatID string, mv game.Move) error {
	s, ok := st.(*State)
	if !ok {
		return game.ErrInvalidPayload
	}
	idx := s.seatIndex(seatID)
	if idx < 0 || idx != s.Turn {
		return game.ErrNotYourTurn
	}
	p := s.Players[idx]
	switch mv.Action {
	case "take":
		var tp takeParams
		if err := json.Unmarshal(mv.Params, &tp); err != nil {
			return game.ErrInvalidPayload
		}
		return s.takeLegal(p, tp)
	case "buy":
		card, err := s.findCard(p, mv.Params)
		if err != nil {
			return err
		}
		if !CanAfford(p, *card) {
			return game.Illegal("cannot_afford")
		}
		return nil
	case "reserve":
		var cp cardParams
		if err := json.Unmarshal(mv.Params, &cp); err != nil {
			return game.ErrInvalidPayload
		}
		if cp.Source == "reserved" {
			return game.ErrInvalidPayload
		}
		if len(p.Reserved) >= reserveLimit {
			return game.Illegal("reserve_limit")
		}
		if _, err := s.marketCard(cp); err != nil {
			return err
		}
		return nil
	case "pass":
		if s.anyProductiveMove(idx) {
			return game.Illegal("moves_available")
		}
		return nil
	default:
		return game.ErrInvalidPayload
	}
}

func (s *State) takeLegal(p *PlayerState, tp takeParams) error {
	n := len(tp.Colors)
	if n == 0 || n > 3 {
		return game.Illegal("bad_take_count")
	}
	colors := make([]Color, n)
	for i, raw := range tp.Colors {
		c := Color(raw)
		if c == Gold {
			return game.ErrInvalidPayload
		}
		valid := false
		for _, g := range gemColors {
			if c == g {
				valid = true
			}
		}
		if !valid {
			return game.ErrInvalidPayload
		}
		colors[i] = c
	}
	if n == 2 && colors[0] == colors[1] {
		// two of one color needs a well-stocked bank
		if s.Bank[colors[0]] < 4 {
			return game.Illegal("bank_below_four")
		}
	} else {
		seen := map[Color]bool{}
		for _, c := range colors {
			if seen[c] {
				return game.Illegal("duplicate_color")
			}
			seen[c] = true
			if s.Bank[c] == 0 {
				return game.Illegal("color_depleted")
			}
		}
		if n < 3 && s.availableColors() > n {
			return game.Illegal("must_take_three")
		}
	}
	if p.tokenTotal()+n-len(tp.Discard) > s.TokenLimit {
		return game.Illegal("over_token_limit")
	}
	// discards must come from what the player would then hold
	held := cloneTokens(p.Tokens)
	for _, c := range colors {
		held[c]++
	}
	for _, raw := range tp.Discard {
		c := Color(raw)
		if held[c] == 0 {
			return game.Illegal("bad_discard")
		}
		held[c]--
	}
	return nil
}

func (s *State) availableColors() int {
	n := 0
	for _, c := range gemColors {
		if s.Bank[c] > 0 {
			n++
		}
	}
	return n
}

// anyProductiveMove reports whether the seat has any take, buy or
// reserve open; pass is only legal when it does not.
func (s *State) anyProductiveMove(idx int) bool {
	p := s.Players[idx]
	if s.availableColors() > 0 && p.tokenTotal() < s.TokenLimit {
		return true
	}
	for _, card := range p.Reserved {
		if CanAfford(p, card) {
			return true
		}
	}
	for t := range s.FaceUp {
		for _, card := range s.FaceUp[t] {
			if CanAfford(p, card) {
				return true
			}
		}
		if len(s.FaceUp[t]) > 0 && len(p.Reserved) < reserveLimit {
			return true
		}
	}
	return false
}

func (s *State) marketCard(cp cardParams) (*Card, error) {
	t := cp.Tier - 1
	if t < 0 || t > 2 {
		return nil, game.ErrInvalidPayload
	}
	if cp.Index < 0 || cp.Index >= len(s.FaceUp[t]) {
		return nil, game.Illegal("no_such_card")
	}
	return &s.FaceUp[t][cp.Index], nil
}

func (s *State) findCard(p *PlayerState, raw json.RawMessage) (*Card, error) {
	var cp cardParams
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, game.ErrInvalidPayload
	}
	if cp.Source == "reserved" {
		if cp.Index < 0 || cp.Index >= len(p.Reserved) {
			return nil, game.Illegal("no_such_card")
		}
		return &p.Reserved[cp.Index], nil
	}
	return s.marketCard(cp)
}

func (e *Engine) Apply(st game.State, seatID string, mv game.Move) (game.State, error) {
	if err := e.Legal(st, seatID, mv); err != nil {
		return nil, err
	}
	s := st.(*State)
	idx := s.seatIndex(seatID)
	next := s.clone()
	p := next.Players[idx]

	switch mv.Action {
	case "take":
		var tp takeParams
		_ = json.Unmarshal(mv.Params, &tp)
		for _, raw := range tp.Colors {
			c := Color(raw)
			next.Bank[c]--
			p.Tokens[c]++
		}
		for _, raw := range tp.Discard {
			c := Color(raw)
			p.Tokens[c]--
			next.Bank[c]++
		}
		next.Passes = 0
	case "buy":
		var cp cardParams
		_ = json.Unmarshal(mv.Params, &cp)
		card, _ := next.findCard(p, mv.Params)
		bought := *card
		next.payFor(p, bought)
		next.removeCard(p, cp)
		p.Cards = append(p.Cards, bought)
		p.Points += bought.Points
		next.awardPatron(p)
		next.Passes = 0
	case "reserve":
		var cp cardParams
		_ = json.Unmarshal(mv.Params, &cp)
		card, _ := next.marketCard(cp)
		reserved := *card
		next.removeCard(p, cp)
		p.Reserved = append(p.Reserved, reserved)
		if next.Bank[Gold] > 0 {
			next.Bank[Gold]--
			p.Tokens[Gold]++
		}
		next.Passes = 0
	case "pass":
		next.Passes++
	}

	p.Turns++
	if p.Points >= next.Target {
		next.Closing = true
	}
	next.Moves++
	next.Turn = 1 - next.Turn
	return next, nil
}

func (s *State) payFor(p *PlayerState, card Card) {
	for _, c := range gemColors {
		need := card.Cost[c] - p.bonusCount(c)
		if need < 0 {
			need = 0
		}
		fromTokens := need
		if fromTokens > p.Tokens[c] {
			fromTokens = p.Tokens[c]
		}
		p.Tokens[c] -= fromTokens
		s.Bank[c] += fromTokens
		goldUsed := need - fromTokens
		p.Tokens[Gold] -= goldUsed
		s.Bank[Gold] += goldUsed
	}
}

// removeCard takes the card out of its source pile, refilling the
// market slot from the tier deck.
func (s *State) removeCard(p *PlayerState, cp cardParams) {
	if cp.Source == "reserved" {
		p.Reserved = append(p.Reserved[:cp.Index], p.Reserved[cp.Index+1:]...)
		return
	}
	t := cp.Tier - 1
	if len(s.Decks[t]) > 0 {
		s.FaceUp[t][cp.Index] = s.Decks[t][0]
		s.Decks[t] = s.Decks[t][1:]
	} else {
		s.FaceUp[t] = append(s.FaceUp[t][:cp.Index], s.FaceUp[t][cp.Index+1:]...)
	}
}

// awardPatron grants the highest-value patron the player now qualifies
// for. Qualification is checked on card bonuses only.
func (s *State) awardPatron(p *PlayerState) {
	best := -1
	for i, patron := range s.Patrons {
		ok := true
		for c, n := range patron.Requires {
			if p.bonusCount(c) < n {
				ok = false
				break
			}
		}
		if ok && (best < 0 || patron.Points > s.Patrons[best].Points) {
			best = i
		}
	}
	if best >= 0 {
		patron := s.Patrons[best]
		s.Patrons = append(s.Patrons[:best], s.Patrons[best+1:]...)
		p.Patrons = append(p.Patrons, patron)
		p.Points += patron.Points
	}
}

func (e *Engine) Terminal(st game.State) (game.Outcome, bool) {
	s := st.(*State)
	if s.Passes >= 4 {
		return game.Outcome{IsDraw: true}, true
	}
	if !s.Closing {
		return game.Outcome{}, false
	}
	// finish the round: everyone gets the same number of turns
	if s.Players[0].Turns != s.Players[1].Turns {
		return game.Outcome{}, false
	}
	p0, p1 := s.Players[0].Points, s.Players[1].Points
	switch {
	case p0 > p1:
		return game.Outcome{WinnerSeatID: s.Seats[0]}, true
	case p1 > p0:
		return game.Outcome{WinnerSeatID: s.Seats[1]}, true
	default:
		return game.Outcome{IsDraw: true}, true
	}
}

func (e *Engine) TimeoutMove(st game.State, seatID string) (game.Move, bool) {
	s, ok := st.(*State)
	if !ok {
		return game.Move{}, false
	}
	idx := s.seatIndex(seatID)
	if idx < 0 {
		return game.Move{}, false
	}
	p := s.Players[idx]
	if mv, ok := takeAvailableMove(s, p); ok {
		return mv, true
	}
	if mv, ok := anyAffordableBuy(s, p); ok {
		return mv, true
	}
	if mv, ok := anyReserveMove(s, p); ok {
		return mv, true
	}
	// nothing productive remains, so pass is legal
	return game.Move{Action: "pass"}, true
}

// takeAvailableMove builds the largest legal take for the seat, with a
// greedy discard when it would overflow the token limit.
func takeAvailableMove(s *State, p *PlayerState) (game.Move, bool) {
	var colors []string
	for _, c := range gemColors {
		if s.Bank[c] > 0 && len(colors) < 3 {
			colors = append(colors, string(c))
		}
	}
	if len(colors) == 0 {
		return game.Move{}, false
	}
	tp := takeParams{Colors: colors}
	over := p.tokenTotal() + len(colors) - s.TokenLimit
	if over > 0 {
		held := cloneTokens(p.Tokens)
		for _, raw := range colors {
			held[Color(raw)]++
		}
		for _, c := range gemColors {
			for over > 0 && held[c] > 0 {
				tp.Discard = append(tp.Discard, string(c))
				held[c]--
				over--
			}
		}
	}
	raw, _ := json.Marshal(tp)
	return game.Move{Action: "take", Params: raw}, true
}

func anyAffordableBuy(s *State, p *PlayerState) (game.Move, bool) {
	for i := range p.Reserved {
		if CanAfford(p, p.Reserved[i]) {
			raw, _ := json.Marshal(cardParams{Source: "reserved", Index: i})
			return game.Move{Action: "buy", Params: raw}, true
		}
	}
	for t := range s.FaceUp {
		for i := range s.FaceUp[t] {
			if CanAfford(p, s.FaceUp[t][i]) {
				raw, _ := json.Marshal(cardParams{Tier: t + 1, Index: i})
				return game.Move{Action: "buy", Params: raw}, true
			}
		}
	}
	return game.Move{}, false
}

func anyReserveMove(s *State, p *PlayerState) (game.Move, bool) {
	if len(p.Reserved) >= reserveLimit {
		return game.Move{}, false
	}
	for t := range s.FaceUp {
		if len(s.FaceUp[t]) > 0 {
			raw, _ := json.Marshal(cardParams{Tier: t + 1, Index: 0})
			return game.Move{Action: "reserve", Params: raw}, true
		}
	}
	return game.Move{}, false
}

func init() {
	game.Register(game.Definition{
		Variant:   game.VariantGems,
		MinSeats:  2,
		MaxSeats:  2,
		TwoPlayer: true,
		NewEngine: New,
		NewBot:    NewBot,
	})
}
