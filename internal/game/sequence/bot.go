package sequence

import (
	"encoding/json"
	"errors"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
	"github.com/deafSpy/lolgames-sub001/internal/game/grid"
)

// Bot scores each candidate placement by the squared count of own
// chips (corners included) across every still-live 5-window through the
// cell, plus a small center-proximity bonus. Removal jacks target the
// opponent chip whose loss most reduces the opponent's best local
// score.
type Bot struct {
	rng *rand.Rand
}

func NewBot(_ game.BotLevel, rng *rand.Rand) game.BotAgent {
	return &Bot{rng: rng}
}

// cellLines indexes the precomputed windows by the cells they cross.
var cellLines = func() [cells][][]int {
	var byCell [cells][][]int
	for _, line := range lines {
		for _, idx := range line {
			byCell[idx] = append(byCell[idx], line)
		}
	}
	return byCell
}()

func (b *Bot) Decide(st game.State, seatID string) (game.Move, error) {
	s, ok := st.(*State)
	if !ok {
		return game.Move{}, errors.New("sequence: wrong state type")
	}
	me := s.seatIndex(seatID)
	if me < 0 {
		return game.Move{}, errors.New("sequence: unknown seat")
	}
	moves := legalMoves(s, me)
	if len(moves) == 0 {
		return game.Move{}, errors.New("sequence: no legal moves")
	}

	best := moves[b.rng.Intn(len(moves))]
	bestScore := -1
	for _, mv := range moves {
		var p playParams
		_ = json.Unmarshal(mv.Params, &p)
		cell := grid.Index(Side, p.Row, p.Col)
		var score int
		if Card(p.Card).isOneEyedJack() {
			score = placementScore(s, 1-me, cell)
		} else {
			score = placementScore(s, me, cell)
		}
		if score > bestScore {
			bestScore = score
			best = mv
		}
	}
	return best, nil
}

// placementScore values a cell for a team: for every window through the
// cell that contains no enemy chip, add the squared count of cells the
// team already owns (corners are wild), then a center bonus.
func placementScore(s *State, seat, cell int) int {
	team := int8(seat + 1)
	score := 0
	for _, line := range cellLines[cell] {
		own, dead := 0, false
		for _, idx := range line {
			switch {
			case isCorner(idx) || s.Board[idx] == team:
				own++
			case s.Board[idx] != 0:
				dead = true
			}
		}
		if !dead {
			score += (own + 1) * (own + 1)
		}
	}
	return score + (Side - grid.CenterDistance(Side, Side, cell)/2)
}
