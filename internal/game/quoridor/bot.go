package quoridor

import (
	"errors"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

// Bot scores candidates by shortest-path differential: pawn moves are
// judged by the seat's own remaining distance, wall placements by how
// much they widen the gap between the opponent's distance and its own.
type Bot struct {
	level game.BotLevel
	rng   *rand.Rand
}

func NewBot(level game.BotLevel, rng *rand.Rand) game.BotAgent {
	return &Bot{level: level, rng: rng}
}

func (b *Bot) Decide(st game.State, seatID string) (game.Move, error) {
	s, ok := st.(*State)
	if !ok {
		return game.Move{}, errors.New("quoridor: wrong state type")
	}
	me := s.seatIndex(seatID)
	if me < 0 {
		return game.Move{}, errors.New("quoridor: unknown seat")
	}
	moves := s.pawnMoves(me)
	if len(moves) == 0 {
		return game.Move{}, errors.New("quoridor: no pawn moves")
	}
	if b.level == game.BotEasy {
		return pawnMove(moves[b.rng.Intn(len(moves))]), nil
	}

	ownDist := s.distanceToGoal(me)
	oppDist := s.distanceToGoal(1 - me)

	bestMove := moves[0]
	bestMoveDist := Size * Size
	for _, m := range moves {
		if m.Row == goalRow(me) {
			return pawnMove(m), nil
		}
		probe := s.clone()
		probe.Pawns[me] = m
		if d := probe.distanceToGoal(me); d < bestMoveDist {
			bestMoveDist = d
			bestMove = m
		}
	}
	// a pawn step is worth one distance unit; prefer it unless some
	// wall buys a strictly larger differential swing
	bestScore := (oppDist - bestMoveDist) - (oppDist - ownDist)
	choice := pawnMove(bestMove)

	if b.level == game.BotHard && s.WallsLeft[me] > 0 {
		for _, w := range b.candidateWalls(s, 1-me) {
			probe := s.clone()
			probe.Walls = append(probe.Walls, w)
			newOpp := probe.distanceToGoal(1 - me)
			newOwn := probe.distanceToGoal(me)
			if newOpp < 0 || newOwn < 0 {
				continue
			}
			score := (newOpp - newOwn) - (oppDist - ownDist)
			if score > bestScore {
				bestScore = score
				choice = wallMove(w)
			}
		}
	}
	return choice, nil
}

// candidateWalls keeps the search small: only slots near the opponent's
// pawn are worth probing.
func (b *Bot) candidateWalls(s *State, opp int) []Wall {
	pawn := s.Pawns[opp]
	var out []Wall
	for row := pawn.Row - 2; row <= pawn.Row+1; row++ {
		for col := pawn.Col - 2; col <= pawn.Col+1; col++ {
			if row < 0 || row >= wallSlots || col < 0 || col >= wallSlots {
				continue
			}
			for _, o := range [2]Orientation{Horizontal, Vertical} {
				w := Wall{Row: row, Col: col, Orientation: o}
				if !s.wallCollides(w) {
					out = append(out, w)
				}
			}
		}
	}
	return out
}
