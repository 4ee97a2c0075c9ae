package connect4

import (
	"errors"
	"math/rand"

	"github.com/deafSpy/lolgames-sub001/internal/game"
	"github.com/deafSpy/lolgames-sub001/internal/game/grid"
)

const (
	searchDepth = 4
	winScore    = 1 << 20
)

// Bot plays one of three strengths: easy picks a random open column,
// medium takes an immediate win or block, hard runs depth-limited
// minimax with alpha-beta pruning over a window heuristic.
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
		return game.Move{}, errors.New("connect4: wrong state type")
	}
	me := s.seatIndex(seatID)
	if me < 0 {
		return game.Move{}, errors.New("connect4: unknown seat")
	}
	cols := openColumns(&s.Board)
	if len(cols) == 0 {
		return game.Move{}, errors.New("connect4: no open columns")
	}

	switch b.level {
	case game.BotEasy:
		return dropMove(cols[b.rng.Intn(len(cols))]), nil
	case game.BotMedium:
		return dropMove(b.winBlockOrRandom(s, me, cols)), nil
	default:
		return dropMove(b.search(s, me, cols)), nil
	}
}

func (b *Bot) winBlockOrRandom(s *State, me int, cols []int) int {
	mine, theirs := int8(me+1), int8(2-me)
	for _, c := range cols {
		board := s.Board
		place(&board, c, mine)
		if winnerCell(&board) == mine {
			return c
		}
	}
	for _, c := range cols {
		board := s.Board
		place(&board, c, theirs)
		if winnerCell(&board) == theirs {
			return c
		}
	}
	return cols[b.rng.Intn(len(cols))]
}

func (b *Bot) search(s *State, me int, cols []int) int {
	mine := int8(me + 1)
	best := cols[b.rng.Intn(len(cols))]
	bestScore := -winScore * 2
	for _, c := range orderedColumns(cols) {
		board := s.Board
		place(&board, c, mine)
		score := minimax(&board, searchDepth-1, -winScore*2, winScore*2, false, mine)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

// orderedColumns prefers center-out exploration, which tightens pruning.
func orderedColumns(cols []int) []int {
	ordered := make([]int, 0, len(cols))
	for _, pref := range [Cols]int{3, 2, 4, 1, 5, 0, 6} {
		for _, c := range cols {
			if c == pref {
				ordered = append(ordered, c)
			}
		}
	}
	return ordered
}

func minimax(board *[cells]int8, depth, alpha, beta int, maximizing bool, mine int8) int {
	theirs := 3 - mine
	if w := winnerCell(board); w != 0 {
		if w == mine {
			return winScore + depth
		}
		return -winScore - depth
	}
	open := openColumns(board)
	if len(open) == 0 {
		return 0
	}
	if depth == 0 {
		return evaluate(board, mine)
	}
	if maximizing {
		best := -winScore * 2
		for _, c := range orderedColumns(open) {
			next := *board
			place(&next, c, mine)
			score := minimax(&next, depth-1, alpha, beta, false, mine)
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}
	best := winScore * 2
	for _, c := range orderedColumns(open) {
		next := *board
		place(&next, c, theirs)
		score := minimax(&next, depth-1, alpha, beta, true, mine)
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// evaluate scores a board for the given piece: center occupancy plus a
// convex weighting of partially filled 4-windows.
func evaluate(board *[cells]int8, mine int8) int {
	theirs := 3 - mine
	score := 0
	for row := 0; row < Rows; row++ {
		if board[grid.Index(Cols, row, Cols/2)] == mine {
			score += 6
		}
	}
	for _, line := range wins {
		var own, opp int
		for _, idx := range line {
			switch board[idx] {
			case mine:
				own++
			case theirs:
				opp++
			}
		}
		switch {
		case own > 0 && opp > 0:
			// dead window
		case own == 3:
			score += 100
		case own == 2:
			score += 10
		case opp == 3:
			score -= 120
		case opp == 2:
			score -= 10
		}
	}
	return score
}

func place(board *[cells]int8, col int, v int8) {
	for row := Rows - 1; row >= 0; row-- {
		idx := grid.Index(Cols, row, col)
		if board[idx] == 0 {
			board[idx] = v
			return
		}
	}
}
