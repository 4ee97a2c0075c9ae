package match

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

// ErrBotDecision marks an internal bot failure. It is recovered by
// substituting the variant's safe default move and never reaches a
// player.
var ErrBotDecision = errors.New("bot_decision_failed")

// scheduleBotsLocked is the scheduler glue run after every state
// change: whichever bot seats now hold the turn get a decision
// scheduled after a thinking delay, so they act through the same
// validated path as humans and never appear instantaneous.
func (s *Session) scheduleBotsLocked() {
	if s.status != StatusInProgress {
		return
	}
	for _, seatID := range s.state.AuthorizedSeats() {
		seat := s.seatLocked(seatID)
		if seat == nil || !seat.IsBot || s.botPending[seatID] {
			continue
		}
		s.botPending[seatID] = true
		id := seatID
		time.AfterFunc(s.thinkDelayLocked(), func() { s.runBot(id) })
	}
}

func (s *Session) thinkDelayLocked() time.Duration {
	span := s.cfg.BotThinkMax - s.cfg.BotThinkMin
	if span <= 0 {
		return s.cfg.BotThinkMin
	}
	return s.cfg.BotThinkMin + time.Duration(s.rng.Int63n(int64(span)))
}

// runBot decides outside the session lock (search can take a while)
// and resubmits through SubmitMove, so the move is validated exactly
// like a human's. Any failure degrades to the variant's safe default.
func (s *Session) runBot(seatID string) {
	s.mu.Lock()
	delete(s.botPending, seatID)
	if s.status != StatusInProgress || !s.authorizedLocked(seatID) {
		s.mu.Unlock()
		return
	}
	st := s.state
	agent := s.bots[seatID]
	s.mu.Unlock()
	if agent == nil {
		return
	}

	mv, err := safeDecide(agent, st, seatID)
	if err != nil {
		log.Warn().Str("match_id", s.ID).Str("seat_id", seatID).Err(err).
			Msg("bot decision failed, substituting default move")
		var ok bool
		if mv, ok = s.defaultMove(seatID); !ok {
			return
		}
	}
	if err := s.SubmitMove(seatID, mv); err != nil {
		if game.IsIllegal(err) || errors.Is(err, game.ErrInvalidPayload) {
			// bad decision, not a lost race: fall back so the match
			// never stalls on a bot
			if mv, ok := s.defaultMove(seatID); ok {
				if err := s.SubmitMove(seatID, mv); err == nil {
					return
				}
			}
			log.Error().Str("match_id", s.ID).Str("seat_id", seatID).Err(err).
				Msg("bot default move rejected")
		}
	}
}

func (s *Session) defaultMove(seatID string) (game.Move, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusInProgress || !s.authorizedLocked(seatID) {
		return game.Move{}, false
	}
	return s.engine.TimeoutMove(s.state, seatID)
}

// safeDecide shields the session from a panicking decision function.
func safeDecide(agent game.BotAgent, st game.State, seatID string) (mv game.Move, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrBotDecision, r)
		}
	}()
	mv, err = agent.Decide(st, seatID)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrBotDecision, err)
	}
	return mv, err
}
