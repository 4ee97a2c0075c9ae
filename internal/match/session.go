package match

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
	StatusCancelled  Status = "cancelled"
)

// Config tunes session behavior around the rule engines.
type Config struct {
	Game game.Config

	ReconnectGrace    time.Duration
	DisposeAfter      time.Duration
	BotThinkMin       time.Duration
	BotThinkMax       time.Duration
	MaxTimeoutStrikes int
	EventBufferSize   int
}

func DefaultConfig() Config {
	return Config{
		Game:              game.DefaultConfig(),
		ReconnectGrace:    30 * time.Second,
		DisposeAfter:      60 * time.Second,
		BotThinkMin:       300 * time.Millisecond,
		BotThinkMax:       time.Second,
		MaxTimeoutStrikes: 3,
		EventBufferSize:   500,
	}
}

// Seat is a stable identity in one match slot. Identity survives
// disconnects; reconnection matches on ID, never on slot order.
type Seat struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsBot     bool      `json:"is_bot"`
	Connected bool      `json:"connected"`
	Original  bool      `json:"original"`
	JoinedAt  time.Time `json:"joined_at"`
	LeftAt    time.Time `json:"left_at,omitempty"`
}

// Session is the single-writer actor owning one match. Every mutation
// of game state happens under s.mu, inside the handling of one inbound
// move, one timer fire or one bot decision; nothing else ever touches
// the state.
type Session struct {
	ID      string
	Variant game.Variant

	mu             sync.Mutex
	def            game.Definition
	cfg            Config
	engine         game.Engine
	state          game.State
	status         Status
	seats          []*Seat
	bots           map[string]game.BotAgent
	botPending     map[string]bool
	timeoutStrikes map[string]int
	rng            *rand.Rand
	clock          *TurnClock
	turnGen        uint64
	turnStartedAt  time.Time
	buffer         *EventBuffer
	recorder       Recorder
	createdAt      time.Time
	startedAt      time.Time
	endedAt        time.Time
	emptySince     time.Time
	moveCount      int
	outcome        game.Outcome
}

func NewSession(variant game.Variant, def game.Definition, cfg Config, recorder Recorder) *Session {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	s := &Session{
		ID:             NewID(),
		Variant:        variant,
		def:            def,
		cfg:            cfg,
		engine:         def.NewEngine(cfg.Game),
		status:         StatusWaiting,
		bots:           map[string]game.BotAgent{},
		botPending:     map[string]bool{},
		timeoutStrikes: map[string]int{},
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		clock:          NewTurnClock(),
		buffer:         NewEventBuffer(cfg.EventBufferSize),
		recorder:       recorder,
		createdAt:      time.Now(),
	}
	return s
}

func (s *Session) Events() *EventBuffer { return s.buffer }

// Join adds a new seat or reconnects a returning one. A returning seat
// resumes its prior state, including mid-turn.
func (s *Session) Join(seatID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seat := s.seatLocked(seatID); seat != nil {
		seat.Connected = true
		seat.LeftAt = time.Time{}
		s.emptySince = time.Time{}
		s.buffer.Append(EventSeatReconnected, s.ID, map[string]any{"seat_id": seatID})
		return nil
	}
	switch s.status {
	case StatusWaiting:
	case StatusFinished, StatusCancelled:
		return ErrMatchFinished
	default:
		return s.lateJoinLocked(seatID, name)
	}
	capacity := s.def.Capacity(s.cfg.Game)
	if len(s.seats) >= capacity {
		return ErrRoomFull
	}
	s.seats = append(s.seats, &Seat{
		ID:        seatID,
		Name:      name,
		Connected: true,
		Original:  true,
		JoinedAt:  time.Now(),
	})
	s.emptySince = time.Time{}
	s.buffer.Append(EventSeatJoined, s.ID, map[string]any{"seat_id": seatID, "name": name})
	if len(s.seats) == capacity {
		s.startLocked()
	}
	return nil
}

// lateJoinLocked seats a newcomer at a running table. Two-player
// variants never admit one; multi-seat engines opt in via
// game.SeatAdder. Late seats carry Original=false so clients can tell
// founding players from drop-ins.
func (s *Session) lateJoinLocked(seatID, name string) error {
	adder, ok := s.engine.(game.SeatAdder)
	if s.def.TwoPlayer || !ok {
		return ErrAlreadyStarted
	}
	if len(s.seats) >= s.def.Capacity(s.cfg.Game) {
		return ErrRoomFull
	}
	next, err := adder.AddSeat(s.state, seatID)
	if err != nil {
		return ErrAlreadyStarted
	}
	s.state = next
	s.seats = append(s.seats, &Seat{
		ID:        seatID,
		Name:      name,
		Connected: true,
		JoinedAt:  time.Now(),
	})
	s.emptySince = time.Time{}
	s.buffer.Append(EventSeatJoined, s.ID, map[string]any{"seat_id": seatID, "name": name, "late": true})
	s.buffer.Append(EventState, s.ID, s.stateEventLocked())
	return nil
}

// AddBot seats a computer player. Bots count toward capacity and are
// always "connected".
func (s *Session) AddBot(name string, level game.BotLevel, seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusWaiting {
		return ErrAlreadyStarted
	}
	capacity := s.def.Capacity(s.cfg.Game)
	if len(s.seats) >= capacity {
		return ErrRoomFull
	}
	if seed == 0 {
		seed = s.rng.Int63()
	}
	seatID := "bot_" + NewID()
	s.bots[seatID] = s.def.NewBot(level, rand.New(rand.NewSource(seed)))
	s.seats = append(s.seats, &Seat{
		ID:        seatID,
		Name:      name,
		IsBot:     true,
		Connected: true,
		Original:  true,
		JoinedAt:  time.Now(),
	})
	s.buffer.Append(EventSeatJoined, s.ID, map[string]any{"seat_id": seatID, "name": name, "is_bot": true})
	if len(s.seats) == capacity {
		s.startLocked()
	}
	return nil
}

// Start begins play before the table is full, once the variant minimum
// is met. Full tables start on their own.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusWaiting {
		return ErrAlreadyStarted
	}
	if len(s.seats) < s.def.MinSeats {
		return ErrNotEnoughSeats
	}
	s.startLocked()
	return nil
}

func (s *Session) startLocked() {
	seatIDs := make([]string, len(s.seats))
	for i, seat := range s.seats {
		seatIDs[i] = seat.ID
	}
	s.state = s.engine.Init(seatIDs)
	s.status = StatusInProgress
	s.startedAt = time.Now()
	s.buffer.Append(EventGameStarted, s.ID, map[string]any{
		"variant": s.Variant,
		"seats":   s.seatViewsLocked(),
	})
	s.buffer.Append(EventState, s.ID, s.stateEventLocked())
	s.armClockLocked()
	s.scheduleBotsLocked()
}

func (s *Session) stateEventLocked() map[string]any {
	return map[string]any{
		"phase":      s.state.Phase(),
		"authorized": s.state.AuthorizedSeats(),
		"state":      s.state.Snapshot(""),
	}
}

// SubmitMove is the one gate for every move: human, bot and timeout
// substitutes all come through here or through the same applyLocked
// path, in strict acceptance order. A move for a phase that already
// advanced is rejected by the engine, never queued.
func (s *Session) SubmitMove(seatID string, mv game.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case StatusInProgress:
	case StatusWaiting:
		return ErrNotStarted
	default:
		return ErrMatchFinished
	}
	if s.seatLocked(seatID) == nil {
		return ErrUnknownSeat
	}
	next, err := s.engine.Apply(s.state, seatID, mv)
	if err != nil {
		return err
	}
	s.acceptLocked(seatID, mv, next, false)
	s.afterMoveLocked()
	return nil
}

func (s *Session) acceptLocked(seatID string, mv game.Move, next game.State, byTimeout bool) {
	s.state = next
	s.moveCount++
	if !byTimeout {
		s.timeoutStrikes[seatID] = 0
	}
	s.buffer.Append(EventMove, s.ID, map[string]any{
		"seat_id":    seatID,
		"action":     mv.Action,
		"by_timeout": byTimeout,
		"move_num":   s.moveCount,
	})
}

// afterMoveLocked broadcasts the new state, then either finalizes a
// terminal position or opens the next turn window.
func (s *Session) afterMoveLocked() {
	s.buffer.Append(EventState, s.ID, s.stateEventLocked())
	if outcome, done := s.engine.Terminal(s.state); done {
		s.finishLocked(outcome, "")
		return
	}
	s.armClockLocked()
	s.scheduleBotsLocked()
}

func (s *Session) armClockLocked() {
	d := s.cfg.Game.TurnTimeout
	switch s.state.Phase() {
	case "commit", "betting":
		d = s.cfg.Game.CommitTimeout
	}
	s.turnStartedAt = time.Now()
	s.turnGen = s.clock.Schedule(d, s.onTurnTimeout)
}

// onTurnTimeout is the TurnClock callback. Stale generations are
// dropped: a legitimate state advance re-armed the clock first.
func (s *Session) onTurnTimeout(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusInProgress || gen != s.turnGen {
		return
	}
	expired := append([]string(nil), s.state.AuthorizedSeats()...)
	for _, seatID := range expired {
		if _, done := s.engine.Terminal(s.state); done {
			break
		}
		if !s.authorizedLocked(seatID) {
			continue
		}
		s.timeoutStrikes[seatID]++
		if s.timeoutStrikes[seatID] > s.cfg.MaxTimeoutStrikes {
			s.forfeitLocked(seatID)
			return
		}
		mv, ok := s.engine.TimeoutMove(s.state, seatID)
		if !ok {
			s.forfeitLocked(seatID)
			return
		}
		next, err := s.engine.Apply(s.state, seatID, mv)
		if err != nil {
			log.Warn().Str("match_id", s.ID).Str("seat_id", seatID).Err(err).
				Msg("timeout move rejected by engine")
			s.forfeitLocked(seatID)
			return
		}
		s.acceptLocked(seatID, mv, next, true)
	}
	s.afterMoveLocked()
}

// forfeitLocked resolves repeated or unresolvable timeouts: in a
// two-seat match the opponent wins, otherwise the match aborts.
func (s *Session) forfeitLocked(seatID string) {
	if len(s.seats) == 2 {
		other := s.seats[0].ID
		if other == seatID {
			other = s.seats[1].ID
		}
		s.finishLocked(game.Outcome{WinnerSeatID: other}, "forfeit")
		return
	}
	s.abortLocked("forfeit_unresolvable")
}

func (s *Session) finishLocked(outcome game.Outcome, reason string) {
	s.status = StatusFinished
	s.outcome = outcome
	s.endedAt = time.Now()
	s.clock.Cancel()
	s.buffer.Append(EventGameOver, s.ID, map[string]any{
		"winner_seat_id": outcome.WinnerSeatID,
		"is_draw":        outcome.IsDraw,
		"reason":         reason,
		"duration_ms":    s.endedAt.Sub(s.startedAt).Milliseconds(),
		"total_moves":    s.moveCount,
	})
	s.reportLocked(false)
}

// Abort cancels a match regardless of progress; the history
// collaborator sees it as aborted.
func (s *Session) Abort(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abortLocked(reason)
}

func (s *Session) abortLocked(reason string) {
	if s.status == StatusFinished || s.status == StatusCancelled {
		return
	}
	started := s.status == StatusInProgress
	s.status = StatusCancelled
	s.endedAt = time.Now()
	s.clock.Cancel()
	s.buffer.Append(EventMatchAborted, s.ID, map[string]any{"reason": reason})
	if started {
		s.reportLocked(true)
	}
}

// reportLocked hands the result to the history collaborator without
// blocking the match on it.
func (s *Session) reportLocked(aborted bool) {
	res := Result{
		MatchID:    s.ID,
		GameType:   s.Variant,
		WinnerID:   s.outcome.WinnerSeatID,
		IsDraw:     s.outcome.IsDraw,
		Aborted:    aborted,
		DurationMS: s.endedAt.Sub(s.startedAt).Milliseconds(),
		TotalMoves: s.moveCount,
	}
	for _, seat := range s.seats {
		res.Participants = append(res.Participants, Participant{SeatID: seat.ID, Name: seat.Name, IsBot: seat.IsBot})
		if seat.IsBot {
			res.VsBot = true
		}
	}
	recorder := s.recorder
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.RecordResult(ctx, res); err != nil {
			log.Warn().Str("match_id", res.MatchID).Err(err).Msg("record match result failed")
		}
	}()
}

// Leave marks a seat disconnected. State is retained for the grace
// window; the turn clock keeps running, so an absent seat hits the
// variant timeout policy and eventually forfeits.
func (s *Session) Leave(seatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat := s.seatLocked(seatID)
	if seat == nil {
		return ErrUnknownSeat
	}
	seat.Connected = false
	seat.LeftAt = time.Now()
	s.buffer.Append(EventSeatLeft, s.ID, map[string]any{"seat_id": seatID})
	if !s.humansConnectedLocked() {
		s.emptySince = time.Now()
	}
	return nil
}

// Disposable reports whether the janitor may reap this session.
func (s *Session) Disposable(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusFinished || s.status == StatusCancelled {
		return now.After(s.endedAt.Add(s.cfg.DisposeAfter))
	}
	return !s.emptySince.IsZero() && now.After(s.emptySince.Add(s.cfg.DisposeAfter))
}

// Dispose tears the session down, aborting it first if still live.
func (s *Session) Dispose() {
	s.Abort("aborted")
	s.clock.Cancel()
	s.buffer.Close()
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Outcome() (game.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome, s.status == StatusFinished
}

func (s *Session) MoveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveCount
}

// Snapshot is the transport-facing view: match metadata plus the
// variant state redacted for the viewer.
func (s *Session) Snapshot(viewerSeatID string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := map[string]any{
		"match_id": s.ID,
		"variant":  s.Variant,
		"status":   s.status,
		"seats":    s.seatViewsLocked(),
		"moves":    s.moveCount,
	}
	if s.state != nil {
		snap["phase"] = s.state.Phase()
		snap["authorized"] = s.state.AuthorizedSeats()
		snap["turn_started_at"] = s.turnStartedAt.UnixMilli()
		snap["state"] = s.state.Snapshot(viewerSeatID)
	}
	if s.status == StatusFinished {
		snap["outcome"] = s.outcome
	}
	return snap
}

func (s *Session) seatViewsLocked() []Seat {
	out := make([]Seat, len(s.seats))
	for i, seat := range s.seats {
		out[i] = *seat
	}
	return out
}

func (s *Session) seatLocked(seatID string) *Seat {
	for _, seat := range s.seats {
		if seat.ID == seatID {
			return seat
		}
	}
	return nil
}

func (s *Session) authorizedLocked(seatID string) bool {
	for _, id := range s.state.AuthorizedSeats() {
		if id == seatID {
			return true
		}
	}
	return false
}

func (s *Session) humansConnectedLocked() bool {
	for _, seat := range s.seats {
		if !seat.IsBot && seat.Connected {
			return true
		}
	}
	return false
}
