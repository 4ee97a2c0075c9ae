package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/deafSpy/lolgames-sub001/internal/game"
)

const janitorSweepInterval = time.Second

// CreateOptions selects the variant and any bot opponents seated at
// creation.
type CreateOptions struct {
	Variant  game.Variant
	Bots     int
	BotLevel game.BotLevel
}

// Coordinator is the registry of live sessions. It creates matches,
// routes seats to them and runs the janitor that reaps abandoned and
// finished sessions.
type Coordinator struct {
	cfg      Config
	recorder Recorder

	mu      sync.Mutex
	matches map[string]*Session
}

func NewCoordinator(cfg Config, recorder Recorder) *Coordinator {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Coordinator{cfg: cfg, recorder: recorder, matches: map[string]*Session{}}
}

func (c *Coordinator) Create(opts CreateOptions) (*Session, error) {
	def, ok := game.Lookup(opts.Variant)
	if !ok {
		return nil, game.ErrUnknownVariant
	}
	if opts.Bots < 0 || opts.Bots >= def.Capacity(c.cfg.Game) {
		return nil, ErrRoomFull
	}
	sess := NewSession(opts.Variant, def, c.cfg, c.recorder)
	level := opts.BotLevel
	if level == "" {
		level = game.BotMedium
	}
	for i := 0; i < opts.Bots; i++ {
		if err := sess.AddBot(fmt.Sprintf("Bot %d", i+1), level, 0); err != nil {
			return nil, err
		}
	}
	c.mu.Lock()
	c.matches[sess.ID] = sess
	c.mu.Unlock()
	log.Info().Str("match_id", sess.ID).Str("variant", string(opts.Variant)).
		Int("bots", opts.Bots).Msg("match created")
	return sess, nil
}

func (c *Coordinator) Get(matchID string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.matches[matchID]
	return sess, ok
}

// FindWaiting returns an open session of the variant with a free human
// slot, for quick matchmaking-by-variant.
func (c *Coordinator) FindWaiting(variant game.Variant) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sess := range c.matches {
		if sess.Variant == variant && sess.Status() == StatusWaiting {
			return sess, true
		}
	}
	return nil, false
}

// Summary is the public listing row for one session.
type Summary struct {
	MatchID string       `json:"match_id"`
	Variant game.Variant `json:"variant"`
	Status  Status       `json:"status"`
	Seats   []Seat       `json:"seats"`
	Moves   int          `json:"moves"`
}

func (c *Coordinator) List() []Summary {
	c.mu.Lock()
	sessions := make([]*Session, 0, len(c.matches))
	for _, sess := range c.matches {
		sessions = append(sessions, sess)
	}
	c.mu.Unlock()
	out := make([]Summary, 0, len(sessions))
	for _, sess := range sessions {
		snap := sess.Snapshot("")
		out = append(out, Summary{
			MatchID: sess.ID,
			Variant: sess.Variant,
			Status:  snap["status"].(Status),
			Seats:   snap["seats"].([]Seat),
			Moves:   snap["moves"].(int),
		})
	}
	return out
}

// StartJanitor sweeps for disposable sessions until ctx is done.
func (c *Coordinator) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = janitorSweepInterval
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.sweep(now)
			}
		}
	}()
}

func (c *Coordinator) sweep(now time.Time) {
	c.mu.Lock()
	var reap []*Session
	for _, sess := range c.matches {
		if sess.Disposable(now) {
			reap = append(reap, sess)
		}
	}
	for _, sess := range reap {
		delete(c.matches, sess.ID)
	}
	c.mu.Unlock()

	for _, sess := range reap {
		sess.Dispose()
		log.Info().Str("match_id", sess.ID).Str("variant", string(sess.Variant)).
			Msg("match disposed")
	}
}
