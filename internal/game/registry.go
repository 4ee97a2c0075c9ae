package game

import (
	"math/rand"
	"sort"
	"sync"
)

// Definition describes one playable variant. Variant packages register
// themselves from init, the way database drivers do.
type Definition struct {
	Variant  Variant
	MinSeats int
	MaxSeats int
	// TwoPlayer variants refuse joins once in progress; other variants
	// admit late seats up to capacity when the engine supports it.
	TwoPlayer bool

	NewEngine func(cfg Config) Engine
	NewBot    func(level BotLevel, rng *rand.Rand) BotAgent
}

// Capacity is the table size under cfg. Most variants have a fixed
// size; the blackjack table is tunable below its registered maximum.
func (d Definition) Capacity(cfg Config) int {
	if d.Variant == VariantBlackjack &&
		cfg.BlackjackMaxSeats >= d.MinSeats && cfg.BlackjackMaxSeats < d.MaxSeats {
		return cfg.BlackjackMaxSeats
	}
	return d.MaxSeats
}

var (
	registryMu sync.RWMutex
	registry   = map[Variant]Definition{}
)

func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[def.Variant]; dup {
		panic("game: duplicate registration for variant " + string(def.Variant))
	}
	registry[def.Variant] = def
}

func Lookup(v Variant) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	def, ok := registry[v]
	return def, ok
}

func Variants() []Variant {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Variant, 0, len(registry))
	for v := range registry {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
