package match

import (
	"testing"
	"time"
)

func TestScheduleReplacesPendingDeadline(t *testing.T) {
	c := NewTurnClock()
	fired := make(chan uint64, 2)

	first := c.Schedule(time.Hour, func(gen uint64) { fired <- gen })
	second := c.Schedule(10*time.Millisecond, func(gen uint64) { fired <- gen })
	if second != first+1 {
		t.Fatalf("generations = %d then %d, want an increment", first, second)
	}

	select {
	case gen := <-fired:
		if gen != second {
			t.Fatalf("fired generation %d, want %d", gen, second)
		}
	case <-time.After(time.Second):
		t.Fatal("replacement deadline never fired")
	}
	select {
	case gen := <-fired:
		t.Fatalf("stale deadline fired with generation %d", gen)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelStopsDeadline(t *testing.T) {
	c := NewTurnClock()
	fired := make(chan uint64, 1)
	gen := c.Schedule(20*time.Millisecond, func(g uint64) { fired <- g })
	c.Cancel()

	select {
	case <-fired:
		t.Fatal("cancelled deadline fired")
	case <-time.After(100 * time.Millisecond):
	}
	if got := c.Generation(); got <= gen {
		t.Fatalf("generation = %d after cancel, want past %d", got, gen)
	}
}

func TestGenerationDetectsStaleFire(t *testing.T) {
	c := NewTurnClock()
	gen := c.Schedule(time.Hour, func(uint64) {})
	if c.Generation() != gen {
		t.Fatalf("generation = %d, want %d", c.Generation(), gen)
	}
	c.Schedule(time.Hour, func(uint64) {})
	if c.Generation() == gen {
		t.Fatal("rescheduling must invalidate the old generation")
	}
	c.Cancel()
}
