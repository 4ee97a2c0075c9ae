package match

import (
	"testing"
	"time"
)

func TestEventIDsAreSequential(t *testing.T) {
	b := NewEventBuffer(10)
	for i := 0; i < 3; i++ {
		b.Append(EventMove, "m1", nil)
	}
	events := b.ReplayAfter("")
	if len(events) != 3 {
		t.Fatalf("replay = %d events, want 3", len(events))
	}
	for i, ev := range events {
		if want := byte('1' + i); ev.EventID != string(want) {
			t.Fatalf("event %d id = %q", i, ev.EventID)
		}
		if ev.MatchID != "m1" || ev.Event != EventMove {
			t.Fatalf("event %d = %+v", i, ev)
		}
	}
}

func TestReplayAfterSkipsDelivered(t *testing.T) {
	b := NewEventBuffer(10)
	for i := 0; i < 5; i++ {
		b.Append(EventState, "m1", i)
	}
	tail := b.ReplayAfter("3")
	if len(tail) != 2 || tail[0].EventID != "4" || tail[1].EventID != "5" {
		t.Fatalf("tail = %+v, want events 4 and 5", tail)
	}
	if got := b.ReplayAfter("garbage"); len(got) != 5 {
		t.Fatalf("unparsable cursor replayed %d events, want all 5", len(got))
	}
	if got := b.ReplayAfter("99"); len(got) != 0 {
		t.Fatalf("future cursor replayed %d events, want none", len(got))
	}
}

func TestRetentionIsBounded(t *testing.T) {
	b := NewEventBuffer(3)
	for i := 0; i < 5; i++ {
		b.Append(EventState, "m1", i)
	}
	events := b.ReplayAfter("")
	if len(events) != 3 || events[0].EventID != "3" {
		t.Fatalf("retained = %+v, want the newest three", events)
	}
}

func TestSubscribeDeliversLive(t *testing.T) {
	b := NewEventBuffer(10)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	sent := b.Append(EventGameStarted, "m1", nil)
	select {
	case got := <-ch:
		if got.EventID != sent.EventID || got.Event != EventGameStarted {
			t.Fatalf("received %+v, want %+v", got, sent)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestSlowWatcherDropsInsteadOfBlocking(t *testing.T) {
	b := NewEventBuffer(100)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			b.Append(EventState, "m1", i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("append blocked on a slow watcher")
	}
	if len(ch) > cap(ch) {
		t.Fatalf("channel holds %d, cap %d", len(ch), cap(ch))
	}
}

func TestCloseShutsDownWatchers(t *testing.T) {
	b := NewEventBuffer(10)
	ch := b.Subscribe()
	b.Close()

	if _, open := <-ch; open {
		t.Fatal("watcher channel still open after close")
	}
	if ev := b.Append(EventState, "m1", nil); ev.EventID != "" {
		t.Fatalf("append after close produced %+v", ev)
	}
	late := b.Subscribe()
	if _, open := <-late; open {
		t.Fatal("late subscription not closed immediately")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewEventBuffer(10)
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	if _, open := <-ch; open {
		t.Fatal("channel still open after unsubscribe")
	}
	// double unsubscribe is harmless
	b.Unsubscribe(ch)
}
