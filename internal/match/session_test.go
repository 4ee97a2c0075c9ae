package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/deafSpy/lolgames-sub001/internal/game"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/blackjack"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/connect4"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/rps"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Game.TurnTimeout = time.Minute
	cfg.Game.CommitTimeout = time.Minute
	cfg.BotThinkMin = time.Millisecond
	cfg.BotThinkMax = 2 * time.Millisecond
	return cfg
}

func newTestSession(t *testing.T, variant game.Variant, cfg Config, rec Recorder) *Session {
	t.Helper()
	def, ok := game.Lookup(variant)
	if !ok {
		t.Fatalf("variant %s not registered", variant)
	}
	return NewSession(variant, def, cfg, rec)
}

func dropMv(col int) game.Move {
	return game.Move{Action: "drop", Params: json.RawMessage(fmt.Sprintf(`{"column":%d}`, col))}
}

func waitFor(t *testing.T, d time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

type captureRecorder struct {
	ch chan Result
}

func newCaptureRecorder() *captureRecorder {
	return &captureRecorder{ch: make(chan Result, 4)}
}

func (r *captureRecorder) RecordResult(_ context.Context, res Result) error {
	r.ch <- res
	return nil
}

func (r *captureRecorder) wait(t *testing.T) Result {
	t.Helper()
	select {
	case res := <-r.ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("no result recorded")
		return Result{}
	}
}

func TestJoinAutoStartsFullTable(t *testing.T) {
	s := newTestSession(t, game.VariantConnect4, testConfig(), nil)
	if err := s.Join("a", "Alice"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if s.Status() != StatusWaiting {
		t.Fatalf("status = %s, want waiting with one seat", s.Status())
	}
	if err := s.Join("b", "Bob"); err != nil {
		t.Fatalf("join b: %v", err)
	}
	if s.Status() != StatusInProgress {
		t.Fatalf("status = %s, want in_progress at capacity", s.Status())
	}
	if err := s.Join("c", "Carol"); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("late join: %v", err)
	}

	started := false
	for _, ev := range s.Events().ReplayAfter("") {
		if ev.Event == EventGameStarted {
			started = true
		}
	}
	if !started {
		t.Fatal("no game_started event emitted")
	}
}

func TestLateJoinSeatsAtRunningTable(t *testing.T) {
	s := newTestSession(t, game.VariantBlackjack, testConfig(), nil)
	for _, id := range []string{"a", "b"} {
		if err := s.Join(id, id); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := s.Join("c", "Carol"); err != nil {
		t.Fatalf("late join at an open table: %v", err)
	}
	seats := s.Snapshot("")["seats"].([]Seat)
	if len(seats) != 3 {
		t.Fatalf("seats = %d, want 3 after the late join", len(seats))
	}
	var late Seat
	for _, seat := range seats {
		if seat.ID == "c" {
			late = seat
		}
	}
	if late.ID == "" || late.Original {
		t.Fatalf("late seat = %+v, want seated with Original false", late)
	}
	if !seats[0].Original {
		t.Fatal("founding seat lost its original flag")
	}
	if err := s.SubmitMove("c", game.Move{Action: "bet", Params: json.RawMessage(`{"amount":10}`)}); err != nil {
		t.Fatalf("late seat's opening bet: %v", err)
	}
}

func TestBlackjackTableSizeKnob(t *testing.T) {
	cfg := testConfig()
	cfg.Game.BlackjackMaxSeats = 3
	s := newTestSession(t, game.VariantBlackjack, cfg, nil)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Join(id, id); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	if s.Status() != StatusInProgress {
		t.Fatalf("status = %s, want auto-start at the configured table size", s.Status())
	}
	if err := s.Join("d", "Dave"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("join past the configured size: %v, want room full", err)
	}
}

func TestReconnectKeepsSeat(t *testing.T) {
	s := newTestSession(t, game.VariantConnect4, testConfig(), nil)
	if err := s.Join("a", "Alice"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := s.Join("b", "Bob"); err != nil {
		t.Fatalf("join b: %v", err)
	}
	if err := s.Leave("a"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if err := s.Leave("ghost"); !errors.Is(err, ErrUnknownSeat) {
		t.Fatalf("leave unknown: %v", err)
	}

	// rejoining mid-game resumes the same seat and its turn
	if err := s.Join("a", "Alice"); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	snap := s.Snapshot("a")
	if seats := snap["seats"].([]Seat); len(seats) != 2 || !seats[0].Connected {
		t.Fatalf("seats after rejoin = %+v", seats)
	}
	if err := s.SubmitMove("a", dropMv(3)); err != nil {
		t.Fatalf("move after rejoin: %v", err)
	}
}

func TestStartNeedsMinimumSeats(t *testing.T) {
	s := newTestSession(t, game.VariantBlackjack, testConfig(), nil)
	if err := s.Join("a", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrNotEnoughSeats) {
		t.Fatalf("short start: %v", err)
	}
	if err := s.Join("b", "Bob"); err != nil {
		t.Fatalf("join b: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Status() != StatusInProgress {
		t.Fatalf("status = %s", s.Status())
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("double start: %v", err)
	}
}

func TestSubmitMoveValidation(t *testing.T) {
	s := newTestSession(t, game.VariantConnect4, testConfig(), nil)
	if err := s.SubmitMove("a", dropMv(0)); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("move before start: %v", err)
	}
	if err := s.Join("a", "Alice"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := s.Join("b", "Bob"); err != nil {
		t.Fatalf("join b: %v", err)
	}

	if err := s.SubmitMove("ghost", dropMv(0)); !errors.Is(err, ErrUnknownSeat) {
		t.Fatalf("unknown seat: %v", err)
	}
	if err := s.SubmitMove("b", dropMv(0)); !errors.Is(err, game.ErrNotYourTurn) {
		t.Fatalf("out of turn: %v", err)
	}
	if err := s.SubmitMove("a", dropMv(9)); !game.IsIllegal(err) {
		t.Fatalf("bad column: %v", err)
	}
	if got := s.MoveCount(); got != 0 {
		t.Fatalf("move count = %d after rejections", got)
	}
}

func TestPlayToWinRecordsResult(t *testing.T) {
	rec := newCaptureRecorder()
	s := newTestSession(t, game.VariantConnect4, testConfig(), rec)
	if err := s.Join("a", "Alice"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := s.Join("b", "Bob"); err != nil {
		t.Fatalf("join b: %v", err)
	}

	// a stacks column 3 while b wanders along the bottom row
	plan := []struct {
		seat string
		col  int
	}{
		{"a", 3}, {"b", 0}, {"a", 3}, {"b", 1}, {"a", 3}, {"b", 2}, {"a", 3},
	}
	for _, step := range plan {
		if err := s.SubmitMove(step.seat, dropMv(step.col)); err != nil {
			t.Fatalf("%s drops %d: %v", step.seat, step.col, err)
		}
	}

	if s.Status() != StatusFinished {
		t.Fatalf("status = %s, want finished", s.Status())
	}
	out, done := s.Outcome()
	if !done || out.WinnerSeatID != "a" {
		t.Fatalf("outcome = %+v done=%v", out, done)
	}
	if err := s.SubmitMove("b", dropMv(0)); !errors.Is(err, ErrMatchFinished) {
		t.Fatalf("move after finish: %v", err)
	}

	res := rec.wait(t)
	if res.WinnerID != "a" || res.IsDraw || res.Aborted {
		t.Fatalf("result = %+v", res)
	}
	if res.GameType != game.VariantConnect4 || res.TotalMoves != 7 || res.VsBot {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Participants) != 2 {
		t.Fatalf("participants = %+v", res.Participants)
	}
}

func TestTurnTimeoutPlaysDefaultMove(t *testing.T) {
	cfg := testConfig()
	cfg.Game.TurnTimeout = 30 * time.Millisecond
	cfg.MaxTimeoutStrikes = 10
	s := newTestSession(t, game.VariantConnect4, cfg, nil)
	if err := s.Join("a", "Alice"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := s.Join("b", "Bob"); err != nil {
		t.Fatalf("join b: %v", err)
	}

	waitFor(t, 2*time.Second, "a timeout move", func() bool { return s.MoveCount() >= 1 })
	var sawTimeout bool
	for _, ev := range s.Events().ReplayAfter("") {
		if ev.Event != EventMove {
			continue
		}
		if data, ok := ev.Data.(map[string]any); ok && data["by_timeout"] == true {
			sawTimeout = true
		}
	}
	if !sawTimeout {
		t.Fatal("no move event flagged by_timeout")
	}
}

func TestRepeatedTimeoutsForfeit(t *testing.T) {
	rec := newCaptureRecorder()
	cfg := testConfig()
	cfg.Game.TurnTimeout = 15 * time.Millisecond
	cfg.MaxTimeoutStrikes = 1
	s := newTestSession(t, game.VariantConnect4, cfg, rec)
	if err := s.Join("a", "Alice"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := s.Join("b", "Bob"); err != nil {
		t.Fatalf("join b: %v", err)
	}

	waitFor(t, 3*time.Second, "forfeit", func() bool { return s.Status() == StatusFinished })
	// a moves first, so a runs out of strikes first and b wins
	out, _ := s.Outcome()
	if out.WinnerSeatID != "b" {
		t.Fatalf("outcome = %+v, want b by forfeit", out)
	}
	var reason string
	for _, ev := range s.Events().ReplayAfter("") {
		if ev.Event == EventGameOver {
			reason, _ = ev.Data.(map[string]any)["reason"].(string)
		}
	}
	if reason != "forfeit" {
		t.Fatalf("game over reason = %q, want forfeit", reason)
	}
	if res := rec.wait(t); res.WinnerID != "b" {
		t.Fatalf("recorded result = %+v", res)
	}
}

func TestBotTablePlaysItself(t *testing.T) {
	rec := newCaptureRecorder()
	cfg := testConfig()
	s := newTestSession(t, game.VariantConnect4, cfg, rec)
	if err := s.AddBot("Bot 1", game.BotHard, 101); err != nil {
		t.Fatalf("bot 1: %v", err)
	}
	if err := s.AddBot("Bot 2", game.BotMedium, 102); err != nil {
		t.Fatalf("bot 2: %v", err)
	}

	waitFor(t, 10*time.Second, "bot match to finish", func() bool { return s.Status() == StatusFinished })
	if got := s.MoveCount(); got < 7 || got > 42 {
		t.Fatalf("move count = %d", got)
	}
	res := rec.wait(t)
	if !res.VsBot || len(res.Participants) != 2 {
		t.Fatalf("result = %+v", res)
	}
}

func TestAbortReportsWhenStarted(t *testing.T) {
	rec := newCaptureRecorder()
	s := newTestSession(t, game.VariantConnect4, testConfig(), rec)
	if err := s.Join("a", "Alice"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := s.Join("b", "Bob"); err != nil {
		t.Fatalf("join b: %v", err)
	}
	s.Abort("operator")
	if s.Status() != StatusCancelled {
		t.Fatalf("status = %s", s.Status())
	}
	res := rec.wait(t)
	if !res.Aborted {
		t.Fatalf("result = %+v, want aborted", res)
	}
}

func TestDisposableLifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.DisposeAfter = 50 * time.Millisecond
	s := newTestSession(t, game.VariantConnect4, cfg, nil)
	if err := s.Join("a", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	now := time.Now()
	if s.Disposable(now.Add(time.Hour)) {
		t.Fatal("occupied waiting session reported disposable")
	}
	if err := s.Leave("a"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if s.Disposable(time.Now()) {
		t.Fatal("disposable before the grace window")
	}
	if !s.Disposable(time.Now().Add(time.Second)) {
		t.Fatal("abandoned session not disposable after the window")
	}

	s.Abort("cleanup")
	if !s.Disposable(time.Now().Add(time.Second)) {
		t.Fatal("ended session not disposable after the window")
	}
	s.Dispose()
}
