package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/deafSpy/lolgames-sub001/internal/game"
	"github.com/deafSpy/lolgames-sub001/internal/match"
	"github.com/deafSpy/lolgames-sub001/internal/store"
	"github.com/deafSpy/lolgames-sub001/internal/testutil"
)

func sampleResult(matchID string) match.Result {
	return match.Result{
		MatchID:  matchID,
		GameType: game.VariantConnect4,
		WinnerID: "seat_a",
		Participants: []match.Participant{
			{SeatID: "seat_a", Name: "Alice"},
			{SeatID: "seat_b", Name: "Bot 1", IsBot: true},
		},
		VsBot:      true,
		DurationMS: 81234,
		TotalMoves: 19,
	}
}

func TestRecordAndReadBack(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := st.RecordResult(ctx, sampleResult("m1")); err != nil {
		t.Fatalf("record: %v", err)
	}
	row, err := st.Result(ctx, "m1")
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if row.GameType != "connect4" || row.WinnerID != "seat_a" || !row.VsBot {
		t.Fatalf("row = %+v", row)
	}
	if row.DurationMS != 81234 || row.TotalMoves != 19 || row.FinishedAt.IsZero() {
		t.Fatalf("row = %+v", row)
	}

	if _, err := st.Result(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing match: %v", err)
	}
}

func TestRecordIgnoresDuplicates(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	res := sampleResult("m1")
	if err := st.RecordResult(ctx, res); err != nil {
		t.Fatalf("record: %v", err)
	}
	res.WinnerID = "seat_b"
	if err := st.RecordResult(ctx, res); err != nil {
		t.Fatalf("duplicate record: %v", err)
	}
	row, err := st.Result(ctx, "m1")
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if row.WinnerID != "seat_a" {
		t.Fatalf("winner = %q, want the first write kept", row.WinnerID)
	}
}

func TestRecentResultsOrderAndLimit(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for _, id := range []string{"m1", "m2", "m3"} {
		if err := st.RecordResult(ctx, sampleResult(id)); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}
	rows, err := st.RecentResults(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want the limit applied", len(rows))
	}
	rows, err = st.RecentResults(ctx, 0)
	if err != nil {
		t.Fatalf("recent default: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want all three under the default limit", len(rows))
	}

	draw := match.Result{MatchID: "m4", GameType: game.VariantRPS, IsDraw: true,
		Participants: []match.Participant{{SeatID: "x"}, {SeatID: "y"}}}
	if err := st.RecordResult(ctx, draw); err != nil {
		t.Fatalf("record draw: %v", err)
	}
	row, err := st.Result(ctx, "m4")
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if !row.IsDraw || row.WinnerID != "" {
		t.Fatalf("draw row = %+v, want empty winner", row)
	}
}
