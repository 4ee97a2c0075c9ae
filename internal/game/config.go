package game

import "time"

// Config carries the variant tunables a match is created with. Values
// come from the environment (internal/config) or from defaults.
type Config struct {
	TurnTimeout   time.Duration
	CommitTimeout time.Duration

	RPSTargetWins int
	RPSRoundCap   int

	SequencesToWin   int
	SequenceHandSize int

	GemsPointTarget int
	GemsTokenLimit  int

	BlackjackStartChips      int64
	BlackjackMinBet          int64
	BlackjackDealerStand     int
	BlackjackCheckpointEvery int
	BlackjackMaxSeats        int

	Seed int64
}

func DefaultConfig() Config {
	return Config{
		TurnTimeout:   30 * time.Second,
		CommitTimeout: 10 * time.Second,

		RPSTargetWins: 3,
		RPSRoundCap:   20,

		SequencesToWin:   2,
		SequenceHandSize: 7,

		GemsPointTarget: 15,
		GemsTokenLimit:  10,

		BlackjackStartChips:      1000,
		BlackjackMinBet:          10,
		BlackjackDealerStand:     17,
		BlackjackCheckpointEvery: 8,
		BlackjackMaxSeats:        5,
	}
}
