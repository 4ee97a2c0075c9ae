package config

import "github.com/caarlos0/env/v11"

// MatchConfig carries the session and variant tunables. cmd/game-server
// maps it onto the runtime config structs.
type MatchConfig struct {
	TurnTimeoutSecs    int `env:"TURN_TIMEOUT_SECONDS" envDefault:"30"`
	CommitTimeoutSecs  int `env:"COMMIT_TIMEOUT_SECONDS" envDefault:"10"`
	ReconnectGraceSecs int `env:"RECONNECT_GRACE_SECONDS" envDefault:"30"`
	DisposeAfterSecs   int `env:"DISPOSE_AFTER_SECONDS" envDefault:"60"`
	BotThinkMinMS      int `env:"BOT_THINK_MIN_MS" envDefault:"300"`
	BotThinkMaxMS      int `env:"BOT_THINK_MAX_MS" envDefault:"1000"`
	MaxTimeoutStrikes  int `env:"MAX_TIMEOUT_STRIKES" envDefault:"3"`

	RPSTargetWins int `env:"RPS_TARGET_WINS" envDefault:"3"`
	RPSRoundCap   int `env:"RPS_ROUND_CAP" envDefault:"20"`

	SequencesToWin   int `env:"SEQUENCES_TO_WIN" envDefault:"2"`
	SequenceHandSize int `env:"SEQUENCE_HAND_SIZE" envDefault:"7"`

	GemsPointTarget int `env:"GEMS_POINT_TARGET" envDefault:"15"`
	GemsTokenLimit  int `env:"GEMS_TOKEN_LIMIT" envDefault:"10"`

	BlackjackStartChips      int64 `env:"BLACKJACK_START_CHIPS" envDefault:"1000"`
	BlackjackMinBet          int64 `env:"BLACKJACK_MIN_BET" envDefault:"10"`
	BlackjackDealerStand     int   `env:"BLACKJACK_DEALER_STAND" envDefault:"17"`
	BlackjackCheckpointEvery int   `env:"BLACKJACK_CHECKPOINT_EVERY" envDefault:"8"`
	BlackjackMaxSeats        int   `env:"BLACKJACK_MAX_SEATS" envDefault:"5"`
}

func LoadMatch() (MatchConfig, error) {
	var cfg MatchConfig
	err := env.Parse(&cfg)
	return cfg, err
}
