package config

import "github.com/caarlos0/env/v11"

// BotConfig configures cmd/table-bot, the standalone WS client.
type BotConfig struct {
	WSURL   string `env:"WS_URL" envDefault:"ws://localhost:8080/ws"`
	Game    string `env:"GAME" envDefault:"connect4"`
	Name    string `env:"BOT_NAME" envDefault:"table-bot"`
	MatchID string `env:"MATCH_ID"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
