package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// PostgresDSN is optional; without it match history is dropped.
	PostgresDSN string `env:"POSTGRES_DSN"`

	JanitorIntervalSecs int `env:"JANITOR_INTERVAL_SECONDS" envDefault:"1"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
