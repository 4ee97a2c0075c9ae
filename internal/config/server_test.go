package config

import "testing"

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.PostgresDSN != "" {
		t.Fatalf("PostgresDSN = %q, want empty by default", cfg.PostgresDSN)
	}
	if cfg.JanitorIntervalSecs != 1 {
		t.Fatalf("JanitorIntervalSecs = %d, want 1", cfg.JanitorIntervalSecs)
	}
}

func TestLoadServerOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/games?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.PostgresDSN == "" {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
