package config

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.ServerPort != 8080 {
		t.Fatalf("default server port: got %d want 8080", cfg.ServerPort)
	}
	if cfg.StorageBackend != StorageBackendGCS {
		t.Fatalf("default storage backend: got %q", cfg.StorageBackend)
	}
	if cfg.MQBackend != MQBackendPubSub {
		t.Fatalf("default mq backend: got %q", cfg.MQBackend)
	}
	if cfg.Database.Port != 5432 {
		t.Fatalf("default db port: got %d want 5432", cfg.Database.Port)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", StorageBackendMinio)
	t.Setenv("DB_USE_SSL", "true")
	t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")

	cfg := LoadConfig()

	if cfg.ServerPort != 9090 {
		t.Fatalf("server port override: got %d want 9090", cfg.ServerPort)
	}
	if cfg.StorageBackend != StorageBackendMinio {
		t.Fatalf("storage backend override: got %q", cfg.StorageBackend)
	}
	if !cfg.Database.UseSSL {
		t.Fatalf("db ssl override not applied")
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("jwt secret override: got %q", cfg.JWTSecret)
	}
}
