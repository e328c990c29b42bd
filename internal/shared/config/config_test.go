package config

import "testing"

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when JWT_SECRET is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected default db port 5432, got %d", cfg.Database.Port)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry should default to disabled")
	}
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host: "db.internal", Port: 5433, User: "svc",
		Password: "pw", DBName: "finsight", SSLMode: "require",
	}
	want := "host=db.internal port=5433 user=svc password=pw dbname=finsight sslmode=require"
	if got := db.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		expected bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"no", true, false},
		{"garbage", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := getBoolEnv("TEST_BOOL", tt.fallback); got != tt.expected {
			t.Errorf("getBoolEnv(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.expected)
		}
	}
}
