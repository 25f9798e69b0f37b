package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_AnalyticsDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HomeTeamID != 1610612750 {
		t.Fatalf("unexpected default HomeTeamID: %d", cfg.HomeTeamID)
	}
	if len(cfg.GroupQuantities) != 1 || cfg.GroupQuantities[0] != 5 {
		t.Fatalf("unexpected default GroupQuantities: %v", cfg.GroupQuantities)
	}
	if cfg.Season != "" {
		t.Fatalf("expected empty season override by default, got %q", cfg.Season)
	}
	if len(cfg.TrackedPlayers) != 6 {
		t.Fatalf("unexpected default TrackedPlayers: %v", cfg.TrackedPlayers)
	}
	if cfg.NBAStatsBaseURL != "https://stats.nba.com" {
		t.Fatalf("unexpected default NBAStatsBaseURL: %q", cfg.NBAStatsBaseURL)
	}
	if cfg.NBAStatsTimeout != 30*time.Second {
		t.Fatalf("unexpected default NBAStatsTimeout: %s", cfg.NBAStatsTimeout)
	}
}

func TestLoad_GroupQuantitiesParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("GROUP_QUANTITIES", "5, 3,2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := []int{5, 3, 2}
	if len(cfg.GroupQuantities) != len(want) {
		t.Fatalf("unexpected GroupQuantities: %v", cfg.GroupQuantities)
	}
	for i, qty := range want {
		if cfg.GroupQuantities[i] != qty {
			t.Fatalf("unexpected GroupQuantities: %v", cfg.GroupQuantities)
		}
	}
}

func TestLoad_GroupQuantitiesRejectsNonPositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("GROUP_QUANTITIES", "5,0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive group quantity")
	}
}

func TestLoad_HomeTeamIDRejectsNonPositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("HOME_TEAM_ID", "-1")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive HOME_TEAM_ID")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	got := parseUptraceDSNFromOTLPHeaders(`uptrace-dsn="https://token@api.uptrace.dev/123"`)
	if got != "https://token@api.uptrace.dev/123" {
		t.Fatalf("unexpected DSN: %q", got)
	}
	if parseUptraceDSNFromOTLPHeaders("other=1") != "" {
		t.Fatalf("expected empty DSN for unrelated headers")
	}
}
