package config

import (
	"os"
	"path/filepath"
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
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("DB_URL", "")
	t.Setenv("FORECAST_POLICY_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected empty DB_URL by default, got=%q", cfg.DBURL)
	}
	if cfg.SyncMaxRequests != 150 || cfg.SyncSufficientHistory != 200 || cfg.SyncTopTeams != 10 || cfg.SyncHeadToHeadPairs != 5 {
		t.Fatalf("unexpected sync defaults: %+v", cfg)
	}
	if cfg.SyncCallInterval != 1500*time.Millisecond {
		t.Fatalf("unexpected SyncCallInterval: %s", cfg.SyncCallInterval)
	}
	if cfg.SportsDBLeagueID != "4334" || len(cfg.SportsDBSeasons) != 3 {
		t.Fatalf("unexpected provider defaults: league=%s seasons=%v", cfg.SportsDBLeagueID, cfg.SportsDBSeasons)
	}
	if cfg.LogLevel.String() != "info" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
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

func TestLoad_ProdRequiresInternalJobToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when INTERNAL_JOB_TOKEN is missing in prod")
	}
}

func TestLoad_RejectsInvalidSyncValues(t *testing.T) {
	cases := map[string]string{
		"SYNC_MAX_REQUESTS":       "0",
		"SYNC_TOP_TEAMS":          "abc",
		"SYNC_CALL_INTERVAL":      "-1s",
		"SYNC_RUN_TIMEOUT":        "0s",
		"SPORTSDB_MAX_RETRIES":    "-1",
		"PREDICTION_WARM_WORKERS": "0",
		"LOG_LEVEL":               "verbose",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoad_LockTTLMustCoverRunTimeout(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SYNC_RUN_TIMEOUT", "20m")
	t.Setenv("SYNC_LOCK_TTL", "10m")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when lock ttl is shorter than run timeout")
	}
}

func TestLoad_PolicyFileOverridesSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	body := "weights:\n  name: tuned\n  head_to_head: 0.25\nsync:\n  max_requests: 40\n  top_teams: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SYNC_MAX_REQUESTS", "")
	t.Setenv("SYNC_TOP_TEAMS", "")
	t.Setenv("SYNC_H2H_PAIRS", "")
	t.Setenv("FORECAST_POLICY_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SyncMaxRequests != 40 || cfg.SyncTopTeams != 3 {
		t.Fatalf("expected policy to override sync values, got max=%d top=%d", cfg.SyncMaxRequests, cfg.SyncTopTeams)
	}
	if cfg.SyncHeadToHeadPairs != 5 {
		t.Fatalf("expected untouched value to keep its default, got=%d", cfg.SyncHeadToHeadPairs)
	}
	if cfg.Policy.Weights.Name != "tuned" || cfg.Policy.Weights.HeadToHead != 0.25 {
		t.Fatalf("unexpected weights: %+v", cfg.Policy.Weights)
	}
}

func TestLoad_MissingPolicyFile(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("FORECAST_POLICY_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing policy file")
	}
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	if _, err := ParsePolicy([]byte("weights:\n  formz: 0.3\n")); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
	if _, err := ParsePolicy([]byte("weights:\n  form: 1.5\n")); err == nil {
		t.Fatalf("expected out of range weight to be rejected")
	}
	if _, err := ParsePolicy([]byte("sync:\n  top_teams: -2\n")); err == nil {
		t.Fatalf("expected negative sync value to be rejected")
	}

	policy, err := ParsePolicy(nil)
	if err != nil {
		t.Fatalf("parse empty policy: %v", err)
	}
	if policy != (Policy{}) {
		t.Fatalf("expected zero policy, got=%+v", policy)
	}
}
