package config

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/bet-pool/internal/platform/logging"
)

func TestLoad_RejectsInvalidEnvironment(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown app env", env: map[string]string{"APP_ENV": "invalid"}},
		{name: "unknown storage driver", env: map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{name: "memory storage in prod", env: map[string]string{"APP_ENV": EnvProd, "STORAGE_DRIVER": StorageMemory}},
		{name: "malformed static token", env: map[string]string{"AUTH_STATIC_TOKENS": "admin-token"}},
		{name: "static tokens in prod", env: map[string]string{"APP_ENV": EnvProd, "AUTH_STATIC_TOKENS": "admin-token:acc-admin"}},
		{name: "idle above open", env: map[string]string{"DB_MAX_OPEN_CONNS": "2", "DB_MAX_IDLE_CONNS": "3"}},
		{name: "zero open conns", env: map[string]string{"DB_MAX_OPEN_CONNS": "0"}},
		{name: "bad cache ttl", env: map[string]string{"CACHE_TTL": "bad"}},
		{name: "unknown log level", env: map[string]string{"APP_LOG_LEVEL": "verbose"}},
		{name: "zero circuit failures", env: map[string]string{"ANUBIS_CIRCUIT_FAILURE_COUNT": "0"}},
		{name: "uptrace without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": "", "OTEL_EXPORTER_OTLP_HEADERS": ""}},
		{name: "pyroscope without server", env: map[string]string{"PYROSCOPE_ENABLED": "true", "PYROSCOPE_SERVER_ADDRESS": ""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", tc.env)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "bet-pool-api" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics enabled by default")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout: %s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != logging.LevelInfo || cfg.LogFormat != logging.FormatJSON {
		t.Fatalf("unexpected log config: level=%s format=%s", cfg.LogLevel, cfg.LogFormat)
	}
	if len(cfg.StaticAuthTokens) != 0 {
		t.Fatalf("expected no static tokens by default")
	}
	if cfg.SeedDemoData {
		t.Fatalf("expected demo seed disabled by default")
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
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_StorageDriver(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("memory in dev", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("STORAGE_DRIVER", "Memory")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageMemory {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})
}

func TestLoad_StaticAuthTokens(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("parsed in dev", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("AUTH_STATIC_TOKENS", "admin-token:acc-admin, alice-token:acc-alice")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StaticAuthTokens["admin-token"] != "acc-admin" || cfg.StaticAuthTokens["alice-token"] != "acc-alice" {
			t.Fatalf("unexpected static tokens: %+v", cfg.StaticAuthTokens)
		}
	})
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

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "bet-pool-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "bet-pool-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://pool.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://pool.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBPoolParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DBApplicationName != "bet-pool-api" {
			t.Fatalf("expected application name to default to service name, got %q", cfg.DBApplicationName)
		}
		if cfg.DBMaxOpenConns != 20 || cfg.DBMaxIdleConns != 5 {
			t.Fatalf("unexpected pool defaults: open=%d idle=%d", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
		}
		if cfg.DBConnMaxLifetime != 30*time.Minute {
			t.Fatalf("unexpected conn lifetime: %s", cfg.DBConnMaxLifetime)
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})
}

func TestLoad_LogConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("console debug", func(t *testing.T) {
		t.Setenv("APP_LOG_LEVEL", "debug")
		t.Setenv("APP_LOG_FORMAT", "console")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LogLevel != logging.LevelDebug || cfg.LogFormat != logging.FormatConsole {
			t.Fatalf("unexpected log config: level=%s format=%s", cfg.LogLevel, cfg.LogFormat)
		}
	})
}

func TestLoad_ReportsEveryInvalidVariable(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("METRICS_ENABLED", "maybe")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for invalid variables")
	}
	for _, key := range []string{"CACHE_TTL", "METRICS_ENABLED"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("expected error to mention %s, got %v", key, err)
		}
	}
}

func TestUptraceDSNFromOTLPHeaders(t *testing.T) {
	tests := map[string]string{
		"":                            "",
		"x-other=1":                   "",
		"Uptrace-DSN=\"https://t@u\"": "https://t@u",
		"a=b, uptrace-dsn=https://x":  "https://x",
	}
	for raw, want := range tests {
		if got := uptraceDSNFromOTLPHeaders(raw); got != want {
			t.Fatalf("uptraceDSNFromOTLPHeaders(%q) = %q, want %q", raw, got, want)
		}
	}
}
