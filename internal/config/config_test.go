package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STATSFEED_API_KEY", "rapidapi-test-key")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StatsFeedAPIKeyRequired(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STATSFEED_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without STATSFEED_API_KEY")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("ADMIN_API_TOKEN", "prod-admin-token")
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
		setRequiredEnv(t)
		t.Setenv("APP_ENV", EnvDev)
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

func TestLoad_ProdRequiresAdminToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("ADMIN_API_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when ADMIN_API_TOKEN is empty in prod")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
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
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "prop-grading-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "prop-grading-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)

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
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)

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

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_StatsFeedConfigParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STATSFEED_TIMEOUT", "15s")
	t.Setenv("STATSFEED_MAX_RETRIES", "2")
	t.Setenv("STATSFEED_SEASON", "2024")
	t.Setenv("STATSFEED_CIRCUIT_FAILURE_COUNT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StatsFeedTimeout != 15*time.Second {
		t.Fatalf("unexpected stats feed timeout: %s", cfg.StatsFeedTimeout)
	}
	if cfg.StatsFeedMaxRetries != 2 {
		t.Fatalf("unexpected stats feed max retries: %d", cfg.StatsFeedMaxRetries)
	}
	if cfg.StatsFeedSeason != "2024" {
		t.Fatalf("unexpected stats feed season: %q", cfg.StatsFeedSeason)
	}
	if cfg.StatsFeedCircuitFailureCount != 3 {
		t.Fatalf("unexpected circuit failure count: %d", cfg.StatsFeedCircuitFailureCount)
	}

	t.Run("negative retries rejected", func(t *testing.T) {
		t.Setenv("STATSFEED_MAX_RETRIES", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative STATSFEED_MAX_RETRIES")
		}
	})
}

func TestLoad_GradeAPIConfigParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("GRADEAPI_BASE_URL", "https://grading.example.com")
	t.Setenv("GRADEAPI_TOKEN", "grade-token")
	t.Setenv("GRADEAPI_TIMEOUT", "25s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GradeAPIBaseURL != "https://grading.example.com" {
		t.Fatalf("unexpected grade api base url: %q", cfg.GradeAPIBaseURL)
	}
	if cfg.GradeAPIToken != "grade-token" {
		t.Fatalf("unexpected grade api token")
	}
	if cfg.GradeAPITimeout != 25*time.Second {
		t.Fatalf("unexpected grade api timeout: %s", cfg.GradeAPITimeout)
	}

	t.Run("invalid timeout", func(t *testing.T) {
		t.Setenv("GRADEAPI_TIMEOUT", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid GRADEAPI_TIMEOUT")
		}
	})
}

func TestLoad_PackGradeMaxWorkers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default", func(t *testing.T) {
		t.Setenv("PACK_GRADE_MAX_WORKERS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.PackGradeMaxWorkers != 4 {
			t.Fatalf("unexpected default pack grade workers: %d", cfg.PackGradeMaxWorkers)
		}
	})

	t.Run("zero rejected", func(t *testing.T) {
		t.Setenv("PACK_GRADE_MAX_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for PACK_GRADE_MAX_WORKERS=0")
		}
	})
}
