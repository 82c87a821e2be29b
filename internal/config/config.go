package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/propdesk/prop-grading/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	HTTPAddr                       string
	DBURL                          string
	DBDisablePreparedBinary        bool
	CacheEnabled                   bool
	CacheTTL                       time.Duration
	CORSAllowedOrigins             []string
	ReadTimeout                    time.Duration
	WriteTimeout                   time.Duration
	PprofEnabled                   bool
	PprofAddr                      string
	SwaggerEnabled                 bool
	AdminAPIToken                  string
	InternalJobToken               string
	UptraceEnabled                 bool
	UptraceDSN                     string
	PyroscopeEnabled               bool
	PyroscopeServerAddress         string
	PyroscopeAppName               string
	PyroscopeAuthToken             string
	PyroscopeBasicAuthUser         string
	PyroscopeBasicAuthPassword     string
	PyroscopeUploadRate            time.Duration
	StatsFeedBaseURL               string
	StatsFeedAPIKey                string
	StatsFeedSeason                string
	StatsFeedTimeout               time.Duration
	StatsFeedMaxRetries            int
	StatsFeedCircuitEnabled        bool
	StatsFeedCircuitFailureCount   int
	StatsFeedCircuitOpenTimeout    time.Duration
	StatsFeedCircuitHalfOpenMaxReq int
	GradeAPIBaseURL                string
	GradeAPIToken                  string
	GradeAPITimeout                time.Duration
	GradeAPICircuitEnabled         bool
	GradeAPICircuitFailureCount    int
	GradeAPICircuitOpenTimeout     time.Duration
	GradeAPICircuitHalfOpenMaxReq  int
	PackGradeMaxWorkers            int
	LogLevel                       logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	statsFeedTimeout, err := time.ParseDuration(getEnv("STATSFEED_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_TIMEOUT: %w", err)
	}
	if statsFeedTimeout <= 0 {
		return Config{}, fmt.Errorf("STATSFEED_TIMEOUT must be > 0")
	}
	statsFeedMaxRetries, err := getEnvAsInt("STATSFEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_MAX_RETRIES: %w", err)
	}
	if statsFeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("STATSFEED_MAX_RETRIES must be >= 0")
	}
	statsFeedCircuitEnabled, err := strconv.ParseBool(getEnv("STATSFEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_CIRCUIT_ENABLED: %w", err)
	}
	statsFeedCircuitFailureCount, err := getEnvAsInt("STATSFEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if statsFeedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STATSFEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	statsFeedCircuitOpenTimeout, err := time.ParseDuration(getEnv("STATSFEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if statsFeedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STATSFEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	statsFeedCircuitHalfOpenMaxReq, err := getEnvAsInt("STATSFEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if statsFeedCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("STATSFEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	gradeAPITimeout, err := time.ParseDuration(getEnv("GRADEAPI_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GRADEAPI_TIMEOUT: %w", err)
	}
	if gradeAPITimeout <= 0 {
		return Config{}, fmt.Errorf("GRADEAPI_TIMEOUT must be > 0")
	}
	gradeAPICircuitEnabled, err := strconv.ParseBool(getEnv("GRADEAPI_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GRADEAPI_CIRCUIT_ENABLED: %w", err)
	}
	gradeAPICircuitFailureCount, err := getEnvAsInt("GRADEAPI_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse GRADEAPI_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if gradeAPICircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("GRADEAPI_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	gradeAPICircuitOpenTimeout, err := time.ParseDuration(getEnv("GRADEAPI_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GRADEAPI_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if gradeAPICircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("GRADEAPI_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	gradeAPICircuitHalfOpenMaxReq, err := getEnvAsInt("GRADEAPI_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse GRADEAPI_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if gradeAPICircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("GRADEAPI_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	packGradeMaxWorkers, err := getEnvAsInt("PACK_GRADE_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PACK_GRADE_MAX_WORKERS: %w", err)
	}
	if packGradeMaxWorkers < 1 {
		return Config{}, fmt.Errorf("PACK_GRADE_MAX_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                         appEnv,
		ServiceName:                    getEnv("APP_SERVICE_NAME", "prop-grading-api"),
		ServiceVersion:                 getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                       getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                          getEnv("DB_URL", ""),
		DBDisablePreparedBinary:        true,
		CORSAllowedOrigins:             splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                   pprofEnabled,
		PprofAddr:                      pprofAddr,
		SwaggerEnabled:                 swaggerEnabled,
		AdminAPIToken:                  strings.TrimSpace(getEnv("ADMIN_API_TOKEN", "")),
		InternalJobToken:               strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		UptraceEnabled:                 uptraceEnabled,
		UptraceDSN:                     uptraceDSN,
		PyroscopeEnabled:               pyroscopeEnabled,
		PyroscopeServerAddress:         pyroscopeServerAddress,
		PyroscopeAuthToken:             strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:         strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:            pyroscopeUploadRate,
		StatsFeedBaseURL:               strings.TrimSpace(getEnv("STATSFEED_BASE_URL", "https://tank01-stats.p.rapidapi.com")),
		StatsFeedAPIKey:                strings.TrimSpace(getEnv("STATSFEED_API_KEY", "")),
		StatsFeedSeason:                strings.TrimSpace(getEnv("STATSFEED_SEASON", "")),
		StatsFeedTimeout:               statsFeedTimeout,
		StatsFeedMaxRetries:            statsFeedMaxRetries,
		StatsFeedCircuitEnabled:        statsFeedCircuitEnabled,
		StatsFeedCircuitFailureCount:   statsFeedCircuitFailureCount,
		StatsFeedCircuitOpenTimeout:    statsFeedCircuitOpenTimeout,
		StatsFeedCircuitHalfOpenMaxReq: statsFeedCircuitHalfOpenMaxReq,
		GradeAPIBaseURL:                strings.TrimSpace(getEnv("GRADEAPI_BASE_URL", "")),
		GradeAPIToken:                  strings.TrimSpace(getEnv("GRADEAPI_TOKEN", "")),
		GradeAPITimeout:                gradeAPITimeout,
		GradeAPICircuitEnabled:         gradeAPICircuitEnabled,
		GradeAPICircuitFailureCount:    gradeAPICircuitFailureCount,
		GradeAPICircuitOpenTimeout:     gradeAPICircuitOpenTimeout,
		GradeAPICircuitHalfOpenMaxReq:  gradeAPICircuitHalfOpenMaxReq,
		PackGradeMaxWorkers:            packGradeMaxWorkers,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.StatsFeedAPIKey == "" {
		return Config{}, fmt.Errorf("STATSFEED_API_KEY is required")
	}
	if cfg.AppEnv == EnvProd && cfg.AdminAPIToken == "" {
		return Config{}, fmt.Errorf("ADMIN_API_TOKEN is required in prod")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
