package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wolvesmetrics/lineup-analytics/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	PprofEnabled            bool
	PprofAddr               string
	SwaggerEnabled          bool

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	NBAStatsEnabled               bool
	NBAStatsBaseURL               string
	NBAStatsTimeout               time.Duration
	NBAStatsMaxRetries            int
	NBAStatsCircuitEnabled        bool
	NBAStatsCircuitFailureCount   int
	NBAStatsCircuitOpenTimeout    time.Duration
	NBAStatsCircuitHalfOpenMaxReq int

	// HomeTeamID is the team whose lineups are ingested by default.
	HomeTeamID int64
	// Season overrides the season in progress; empty means auto-detect.
	Season           string
	GroupQuantities  []int
	IngestMaxWorkers int
	TrackedPlayers   []string
	InternalJobToken string

	LogLevel logging.Level
}

const (
	defaultHomeTeamID     = 1610612750 // Minnesota Timberwolves
	defaultTrackedPlayers = "Reid,Randle,Edwards,Gobert,Conley,McDaniels"
)

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
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	uptraceCaptureRequestBody, err := strconv.ParseBool(getEnv("UPTRACE_CAPTURE_REQUEST_BODY", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_CAPTURE_REQUEST_BODY: %w", err)
	}
	uptraceRequestBodyMaxBytes, err := getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if uptraceRequestBodyMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
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

	nbaStatsEnabled, err := strconv.ParseBool(getEnv("NBA_STATS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_ENABLED: %w", err)
	}
	nbaStatsTimeout, err := time.ParseDuration(getEnv("NBA_STATS_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_TIMEOUT: %w", err)
	}
	if nbaStatsTimeout <= 0 {
		return Config{}, fmt.Errorf("NBA_STATS_TIMEOUT must be > 0")
	}
	nbaStatsMaxRetries, err := getEnvAsInt("NBA_STATS_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_MAX_RETRIES: %w", err)
	}
	if nbaStatsMaxRetries < 0 {
		return Config{}, fmt.Errorf("NBA_STATS_MAX_RETRIES must be >= 0")
	}
	nbaStatsCircuitEnabled, err := strconv.ParseBool(getEnv("NBA_STATS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_CIRCUIT_ENABLED: %w", err)
	}
	nbaStatsCircuitFailureCount, err := getEnvAsInt("NBA_STATS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if nbaStatsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NBA_STATS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	nbaStatsCircuitOpenTimeout, err := time.ParseDuration(getEnv("NBA_STATS_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if nbaStatsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("NBA_STATS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	nbaStatsCircuitHalfOpenMaxReq, err := getEnvAsInt("NBA_STATS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_STATS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if nbaStatsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("NBA_STATS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	homeTeamID, err := getEnvAsInt64("HOME_TEAM_ID", defaultHomeTeamID)
	if err != nil {
		return Config{}, fmt.Errorf("parse HOME_TEAM_ID: %w", err)
	}
	if homeTeamID <= 0 {
		return Config{}, fmt.Errorf("HOME_TEAM_ID must be > 0")
	}

	groupQuantities, err := parseIntList(getEnv("GROUP_QUANTITIES", "5"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GROUP_QUANTITIES: %w", err)
	}
	if len(groupQuantities) == 0 {
		return Config{}, fmt.Errorf("GROUP_QUANTITIES cannot be empty")
	}

	ingestMaxWorkers, err := getEnvAsInt("INGEST_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse INGEST_MAX_WORKERS: %w", err)
	}
	if ingestMaxWorkers < 1 {
		return Config{}, fmt.Errorf("INGEST_MAX_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   getEnv("APP_SERVICE_NAME", "lineup-analytics-api"),
		ServiceVersion:                getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                      getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                         getEnv("DB_URL", ""),
		CORSAllowedOrigins:            splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                  pprofEnabled,
		PprofAddr:                     pprofAddr,
		SwaggerEnabled:                swaggerEnabled,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		UptraceLogsEnabled:            uptraceLogsEnabled,
		UptraceCaptureRequestBody:     uptraceCaptureRequestBody,
		UptraceRequestBodyMaxBytes:    uptraceRequestBodyMaxBytes,
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        pyroscopeServerAddress,
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
		NBAStatsEnabled:               nbaStatsEnabled,
		NBAStatsBaseURL:               strings.TrimSpace(getEnv("NBA_STATS_BASE_URL", "https://stats.nba.com")),
		NBAStatsTimeout:               nbaStatsTimeout,
		NBAStatsMaxRetries:            nbaStatsMaxRetries,
		NBAStatsCircuitEnabled:        nbaStatsCircuitEnabled,
		NBAStatsCircuitFailureCount:   nbaStatsCircuitFailureCount,
		NBAStatsCircuitOpenTimeout:    nbaStatsCircuitOpenTimeout,
		NBAStatsCircuitHalfOpenMaxReq: nbaStatsCircuitHalfOpenMaxReq,
		HomeTeamID:                    homeTeamID,
		Season:                        strings.TrimSpace(getEnv("SEASON", "")),
		GroupQuantities:               groupQuantities,
		IngestMaxWorkers:              ingestMaxWorkers,
		TrackedPlayers:                splitCSV(getEnv("TRACKED_PLAYERS", defaultTrackedPlayers)),
		InternalJobToken:              strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
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

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
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

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseInt(value, 10, 64)
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

func parseIntList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		value, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("number must be > 0, got %q", item)
		}
		out = append(out, value)
	}

	return out, nil
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
