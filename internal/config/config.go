package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Clark-Hu/movie-finder/internal/trending"
)

// Trending store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MaxTrendingLimit caps how many trending entries a single read may return.
const MaxTrendingLimit = trending.MaxLimit

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port             string
	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int
	CORSOrigins      []string

	TMDBBaseURL      string
	TMDBAPIKey       string
	TMDBImageBaseURL string
	TMDBTimeoutSecs  int
	TMDBRatePerSec   float64
	TMDBRateBurst    int

	TrendingDriver    string
	TrendingLimit     int
	SQLitePath        string
	DBURL             string
	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int

	SearchDebounceMs int

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		ReadTimeoutSecs:  getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		CORSOrigins:      getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		TMDBBaseURL:      os.Getenv("TMDB_API_BASE_URL"),
		TMDBAPIKey:       os.Getenv("TMDB_API_KEY"),
		TMDBImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
		TMDBTimeoutSecs:  getEnvInt("TMDB_TIMEOUT_SECS", 10),
		TMDBRatePerSec:   getEnvFloat("TMDB_RATE_PER_SEC", 0),
		TMDBRateBurst:    getEnvInt("TMDB_RATE_BURST", 1),

		TrendingDriver:    strings.ToLower(getEnv("TRENDING_DRIVER", DriverPostgres)),
		TrendingLimit:     getEnvInt("TRENDING_LIMIT", trending.DefaultLimit),
		SQLitePath:        getEnv("SQLITE_PATH", "movie-finder.db"),
		DBURL:             os.Getenv("DB_URL"),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 1),
		DBMaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:  getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 128),

		SearchDebounceMs: getEnvInt("SEARCH_DEBOUNCE_MS", 500),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   os.Getenv("FINDER_LOG_FILE"),
	}

	if cfg.TMDBBaseURL == "" {
		return Config{}, fmt.Errorf("TMDB_API_BASE_URL is required")
	}
	if cfg.TMDBAPIKey == "" {
		return Config{}, fmt.Errorf("TMDB_API_KEY is required")
	}
	if cfg.TMDBTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("TMDB_TIMEOUT_SECS must be positive")
	}
	if cfg.TMDBRatePerSec < 0 {
		return Config{}, fmt.Errorf("TMDB_RATE_PER_SEC must be non-negative")
	}
	if cfg.TMDBRatePerSec > 0 && cfg.TMDBRateBurst <= 0 {
		return Config{}, fmt.Errorf("TMDB_RATE_BURST must be positive when rate limiting is enabled")
	}
	if cfg.SearchDebounceMs < 0 {
		return Config{}, fmt.Errorf("SEARCH_DEBOUNCE_MS must be non-negative")
	}
	if cfg.TrendingLimit <= 0 || cfg.TrendingLimit > MaxTrendingLimit {
		return Config{}, fmt.Errorf("TRENDING_LIMIT must be between 1 and %d", MaxTrendingLimit)
	}

	switch cfg.TrendingDriver {
	case DriverPostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when TRENDING_DRIVER=postgres")
		}
		if cfg.DBMaxConns <= 0 {
			return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
		}
		if cfg.DBMinConns < 0 {
			return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
		}
		if cfg.DBMinConns > cfg.DBMaxConns {
			return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
		}
		if cfg.DBStatementCache < 0 {
			return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return Config{}, fmt.Errorf("SQLITE_PATH is required when TRENDING_DRIVER=sqlite")
		}
	default:
		return Config{}, fmt.Errorf("TRENDING_DRIVER must be %q or %q", DriverPostgres, DriverSQLite)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
