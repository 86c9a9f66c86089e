package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	MigrationsDir string
	CacheTTL      time.Duration
	// SessionCacheTTL bounds how long a signed-out session keeps authenticating.
	SessionCacheTTL time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	// LegacyRemoteRule keeps the first release's eligibility check, which only
	// granted hotel bookings to remote tickets.
	LegacyRemoteRule bool
}

// Load reads the environment, after merging an optional .env file.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer config value")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	flag := func(k string, def bool) bool {
		if v := os.Getenv(k); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
		return def
	}
	secs := func(k string, def int) time.Duration { return time.Duration(atoi(k, def)) * time.Second }

	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		LogLevel:         env("LOG_LEVEL", ""),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ""),
		MySQLDSN:         env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:        env("REDIS_ADDR", "localhost:6379"),
		RedisPass:        env("REDIS_PASSWORD", ""),
		RedisDB:          atoi("REDIS_DB", 0),
		JWTSecret:        env("JWT_SECRET", ""),
		MigrationsDir:    env("MIGRATIONS_DIR", "migrations"),
		CacheTTL:         secs("CACHE_TTL_SECONDS", 300),
		SessionCacheTTL:  secs("SESSION_CACHE_TTL_SECONDS", 15),
		RequestTimeout:   secs("REQUEST_TIMEOUT_SECONDS", 15),
		ShutdownTimeout:  secs("SHUTDOWN_TIMEOUT_SECONDS", 10),
		RateLimitRPS:     atof("RATE_LIMIT_RPS", 20),
		RateLimitBurst:   atoi("RATE_LIMIT_BURST", 40),
		LegacyRemoteRule: flag("LEGACY_REMOTE_RULE", false),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
