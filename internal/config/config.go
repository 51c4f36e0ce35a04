// internal/config/config.go
//
// Environment-driven configuration for the Hardle server.
//
// Values are read from the process environment; main loads a `.env` file
// (godotenv) beforehand in development. Every setting has a default so the
// server starts with no configuration at all.
//
// Environment variables:
//   PORT                 HTTP listen port (default 5175)
//   LOG_LEVEL            zerolog level name (default info)
//   LOG_PRETTY           "1" enables the console writer
//   DB_PATH              SQLite file for users + stats (default ./data/hardle.db)
//   WORDS_FILE           optional newline-delimited dictionary; empty → embedded list
//   DICTIONARY_API_URL   remote lookup base URL
//   LOOKUP_TIMEOUT       remote lookup client timeout (default 8s)
//   REQUEST_TIMEOUT      per-request handler timeout (default 10s)
//   SESSION_TTL          how long a game session is kept after creation (default 24h)
//   JWT_SECRET           HS256 signing secret
//   JWT_EXPIRES_DAYS     token lifetime in days (default 14)
//   COOKIE_NAME          auth cookie name (default hardle_token)
//   CLIENT_ORIGIN        CORS origin (default http://localhost:5173)
//   DAILY_SALT           HMAC salt for the daily word
//   NODE_ENV             "production" turns on Secure cookies

package config

import (
	"os"
	"strconv"
	"time"
)

const DefaultDictionaryAPI = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Config holds all runtime settings.
type Config struct {
	Port           string
	LogLevel       string
	LogPretty      bool
	DBPath         string
	WordsFile      string
	DictionaryAPI  string
	LookupTimeout  time.Duration
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	Production     bool
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      os.Getenv("LOG_PRETTY") == "1",
		DBPath:         getEnv("DB_PATH", "./data/hardle.db"),
		WordsFile:      os.Getenv("WORDS_FILE"),
		DictionaryAPI:  getEnv("DICTIONARY_API_URL", DefaultDictionaryAPI),
		LookupTimeout:  getDuration("LOOKUP_TIMEOUT", 8*time.Second),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: getInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "hardle_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		Production:     os.Getenv("NODE_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getDuration accepts Go duration strings ("8s", "1m30s").
// Unparseable or non-positive values fall back to def.
func getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
