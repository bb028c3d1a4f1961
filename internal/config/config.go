package config

import (
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	SessionDBPath  string
	DatabaseURL    string
	ServerPort     string
	AllowedOrigins []string
	OpenAIAPIKey   string
	SearchDebounce time.Duration
	ConfirmDelay   time.Duration
}

// Load reads configuration from the environment with defaults. Callers load
// .env first.
func Load() Config {
	return Config{
		BaseURL:        getEnv("TABLECRM_BASE_URL", "https://app.tablecrm.com/api/v1"),
		RequestTimeout: getDuration("TABLECRM_TIMEOUT", 10*time.Second),
		SessionDBPath:  getEnv("SESSION_DB_PATH", "order-desk.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		AllowedOrigins: getList("ALLOWED_ORIGINS"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		SearchDebounce: getDuration("SEARCH_DEBOUNCE", 500*time.Millisecond),
		ConfirmDelay:   getDuration("CONFIRM_DELAY", 2*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getDuration accepts Go duration syntax ("750ms", "2s"). "0" is a valid zero.
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "0" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("invalid duration for %s: %s", key, v)
		return def
	}
	return d
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
