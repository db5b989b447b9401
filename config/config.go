package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDataURL points at the published number-of-arrests CSV.
const DefaultDataURL = "https://www.ethnicity-facts-figures.service.gov.uk/crime-justice-and-the-law/policing/number-of-arrests/latest/downloads/number-of-arrests.csv"

type Config struct {
	DataURL     string
	ListenAddr  string
	CachePath   string
	CacheMaxAge time.Duration
	ExportDir   string
	TgToken     string
	TgChatID    int64
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration, loaded from .env plus the
// environment on first use.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file, reading environment only")
		}

		config = &Config{
			DataURL:     getEnv("DATA_URL", DefaultDataURL),
			ListenAddr:  getEnv("LISTEN_ADDR", ":8005"),
			CachePath:   os.Getenv("CACHE_PATH"),
			CacheMaxAge: getDuration("CACHE_MAX_AGE", time.Hour),
			ExportDir:   getEnv("EXPORT_DIR", "export"),
			TgToken:     os.Getenv("TG_TOKEN"),
			TgChatID:    getInt64("TG_CHAT_ID"),
		}
	})
	return config
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s value %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt64(key string) int64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("invalid %s value %q", key, v)
		return 0
	}
	return n
}
