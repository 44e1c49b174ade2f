package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	DBName            string
	NATSUrl           string
	OpenAIAPIKey      string
	Port              string
	CORSOrigins       []string
	FetchTimeout      time.Duration
	FetchLimit        int
	SchedulerInterval time.Duration
}

func Load() *Config {
	// Missing .env is fine; real deployments use plain env vars.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:            getEnv("DB_NAME", "aggregator"),
		NATSUrl:           getEnv("NATS_URL", "nats://localhost:4222"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		Port:              getEnv("PORT", "8080"),
		CORSOrigins:       strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
		FetchTimeout:      time.Duration(getIntEnv("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		FetchLimit:        getIntEnv("FETCH_LIMIT", 10),
		SchedulerInterval: getDurationEnv("SCHEDULER_INTERVAL", "1m"),
	}

	if cfg.OpenAIAPIKey == "" {
		log.Println("OPENAI_API_KEY not set, content will receive default scores")
	}

	log.Printf("Config loaded - FetchTimeout: %v, FetchLimit: %d, SchedulerInterval: %v",
		cfg.FetchTimeout, cfg.FetchLimit, cfg.SchedulerInterval)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
