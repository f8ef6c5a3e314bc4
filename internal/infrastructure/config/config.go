package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DBDriverMemory   = "memory"
	DBDriverPostgres = "postgres"
	DBDriverOracle   = "oracle"
)

type Config struct {
	ServerHost string
	ServerPort string

	DBDriver string
	DBDSN    string

	TwelveDataAPIKey     string
	PriceRefreshInterval time.Duration

	// List window tuning for the feed controller.
	FeedInitialRenderCount int
	FeedRenderBatchSize    int
	FeedLookAhead          int
	FeedItemHeight         int

	LogLevel string
}

func Load() (*Config, error) {
	apiKey := os.Getenv("TWELVE_DATA_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("TWELVE_DATA_API_KEY environment variable is required")
	}

	driver := getEnvOrDefault("DB_DRIVER", DBDriverMemory)
	dsn := os.Getenv("DB_DSN")
	if driver != DBDriverMemory && dsn == "" {
		return nil, fmt.Errorf("DB_DSN environment variable is required for driver %s", driver)
	}

	refreshInterval, err := time.ParseDuration(getEnvOrDefault("PRICE_REFRESH_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_REFRESH_INTERVAL: %w", err)
	}

	initialRender, err := getEnvInt("FEED_INITIAL_RENDER_COUNT", 10)
	if err != nil {
		return nil, err
	}
	batchSize, err := getEnvInt("FEED_RENDER_BATCH_SIZE", 10)
	if err != nil {
		return nil, err
	}
	lookAhead, err := getEnvInt("FEED_LOOK_AHEAD", 5)
	if err != nil {
		return nil, err
	}
	itemHeight, err := getEnvInt("FEED_ITEM_HEIGHT", 172)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerHost:             getEnvOrDefault("SERVER_HOST", "localhost"),
		ServerPort:             getEnvOrDefault("SERVER_PORT", "8080"),
		DBDriver:               driver,
		DBDSN:                  dsn,
		TwelveDataAPIKey:       apiKey,
		PriceRefreshInterval:   refreshInterval,
		FeedInitialRenderCount: initialRender,
		FeedRenderBatchSize:    batchSize,
		FeedLookAhead:          lookAhead,
		FeedItemHeight:         itemHeight,
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
