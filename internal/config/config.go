package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config собирает настройки процесса из окружения. Пустой DatabaseURL
// включает in-memory хранилище; пустые RedisAddr и AMQPURL выключают
// кэш и внешнюю публикацию событий соответственно.
type Config struct {
	HTTPPort    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPURL   string
	FeedQueue string
}

// Load читает .env (если есть) и переменные окружения.
func Load(logger *slog.Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables only")
	}

	return Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0, logger),
		AMQPURL:       os.Getenv("AMQP_URL"),
		FeedQueue:     getEnv("FEED_QUEUE", "filmorate.feed"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, logger *slog.Logger) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("Invalid integer in environment, using fallback",
			slog.String("key", key), slog.String("value", raw))
		return fallback
	}
	return value
}
