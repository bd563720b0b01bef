package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	MongoURI      string
	MongoDBName   string
	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "festdb"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
