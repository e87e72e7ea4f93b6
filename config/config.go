package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	UploadDir      string
	OutputDir      string
	GhostscriptBin string
	ConvertTimeout time.Duration
	MaxConcurrent  int
	KafkaBrokers   string
	KafkaTopic     string
	DatabaseURL    string
	RedisAddr      string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("SERVICE_PORT", "5000"),
		Env:            getEnv("ENV", "development"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		OutputDir:      getEnv("OUTPUT_DIR", "output"),
		GhostscriptBin: getEnv("GHOSTSCRIPT_BIN", "gs"),
		ConvertTimeout: time.Duration(getEnvAsInt("CONVERT_TIMEOUT_SECONDS", 120)) * time.Second,
		MaxConcurrent:  getEnvAsInt("MAX_CONCURRENT_CONVERSIONS", 4),
		KafkaBrokers:   getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "pdf_conversions"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
