package main

import (
	"fmt"
	"os"
	"strconv"

	"sorveteria-service/database"
)

// Config holds all environment-driven settings for the service.
type Config struct {
	Port      string
	JWTSecret string

	Postgres database.Config

	// Object storage for product images
	S3Bucket   string
	S3Endpoint string
	AWSRegion  string

	RedisURL string

	// Checkout hand-off
	StorePhone  string
	DeliveryFee float64
}

// LoadConfig reads configuration from environment variables with defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Postgres: database.Config{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "America/Sao_Paulo"),
		},
		S3Bucket:    getEnv("S3_BUCKET", "sorveteria"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
		RedisURL:    os.Getenv("REDIS_URL"),
		StorePhone:  os.Getenv("STORE_WHATSAPP"),
		DeliveryFee: getEnvFloat("DELIVERY_FEE", 5.0),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Postgres.User == "" || cfg.Postgres.Password == "" || cfg.Postgres.DBName == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}
