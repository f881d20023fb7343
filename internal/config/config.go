package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

type StorageConfig struct {
	Root         string
	PublicURL    string
	PublicPrefix string
}

type Config struct {
	AppEnv   string
	Port     string
	Database DatabaseConfig

	RedisAddr   string
	KafkaBroker string
	JWTSecret   string

	Storage     StorageConfig
	AutoMigrate bool
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "3000"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Storage: StorageConfig{
			Root:         getEnv("STORAGE_ROOT", "storage/public"),
			PublicURL:    getEnv("STORAGE_PUBLIC_URL", "http://localhost:3000/storage"),
			PublicPrefix: getEnv("STORAGE_PUBLIC_PREFIX", "/storage"),
		},
	}

	var err error
	if cfg.AutoMigrate, err = parseBool("DB_AUTO_MIGRATE", false); err != nil {
		return Config{}, err
	}

	if cfg.Database.User == "" || cfg.Database.Name == "" {
		return Config{}, fmt.Errorf("DB_USER and DB_NAME are required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// RequireKafka is used by the worker and consumer binaries.
func (c Config) RequireKafka() error {
	if c.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
