package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Content ContentConfig
	Cache   CacheConfig
	Ledger  LedgerConfig
	Admin   AdminConfig
	App     AppConfig
}

type ServerConfig struct {
	Port        string
	SubmitRate  float64
	SubmitBurst int
}

type ContentConfig struct {
	ContentDir string
	PublicDir  string
}

type CacheConfig struct {
	Dir       string
	RedisAddr string
}

type LedgerConfig struct {
	RPCURL       string
	OwnerAddress string
	PrivateKey   string
}

type AdminConfig struct {
	Token string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFile     string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			SubmitRate:  getEnvAsFloat("SUBMIT_RATE", 1),
			SubmitBurst: getEnvAsInt("SUBMIT_BURST", 5),
		},
		Content: ContentConfig{
			ContentDir: getEnv("CONTENT_DIR", "content"),
			PublicDir:  getEnv("PUBLIC_DIR", "public"),
		},
		Cache: CacheConfig{
			Dir:       getEnv("CACHE_DIR", ".cache"),
			RedisAddr: getEnv("REDIS_ADDR", ""),
		},
		Ledger: LedgerConfig{
			RPCURL:       getEnv("LEDGER_RPC_URL", ""),
			OwnerAddress: getEnv("LEDGER_OWNER_ADDRESS", ""),
			PrivateKey:   getEnv("LEDGER_PRIVATE_KEY", ""),
		},
		Admin: AdminConfig{
			Token: getEnv("ADMIN_TOKEN", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFile:     getEnv("LOG_FILE", ""),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Content.ContentDir == "" {
		return fmt.Errorf("CONTENT_DIR is required")
	}

	if c.Content.PublicDir == "" {
		return fmt.Errorf("PUBLIC_DIR is required")
	}

	if c.App.Environment == "production" && c.Admin.Token == "" {
		return fmt.Errorf("ADMIN_TOKEN is required in production")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
