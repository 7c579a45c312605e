package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	MemoryDriverType   = "memory"
	PostgresDriverType = "postgres"
)

type Config struct {
	Listen         string
	ListenMetrics  string
	Env            string
	Driver         string
	DbPath         string
	MigrationsPath string
}

func NewConfig() Config {
	var cfg Config
	// .env не обязателен, ошибки игнорируем
	_ = godotenv.Load()
	cfg.LoadEnv()
	return cfg
}

func GetOrDefault(key string, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return value
}

func (c *Config) LoadEnv() {
	c.Listen = GetOrDefault("SERVER_ADDRESS", ":8080")
	c.ListenMetrics = GetOrDefault("METRICS_ADDRESS", ":9000")
	c.Env = GetOrDefault("ENV", "local")
	c.Driver = GetOrDefault("STORAGE_DRIVER", MemoryDriverType)
	c.DbPath = GetOrDefault("DATABASE_URL", "")
	c.MigrationsPath = GetOrDefault("MIGRATIONS_PATH", "migrations")
}
