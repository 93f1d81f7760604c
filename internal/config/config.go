package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the GORM Postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServiceConfig holds all configuration for the share-server process.
type ServiceConfig struct {
	Port         string
	AppEnv       string
	DBConfig     DatabaseConfig
	KafkaBrokers []string
}

// GatewayConfig holds all configuration for the share-gateway process.
type GatewayConfig struct {
	Port      string
	AppEnv    string
	ServerURL string
}

// Load reads share-server configuration from environment variables.
// A .env file is applied first when present.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	return &ServiceConfig{
		Port:   getEnv("SHARING_SERVICE_PORT", ":9090"),
		AppEnv: getEnv("APP_ENV", "development"),
		DBConfig: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "sharing"),
			Password: getEnv("DB_PASSWORD", "sharing"),
			DBName:   getEnv("DB_NAME", "sharing"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
	}, nil
}

// LoadGateway reads share-gateway configuration from environment variables.
func LoadGateway() (*GatewayConfig, error) {
	_ = godotenv.Load()

	return &GatewayConfig{
		Port:      getEnv("GATEWAY_PORT", ":8080"),
		AppEnv:    getEnv("APP_ENV", "development"),
		ServerURL: getEnv("SHARING_SERVER_URL", "http://localhost:9090"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
