package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Region    RegionConfig
	Inventory InventoryConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// RegionConfig is the service area: a reference point and a radius. Codes
// decoding outside this circle are rejected at intake.
type RegionConfig struct {
	RefLat  float64
	RefLon  float64
	RadiusM float64
}

// InventoryConfig points at the per-kind cabinet inventory documents and
// bounds the matcher defaults.
type InventoryConfig struct {
	FTTHSourceURL  string
	FTTASourceURL  string
	CacheTTL       time.Duration
	RefreshTopic   string
	DefaultRadiusM float64
	DefaultLimit   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Viability Portal"),
		},
		Region: RegionConfig{
			RefLat:  getEnvAsFloat("SERVICE_REGION_LAT", -34.9011),
			RefLon:  getEnvAsFloat("SERVICE_REGION_LON", -56.1645),
			RadiusM: getEnvAsFloat("SERVICE_REGION_RADIUS_M", 60000),
		},
		Inventory: InventoryConfig{
			FTTHSourceURL:  getEnv("INVENTORY_FTTH_SOURCE_URL", ""),
			FTTASourceURL:  getEnv("INVENTORY_FTTA_SOURCE_URL", ""),
			CacheTTL:       getEnvAsDuration("INVENTORY_CACHE_TTL", 15*time.Minute),
			RefreshTopic:   getEnv("INVENTORY_REFRESH_TOPIC_NAME", "REFRESH_INVENTORY"),
			DefaultRadiusM: getEnvAsFloat("MATCHER_DEFAULT_RADIUS_M", 300),
			DefaultLimit:   getEnvAsInt("MATCHER_DEFAULT_LIMIT", 10),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
