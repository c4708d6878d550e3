package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Fare     FareConfig
	Trip     TripConfig
	Wallet   WalletConfig
	Gateway  GatewayConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// FareConfig holds the pricing table in CFA francs.
type FareConfig struct {
	BaseFare       float64
	PerKmRate      float64
	PerMinuteRate  float64
	MinimumFare    float64
	CityMultiplier float64
	HourlyRate     float64
}

// TripConfig holds trip lifecycle tunables.
type TripConfig struct {
	MatchDelay time.Duration
}

// WalletConfig identifies the demo rider's wallet.
type WalletConfig struct {
	WalletID string
}

// GatewayConfig holds the stub payment gateway's approval rates.
type GatewayConfig struct {
	ChargeSuccessRate float64
	TopUpSuccessRate  float64
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "uber_taxi"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "uber-taxi-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Fare: FareConfig{
			BaseFare:       getFloatEnv("FARE_BASE", 1500),
			PerKmRate:      getFloatEnv("FARE_PER_KM", 350),
			PerMinuteRate:  getFloatEnv("FARE_PER_MINUTE", 50),
			MinimumFare:    getFloatEnv("FARE_MINIMUM", 2000),
			CityMultiplier: getFloatEnv("FARE_CITY_MULTIPLIER", 1.5),
			HourlyRate:     getFloatEnv("FARE_HOURLY_RATE", 5000),
		},
		Trip: TripConfig{
			MatchDelay: getDurationEnv("TRIP_MATCH_DELAY", 3*time.Second),
		},
		Wallet: WalletConfig{
			WalletID: getEnv("WALLET_ID", "wallet-demo-rider"),
		},
		Gateway: GatewayConfig{
			ChargeSuccessRate: getFloatEnv("GATEWAY_CHARGE_SUCCESS_RATE", 0.90),
			TopUpSuccessRate:  getFloatEnv("GATEWAY_TOPUP_SUCCESS_RATE", 0.85),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
