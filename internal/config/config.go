package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	OpenAI    OpenAIConfig
	Instacart InstacartConfig
	Places    PlacesConfig
	Scraper   ScraperConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SMTPConfig holds outgoing mail configuration
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// OpenAIConfig holds the meal-plan model configuration
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

// InstacartConfig holds the cart-provider configuration
type InstacartConfig struct {
	APIKey  string
	BaseURL string
}

// PlacesConfig holds the places-search configuration
type PlacesConfig struct {
	APIKey  string
	BaseURL string
}

// ScraperConfig holds the store-scraper service configuration
type ScraperConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

// WorkerConfig holds task worker pool sizes
type WorkerConfig struct {
	MealPlanWorkers int
	ScrapeWorkers   int
}

// RateLimitConfig holds per-endpoint rate limit quotas
type RateLimitConfig struct {
	RegisterPerHour int
	LoginPerMinute  int
	ResendPerHour   int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "plateplan"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 30*24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@plateplan.app"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4.1-nano"),
			Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
		},
		Instacart: InstacartConfig{
			APIKey:  getEnv("INSTACART_API_KEY", ""),
			BaseURL: getEnv("INSTACART_BASE_URL", "https://connect.instacart.com"),
		},
		Places: PlacesConfig{
			APIKey:  getEnv("GOOGLE_PLACES_API_KEY", ""),
			BaseURL: getEnv("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		},
		Scraper: ScraperConfig{
			ServiceURL: getEnv("SCRAPER_SERVICE_URL", ""),
			Timeout:    getEnvAsDuration("SCRAPER_TIMEOUT", 3*time.Minute),
		},
		Worker: WorkerConfig{
			MealPlanWorkers: getEnvAsInt("MEAL_PLAN_WORKERS", 2),
			ScrapeWorkers:   getEnvAsInt("SCRAPE_WORKERS", 2),
		},
		RateLimit: RateLimitConfig{
			RegisterPerHour: getEnvAsInt("RATE_LIMIT_REGISTER_PER_HOUR", 5),
			LoginPerMinute:  getEnvAsInt("RATE_LIMIT_LOGIN_PER_MINUTE", 5),
			ResendPerHour:   getEnvAsInt("RATE_LIMIT_RESEND_PER_HOUR", 3),
		},
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
