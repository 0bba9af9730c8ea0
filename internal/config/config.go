package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Log       LogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Quotation QuotationConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	// Path is the sqlite file used when Driver is "sqlite".
	Path string
}

type LogConfig struct {
	Level string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// QuotationConfig holds numbering and document defaults applied when a tenant has none.
type QuotationConfig struct {
	DefaultPrefix       string
	DefaultCurrency     string
	DefaultValidityDays int
	MaxAttempts         int
	MinBackoff          time.Duration
	MaxBackoff          time.Duration
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			Path:     viper.GetString("DB_PATH"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Quotation: QuotationConfig{
			DefaultPrefix:       viper.GetString("QUOTATION_PREFIX"),
			DefaultCurrency:     viper.GetString("QUOTATION_CURRENCY"),
			DefaultValidityDays: viper.GetInt("QUOTATION_VALIDITY_DAYS"),
			MaxAttempts:         viper.GetInt("QUOTATION_NUMBER_MAX_ATTEMPTS"),
			MinBackoff:          viper.GetDuration("QUOTATION_NUMBER_MIN_BACKOFF"),
			MaxBackoff:          viper.GetDuration("QUOTATION_NUMBER_MAX_BACKOFF"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "quotation-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "quotations")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("DB_PATH", "quotations.db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("QUOTATION_PREFIX", "QT")
	viper.SetDefault("QUOTATION_CURRENCY", "KES")
	viper.SetDefault("QUOTATION_VALIDITY_DAYS", 30)
	viper.SetDefault("QUOTATION_NUMBER_MAX_ATTEMPTS", 3)
	viper.SetDefault("QUOTATION_NUMBER_MIN_BACKOFF", "10ms")
	viper.SetDefault("QUOTATION_NUMBER_MAX_BACKOFF", "50ms")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Quotation.MaxAttempts < 1 {
		return fmt.Errorf("QUOTATION_NUMBER_MAX_ATTEMPTS must be at least 1, got %d", c.Quotation.MaxAttempts)
	}
	if c.Quotation.MaxBackoff < c.Quotation.MinBackoff {
		return fmt.Errorf("QUOTATION_NUMBER_MAX_BACKOFF (%s) is below QUOTATION_NUMBER_MIN_BACKOFF (%s)",
			c.Quotation.MaxBackoff, c.Quotation.MinBackoff)
	}
	return nil
}
