package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/roofline-saas/service-estimate/internal/pkg/database"
)

// SolarConfig holds settings for the building-insights provider.
type SolarConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// KafkaConfig holds event bus settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// PricingConfig holds the default replacement-cost rate.
type PricingConfig struct {
	// DefaultPricePerSquare is the whole-dollar rate per roofing square
	// applied when a request does not override it.
	DefaultPricePerSquare float64
}

// ServiceConfig holds all configuration for the estimate service.
type ServiceConfig struct {
	Port     string
	AppEnv   string
	DBConfig database.PostgresConfig
	Kafka    KafkaConfig
	Solar    SolarConfig
	Pricing  PricingConfig
}

// Load reads configuration from ESTIMATE_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("ESTIMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8084")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "estimates")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "roofline.")
	v.SetDefault("SOLAR_BASE_URL", "https://solar.googleapis.com/v1")
	v.SetDefault("SOLAR_TIMEOUT_SECONDS", 10)
	v.SetDefault("PRICE_PER_SQUARE", 350.0)

	cfg := &ServiceConfig{
		Port:   ":" + v.GetString("SERVICE_PORT"),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		Solar: SolarConfig{
			BaseURL:        v.GetString("SOLAR_BASE_URL"),
			APIKey:         v.GetString("SOLAR_API_KEY"),
			TimeoutSeconds: v.GetInt("SOLAR_TIMEOUT_SECONDS"),
		},
		Pricing: PricingConfig{
			DefaultPricePerSquare: v.GetFloat64("PRICE_PER_SQUARE"),
		},
	}

	if cfg.Pricing.DefaultPricePerSquare <= 0 {
		return nil, fmt.Errorf("PRICE_PER_SQUARE must be positive, got %v", cfg.Pricing.DefaultPricePerSquare)
	}

	return cfg, nil
}
