package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"partyplan/internal/cache"
	"partyplan/internal/database"
	apperrors "partyplan/internal/errors"
	"partyplan/internal/external"
	"partyplan/internal/messaging"
	"partyplan/internal/search"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// Reminder job
	Concurrency int    `validate:"min=1"`
	Schedule    string `validate:"required"`

	Database      database.Config
	Push          external.PushConfig
	Email         external.EmailConfig
	NATS          messaging.Config
	Cache         cache.Config
	Elasticsearch search.Config
}

// Load reads configuration from environment variables and an optional config.yaml
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	// config.yaml is optional; env vars alone are enough
	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		fmt.Printf("config: ignoring unreadable config file: %v\n", err)
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REMINDER_CONCURRENCY", 1)
	v.SetDefault("REMINDER_SCHEDULE", "0 9 * * *")

	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MIN", 5)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME_MIN", 1)

	v.SetDefault("PUSH_TIMEOUT_SEC", 10)

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM", "noreply@partyplan.app")
	v.SetDefault("EMAIL_FROM_NAME", "PartyPlan")
	v.SetDefault("EMAIL_RATE_PER_SEC", 5)
	v.SetDefault("APP_URL", "https://partyplan.app")

	v.SetDefault("NATS_CLUSTER_ID", "partyplan")
	v.SetDefault("NATS_CLIENT_ID", "payment-reminders")

	v.SetDefault("PROFILE_CACHE_TTL_SEC", 300)

	v.SetDefault("ELASTICSEARCH_INDEX", "payment-reminder-runs")
	v.SetDefault("ELASTICSEARCH_MAX_RETRIES", 3)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:      v.GetString("PORT"),
		GinMode:   v.GetString("GIN_MODE"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		Concurrency: v.GetInt("REMINDER_CONCURRENCY"),
		Schedule:    v.GetString("REMINDER_SCHEDULE"),

		Database: database.Config{
			URL:                v.GetString("DATABASE_URL"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeMin: v.GetInt("DB_CONN_MAX_LIFETIME_MIN"),
			ConnMaxIdleTimeMin: v.GetInt("DB_CONN_MAX_IDLE_TIME_MIN"),
		},

		Push: external.PushConfig{
			BaseURL:    v.GetString("PUSH_SERVICE_URL"),
			ServiceKey: v.GetString("PUSH_SERVICE_KEY"),
			Timeout:    time.Duration(v.GetInt("PUSH_TIMEOUT_SEC")) * time.Second,
		},

		Email: external.EmailConfig{
			Host:       v.GetString("SMTP_HOST"),
			Port:       v.GetInt("SMTP_PORT"),
			Username:   v.GetString("SMTP_USERNAME"),
			Password:   v.GetString("SMTP_PASSWORD"),
			From:       v.GetString("EMAIL_FROM"),
			FromName:   v.GetString("EMAIL_FROM_NAME"),
			RatePerSec: v.GetFloat64("EMAIL_RATE_PER_SEC"),
			AppURL:     v.GetString("APP_URL"),
		},

		NATS: messaging.Config{
			URL:       v.GetString("NATS_URL"),
			ClusterID: v.GetString("NATS_CLUSTER_ID"),
			ClientID:  v.GetString("NATS_CLIENT_ID"),
		},

		Cache: cache.Config{
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			TTL:           time.Duration(v.GetInt("PROFILE_CACHE_TTL_SEC")) * time.Second,
		},

		Elasticsearch: search.Config{
			URL:        v.GetString("ELASTICSEARCH_URL"),
			Index:      v.GetString("ELASTICSEARCH_INDEX"),
			Username:   v.GetString("ELASTICSEARCH_USERNAME"),
			Password:   v.GetString("ELASTICSEARCH_PASSWORD"),
			MaxRetries: v.GetInt("ELASTICSEARCH_MAX_RETRIES"),
		},
	}
}

// Validate reports configuration that makes a reminder run impossible.
// The returned error wraps ErrMissingConfig.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrMissingConfig, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.TrimPrefix(fe.Namespace(), "Config."))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrMissingConfig, strings.Join(fields, ", "))
}
