package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DBConfig holds the Postgres connection settings
type DBConfig struct {
	URL         string
	MaxOpenConn int
	ConnMaxIdle time.Duration
}

// MongoConfig holds the workshop document store settings
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// APNsConfig holds the push provider settings. Production is the default
// environment; anything else selects the sandbox gateway.
type APNsConfig struct {
	Environment string
	KeyFile     string
	KeyID       string
	TeamID      string
	Topic       string
	Timeout     time.Duration
}

// PipelineConfig holds the notification pipeline tunables
type PipelineConfig struct {
	SweepInterval    time.Duration
	CooldownDays     int
	ReminderMinHours int
	ReminderMaxHours int
	WorkerLimit      int
	EventBuffer      int
	Timezone         string
}

// KafkaConfig holds the optional delivery-outcome event settings.
// An empty topic disables outcome publishing entirely.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Config is the full configuration for the notifier service
type Config struct {
	HTTPPort string
	DB       DBConfig
	Mongo    MongoConfig
	APNs     APNsConfig
	Pipeline PipelineConfig
	Kafka    KafkaConfig
}

// LoadConfig loads configuration from environment variables.
// Required settings return an error when missing; tunables fall back to defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		HTTPPort: getEnv("NOTIF_HTTP_PORT", "8080"),
		DB: DBConfig{
			URL:         os.Getenv("NOTIF_DB_URL"),
			MaxOpenConn: getEnvInt("NOTIF_DB_MAX_OPEN", 10),
			ConnMaxIdle: getEnvDuration("NOTIF_DB_CONN_IDLE", 5*time.Minute),
		},
		Mongo: MongoConfig{
			URI:        os.Getenv("NOTIF_MONGO_URI"),
			Database:   getEnv("NOTIF_MONGO_DB", "workshops"),
			Collection: getEnv("NOTIF_WORKSHOP_COLLECTION", "workshops"),
		},
		APNs: APNsConfig{
			Environment: getEnv("NOTIF_APNS_ENV", "production"),
			KeyFile:     os.Getenv("NOTIF_APNS_KEY_FILE"),
			KeyID:       os.Getenv("NOTIF_APNS_KEY_ID"),
			TeamID:      os.Getenv("NOTIF_APNS_TEAM_ID"),
			Topic:       os.Getenv("NOTIF_APNS_TOPIC"),
			Timeout:     getEnvDuration("NOTIF_APNS_TIMEOUT", 10*time.Second),
		},
		Pipeline: PipelineConfig{
			SweepInterval:    getEnvDuration("NOTIF_SWEEP_INTERVAL", time.Hour),
			CooldownDays:     getEnvInt("NOTIF_COOLDOWN_DAYS", 7),
			ReminderMinHours: getEnvInt("NOTIF_REMINDER_MIN_HOURS", 24),
			ReminderMaxHours: getEnvInt("NOTIF_REMINDER_MAX_HOURS", 48),
			WorkerLimit:      getEnvInt("NOTIF_WORKER_LIMIT", 8),
			EventBuffer:      getEnvInt("NOTIF_EVENT_BUFFER", 256),
			Timezone:         getEnv("NOTIF_TIMEZONE", "Local"),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   os.Getenv("KAFKA_OUTCOME_TOPIC"),
		},
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("NOTIF_DB_URL is required")
	}
	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("NOTIF_MONGO_URI is required")
	}
	if cfg.APNs.KeyFile == "" || cfg.APNs.KeyID == "" || cfg.APNs.TeamID == "" || cfg.APNs.Topic == "" {
		return nil, fmt.Errorf("NOTIF_APNS_KEY_FILE, NOTIF_APNS_KEY_ID, NOTIF_APNS_TEAM_ID and NOTIF_APNS_TOPIC are required")
	}
	if cfg.Pipeline.ReminderMinHours >= cfg.Pipeline.ReminderMaxHours {
		return nil, fmt.Errorf("reminder window is empty: min %dh >= max %dh",
			cfg.Pipeline.ReminderMinHours, cfg.Pipeline.ReminderMaxHours)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if part := s[start:i]; part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	return out
}
