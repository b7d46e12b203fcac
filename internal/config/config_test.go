package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("NOTIF_DB_URL", "postgres://localhost/notifier")
	t.Setenv("NOTIF_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("NOTIF_APNS_KEY_FILE", "/etc/apns/key.p8")
	t.Setenv("NOTIF_APNS_KEY_ID", "ABC123DEFG")
	t.Setenv("NOTIF_APNS_TEAM_ID", "TEAM123456")
	t.Setenv("NOTIF_APNS_TOPIC", "com.stagebeat.app")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "production", cfg.APNs.Environment)
	assert.Equal(t, time.Hour, cfg.Pipeline.SweepInterval)
	assert.Equal(t, 7, cfg.Pipeline.CooldownDays)
	assert.Equal(t, 24, cfg.Pipeline.ReminderMinHours)
	assert.Equal(t, 48, cfg.Pipeline.ReminderMaxHours)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("NOTIF_SWEEP_INTERVAL", "30m")
	t.Setenv("NOTIF_COOLDOWN_DAYS", "3")
	t.Setenv("KAFKA_BROKERS", "b1:9092,,b2:9092")
	t.Setenv("KAFKA_OUTCOME_TOPIC", "notification-outcomes")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Pipeline.SweepInterval)
	assert.Equal(t, 3, cfg.Pipeline.CooldownDays)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "notification-outcomes", cfg.Kafka.Topic)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("NOTIF_MONGO_URI", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIF_MONGO_URI")
}

func TestLoadConfig_EmptyReminderWindow(t *testing.T) {
	setRequired(t)
	t.Setenv("NOTIF_REMINDER_MIN_HOURS", "48")
	t.Setenv("NOTIF_REMINDER_MAX_HOURS", "24")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder window")
}
