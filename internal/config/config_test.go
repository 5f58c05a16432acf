package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DB_DRIVER", "TOKEN_TTL_MINUTES", "WEBHOOK_SECRET", "KAFKA_BROKERS", "KAFKA_TOPIC"} {
		t.Setenv(k, "")
	}
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := LoadConfig()
	assert.Equal(t, "8000", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 100, cfg.TokenTTLMinutes)
	assert.Equal(t, "s3cret", cfg.WebhookSecret)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "payment_completed", cfg.KafkaTopic)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("TOKEN_TTL_MINUTES", "15")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("WEBHOOK_SECRET", "hook")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")

	cfg := LoadConfig()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15, cfg.TokenTTLMinutes)
	assert.Equal(t, "hook", cfg.WebhookSecret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "pay"}
	assert.Equal(t, "u:p@tcp(h:3306)/pay?parseTime=true", cfg.DSN())

	cfg.DBDriver = "postgres"
	cfg.DBPort = "5432"
	assert.Equal(t, "host=h user=u password=p dbname=pay port=5432 sslmode=disable", cfg.DSN())
}
