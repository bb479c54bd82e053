package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/recette/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, "payroll", cfg.Payroll.TablePrefix)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"versement", "vers.", "dépôt", "depot"}, cfg.Import.DepositKeywords)
	assert.Equal(t, "postgres://postgres:@localhost:5432/recette?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DB_NAME", "caisse")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Contains(t, cfg.ConnectionString(), "/caisse?")
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "unused")
	require.NoError(t, os.Unsetenv("AUTH_SECRET"))

	_, err := config.Load()
	assert.Error(t, err)
}
