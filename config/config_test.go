package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/delivery-fare/pkg/configparser"
)

func TestSampleConfigFile(t *testing.T) {
	data, err := os.ReadFile("../config.yaml")
	require.NoError(t, err)
	vars, err := configparser.FlattenYaml(data)
	require.NoError(t, err)
	t.Cleanup(func() {
		for k := range vars {
			os.Unsetenv(k)
		}
	})

	var cfg Config
	require.NoError(t, configparser.LoadAndParseYaml("../config.yaml", &cfg))

	assert.Equal(t, "KZT", cfg.Fare.Currency)
	assert.Equal(t, time.Minute, cfg.Fare.SurgeCacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Fare.ReloadEvery)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "3010", cfg.Services.PricingService)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.NotEmpty(t, cfg.Redis.GetAddr())
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "pg", Port: "5432", User: "u", Password: "p", Database: "fares"}
	assert.Equal(t, "postgres://u:p@pg:5432/fares?sslmode=disable", db.GetDSN())

	mq := RabbitMQConfig{Host: "mq", Port: "5672", User: "guest", Password: "guest"}
	assert.Equal(t, "amqp://guest:guest@mq:5672/", mq.GetDSN())
}
