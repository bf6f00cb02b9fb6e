package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-ledger/config"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse(nil, env(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, config.StoreMemory, cfg.Store)
	assert.Equal(t, ":memory:", cfg.SQLiteDSN)
	assert.Equal(t, 20, cfg.Entitlement)
	assert.False(t, cfg.RestoreOnCancel)
	assert.False(t, cfg.NoSeed)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "leave-events", cfg.KafkaTopic)
	assert.Equal(t, 2*time.Second, cfg.KafkaTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.CORSOrigins)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestParse_EnvironmentAndFlags(t *testing.T) {
	// GIVEN: environment settings
	vars := map[string]string{
		"LEAVE_PORT":              "9090",
		"LEAVE_STORE":             "sqlite",
		"LEAVE_KAFKA_BROKERS":     "kafka-1:9092, kafka-2:9092",
		"LEAVE_RESTORE_ON_CANCEL": "true",
		"LEAVE_KAFKA_TIMEOUT":     "750ms",
	}

	// WHEN: a flag overrides one of them
	cfg, err := config.Parse([]string{"-port", "7000", "-log-format", "JSON"}, env(vars))

	// THEN: the flag wins, the rest comes from the environment
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, config.StoreSQLite, cfg.Store)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.RestoreOnCancel)
	assert.Equal(t, 750*time.Millisecond, cfg.KafkaTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown store", []string{"-store", "postgres"}},
		{"zero entitlement", []string{"-entitlement", "0"}},
		{"bad port", []string{"-port", "70000"}},
		{"bad log format", []string{"-log-format", "xml"}},
		{"zero kafka timeout", []string{"-kafka-timeout", "0s"}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(tt.args, env(nil))
			assert.Error(t, err)
		})
	}
}

func TestParse_IgnoresMalformedEnv(t *testing.T) {
	cfg, err := config.Parse(nil, env(map[string]string{"LEAVE_PORT": "eighty", "LEAVE_NO_SEED": "maybe"}))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.NoSeed)
}
