package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 15, cfg.VoucherCutoffDay)
	assert.Equal(t, 30, cfg.AutoPostDay)
	assert.True(t, cfg.NewMemberFee.Equal(decimal.NewFromInt(1000)))
	assert.True(t, cfg.RecurringFee.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, time.Hour, cfg.SchedulerInterval)
	assert.Equal(t, "10-M", cfg.CronRateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("VOUCHER_CUTOFF_DAY", "10")
	t.Setenv("RECURRING_FEE", "250.50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SCHEDULER_INTERVAL", "15m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.VoucherCutoffDay)
	assert.Equal(t, "250.5", cfg.RecurringFee.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.SchedulerInterval)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "sqlite"}},
		{name: "postgres without url", env: map[string]string{"STORE_DRIVER": "postgres", "PGSQL_URL": ""}},
		{name: "cutoff out of range", env: map[string]string{"STORE_DRIVER": "memory", "VOUCHER_CUTOFF_DAY": "40"}},
		{name: "negative fee", env: map[string]string{"STORE_DRIVER": "memory", "NEW_MEMBER_FEE": "-1"}},
		{name: "fee not a number", env: map[string]string{"STORE_DRIVER": "memory", "RECURRING_FEE": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
