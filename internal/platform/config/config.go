package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	StoreDriver    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string
	JWTSecret      string
	JWTIssuer      string

	// External scheduler
	CronAPIKeyHash string
	CronRateLimit  string

	CORSAllowedOrigins []string

	// Payroll policy
	VoucherCutoffDay int
	NewMemberFee     decimal.Decimal
	RecurringFee     decimal.Decimal
	AutoPostDay      int

	// In-process auto-post job
	SchedulerEnabled  bool
	SchedulerInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "coop-payroll-app")
	viper.SetDefault("CRON_API_KEY_HASH", "")
	viper.SetDefault("CRON_RATE_LIMIT", "10-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("VOUCHER_CUTOFF_DAY", 15)
	viper.SetDefault("NEW_MEMBER_FEE", "1000")
	viper.SetDefault("RECURRING_FEE", "200")
	viper.SetDefault("AUTO_POST_DAY", 30)
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("SCHEDULER_INTERVAL", "1h")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.StoreDriver = strings.ToLower(viper.GetString("STORE_DRIVER"))
	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want %s or %s", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.StoreDriver == StoreDriverPostgres {
		return nil, fmt.Errorf("PGSQL_URL must be set when STORE_DRIVER is %s", StoreDriverPostgres)
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.CronAPIKeyHash = viper.GetString("CRON_API_KEY_HASH")
	if cfg.CronAPIKeyHash == "" {
		log.Println("Warning: CRON_API_KEY_HASH not set. The external auto-post endpoint will reject every call.")
	}
	cfg.CronRateLimit = viper.GetString("CRON_RATE_LIMIT")

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.VoucherCutoffDay = viper.GetInt("VOUCHER_CUTOFF_DAY")
	if cfg.VoucherCutoffDay < 1 || cfg.VoucherCutoffDay > 31 {
		return nil, fmt.Errorf("VOUCHER_CUTOFF_DAY must be between 1 and 31, got %d", cfg.VoucherCutoffDay)
	}
	cfg.AutoPostDay = viper.GetInt("AUTO_POST_DAY")
	if cfg.AutoPostDay < 1 || cfg.AutoPostDay > 31 {
		return nil, fmt.Errorf("AUTO_POST_DAY must be between 1 and 31, got %d", cfg.AutoPostDay)
	}

	var err error
	if cfg.NewMemberFee, err = parseFee("NEW_MEMBER_FEE"); err != nil {
		return nil, err
	}
	if cfg.RecurringFee, err = parseFee("RECURRING_FEE"); err != nil {
		return nil, err
	}

	cfg.SchedulerEnabled = viper.GetBool("SCHEDULER_ENABLED")
	intervalStr := viper.GetString("SCHEDULER_INTERVAL")
	cfg.SchedulerInterval, err = time.ParseDuration(intervalStr)
	if err != nil || cfg.SchedulerInterval <= 0 {
		cfg.SchedulerInterval = time.Hour
		log.Printf("Warning: Invalid value for SCHEDULER_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, cfg.SchedulerInterval)
	}

	return cfg, nil
}

func parseFee(key string) (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(viper.GetString(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s cannot be negative", key)
	}
	return fee, nil
}
