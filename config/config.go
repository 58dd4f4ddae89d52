package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig              `mapstructure:"server"`
	Database     DatabaseConfig            `mapstructure:"database"`
	Redis        RedisConfig               `mapstructure:"redis"`
	Log          LogConfig                 `mapstructure:"log"`
	Fraud        FraudConfig               `mapstructure:"fraud"`
	Orchestrator OrchestratorConfig        `mapstructure:"orchestrator"`
	Providers    map[string]ProviderConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// FraudConfig holds the tunable rule set for the pre-submission risk screen.
// The shipped defaults are illustrative, not business law; operators are
// expected to confirm thresholds with domain stakeholders.
type FraudConfig struct {
	HighAmountThreshold   string         `mapstructure:"high_amount_threshold"`
	HighAmountWeight      int            `mapstructure:"high_amount_weight"`
	ForeignCurrencyWeight int            `mapstructure:"foreign_currency_weight"`
	UnusualTimeWeight     int            `mapstructure:"unusual_time_weight"`
	BusinessHoursStart    int            `mapstructure:"business_hours_start"` // hour of day, UTC
	BusinessHoursEnd      int            `mapstructure:"business_hours_end"`
	SignalWeights         map[string]int `mapstructure:"signal_weights"`
	HighThreshold         int            `mapstructure:"high_threshold"`
	MediumThreshold       int            `mapstructure:"medium_threshold"`
}

// OrchestratorConfig holds failover tuning.
type OrchestratorConfig struct {
	// RetryDelay is the bounded wait before the single retry on a transient
	// provider failure.
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// ProviderConfig describes one configured payment gateway. The registry is
// built from these blocks at startup and never mutated afterwards.
type ProviderConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Priority      int           `mapstructure:"priority"` // lower = tried first
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Currencies    []string      `mapstructure:"currencies"`
	Methods       []string      `mapstructure:"methods"`
	MinAmount     string        `mapstructure:"min_amount"`
	MaxAmount     string        `mapstructure:"max_amount"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: SPAY_.
// Nested keys use underscore: SPAY_DATABASE_HOST, SPAY_FRAUD_HIGH_THRESHOLD, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "scholarpay")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("fraud.high_amount_threshold", "1000")
	v.SetDefault("fraud.high_amount_weight", 30)
	v.SetDefault("fraud.foreign_currency_weight", 10)
	v.SetDefault("fraud.unusual_time_weight", 15)
	v.SetDefault("fraud.business_hours_start", 7)
	v.SetDefault("fraud.business_hours_end", 19)
	v.SetDefault("fraud.signal_weights", map[string]int{
		"vpn":          20,
		"proxy":        25,
		"geo_mismatch": 15,
	})
	v.SetDefault("fraud.high_threshold", 50)
	v.SetDefault("fraud.medium_threshold", 25)
	v.SetDefault("orchestrator.retry_delay", "2s")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: SPAY_DATABASE_HOST -> database.host
	v.SetEnvPrefix("SPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
