package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	LockMemory = "memory"
	LockRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Planning PlanningConfig `mapstructure:"planning"`
	Store    StoreConfig    `mapstructure:"store"`
	Lock     LockConfig     `mapstructure:"lock"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type PlanningConfig struct {
	BucketDays          int    `mapstructure:"bucket_days"`
	Workers             int    `mapstructure:"workers"`
	ForecastConsumption string `mapstructure:"forecast_consumption"`
	DefaultHorizonDays  int    `mapstructure:"default_horizon_days"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LockConfig struct {
	Driver    string        `mapstructure:"driver"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("planning.bucket_days", 1)
	v.SetDefault("planning.workers", 4)
	v.SetDefault("planning.forecast_consumption", "max")
	v.SetDefault("planning.default_horizon_days", 90)
	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("lock.driver", LockMemory)
	v.SetDefault("lock.redis_addr", "localhost:6379")
	v.SetDefault("lock.ttl", 15*time.Minute)
	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "mrp")
}

// Load reads configuration from an optional file, .env and MRP_* environment
// variables, in increasing order of precedence. An empty path searches for
// mrp.yaml in the working directory and /etc/mrp.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mrp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/mrp")
	}

	v.SetEnvPrefix("MRP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the run cannot work with
func (c Config) Validate() error {
	if c.Planning.BucketDays < 1 {
		return fmt.Errorf("planning.bucket_days must be positive, got %d", c.Planning.BucketDays)
	}
	if c.Planning.Workers < 1 {
		return fmt.Errorf("planning.workers must be positive, got %d", c.Planning.Workers)
	}
	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite, StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %s", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	switch c.Lock.Driver {
	case LockMemory, LockRedis:
	default:
		return fmt.Errorf("unknown lock.driver %q", c.Lock.Driver)
	}
	return nil
}
