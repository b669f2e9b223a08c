package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	Server struct {
		Address        string   `yaml:"address"`
		APIKeys        []string `yaml:"api_keys"`
		RateLimitRPS   float64  `yaml:"rate_limit_rps"`
		RateLimitBurst int      `yaml:"rate_limit_burst"`
	} `yaml:"server"`

	Storage struct {
		Driver string `yaml:"driver"`
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		Redis RedisConfig `yaml:"redis"`
	} `yaml:"storage"`

	Backup BackupConfig `yaml:"backup"`

	Notifications struct {
		Telegram TelegramConfig `yaml:"telegram"`
		Kafka    KafkaConfig    `yaml:"kafka"`
	} `yaml:"notifications"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Logging struct {
		Level   string `yaml:"level"`
		Console bool   `yaml:"console"`
	} `yaml:"logging"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	IntervalHours int    `yaml:"interval_hours"`
	StoragePath   string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// Interval returns the time between backups, 24h by default.
func (c BackupConfig) Interval() time.Duration {
	if c.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.IntervalHours) * time.Hour
}

type TelegramConfig struct {
	BotToken          string  `yaml:"bot_token"`
	ChatIDs           []int64 `yaml:"chat_ids"`
	MessagesPerSecond float64 `yaml:"messages_per_second"`
}

// Enabled reports whether a token and at least one chat are configured.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && len(c.ChatIDs) > 0
}

type KafkaConfig struct {
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

// BrokerList splits the comma-separated broker string.
func (c KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.Brokers, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Load reads the YAML config at path, expanding ${ENV_VAR} placeholders.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes config bytes and applies defaults.
func Parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	// Unset ${VAR} placeholders expand to empty keys.
	keys := c.Server.APIKeys[:0]
	for _, k := range c.Server.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	c.Server.APIKeys = keys
	if c.Server.RateLimitBurst <= 0 && c.Server.RateLimitRPS > 0 {
		c.Server.RateLimitBurst = int(c.Server.RateLimitRPS) + 1
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = "data/bookingdesk.db"
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "bookingdesk"
	}
	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "data/backups"
	}
	if c.Notifications.Telegram.MessagesPerSecond <= 0 {
		c.Notifications.Telegram.MessagesPerSecond = 1
	}
	if c.Notifications.Kafka.Topic == "" {
		c.Notifications.Kafka.Topic = "booking.notifications"
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8090
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	case DriverRedis:
		if c.Storage.Redis.Address == "" {
			return fmt.Errorf("storage.redis.address is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Backup.Enabled && c.Storage.Driver != DriverSQLite {
		return fmt.Errorf("backup is only supported with the sqlite driver")
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("server.rate_limit_rps must not be negative")
	}
	return nil
}
