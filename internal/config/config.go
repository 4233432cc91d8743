// Package config loads the process configuration from a TOML file, after
// loading an optional .env file into the process environment.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Redis    RedisConfig    `toml:"redis"`
	Policy   PolicyConfig   `toml:"policy"`
	Payments PaymentsConfig `toml:"payments"`
	Notifier NotifierConfig `toml:"notifier"`
	Worker   WorkerConfig   `toml:"worker"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN builds the lib/pq connection string from the discrete fields above.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// PolicyConfig holds the business's default scheduling policy. Storage
// (internal/infra/storage/policy) is the system of record once running;
// cmd/seed upserts these values into the policy row, and the binaries
// read only settings_cache_ttl_seconds from here directly (for the
// catalog cache TTL).
type PolicyConfig struct {
	BusinessTimezone       string `toml:"business_timezone"`
	Currency               string `toml:"currency"`
	HoldTTLMinutes         int    `toml:"hold_ttl_minutes"`
	RescheduleLockHours    int    `toml:"reschedule_lock_hours"`
	CancelLockHours        int    `toml:"cancel_lock_hours"`
	LeadTimeMinutes        int    `toml:"lead_time_minutes"`
	FutureWindowDays       int    `toml:"future_window_days"`
	SlotGridMinutes        int    `toml:"slot_grid_minutes"`
	OnlineDiscountPercent  int    `toml:"online_discount_percent"`
	OnlineEnabled          bool   `toml:"online_enabled"`
	ReminderLeadMinutes    int    `toml:"reminder_lead_minutes"`
	SettingsCacheTTLSeconds int   `toml:"settings_cache_ttl_seconds"`
	MaxReschedules         int    `toml:"max_reschedules"`
}

type PaymentsConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
	APIKey  string `toml:"api_key"`
}

type NotifierConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type WorkerConfig struct {
	HoldExpirerIntervalSeconds     int `toml:"hold_expirer_interval_seconds"`
	ReminderDispatchIntervalSeconds int `toml:"reminder_dispatch_interval_seconds"`
	ReconcileIntervalSeconds       int `toml:"reconcile_interval_seconds"`
	BatchSize                      int `toml:"batch_size"`
}

// Load reads path as TOML into a Config. If a .env file is present in the
// working directory, its variables are loaded into the process
// environment first; a missing .env is not an error. TOML values are
// decoded as written, with no environment-variable expansion.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}
