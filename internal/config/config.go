// Package config loads application configuration from a YAML file with
// environment variable overrides (prefix APP_, dots become underscores).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"fieldops/internal/core/types"
	"fieldops/internal/domain/tariffs"
)

type Config struct {
	App struct {
		Name string `mapstructure:"name"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`

	HTTP struct {
		Host            string        `mapstructure:"host"`
		Port            int           `mapstructure:"port"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN           string        `mapstructure:"dsn"`
		MaxConns      int32         `mapstructure:"max_conns"`
		MinConns      int32         `mapstructure:"min_conns"`
		MaxConnIdle   time.Duration `mapstructure:"max_conn_idle"`
		MigrationsDir string        `mapstructure:"migrations_dir"`
		AutoMigrate   bool          `mapstructure:"auto_migrate"`
	} `mapstructure:"postgres"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
		Issuer    string        `mapstructure:"issuer"`
	} `mapstructure:"auth"`

	Billing struct {
		// Tariffs maps category names to their standard rates,
		// decimal strings to avoid float drift.
		Tariffs map[string]TariffRate `mapstructure:"tariffs"`
	} `mapstructure:"billing"`

	Notify struct {
		Enabled  bool          `mapstructure:"enabled"`
		Host     string        `mapstructure:"host"`
		Port     int           `mapstructure:"port"`
		Username string        `mapstructure:"username"`
		Password string        `mapstructure:"password"`
		From     string        `mapstructure:"from"`
		DedupTTL time.Duration `mapstructure:"dedup_ttl"`
	} `mapstructure:"notify"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

// TariffRate is one configured tariff entry.
type TariffRate struct {
	HourlyRate string `mapstructure:"hourly_rate"`
	CallRate   string `mapstructure:"call_rate"`
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fieldops")
	v.SetDefault("app.env", "development")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	// Empty defaults make the keys visible to AutomaticEnv, so
	// APP_POSTGRES_DSN and APP_AUTH_JWT_SECRET work without a file.
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("postgres.max_conns", 25)
	v.SetDefault("postgres.min_conns", 5)
	v.SetDefault("postgres.max_conn_idle", 30*time.Minute)
	v.SetDefault("postgres.migrations_dir", "migrations")
	v.SetDefault("postgres.auto_migrate", true)

	v.SetDefault("auth.token_ttl", 8*time.Hour)
	v.SetDefault("auth.issuer", "fieldops")

	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.port", 587)
	v.SetDefault("notify.dedup_ttl", 45*24*time.Hour)

	v.SetDefault("metrics.enabled", true)
}

func (c *Config) validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if _, err := c.TariffTable(); err != nil {
		return err
	}
	return nil
}

// TariffTable builds the billing tariff table from configuration,
// starting from the standard defaults and overriding per category.
func (c *Config) TariffTable() (tariffs.Table, error) {
	table := tariffs.Default()
	for name, entry := range c.Billing.Tariffs {
		category := tariffs.Category(name)
		rate := table.For(category)
		if entry.HourlyRate != "" {
			hourly, err := types.NewMoneyFromString(entry.HourlyRate)
			if err != nil {
				return nil, fmt.Errorf("tariff %s: invalid hourly_rate %q: %w", name, entry.HourlyRate, err)
			}
			rate.HourlyRate = hourly
		}
		if entry.CallRate != "" {
			call, err := types.NewMoneyFromString(entry.CallRate)
			if err != nil {
				return nil, fmt.Errorf("tariff %s: invalid call_rate %q: %w", name, entry.CallRate, err)
			}
			rate.CallRate = call
		}
		table[category] = rate
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
