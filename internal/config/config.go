package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level bankd configuration, loaded from bankd.yaml and
// overridable through BANKD_-prefixed environment variables.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Mail     MailConfig     `mapstructure:"mail"`
	Reports  ReportsConfig  `mapstructure:"reports"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" or "sqlite3"
	DSN    string `mapstructure:"dsn"`
}

type MonitorConfig struct {
	IntervalSeconds     int `mapstructure:"interval_seconds"`
	StartupDelaySeconds int `mapstructure:"startup_delay_seconds"`
}

// Interval is the fixed delay between the end of one scan and the start of
// the next.
func (m MonitorConfig) Interval() time.Duration {
	return time.Duration(m.IntervalSeconds) * time.Second
}

func (m MonitorConfig) StartupDelay() time.Duration {
	return time.Duration(m.StartupDelaySeconds) * time.Second
}

type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type ReportsConfig struct {
	Dir string `mapstructure:"dir"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Load reads configuration from the given file (optional; the working
// directory and /etc/bankd are searched when empty) and the environment.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BANKD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnvKeys(v); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/bankd/")
		v.SetConfigName("bankd")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		// Running on defaults plus env vars is fine; a file that exists
		// but cannot be read or parsed is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindEnvKeys binds every config key to its BANKD_ variable by name.
// Unmarshal only decodes keys viper already knows from a default or the
// config file; AutomaticEnv alone cannot supply a key that has neither,
// such as auth.jwt_secret in an env-only deployment.
func bindEnvKeys(v *viper.Viper) error {
	keys := []string{
		"database.driver", "database.dsn",
		"monitor.interval_seconds", "monitor.startup_delay_seconds",
		"mail.enabled", "mail.host", "mail.port",
		"mail.username", "mail.password", "mail.from",
		"reports.dir", "http.port",
		"auth.jwt_secret",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "bankd.db")
	v.SetDefault("monitor.interval_seconds", 60)
	v.SetDefault("monitor.startup_delay_seconds", 5)
	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)
	v.SetDefault("reports.dir", "bank_reports")
	v.SetDefault("http.port", 8080)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Monitor.IntervalSeconds <= 0 {
		return fmt.Errorf("monitor.interval_seconds must be positive")
	}
	if c.Mail.Enabled && c.Mail.Host == "" {
		return fmt.Errorf("mail.host is required when mail is enabled")
	}
	return nil
}
