// Package config loads the application configuration from a yaml file with
// STUDYCHAIN_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STUDYCHAIN_JWT_SECRET.
const EnvPrefix = "STUDYCHAIN"

// Config is the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// DatabaseConfig locates the credential store
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LedgerConfig locates the gateway node, the academy contract and the wallet
// holding each user's X.509 identity.
type LedgerConfig struct {
	GatewayURL string        `mapstructure:"gateway_url"`
	Channel    string        `mapstructure:"channel"`
	Contract   string        `mapstructure:"contract"`
	WalletPath string        `mapstructure:"wallet_path"`
	CACertPath string        `mapstructure:"ca_cert_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

var defaults = map[string]any{
	"server.port":             8080,
	"server.read_timeout":     15 * time.Second,
	"server.write_timeout":    60 * time.Second,
	"server.shutdown_timeout": 30 * time.Second,

	"database.host":     "localhost",
	"database.port":     5432,
	"database.user":     "postgres",
	"database.password": "",
	"database.dbname":   "studychain",
	"database.sslmode":  "disable",

	"jwt.secret":     "",
	"jwt.expiration": 24 * time.Hour,

	"ledger.gateway_url":  "",
	"ledger.channel":      "certificatechannel",
	"ledger.contract":     "academy",
	"ledger.wallet_path":  "wallet",
	"ledger.ca_cert_path": "",
	"ledger.timeout":      30 * time.Second,

	"log.level":  "info",
	"log.format": "json",
}

// Load reads filename, if given, applies environment overrides and validates
// the result.
func Load(filename string) (*Config, error) {
	cfg, err := Read(filename)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for tools that only need part of the
// configuration.
func Read(filename string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithMessagef(err, "error when reading config file %s", filename)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Ledger.GatewayURL == "" {
		return errors.New("ledger.gateway_url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("server.port %d is out of range", c.Server.Port)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}
