// Package config loads storefront settings from an optional file and
// SHOPCART_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

const EnvPrefix = "SHOPCART"

type Config struct {
	Database Database `mapstructure:"database"`
	Store    Store    `mapstructure:"store"`
	Remote   Remote   `mapstructure:"remote"`
	Log      Log      `mapstructure:"log"`
}

type Database struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type Store struct {
	Currency    string `mapstructure:"currency"`
	DeliveryFee string `mapstructure:"delivery_fee"`
}

type Remote struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	BreakerFailures    uint32        `mapstructure:"breaker_failures"`
	BreakerOpenTimeout time.Duration `mapstructure:"breaker_open_timeout"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("store.currency", "USD")
	v.SetDefault("store.delivery_fee", "4.99")
	v.SetDefault("remote.timeout", 5*time.Second)
	v.SetDefault("remote.breaker_failures", 5)
	v.SetDefault("remote.breaker_open_timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
}

// Load reads path (if not empty) and overlays environment variables such as
// SHOPCART_DATABASE_URL.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("v.ReadInConfig: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("v.Unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Database.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("database.max_conns is negative"))
	}
	if _, err := c.Currency(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.DeliveryFee(); err != nil {
		errs = append(errs, err)
	}
	if c.Remote.Timeout < 0 {
		errs = append(errs, fmt.Errorf("remote.timeout is negative"))
	}
	if c.Remote.BreakerFailures > 0 && c.Remote.BreakerOpenTimeout <= 0 {
		errs = append(errs, fmt.Errorf("remote.breaker_open_timeout must be positive"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c Config) Currency() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Store.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("store.currency[%s] is not valid: %w", c.Store.Currency, err)
	}
	return unit, nil
}

func (c Config) DeliveryFee() (domain.Money, error) {
	unit, err := c.Currency()
	if err != nil {
		return domain.Money{}, err
	}

	amount, err := decimal.NewFromString(c.Store.DeliveryFee)
	if err != nil {
		return domain.Money{}, fmt.Errorf("store.delivery_fee[%s] is not valid: %w", c.Store.DeliveryFee, err)
	}
	if amount.IsNegative() {
		return domain.Money{}, fmt.Errorf("store.delivery_fee is negative")
	}

	return domain.NewMoney(amount, unit), nil
}

func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level[%s] is not valid: %w", c.Log.Level, err)
	}
	return level, nil
}
