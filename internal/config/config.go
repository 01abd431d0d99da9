package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBackendURL = "http://localhost:8080/graphql"
	DefaultPort       = "8888"
)

type Config struct {
	BackendURL             string        `yaml:"backend_url" validate:"required,url"`
	Port                   string        `yaml:"port" validate:"required,numeric"`
	Environment            string        `yaml:"environment"`
	LogLevel               string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile                string        `yaml:"log_file"`
	RequestTimeout         time.Duration `yaml:"request_timeout" validate:"gt=0"`
	ShutdownTimeout        time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	CashDismissDelay       time.Duration `yaml:"cash_dismiss_delay" validate:"gt=0"`
	OnlineDismissDelay     time.Duration `yaml:"online_dismiss_delay" validate:"gt=0"`
	MaxConcurrentPurchases int           `yaml:"max_concurrent_purchases" validate:"gte=0"`

	// MetricsAddr, when set, makes the shop serve its checkout metrics there.
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`

	backendConfigured bool
}

func Default() *Config {
	return &Config{
		BackendURL:         DefaultBackendURL,
		Port:               DefaultPort,
		Environment:        "unknown",
		LogLevel:           "info",
		LogFile:            "storefront.log",
		RequestTimeout:     10 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		CashDismissDelay:   3 * time.Second,
		OnlineDismissDelay: 2 * time.Second,
	}
}

// Load reads defaults, then the optional YAML file at path, then environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		var fromFile Config
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.merge(&fromFile)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// BackendLabel is the backend URL as reported by the health endpoint.
func (c *Config) BackendLabel() string {
	if !c.backendConfigured {
		return "not configured"
	}
	return c.BackendURL
}

func (c *Config) merge(o *Config) {
	if o.BackendURL != "" {
		c.BackendURL = o.BackendURL
		c.backendConfigured = true
	}
	if o.Port != "" {
		c.Port = o.Port
	}
	if o.Environment != "" {
		c.Environment = o.Environment
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.RequestTimeout != 0 {
		c.RequestTimeout = o.RequestTimeout
	}
	if o.ShutdownTimeout != 0 {
		c.ShutdownTimeout = o.ShutdownTimeout
	}
	if o.CashDismissDelay != 0 {
		c.CashDismissDelay = o.CashDismissDelay
	}
	if o.OnlineDismissDelay != 0 {
		c.OnlineDismissDelay = o.OnlineDismissDelay
	}
	if o.MaxConcurrentPurchases != 0 {
		c.MaxConcurrentPurchases = o.MaxConcurrentPurchases
	}
	if o.MetricsAddr != "" {
		c.MetricsAddr = o.MetricsAddr
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BACKEND_GRAPHQL_URL"); v != "" {
		c.BackendURL = v
		c.backendConfigured = true
	}
	c.Port = getenv("PORT", c.Port)
	c.Environment = getenv("CONTEXT", c.Environment)
	c.LogLevel = getenv("STOREFRONT_LOG_LEVEL", c.LogLevel)
	c.LogFile = getenv("STOREFRONT_LOG_FILE", c.LogFile)
	c.MetricsAddr = getenv("STOREFRONT_METRICS_ADDR", c.MetricsAddr)

	var errs []error
	for key, dst := range map[string]*time.Duration{
		"STOREFRONT_REQUEST_TIMEOUT":  &c.RequestTimeout,
		"STOREFRONT_SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
		"STOREFRONT_CASH_DISMISS":     &c.CashDismissDelay,
		"STOREFRONT_ONLINE_DISMISS":   &c.OnlineDismissDelay,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			*dst = d
		}
	}
	if v := os.Getenv("STOREFRONT_MAX_CONCURRENT_PURCHASES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("STOREFRONT_MAX_CONCURRENT_PURCHASES: %w", err))
		} else {
			c.MaxConcurrentPurchases = n
		}
	}
	return errors.Join(errs...)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
