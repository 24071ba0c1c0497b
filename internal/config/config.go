package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Host string
	Port string

	CityAPIURL      string
	CityAPIKey      string
	UpstreamTimeout time.Duration

	LogFormat string
	LogLevel  string

	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// Addr returns the listen address built from Host and Port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

var keys = []string{
	"host",
	"port",
	"city_api_url",
	"city_api_key",
	"upstream_timeout",
	"log_format",
	"log_level",
	"cors_allowed_origins",
	"shutdown_timeout",
}

// Load reads configuration from the environment and, when CONFIG_FILE is set,
// from that YAML file. Environment variables take precedence over the file.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("upstream_timeout", "10s")
	v.SetDefault("log_format", "json")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("shutdown_timeout", "30s")

	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return Config{}, fmt.Errorf("binding env for %s: %w", k, err)
		}
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	upstreamTimeout, err := time.ParseDuration(v.GetString("upstream_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing UPSTREAM_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(v.GetString("shutdown_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := Config{
		Host:               v.GetString("host"),
		Port:               v.GetString("port"),
		CityAPIURL:         v.GetString("city_api_url"),
		CityAPIKey:         v.GetString("city_api_key"),
		UpstreamTimeout:    upstreamTimeout,
		LogFormat:          strings.ToLower(v.GetString("log_format")),
		LogLevel:           v.GetString("log_level"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		ShutdownTimeout:    shutdownTimeout,
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.CityAPIURL == "" {
		errs = append(errs, errors.New("CITY_API_URL is required"))
	}
	if c.CityAPIKey == "" {
		errs = append(errs, errors.New("CITY_API_KEY is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}
	if c.UpstreamTimeout < 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must not be negative"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
