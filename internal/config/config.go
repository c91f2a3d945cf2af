// ABOUTME: Configuration loader for the HRMS console
// ABOUTME: Layers defaults, a .env file, HRMS_* environment variables, and flags

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/markalston/hrms-console/internal/storage"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment keys
const (
	KeyAPIURL        = "HRMS_API_URL"
	KeyConfigDir     = "HRMS_CONFIG_DIR"
	KeyRedirectDelay = "HRMS_REDIRECT_DELAY"
	KeyNotifyTimeout = "HRMS_NOTIFY_TIMEOUT"
	KeyHTTPTimeout   = "HRMS_HTTP_TIMEOUT"
	KeyEphemeral     = "HRMS_EPHEMERAL"
	KeyLogLevel      = "LOG_LEVEL"
	KeyLogFormat     = "LOG_FORMAT"
)

// DefaultAPIURL is the local development backend
const DefaultAPIURL = "http://localhost:8080"

// flagKeys maps command-line flags to the keys they override
var flagKeys = map[string]string{
	"api-url":        KeyAPIURL,
	"config-dir":     KeyConfigDir,
	"redirect-delay": KeyRedirectDelay,
	"http-timeout":   KeyHTTPTimeout,
	"ephemeral":      KeyEphemeral,
	"log-level":      KeyLogLevel,
}

type Config struct {
	// Backend
	APIURL      string        `mapstructure:"HRMS_API_URL"`
	HTTPTimeout time.Duration `mapstructure:"HRMS_HTTP_TIMEOUT"`

	// Session
	ConfigDir     string        `mapstructure:"HRMS_CONFIG_DIR"`
	Ephemeral     bool          `mapstructure:"HRMS_EPHEMERAL"` // keep the session in memory only
	RedirectDelay time.Duration `mapstructure:"HRMS_REDIRECT_DELAY"`
	NotifyTimeout time.Duration `mapstructure:"HRMS_NOTIFY_TIMEOUT"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Load builds the configuration. envFile names an optional dotenv file whose
// values never override variables already set in the environment. flags may
// be nil; only flags the user changed take effect.
func Load(flags *pflag.FlagSet, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyHTTPTimeout, "30s")
	v.SetDefault(KeyConfigDir, storage.DefaultConfigDir())
	v.SetDefault(KeyEphemeral, false)
	v.SetDefault(KeyRedirectDelay, "2s")
	v.SetDefault(KeyNotifyTimeout, "3s")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.APIURL = strings.TrimRight(ensureScheme(strings.TrimSpace(cfg.APIURL)), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must be an http or https URL, got %q", KeyAPIURL, c.APIURL)
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{KeyHTTPTimeout, c.HTTPTimeout},
		{KeyRedirectDelay, c.RedirectDelay},
		{KeyNotifyTimeout, c.NotifyTimeout},
	} {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}

	if c.ConfigDir == "" && !c.Ephemeral {
		return fmt.Errorf("%s is required when the home directory is unknown", KeyConfigDir)
	}
	return nil
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(raw string) string {
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}
