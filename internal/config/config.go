package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultFallback = "0.00"
	DefaultLogLevel = "error"
	DefaultBaseURL  = "https://pro-api.coinmarketcap.com"

	// DefaultFile is picked up from the working directory when no path is given.
	DefaultFile = "cryptobar.json"
)

var fallbackPattern = regexp.MustCompile(`^-?\d+\.\d{2}$`)

type Config struct {
	APIKey            string `json:"api_key"`
	BaseURL           string `json:"base_url"`
	UserAgent         string `json:"user_agent"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
	// Fallback is printed instead of a price on any failure.
	Fallback string `json:"fallback"`
	LogLevel string `json:"log_level"`
	// CurrencyGlyphs maps currency codes to display symbols. Output does not use it yet.
	CurrencyGlyphs map[string]string `json:"currency_glyphs"`

	// DotenvErr is set when the implicit ".env" in the working directory
	// could not be parsed and was skipped.
	DotenvErr error `json:"-"`
}

func Default() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		UserAgent:         "cryptobar/1.0",
		RequestTimeoutSec: 10,
		Fallback:          DefaultFallback,
		LogLevel:          DefaultLogLevel,
		CurrencyGlyphs:    map[string]string{"EUR": "€", "USD": "$"},
	}
}

// RequestTimeout is the bound for the whole quote lookup; zero means none.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// Load reads JSON config from path. If path is empty and DefaultFile does not
// exist, it starts from defaults. Environment variables override select fields;
// a dotenv file (CRYPTOBAR_ENV_FILE, default ".env") fills in those left unset.
// Only a dotenv file named by CRYPTOBAR_ENV_FILE must parse; an unparseable
// implicit ".env" is skipped and reported in DotenvErr.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	envFile, explicit := os.Getenv("CRYPTOBAR_ENV_FILE"), true
	if envFile == "" {
		envFile, explicit = ".env", false
	}
	dotenv, err := readDotenv(envFile)
	if err != nil {
		if explicit {
			return cfg, err
		}
		cfg.DotenvErr = err
		dotenv = map[string]string{}
	}
	applyEnv(&cfg, lookup(dotenv))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values that would break the one-line numeric output or the request.
func (c Config) Validate() error {
	if !fallbackPattern.MatchString(c.Fallback) {
		return fmt.Errorf("fallback %q is not a two-decimal number", c.Fallback)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.RequestTimeoutSec < 0 {
		return fmt.Errorf("request_timeout_sec must be >= 0, got %d", c.RequestTimeoutSec)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url %q must be http or https", c.BaseURL)
	}
	return nil
}

// readDotenv returns the variables of a dotenv file; a missing file yields none.
func readDotenv(name string) (map[string]string, error) {
	vars, err := godotenv.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return vars, nil
}

// lookup prefers the process environment over the dotenv file.
func lookup(dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("CMC_PRO_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := getenv("CMC_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := getenv("CRYPTOBAR_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		if x, err := strconv.Atoi(v); err == nil && x >= 0 {
			cfg.RequestTimeoutSec = x
		}
	}
	if v := getenv("CRYPTOBAR_FALLBACK"); v != "" {
		cfg.Fallback = v
	}
	if v := getenv("CRYPTOBAR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
