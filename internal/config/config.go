package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/coupon-distributor/internal/denomination"
	"github.com/eugenenazirov/coupon-distributor/internal/distribution"
	"github.com/eugenenazirov/coupon-distributor/internal/logging"
)

const (
	defaultPort            = "8080"
	defaultEnvFile         = ".env"
	defaultLogLevel        = "info"
	defaultMaxCoupons      = 500
	defaultMaxAlternatives = 5
	defaultRateLimitRPS    = 25.0
	defaultRateLimitBurst  = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables (.env included) > Defaults
type Config struct {
	Port                 string        `yaml:"port"`
	Denominations        []int         `yaml:"denominations"`
	MaxCoupons           int           `yaml:"max_coupons"`
	MaxAlternatives      int           `yaml:"max_alternatives"`
	MaxRounds            int           `yaml:"max_rounds"`
	MaxAttempts          int           `yaml:"max_attempts"`
	Seed                 uint64        `yaml:"seed"`
	LogLevel             string        `yaml:"log_level"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	IdleTimeout          time.Duration `yaml:"idle_timeout"`
	EnableRequestLogging bool          `yaml:"enable_request_logging"`
	RateLimitRPS         float64       `yaml:"-"`
	RateLimitBurst       int           `yaml:"-"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	Denominations        []int         `yaml:"denominations"`
	MaxCoupons           int           `yaml:"max_coupons"`
	MaxAlternatives      *int          `yaml:"max_alternatives"`
	MaxRounds            int           `yaml:"max_rounds"`
	MaxAttempts          int           `yaml:"max_attempts"`
	Seed                 uint64        `yaml:"seed"`
	LogLevel             string        `yaml:"log_level"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile       string
	EnvFile          string
	Port             *string
	DenominationsStr *string
	MaxCoupons       *int
	MaxAlternatives  *int
	Seed             *uint64
	LogLevel         *string
	RateLimitRPS     *float64
	RateLimitBurst   *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Populate the environment from a dotenv file; real env vars win.
	if err := loadEnvFile(overrides); err != nil {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		Denominations:        denomination.DefaultValues(),
		MaxCoupons:           defaultMaxCoupons,
		MaxAlternatives:      defaultMaxAlternatives,
		MaxRounds:            distribution.DefaultMaxRounds,
		MaxAttempts:          distribution.DefaultMaxAttempts,
		LogLevel:             defaultLogLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadEnvFile loads an explicitly requested dotenv file, or ./.env when present.
func loadEnvFile(overrides *CLIOverrides) error {
	if overrides != nil && overrides.EnvFile != "" {
		return godotenv.Load(overrides.EnvFile)
	}
	err := godotenv.Load(defaultEnvFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if len(yamlCfg.Denominations) > 0 {
		cfg.Denominations = yamlCfg.Denominations
	}

	if yamlCfg.MaxCoupons > 0 {
		cfg.MaxCoupons = yamlCfg.MaxCoupons
	}
	if yamlCfg.MaxAlternatives != nil {
		cfg.MaxAlternatives = *yamlCfg.MaxAlternatives
	}
	if yamlCfg.MaxRounds > 0 {
		cfg.MaxRounds = yamlCfg.MaxRounds
	}
	if yamlCfg.MaxAttempts > 0 {
		cfg.MaxAttempts = yamlCfg.MaxAttempts
	}
	if yamlCfg.Seed != 0 {
		cfg.Seed = yamlCfg.Seed
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if d, ok := parseDuration(yamlCfg.ShutdownGracePeriod); ok {
		cfg.ShutdownGracePeriod = d
	}
	if d, ok := parseDuration(yamlCfg.ReadHeaderTimeout); ok {
		cfg.ReadHeaderTimeout = d
	}
	if d, ok := parseDuration(yamlCfg.WriteTimeout); ok {
		cfg.WriteTimeout = d
	}
	if d, ok := parseDuration(yamlCfg.IdleTimeout); ok {
		cfg.IdleTimeout = d
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := env("PORT"); port != "" {
		cfg.Port = port
	}

	if raw := env("DENOMINATIONS"); raw != "" {
		values, err := parseDenominations(raw)
		if err == nil {
			cfg.Denominations = values
		}
	}

	if v, ok := envInt("MAX_COUPONS"); ok && v > 0 {
		cfg.MaxCoupons = v
	}
	if v, ok := envInt("MAX_ALTERNATIVES"); ok && v >= 0 {
		cfg.MaxAlternatives = v
	}
	if v, ok := envInt("MAX_ROUNDS"); ok && v > 0 {
		cfg.MaxRounds = v
	}
	if v, ok := envInt("MAX_ATTEMPTS"); ok && v > 0 {
		cfg.MaxAttempts = v
	}

	if seed := env("SEED"); seed != "" {
		if value, err := strconv.ParseUint(seed, 10, 64); err == nil {
			cfg.Seed = value
		}
	}

	if level := env("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if rps := env("RATE_LIMIT_RPS"); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if v, ok := envInt("RATE_LIMIT_BURST"); ok && v >= 0 {
		cfg.RateLimitBurst = v
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.DenominationsStr != nil && *overrides.DenominationsStr != "" {
		values, err := parseDenominations(*overrides.DenominationsStr)
		if err != nil {
			return fmt.Errorf("parse denominations: %w", err)
		}
		cfg.Denominations = values
	}

	if overrides.MaxCoupons != nil && *overrides.MaxCoupons > 0 {
		cfg.MaxCoupons = *overrides.MaxCoupons
	}
	if overrides.MaxAlternatives != nil && *overrides.MaxAlternatives >= 0 {
		cfg.MaxAlternatives = *overrides.MaxAlternatives
	}
	if overrides.Seed != nil {
		cfg.Seed = *overrides.Seed
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if _, err := denomination.New(cfg.Denominations); err != nil {
		return fmt.Errorf("denominations: %w", err)
	}
	if cfg.MaxCoupons <= 0 {
		return fmt.Errorf("max coupons must be positive")
	}
	if cfg.MaxAlternatives < 0 {
		return fmt.Errorf("max alternatives must be >= 0")
	}
	if cfg.MaxRounds <= 0 || cfg.MaxAttempts <= 0 {
		return fmt.Errorf("max rounds and max attempts must be positive")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

// parseDenominations parses a comma-separated string of face values into a slice of integers.
// It validates that all values are positive integers.
func parseDenominations(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", part)
		}
		if value <= 0 {
			return nil, fmt.Errorf("denomination must be positive, got %d", value)
		}
		values = append(values, value)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no denominations provided")
	}
	return values, nil
}

func parseDuration(raw string) (time.Duration, bool) {
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return d, true
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envInt(key string) (int, bool) {
	raw := env(key)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
