package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
)

// MealTemplate describes a recurring meal used to populate a week
type MealTemplate struct {
	Type      string `yaml:"type" validate:"required,oneof=Breakfast Lunch Dinner"`
	RRule     string `yaml:"rrule" validate:"required"`
	Name      string `yaml:"name,omitempty"`
	PrepTime  string `yaml:"prepTime" validate:"required"`
	ServeTime string `yaml:"serveTime" validate:"required"`
}

// ReminderConfig controls reminder dispatch
type ReminderConfig struct {
	PollInterval time.Duration `yaml:"pollInterval,omitempty"`
	// Expiry is how late a reminder may still be sent after its fire time
	Expiry    time.Duration `yaml:"expiry,omitempty"`
	BatchSize int64         `yaml:"batchSize,omitempty" validate:"omitempty,min=1"`
}

// SMSConfig points at the SMS gateway used for reminders
type SMSConfig struct {
	BaseURL string `yaml:"baseURL" validate:"required,url"`
	Sender  string `yaml:"sender,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Timezone      string         `yaml:"timezone" validate:"required"`
	MealTemplates []MealTemplate `yaml:"mealTemplates,omitempty" validate:"dive"`
	DefaultRules  model.RuleSet  `yaml:"defaultRules" validate:"-"`
	Reminders     ReminderConfig `yaml:"reminders,omitempty"`
	SMS           SMSConfig      `yaml:"sms"`
	WeekLockTTL   time.Duration  `yaml:"weekLockTTL,omitempty"`

	// Secrets come from the environment, never the yaml file
	DatabaseURL string `yaml:"-" validate:"required"`
	RedisURL    string `yaml:"-" validate:"required"`
	SMSAPIKey   string `yaml:"-"`
}

const (
	defaultPollInterval = 30 * time.Second
	defaultExpiry       = 30 * time.Minute
	defaultBatchSize    = 100
	defaultWeekLockTTL  = 2 * time.Minute
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads kitchen_config.<env>.yaml (falling back to kitchen_config.yaml)
// and reads secrets from the environment, after loading a .env file if present
func LoadWithEnv(env string) (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.SMSAPIKey = os.Getenv("SMS_API_KEY")
	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadRules reads and validates a standalone rule set yaml file
func LoadRules(path string) (*model.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules model.RuleSet
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}

	return &rules, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Reminders.PollInterval == 0 {
		cfg.Reminders.PollInterval = defaultPollInterval
	}
	if cfg.Reminders.Expiry == 0 {
		cfg.Reminders.Expiry = defaultExpiry
	}
	if cfg.Reminders.BatchSize == 0 {
		cfg.Reminders.BatchSize = defaultBatchSize
	}
	if cfg.WeekLockTTL == 0 {
		cfg.WeekLockTTL = defaultWeekLockTTL
	}
}

// Validate validates the configuration struct, meal template rrules and times,
// the timezone and the default rule set
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	for i, tmpl := range cfg.MealTemplates {
		if _, err := rrule.StrToRRule(tmpl.RRule); err != nil {
			return fmt.Errorf("invalid rrule in mealTemplates[%d]: %w", i, err)
		}
		if _, err := model.ParseClockTime(tmpl.PrepTime); err != nil {
			return fmt.Errorf("invalid prepTime in mealTemplates[%d]: %w", i, err)
		}
		if _, err := model.ParseClockTime(tmpl.ServeTime); err != nil {
			return fmt.Errorf("invalid serveTime in mealTemplates[%d]: %w", i, err)
		}
	}

	if err := cfg.DefaultRules.Validate(); err != nil {
		return fmt.Errorf("invalid defaultRules: %w", err)
	}

	return nil
}

// Location returns the configured timezone. The config has been validated, so
// a load failure falls back to UTC.
func (cfg *Config) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// findConfigFile searches the current directory and then the home directory for
// kitchen_config.<env>.yaml, then kitchen_config.yaml
func findConfigFile(env string) (string, error) {
	names := []string{"kitchen_config.yaml"}
	if env != "" {
		names = append([]string{fmt.Sprintf("kitchen_config.%s.yaml", env)}, names...)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, dir := range []string{".", homeDir} {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
