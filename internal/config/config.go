package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/codr1/Padelicious/internal/timeutil"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

// BookingConfig holds the court-day layout and the apartment booking policy.
type BookingConfig struct {
	OpenTime            string `yaml:"open_time"`
	CloseTime           string `yaml:"close_time"`
	SlotDurationMinutes int    `yaml:"slot_duration_minutes"`
	MaxSlotsPerBooking  int    `yaml:"max_slots_per_booking"`
	BookingWindowDays   int    `yaml:"booking_window_days"`
	// Upcoming guaranteed reservations an apartment may hold before new ones become provisional.
	FirstTierLimit int `yaml:"first_tier_limit"`
}

func (b BookingConfig) SlotDuration() time.Duration {
	return time.Duration(b.SlotDurationMinutes) * time.Minute
}

type JobsConfig struct {
	CompletionCron        string `yaml:"completion_cron"`
	OverridePurgeCron     string `yaml:"override_purge_cron"`
	OverrideRetentionDays int    `yaml:"override_retention_days"`
}

type RateLimitConfig struct {
	Enabled             bool          `yaml:"enabled"`
	BookingCooldown     time.Duration `yaml:"booking_cooldown"`
	BookingMaxPerHour   int           `yaml:"booking_max_per_hour"`
	BookingMaxIPPerHour int           `yaml:"booking_max_ip_per_hour"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		Timezone    string `yaml:"timezone"`
		// Two-letter region used when contact phones lack a country code.
		DefaultRegion string `yaml:"default_region"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Booking BookingConfig `yaml:"booking"`

	Jobs JobsConfig `yaml:"jobs"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Features struct {
		EnableScheduler bool `yaml:"enable_scheduler"`
		EnableDebug     bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Default returns the built-in settings. Load overlays the YAML file on top of them.
func Default() *Config {
	var cfg Config
	cfg.App.Name = "padelicious"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.Timezone = "Local"
	cfg.App.DefaultRegion = "ES"
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "data/padelicious.db"
	cfg.Booking = BookingConfig{
		OpenTime:            "08:00",
		CloseTime:           "22:00",
		SlotDurationMinutes: 30,
		MaxSlotsPerBooking:  3,
		BookingWindowDays:   timeutil.DefaultBookingWindowDays,
		FirstTierLimit:      1,
	}
	cfg.Jobs = JobsConfig{
		CompletionCron:        "*/10 * * * *",
		OverridePurgeCron:     "30 3 * * *",
		OverrideRetentionDays: 30,
	}
	cfg.RateLimit = RateLimitConfig{
		Enabled:             true,
		BookingCooldown:     5 * time.Second,
		BookingMaxPerHour:   20,
		BookingMaxIPPerHour: 60,
	}
	cfg.Features.EnableScheduler = true
	return &cfg
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if path := os.Getenv("DATABASE_FILENAME"); path != "" {
		cfg.Database.Filename = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	case "":
		return fmt.Errorf("database driver is required")
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if err := c.Booking.Validate(); err != nil {
		return err
	}

	for name, expr := range map[string]string{
		"completion_cron":     c.Jobs.CompletionCron,
		"override_purge_cron": c.Jobs.OverridePurgeCron,
	} {
		if _, err := cron.ParseStandard(expr); err != nil {
			return fmt.Errorf("jobs.%s: %w", name, err)
		}
	}
	if c.Jobs.OverrideRetentionDays < 0 {
		return fmt.Errorf("jobs.override_retention_days must be 0 or greater")
	}

	return nil
}

func (b BookingConfig) Validate() error {
	openMinutes, err := timeutil.ClockToMinutes(b.OpenTime)
	if err != nil {
		return fmt.Errorf("booking.open_time: %w", err)
	}
	closeMinutes, err := timeutil.ClockToMinutes(b.CloseTime)
	if err != nil {
		return fmt.Errorf("booking.close_time: %w", err)
	}
	if closeMinutes <= openMinutes {
		return fmt.Errorf("booking.close_time must be after booking.open_time")
	}
	if b.SlotDurationMinutes <= 0 {
		return fmt.Errorf("booking.slot_duration_minutes must be greater than 0")
	}
	if b.MaxSlotsPerBooking <= 0 {
		return fmt.Errorf("booking.max_slots_per_booking must be greater than 0")
	}
	if b.BookingWindowDays < 0 {
		return fmt.Errorf("booking.booking_window_days must be 0 or greater")
	}
	if b.FirstTierLimit < 0 {
		return fmt.Errorf("booking.first_tier_limit must be 0 or greater")
	}
	return nil
}

// Location resolves App.Timezone; "Local" and "" mean the process timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || c.App.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}
