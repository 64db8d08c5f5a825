package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"raffle-spinner.klederson.com/internal/spin"
)

// Preferences are the user-editable settings persisted between runs.
type Preferences struct {
	Spinner    spin.Settings `yaml:"spinner"`
	ItemHeight float64       `yaml:"item_height,omitempty"`
	LogLevel   string        `yaml:"log_level,omitempty"`
	LogFile    string        `yaml:"log_file,omitempty"`
	DBDriver   string        `yaml:"db_driver,omitempty"`
	DBPath     string        `yaml:"db_path,omitempty"`
}

// Defaults returns the preferences used when no file exists.
func Defaults() Preferences {
	return Preferences{
		Spinner:    spin.DefaultSettings(),
		ItemHeight: DefaultItemHeight,
		LogLevel:   "info",
		DBDriver:   "sqlite",
		DBPath:     defaultDBPath(),
	}
}

// DefaultPath is where preferences live unless --config says otherwise.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "raffle-spinner.yaml"
	}
	return filepath.Join(dir, "raffle-spinner", "config.yaml")
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "raffle-history.db"
	}
	return filepath.Join(dir, "raffle-spinner", "history.db")
}

// Load reads preferences from path. A missing file yields Defaults; fields
// absent from the file keep their defaults.
func Load(path string) (Preferences, error) {
	p := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path, creating its directory.
func Save(path string, p Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays SPINNER_* environment variables, after loading a .env
// file from the working directory if one exists.
func (p *Preferences) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if v := os.Getenv("SPINNER_MIN_SPIN_DURATION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SPINNER_MIN_SPIN_DURATION %q: %w", v, err)
		}
		p.Spinner.MinSpinDuration = f
	}
	if v := os.Getenv("SPINNER_DECELERATION_RATE"); v != "" {
		r, err := spin.ParseDecelerationRate(v)
		if err != nil {
			return err
		}
		p.Spinner.DecelerationRate = r
	}
	if v := os.Getenv("SPINNER_ITEM_HEIGHT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SPINNER_ITEM_HEIGHT %q: %w", v, err)
		}
		p.ItemHeight = f
	}
	p.LogLevel = envOr("SPINNER_LOG_LEVEL", p.LogLevel)
	p.LogFile = envOr("SPINNER_LOG_FILE", p.LogFile)
	p.DBDriver = envOr("SPINNER_DB_DRIVER", p.DBDriver)
	p.DBPath = envOr("SPINNER_DB", p.DBPath)
	return nil
}

// Validate checks every field.
func (p Preferences) Validate() error {
	if err := p.Spinner.Validate(); err != nil {
		return err
	}
	if !(p.ItemHeight > 0) {
		return fmt.Errorf("item_height must be positive, got %v", p.ItemHeight)
	}
	if _, err := p.Level(); err != nil {
		return err
	}
	switch p.DBDriver {
	case "sqlite", "postgres", "":
	default:
		return fmt.Errorf("unsupported db_driver %q (want sqlite or postgres)", p.DBDriver)
	}
	return nil
}

// Level parses LogLevel. Empty means info.
func (p Preferences) Level() (zerolog.Level, error) {
	if strings.TrimSpace(p.LogLevel) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(p.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log_level %q: %w", p.LogLevel, err)
	}
	return lvl, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
