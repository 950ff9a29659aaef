// Package config loads cpatch settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables. Each overrides the matching config file key.
const (
	EnvConfig          = "CPATCH_CONFIG"
	EnvEndpoint        = "CPATCH_ENDPOINT"
	EnvProfilesDir     = "CPATCH_PROFILES_DIR"
	EnvLanguage        = "CPATCH_LANGUAGE"
	EnvLogLevel        = "CPATCH_LOG_LEVEL"
	EnvLogFormat       = "CPATCH_LOG_FORMAT"
	EnvMetricsTextfile = "CPATCH_METRICS_TEXTFILE"
	EnvStopTimeout     = "CPATCH_STOP_TIMEOUT_SECONDS"
	EnvTempDir         = "CPATCH_TEMP_DIR"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "cpatch.yaml"

// Config holds process-wide settings. Per-request parameters live in
// patch.ExecutionRequest, not here.
type Config struct {
	// Endpoint is used when a request names none; empty means the local engine.
	Endpoint    string `yaml:"endpoint"`
	ProfilesDir string `yaml:"profiles_dir"`
	Language    string `yaml:"language"`
	Log         Log    `yaml:"log"`
	// StopTimeoutSeconds is the grace period for stopping containers; 0 leaves it to the daemon.
	StopTimeoutSeconds int    `yaml:"stop_timeout_seconds" validate:"gte=0"`
	MetricsTextfile    string `yaml:"metrics_textfile"`
	TempDir            string `yaml:"temp_dir"`
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=auto text json"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		ProfilesDir: defaultProfilesDir(),
		Language:    "en",
		Log:         Log{Level: "info", Format: "auto"},
	}
}

// profiles live next to the executable unless configured otherwise.
func defaultProfilesDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "profiles"
	}
	return filepath.Join(filepath.Dir(exe), "profiles")
}

// Load merges defaults, the YAML file at path and the environment, in that
// order. An empty path falls back to $CPATCH_CONFIG, then DefaultFile; a
// missing default file is not an error, a missing explicit one is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		if p := os.Getenv(EnvConfig); p != "" {
			path, explicit = p, true
		} else {
			path = DefaultFile
		}
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set(&cfg.Endpoint, EnvEndpoint)
	set(&cfg.ProfilesDir, EnvProfilesDir)
	set(&cfg.Language, EnvLanguage)
	set(&cfg.Log.Level, EnvLogLevel)
	set(&cfg.Log.Format, EnvLogFormat)
	set(&cfg.MetricsTextfile, EnvMetricsTextfile)
	set(&cfg.TempDir, EnvTempDir)
	if v := os.Getenv(EnvStopTimeout); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStopTimeout, err)
		}
		cfg.StopTimeoutSeconds = n
	}
	return nil
}

var validate = validator.New()

// Validate checks enumerated and numeric settings.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: invalid %s %q", fe.Namespace(), fmt.Sprint(fe.Value()))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
