package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// StoreBackend selects where rules live: "memory", "bolt" or "sqlite".
	StoreBackend string `koanf:"store_backend" validate:"required,oneof=memory bolt sqlite"`

	// StorePath is the database file for the bolt and sqlite backends.
	StorePath string `koanf:"store_path" validate:"required_unless=StoreBackend memory,db_file"`

	// CacheSize bounds the number of compiled regexes kept in memory.
	CacheSize uint `koanf:"cache_size" validate:"required,gte=1"`

	// RegexTimeout bounds a single find-pattern evaluation.
	RegexTimeout time.Duration `koanf:"regex_timeout" validate:"required,gt=0"`

	// StrictMatch only lets a stored domain apply to hosts equal to it or
	// ending in "."+domain. Off keeps the unanchored substring match.
	StrictMatch bool `koanf:"strict_match"`
}

// DEFAULT_APP_CONFIG defines the default configuration. StorePath is filled
// in by defaultStorePath at load time.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:          "prod",
	LogLevel:     "warn",
	StoreBackend: "bolt",
	CacheSize:    256,
	RegexTimeout: 250 * time.Millisecond,
	StrictMatch:  false,
}

// defaultStorePath places the database under the user's config directory,
// falling back to the working directory.
var defaultStorePath = func() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tabrename.db"
	}
	return filepath.Join(dir, "tabrename", "rules.db")
}

// validDBFile accepts paths that name a file, not a directory. Presence is
// enforced separately, so the empty path passes.
func validDBFile(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if p == "" {
		return true
	}
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		return false
	}
	base := filepath.Base(p)
	return base != "." && base != ".."
}

// envLoader loads environment variables with the prefix "TABRENAME_",
// lowercasing keys and trimming values. It can be replaced in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "TABRENAME_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "TABRENAME_"))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG plus the computed store path.
var defaultLoader = func(k *koanf.Koanf) error {
	defaults := DEFAULT_APP_CONFIG
	defaults.StorePath = defaultStorePath()
	return k.Load(structs.Provider(defaults, "koanf"), nil)
}

// registerValidation registers the "db_file" tag.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("db_file", validDBFile)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg, for callers that change fields after Load.
func Validate(cfg *AppConfig) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := registerValidation(validate); err != nil {
		return fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
