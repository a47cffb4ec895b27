package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
)

func TestLoad_Defaults(t *testing.T) {
	orig := defaultStorePath
	defaultStorePath = func() string { return "/tmp/tabrename/rules.db" }
	defer func() { defaultStorePath = orig }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Env != "prod" {
		t.Errorf("expected Env=prod, got %q", cfg.Env)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected LogLevel=warn, got %q", cfg.LogLevel)
	}
	if cfg.StoreBackend != "bolt" {
		t.Errorf("expected StoreBackend=bolt, got %q", cfg.StoreBackend)
	}
	if cfg.StorePath != "/tmp/tabrename/rules.db" {
		t.Errorf("expected StorePath=/tmp/tabrename/rules.db, got %q", cfg.StorePath)
	}
	if cfg.CacheSize != 256 {
		t.Errorf("expected CacheSize=256, got %d", cfg.CacheSize)
	}
	if cfg.RegexTimeout != 250*time.Millisecond {
		t.Errorf("expected RegexTimeout=250ms, got %v", cfg.RegexTimeout)
	}
	if cfg.StrictMatch {
		t.Errorf("expected StrictMatch=false by default")
	}
}

func TestLoad_ValidOverrides(t *testing.T) {
	t.Setenv("TABRENAME_ENV", "dev")
	t.Setenv("TABRENAME_LOG_LEVEL", "debug")
	t.Setenv("TABRENAME_STORE_BACKEND", "sqlite")
	t.Setenv("TABRENAME_STORE_PATH", " /var/lib/tabrename/rules.sqlite ")
	t.Setenv("TABRENAME_CACHE_SIZE", "32")
	t.Setenv("TABRENAME_REGEX_TIMEOUT", "2s")
	t.Setenv("TABRENAME_STRICT_MATCH", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Env != "dev" {
		t.Errorf("expected Env=dev, got %q", cfg.Env)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %q", cfg.LogLevel)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("expected StoreBackend=sqlite, got %q", cfg.StoreBackend)
	}
	if cfg.StorePath != "/var/lib/tabrename/rules.sqlite" {
		t.Errorf("expected trimmed StorePath, got %q", cfg.StorePath)
	}
	if cfg.CacheSize != 32 {
		t.Errorf("expected CacheSize=32, got %d", cfg.CacheSize)
	}
	if cfg.RegexTimeout != 2*time.Second {
		t.Errorf("expected RegexTimeout=2s, got %v", cfg.RegexTimeout)
	}
	if !cfg.StrictMatch {
		t.Errorf("expected StrictMatch=true")
	}
}

func TestLoad_MemoryBackendNeedsNoPath(t *testing.T) {
	t.Setenv("TABRENAME_STORE_BACKEND", "memory")
	t.Setenv("TABRENAME_STORE_PATH", "")

	if _, err := Load(); err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"env", map[string]string{"TABRENAME_ENV": "staging"}},
		{"log level", map[string]string{"TABRENAME_LOG_LEVEL": "trace"}},
		{"backend", map[string]string{"TABRENAME_STORE_BACKEND": "redis"}},
		{"bolt without path", map[string]string{"TABRENAME_STORE_BACKEND": "bolt", "TABRENAME_STORE_PATH": ""}},
		{"path is a directory", map[string]string{"TABRENAME_STORE_PATH": "/var/lib/tabrename/"}},
		{"zero cache", map[string]string{"TABRENAME_CACHE_SIZE": "0"}},
		{"cache not a number", map[string]string{"TABRENAME_CACHE_SIZE": "lots"}},
		{"bad timeout", map[string]string{"TABRENAME_REGEX_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s, got nil", tt.name)
			}
		})
	}
}

func TestValidDBFile(t *testing.T) {
	v := validator.New()
	if err := v.RegisterValidation("db_file", validDBFile); err != nil {
		t.Fatalf("register: %v", err)
	}
	good := []string{"", "rules.db", filepath.Join("a", "b", "rules.db")}
	for _, p := range good {
		if err := v.Var(p, "db_file"); err != nil {
			t.Errorf("expected %q to be valid: %v", p, err)
		}
	}
	bad := []string{"/", "dir/", ".", ".."}
	for _, p := range bad {
		if err := v.Var(p, "db_file"); err == nil {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestValidate_AfterOverride(t *testing.T) {
	cfg := DEFAULT_APP_CONFIG
	cfg.StorePath = "rules.db"
	if err := Validate(&cfg); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	cfg.StoreBackend = "memcached"
	if err := Validate(&cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoad_WhenKoanfDefaultLoadFails(t *testing.T) {
	orig := defaultLoader
	defaultLoader = func(k *koanf.Koanf) error { return errors.New("mocked error") }
	defer func() { defaultLoader = orig }()

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "mocked error") {
		t.Fatal("expected error when loading defaults, got nil")
	}
}

func TestLoad_WhenKoanfEnvLoadFails(t *testing.T) {
	orig := envLoader
	envLoader = func(k *koanf.Koanf) error { return errors.New("mocked error") }
	defer func() { envLoader = orig }()

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "mocked error") {
		t.Fatal("expected error when loading env, got nil")
	}
}

func TestLoad_RegisterValidationFails(t *testing.T) {
	orig := registerValidation
	registerValidation = func(v *validator.Validate) error { return errors.New("mocked validation error") }
	defer func() { registerValidation = orig }()

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "mocked validation error") {
		t.Fatal("expected error when registering validation, got nil")
	}
}
