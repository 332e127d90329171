// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config resolves the gallery settings from defaults, a TOML file,
// a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/janderssonse/libgallery/internal/deeplink"
	"github.com/janderssonse/libgallery/internal/logging"
	"github.com/janderssonse/libgallery/internal/search"
	"github.com/janderssonse/libgallery/internal/sorting"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "LIBGALLERY_"

// DefaultSite serves the public catalog.
const DefaultSite = "https://libraries.excalidraw.com"

// ErrInvalidConfig is returned when resolved settings fail validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every user-tunable setting.
type Config struct {
	Site       string `env:"SITE"        toml:"site"`
	CatalogURL string `env:"CATALOG_URL" toml:"catalog_url"`
	// StatsURL may be empty to skip download counters.
	StatsURL string `env:"STATS_URL" toml:"stats_url"`

	Referrer string `env:"REFERRER" toml:"referrer"`
	Target   string `env:"TARGET"   toml:"target"`
	UseHash  bool   `env:"USE_HASH" toml:"use_hash"`
	Token    string `env:"TOKEN"    toml:"token"`

	Sort       string `env:"SORT"        toml:"sort"`
	PageSize   int    `env:"PAGE_SIZE"   toml:"page_size"`
	DebounceMS int    `env:"DEBOUNCE_MS" toml:"debounce_ms"`
	// TimeoutSeconds bounds every HTTP request; 0 disables the limit.
	TimeoutSeconds int `env:"TIMEOUT_SECONDS" toml:"timeout_seconds"`

	LogLevel string `env:"LOG_LEVEL" toml:"log_level"`
	Theme    string `env:"THEME"     toml:"theme"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Site:           DefaultSite,
		CatalogURL:     DefaultSite + "/libraries.jsonl.json",
		StatsURL:       DefaultSite + "/stats.json",
		Referrer:       deeplink.DefaultReferrer,
		Target:         deeplink.DefaultTarget,
		Sort:           sorting.KeyDefault,
		PageSize:       50,
		DebounceMS:     int(search.DefaultDebounce / time.Millisecond),
		TimeoutSeconds: 180,
		LogLevel:       "info",
		Theme:          "dark",
	}
}

// LoadOptions selects the sources read by Load.
type LoadOptions struct {
	// Path is the TOML file; a missing file is not an error unless
	// Required is set.
	Path     string
	Required bool
	// DotEnv is the .env file; values already in the environment win.
	DotEnv string
	// Environ replaces the process environment when non-nil.
	Environ []string
}

// Load resolves the configuration.
func Load(opts LoadOptions) (Config, error) {
	cfg := Defaults()

	if opts.Path != "" {
		if err := mergeFile(&cfg, opts.Path, opts.Required); err != nil {
			return Config{}, err
		}
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}

	environment := toMap(environ)

	if opts.DotEnv != "" {
		if err := mergeDotEnv(environment, opts.DotEnv); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environment,
	}); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	var problems []string

	if c.CatalogURL == "" {
		problems = append(problems, "catalog_url is empty")
	}

	if _, err := sorting.Lookup(c.Sort); err != nil {
		problems = append(problems, err.Error())
	}

	if c.PageSize <= 0 {
		problems = append(problems, "page_size must be positive")
	}

	if c.DebounceMS < 0 {
		problems = append(problems, "debounce_ms must not be negative")
	}

	if c.TimeoutSeconds < 0 {
		problems = append(problems, "timeout_seconds must not be negative")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if c.Theme != "dark" && c.Theme != "light" {
		problems = append(problems, fmt.Sprintf("unknown theme %q", c.Theme))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}

// Timeout is the HTTP request limit.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Debounce is the search input delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// LinkOptions returns the deep link settings.
func (c Config) LinkOptions() deeplink.Options {
	return deeplink.Options{
		Site:     c.Site,
		Referrer: c.Referrer,
		Target:   c.Target,
		UseHash:  c.UseHash,
		Token:    c.Token,
	}.Normalized()
}

func mergeFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}

		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	return nil
}

func mergeDotEnv(environment map[string]string, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	for key, value := range values {
		if _, set := environment[key]; !set {
			environment[key] = value
		}
	}

	return nil
}

func toMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))

	for _, pair := range environ {
		key, value, ok := strings.Cut(pair, "=")
		if ok {
			out[key] = value
		}
	}

	return out
}
