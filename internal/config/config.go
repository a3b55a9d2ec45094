package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/2beens/fittracker/internal/fitnessapi"
	"github.com/2beens/fittracker/internal/workouts"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Environment string `toml:"environment" env:"FITNESS_ENVIRONMENT, overwrite"`
	// fitness api
	ApiBaseURL     string `toml:"api_base_url" env:"FITNESS_API_BASE_URL, overwrite"`
	User           string `toml:"user" env:"FITNESS_USER, overwrite"`
	FullCreateBody bool   `toml:"full_create_body" env:"FITNESS_FULL_CREATE_BODY, overwrite"`
	// store
	DiscardStaleFetches bool `toml:"discard_stale_fetches" env:"FITNESS_DISCARD_STALE_FETCHES, overwrite"`
	// logging
	LogLevel      string `toml:"log_level" env:"FITNESS_LOG_LEVEL, overwrite"`
	LogsPath      string `toml:"logs_path" env:"FITNESS_LOGS_PATH, overwrite"`
	LogToStdout   bool   `toml:"log_to_stdout" env:"FITNESS_LOG_TO_STDOUT, overwrite"`
	LogFormatJSON bool   `toml:"log_format_json" env:"FITNESS_LOG_FORMAT_JSON, overwrite"`
	// telemetry
	SentryEnabled    bool   `toml:"sentry_enabled" env:"FITNESS_SENTRY_ENABLED, overwrite"`
	HoneycombEnabled bool   `toml:"honeycomb_enabled" env:"HONEYCOMB_ENABLED, overwrite"`
	MetricsNamespace string `toml:"metrics_namespace" env:"FITNESS_METRICS_NAMESPACE, overwrite"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func defaults(env string) *Config {
	return &Config{
		Environment:      env,
		ApiBaseURL:       fitnessapi.DefaultBaseURL,
		User:             workouts.DefaultUser,
		LogLevel:         "info",
		LogToStdout:      true,
		MetricsNamespace: "fittracker",
	}
}

// Load reads the section for env from the TOML file at path, on top of the defaults.
// A missing file is not an error. FITNESS_* env vars override whatever the file says.
func Load(env, path string) (*Config, error) {
	return load(context.Background(), env, path, envconfig.OsLookuper())
}

func load(ctx context.Context, env, path string, lookuper envconfig.Lookuper) (*Config, error) {
	// validates env before anything is read
	if _, err := (&Toml{}).Get(env); err != nil {
		return nil, err
	}

	t := &Toml{
		Development: defaults("development"),
		Production:  defaults("production"),
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, t); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
			}
		}
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env overrides: %w", err)
	}

	return cfg, nil
}
