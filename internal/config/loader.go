package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	wkerrors "github.com/tgienger/weekly/internal/errors"
)

// EnvPrefix prefixes environment overrides, e.g. WEEKLY_STORAGE_BACKEND
const EnvPrefix = "WEEKLY"

// Load merges the defaults, the global config file, the file at explicit
// (when set) and the environment, in that order.
func Load(explicit string) (*Config, error) {
	const op = "config.Load"

	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := mergeFile(v, GlobalPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if explicit != "" {
		if err := mergeFile(v, explicit); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	if !slices.Contains([]string{EnvLocal, EnvDev, EnvProd}, c.Env) {
		return wkerrors.InvalidArgumentError{Field: "env", Reason: "expected local, dev or prod, got " + c.Env}
	}
	if !slices.Contains([]string{BackendSQLite, BackendMongo}, c.Storage.Backend) {
		return wkerrors.InvalidArgumentError{Field: "storage.backend", Reason: "expected sqlite or mongo, got " + c.Storage.Backend}
	}
	if !slices.Contains([]string{SenderLog, SenderSMTP}, c.Notify.Sender) {
		return wkerrors.InvalidArgumentError{Field: "notify.sender", Reason: "expected log or smtp, got " + c.Notify.Sender}
	}
	if c.Weeks.Count < 1 {
		return wkerrors.InvalidArgumentError{Field: "weeks.count", Reason: "must be at least 1"}
	}
	return nil
}

// Save writes cfg as YAML to path, creating parent directories
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
