//nolint:testpackage // Tests require internal access for thorough testing
package config

import (
	"os"
	"path/filepath"
	"testing"

	wkerrors "github.com/tgienger/weekly/internal/errors"
)

// isolate points the global config at an empty temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Expected sqlite backend, got '%s'", cfg.Storage.Backend)
	}
	if cfg.Weeks.Count != 8 {
		t.Errorf("Expected 8 weeks, got %d", cfg.Weeks.Count)
	}
	if !cfg.Copy.IncludeComments || !cfg.Copy.ResetStatus || cfg.Copy.IncludeActualHours || cfg.Copy.IncludeProgress {
		t.Errorf("Unexpected copy defaults: %+v", cfg.Copy)
	}
	if cfg.Notify.Sender != SenderLog {
		t.Errorf("Expected log sender, got '%s'", cfg.Notify.Sender)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.Storage.MongoDatabase != "weekly" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.LogFile != filepath.Join(dir, "weekly", "weekly.log") {
		t.Errorf("LogFile = %s", cfg.LogFile)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	writeFile(t, filepath.Join(dir, "weekly", "config.yaml"), `
env: dev
storage:
  backend: mongo
  mongo_database: global
weeks:
  count: 4
`)
	explicit := filepath.Join(dir, "custom.yaml")
	writeFile(t, explicit, `
storage:
  mongo_database: explicit
copy:
  include_comments: false
`)
	t.Setenv("WEEKLY_WEEKS_COUNT", "12")

	cfg, err := Load(explicit)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Env != EnvDev {
		t.Errorf("Expected env from global file, got '%s'", cfg.Env)
	}
	if cfg.Storage.Backend != BackendMongo {
		t.Errorf("Expected mongo from global file, got '%s'", cfg.Storage.Backend)
	}
	if cfg.Storage.MongoDatabase != "explicit" {
		t.Errorf("Expected explicit file to win, got '%s'", cfg.Storage.MongoDatabase)
	}
	if cfg.Copy.IncludeComments {
		t.Error("Expected include_comments false from explicit file")
	}
	if !cfg.Copy.ResetStatus {
		t.Error("Expected reset_status default to survive the merge")
	}
	if cfg.Weeks.Count != 12 {
		t.Errorf("Expected env to win with 12 weeks, got %d", cfg.Weeks.Count)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("WEEKLY_NOTIFY_SENDER", "smtp")
	t.Setenv("WEEKLY_NOTIFY_SMTP_HOST", "mail.example.com")
	t.Setenv("WEEKLY_NOTIFY_SMTP_PORT", "2525")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Notify.Sender != SenderSMTP || cfg.Notify.SMTP.Host != "mail.example.com" || cfg.Notify.SMTP.Port != 2525 {
		t.Errorf("Unexpected notify config: %+v", cfg.Notify)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "storage: [unclosed")
	if _, err := Load(bad); err == nil {
		t.Error("Expected error for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "storage:\n  backend: postgres\n")
	if _, err := Load(invalid); !wkerrors.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"env", func(c *Config) { c.Env = "staging" }},
		{"backend", func(c *Config) { c.Storage.Backend = "postgres" }},
		{"sender", func(c *Config) { c.Notify.Sender = "sms" }},
		{"weeks", func(c *Config) { c.Weeks.Count = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !wkerrors.IsValidation(err) {
				t.Errorf("Validate() = %v, want validation error", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Default()
	cfg.Storage.Backend = BackendMongo
	cfg.Weeks.Count = 3
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Storage.Backend != BackendMongo || loaded.Weeks.Count != 3 {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
}
