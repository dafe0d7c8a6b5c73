package config

import (
	"os"
	"path/filepath"

	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/week"
)

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Env:     EnvLocal,
		LogFile: filepath.Join(dataDir(), "weekly.log"),
		Storage: StorageConfig{
			Backend:       BackendSQLite,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "weekly",
		},
		Copy:  models.DefaultCopySettings(),
		Weeks: WeeksConfig{Count: week.DefaultCount},
		HTTP:  HTTPConfig{Addr: ":8080"},
		Notify: NotifyConfig{
			Sender: SenderLog,
			SMTP:   SMTPConfig{Port: 587},
		},
	}
}

// GlobalPath returns the path to the global config file
func GlobalPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "weekly", "config.yaml")
}

func dataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "weekly")
}
