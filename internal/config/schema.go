// Package config loads weekly's configuration from defaults, the global
// config file, an explicit file and WEEKLY_* environment variables.
package config

import "github.com/tgienger/weekly/internal/models"

// Config represents the full weekly configuration
type Config struct {
	// Env selects logging: local, dev or prod
	Env     string `yaml:"env" mapstructure:"env"`
	LogFile string `yaml:"log_file" mapstructure:"log_file"`

	Storage StorageConfig       `yaml:"storage" mapstructure:"storage"`
	Copy    models.CopySettings `yaml:"copy" mapstructure:"copy"`
	Weeks   WeeksConfig         `yaml:"weeks" mapstructure:"weeks"`
	HTTP    HTTPConfig          `yaml:"http" mapstructure:"http"`
	Notify  NotifyConfig        `yaml:"notify" mapstructure:"notify"`
}

// StorageConfig picks the task store
type StorageConfig struct {
	Backend       string `yaml:"backend" mapstructure:"backend"`
	SQLitePath    string `yaml:"sqlite_path" mapstructure:"sqlite_path"` // empty uses the XDG data dir
	MongoURI      string `yaml:"mongo_uri" mapstructure:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database" mapstructure:"mongo_database"`
}

// WeeksConfig configures the week picker
type WeeksConfig struct {
	Count int `yaml:"count" mapstructure:"count"`
}

// HTTPConfig configures the API server
type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// NotifyConfig configures weekly report delivery
type NotifyConfig struct {
	// Sender is log or smtp
	Sender string     `yaml:"sender" mapstructure:"sender"`
	SMTP   SMTPConfig `yaml:"smtp" mapstructure:"smtp"`
}

// SMTPConfig holds mail server settings
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
}

const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"

	SenderLog  = "log"
	SenderSMTP = "smtp"

	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)
