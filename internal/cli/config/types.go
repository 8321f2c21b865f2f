// Package config loads lmsite configuration from defaults, a YAML file,
// LMSITE_ environment variables and command-line flags.
package config

import (
	"time"

	"github.com/lmstudios/lmsite/internal/retention"
	"github.com/lmstudios/lmsite/internal/state"
	"github.com/lmstudios/lmsite/internal/wizard"
)

// Config holds all lmsite configuration.
type Config struct {
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Server       ServerConfig  `koanf:"server"`
	State        StateConfig   `koanf:"state"`
	Content      ContentConfig `koanf:"content"`
	Quote        QuoteConfig   `koanf:"quote"`
	Notify       NotifyConfig  `koanf:"notify"`
	Admin        AdminConfig   `koanf:"admin"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port          int    `koanf:"port"`
	SessionSecret string `koanf:"session_secret"`
	SecureCookies bool   `koanf:"secure_cookies"`
	Watch         bool   `koanf:"watch"`
	Dev           bool   `koanf:"dev"`
	BaseURL       string `koanf:"base_url"`
}

// StateConfig selects the quote store.
type StateConfig struct {
	Driver string `koanf:"driver"` // sqlite or postgres
	DSN    string `koanf:"dsn"`
}

// SQLDriver maps the configured driver name to a database/sql driver.
func (s StateConfig) SQLDriver() string {
	switch s.Driver {
	case "postgres", "postgresql", state.DriverPostgres:
		return state.DriverPostgres
	default:
		return state.DriverSQLite
	}
}

// ContentConfig points at an optional content override file.
type ContentConfig struct {
	Path string `koanf:"path"`
}

// QuoteConfig tunes the quote wizard and retention.
type QuoteConfig struct {
	GateAdvance   bool          `koanf:"gate_advance"`
	ResetDelay    time.Duration `koanf:"reset_delay"`
	Retention     time.Duration `koanf:"retention"`
	PurgeSchedule string        `koanf:"purge_schedule"`
}

// WizardOptions converts to wizard options.
func (q QuoteConfig) WizardOptions() wizard.Options {
	return wizard.Options{GateAdvance: q.GateAdvance, ResetDelay: q.ResetDelay}
}

// RetentionConfig converts to retention job settings.
func (q QuoteConfig) RetentionConfig() retention.Config {
	return retention.Config{Retention: q.Retention, Schedule: q.PurgeSchedule}
}

// NotifyConfig configures outbound quote notifications.
type NotifyConfig struct {
	SES SESConfig `koanf:"ses"`
}

// SESConfig configures email through Amazon SES.
type SESConfig struct {
	Enabled bool     `koanf:"enabled"`
	Region  string   `koanf:"region"`
	From    string   `koanf:"from"`
	To      []string `koanf:"to"`
}

// AdminConfig holds the admin dashboard credentials.
type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Default configuration values.
const (
	DefaultPort          = 8080
	DefaultStateDriver   = "sqlite"
	DefaultStateDSN      = ".lmsite/quotes.db"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultSESRegion     = "af-south-1"
	DefaultAdminUsername = "admin"
	DefaultSessionSecret = "lmsite-dev-secret-change-in-production" //nolint:gosec // dev default
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		Server: ServerConfig{
			Port:          DefaultPort,
			SessionSecret: DefaultSessionSecret,
		},
		State: StateConfig{Driver: DefaultStateDriver, DSN: DefaultStateDSN},
		Quote: QuoteConfig{
			GateAdvance:   true,
			ResetDelay:    wizard.DefaultResetDelay,
			Retention:     retention.DefaultRetention,
			PurgeSchedule: retention.DefaultSchedule,
		},
		Notify: NotifyConfig{SES: SESConfig{Region: DefaultSESRegion}},
		Admin:  AdminConfig{Username: DefaultAdminUsername},
	}
}
