package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable lmsite reads.
const EnvPrefix = "LMSITE_"

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// loadErrorKey stores a configuration load failure in context.
type loadErrorKey struct{}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// sections are the nested config blocks. An env var whose name starts with
// one of them is split on the first underscore after it.
var sections = []string{"notify_ses", "server", "state", "content", "quote", "notify", "admin"}

// flagKeys maps short CLI flags onto nested config keys.
var flagKeys = map[string]string{
	"port":    "server.port",
	"watch":   "server.watch",
	"dev":     "server.dev",
	"state":   "state.dsn",
	"driver":  "state.driver",
	"content": "content.path",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > lmsite.yaml > lmsite.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"lmsite.yaml", "lmsite.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey turns LMSITE_SERVER_SESSION_SECRET into server.session_secret.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return strings.ReplaceAll(section, "_", ".") + "." + rest
		}
	}
	return key
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"verbose":               d.Verbose,
		"output":                d.OutputFormat,
		"server.port":           d.Server.Port,
		"server.session_secret": d.Server.SessionSecret,
		"server.secure_cookies": d.Server.SecureCookies,
		"server.watch":          d.Server.Watch,
		"server.dev":            d.Server.Dev,
		"state.driver":          d.State.Driver,
		"state.dsn":             d.State.DSN,
		"quote.gate_advance":    d.Quote.GateAdvance,
		"quote.reset_delay":     d.Quote.ResetDelay.String(),
		"quote.retention":       d.Quote.Retention.String(),
		"quote.purge_schedule":  d.Quote.PurgeSchedule,
		"notify.ses.enabled":    d.Notify.SES.Enabled,
		"notify.ses.region":     d.Notify.SES.Region,
		"admin.username":        d.Admin.Username,
	}
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (LMSITE_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	var flagPaths map[string]bool
	if flags != nil {
		flagPaths = make(map[string]bool)
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[f.Name]; ok {
				key = mapped
			}
			flagPaths[key] = true
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	expandSecrets(&cfg)

	// 6. Paths from the config file are relative to it; flag paths to the CWD.
	cfg.ConfigFile = configFileUsed
	var baseDir string
	if configFileUsed != "" {
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			baseDir = filepath.Dir(abs)
		}
	}
	if !flagPaths["content.path"] {
		cfg.Content.Path = resolvePathRelativeTo(cfg.Content.Path, baseDir)
	}
	if cfg.State.SQLDriver() == "sqlite" && !flagPaths["state.dsn"] && cfg.State.DSN != ":memory:" {
		cfg.State.DSN = resolvePathRelativeTo(cfg.State.DSN, baseDir)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithLoadError records a configuration load failure for commands that
// run without a configuration, such as doctor.
func WithLoadError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, loadErrorKey{}, err)
}

// LoadError returns the failure recorded by WithLoadError, if any.
func LoadError(ctx context.Context) error {
	err, _ := ctx.Value(loadErrorKey{}).(error)
	return err
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR}
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandSecret expands s and drops it when a referenced variable is unset,
// so a missing secret fails validation instead of becoming a literal.
func expandSecret(s string) string {
	s = expandEnvVars(s)
	if envVarPattern.MatchString(s) {
		return ""
	}
	return s
}

// expandSecrets expands environment variables in fields that usually hold secrets.
func expandSecrets(c *Config) {
	c.Server.SessionSecret = expandSecret(c.Server.SessionSecret)
	c.State.DSN = expandSecret(c.State.DSN)
	c.Admin.Password = expandSecret(c.Admin.Password)
	c.Notify.SES.From = expandEnvVars(c.Notify.SES.From)
}
