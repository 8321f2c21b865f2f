package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into a fresh temp dir so no stray lmsite.yaml is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()
	t.Cleanup(ResetConfig)
	return dir
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "lmsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, "sqlite", cfg.State.Driver)
	assert.Equal(t, DefaultStateDSN, cfg.State.DSN)
	assert.True(t, cfg.Quote.GateAdvance)
	assert.Equal(t, 3*time.Second, cfg.Quote.ResetDelay)
	assert.Equal(t, 180*24*time.Hour, cfg.Quote.Retention)
	assert.Equal(t, "@daily", cfg.Quote.PurgeSchedule)
	assert.Equal(t, DefaultSESRegion, cfg.Notify.SES.Region)
	assert.Equal(t, DefaultAdminUsername, cfg.Admin.Username)
	assert.Empty(t, cfg.ConfigFile)
	assert.Same(t, cfg, GetCurrentConfig())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	dir := chdir(t)
	writeConfig(t, dir, `
output: json
server:
  port: 9090
  secure_cookies: true
state:
  dsn: data/quotes.db
content:
  path: content.yaml
quote:
  gate_advance: false
  reset_delay: 5s
  retention: 720h
notify:
  ses:
    enabled: true
    from: site@lmstudios.co.za
    to: [hello@lmstudios.co.za, sales@lmstudios.co.za]
`)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "lmsite.yaml", cfg.ConfigFile)
	assert.Equal(t, "lmsite.yaml", GetConfigFileUsed())
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.SecureCookies)
	assert.False(t, cfg.Quote.GateAdvance)
	assert.Equal(t, 5*time.Second, cfg.Quote.ResetDelay)
	assert.Equal(t, 720*time.Hour, cfg.Quote.Retention)
	assert.Equal(t, []string{"hello@lmstudios.co.za", "sales@lmstudios.co.za"}, cfg.Notify.SES.To)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(abs)
	require.NoError(t, err)
	for _, p := range []string{cfg.State.DSN, cfg.Content.Path} {
		assert.True(t, filepath.IsAbs(p), "%s should be resolved", p)
	}
	assert.Contains(t, []string{filepath.Join(abs, "content.yaml"), filepath.Join(resolved, "content.yaml")}, cfg.Content.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	chdir(t)
	_, err := LoadConfig("nope.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Env(t *testing.T) {
	chdir(t)
	t.Setenv("LMSITE_SERVER_PORT", "7070")
	t.Setenv("LMSITE_SERVER_SESSION_SECRET", "from-env")
	t.Setenv("LMSITE_STATE_DRIVER", "postgres")
	t.Setenv("LMSITE_STATE_DSN", "postgres://lm@localhost/site")
	t.Setenv("LMSITE_QUOTE_RESET_DELAY", "10s")
	t.Setenv("LMSITE_NOTIFY_SES_TO", "a@lm.co.za,b@lm.co.za")
	t.Setenv("LMSITE_ADMIN_PASSWORD", "s3cret")
	t.Setenv("LMSITE_VERBOSE", "true")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Server.SessionSecret)
	assert.Equal(t, "pgx", cfg.State.SQLDriver())
	assert.Equal(t, "postgres://lm@localhost/site", cfg.State.DSN, "postgres DSNs are not paths")
	assert.Equal(t, 10*time.Second, cfg.Quote.ResetDelay)
	assert.Equal(t, []string{"a@lm.co.za", "b@lm.co.za"}, cfg.Notify.SES.To)
	assert.Equal(t, "s3cret", cfg.Admin.Password)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_FlagsOverrideEnvAndFile(t *testing.T) {
	dir := chdir(t)
	writeConfig(t, dir, "server:\n  port: 9090\nstate:\n  dsn: from-file.db\n")
	t.Setenv("LMSITE_SERVER_PORT", "7070")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", DefaultPort, "")
	flags.String("state", "", "")
	flags.String("content", "", "")
	flags.String("output", DefaultOutput, "")
	require.NoError(t, flags.Parse([]string{"--port", "6060", "--state", "cli.db", "--output", "markdown"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, 6060, cfg.Server.Port)
	assert.Equal(t, "cli.db", cfg.State.DSN, "flag paths stay relative to the working directory")
	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Empty(t, cfg.Content.Path, "unchanged flags do not override")
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LMSITE_VERBOSE", "verbose"},
		{"LMSITE_OUTPUT", "output"},
		{"LMSITE_SERVER_SESSION_SECRET", "server.session_secret"},
		{"LMSITE_QUOTE_GATE_ADVANCE", "quote.gate_advance"},
		{"LMSITE_NOTIFY_SES_FROM", "notify.ses.from"},
		{"LMSITE_CONTENT_PATH", "content.path"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LMSITE_TEST_SECRET", "hunter2")
	assert.Equal(t, "hunter2", expandEnvVars("${LMSITE_TEST_SECRET}"))
	assert.Equal(t, "pw=hunter2;", expandEnvVars("pw=${LMSITE_TEST_SECRET};"))
	assert.Equal(t, "${LMSITE_TEST_UNSET}", expandEnvVars("${LMSITE_TEST_UNSET}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestLoadConfig_ExpandsSecrets(t *testing.T) {
	dir := chdir(t)
	writeConfig(t, dir, "admin:\n  password: ${LMSITE_TEST_ADMIN_PW}\n")
	t.Setenv("LMSITE_TEST_ADMIN_PW", "from-var")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-var", cfg.Admin.Password)
}

func TestLoadConfig_UnsetSecretIsEmpty(t *testing.T) {
	dir := chdir(t)
	writeConfig(t, dir, "server:\n  session_secret: ${LMSITE_TEST_UNSET_SECRET}\nadmin:\n  password: ${LMSITE_TEST_UNSET_PW}\n")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.SessionSecret)
	assert.Empty(t, cfg.Admin.Password, "admin stays disabled")

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_secret")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"no secret", func(c *Config) { c.Server.SessionSecret = "" }, "session_secret"},
		{"unknown driver", func(c *Config) { c.State.Driver = "mysql" }, "state.driver"},
		{"postgres ok", func(c *Config) { c.State.Driver = "postgres" }, ""},
		{"empty dsn", func(c *Config) { c.State.DSN = "" }, "state.dsn"},
		{"negative reset", func(c *Config) { c.Quote.ResetDelay = -time.Second }, "reset_delay"},
		{"bad schedule", func(c *Config) { c.Quote.PurgeSchedule = "whenever" }, "purge_schedule"},
		{"bad schedule ignored when retention off", func(c *Config) {
			c.Quote.Retention = 0
			c.Quote.PurgeSchedule = "whenever"
		}, ""},
		{"ses without from", func(c *Config) {
			c.Notify.SES.Enabled = true
			c.Notify.SES.To = []string{"a@b.c"}
		}, "notify.ses.from"},
		{"ses without to", func(c *Config) {
			c.Notify.SES.Enabled = true
			c.Notify.SES.From = "a@b.c"
		}, "notify.ses.to"},
		{"bad output", func(c *Config) { c.OutputFormat = "xml" }, "output must be"},
		{"md output", func(c *Config) { c.OutputFormat = "md" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestQuoteConfig_Conversions(t *testing.T) {
	q := QuoteConfig{GateAdvance: true, ResetDelay: time.Second, Retention: time.Hour, PurgeSchedule: "@hourly"}
	opts := q.WizardOptions()
	assert.True(t, opts.GateAdvance)
	assert.Equal(t, time.Second, opts.ResetDelay)

	rc := q.RetentionConfig()
	assert.Equal(t, time.Hour, rc.Retention)
	assert.Equal(t, "@hourly", rc.Schedule)
}
