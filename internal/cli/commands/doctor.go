package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmstudios/lmsite/internal/cli/config"
	"github.com/lmstudios/lmsite/internal/cli/output"
	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/state"
	"github.com/lmstudios/lmsite/internal/ui/views"
)

// Health check statuses.
const (
	statusPass = "pass"
	statusWarn = "warn"
	statusFail = "error"
)

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "pass", "warn", "error"
	Details string `json:"details,omitempty"`
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	ConfigFile string        `json:"config_file,omitempty"`
	Checks     []HealthCheck `json:"checks"`
	Failures   int           `json:"failures"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, content and the quote store",
		Long: `Check that the site can start:
- Configuration is valid
- Content (embedded or override file) loads and validates
- Page templates parse
- The quote store opens and is migrated
- Email notifications and the admin dashboard are configured

The command exits non-zero when any check fails.`,
		Example: `  lmsite doctor
  lmsite doctor --content site.yaml --output json`,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg := getConfig()
	loadErr := config.LoadError(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	if loadErr != nil {
		// No configuration was loaded, so honour --output directly.
		if o, err := cmd.Flags().GetString("output"); err == nil && o != "" {
			mode = output.Mode(o)
		}
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	var checks []HealthCheck
	if loadErr != nil {
		checks = []HealthCheck{
			{Name: "config", Status: statusFail, Details: loadErr.Error()},
			checkTemplates(),
		}
		for _, name := range []string{"content", "store", "notify", "admin", "session"} {
			checks = append(checks, HealthCheck{Name: name, Status: statusWarn, Details: "skipped: configuration did not load"})
		}
	} else {
		checks = []HealthCheck{
			checkConfig(cfg),
			checkContent(cfg),
			checkTemplates(),
			checkStore(cmd, cfg),
			checkNotify(cfg),
			checkAdmin(cfg),
			checkSession(cfg),
		}
	}

	out := DoctorOutput{ConfigFile: cfg.ConfigFile, Checks: checks}
	if out.ConfigFile == "" {
		out.ConfigFile = config.GetConfigFileUsed()
	}
	for _, c := range checks {
		if c.Status == statusFail {
			out.Failures++
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(out); err != nil {
			return err
		}
	} else {
		printDoctor(r, out)
	}

	if out.Failures > 0 {
		return fmt.Errorf("%d check(s) failed", out.Failures)
	}
	return nil
}

func printDoctor(r *output.Renderer, out DoctorOutput) {
	r.Header(1, "lmsite doctor")
	if out.ConfigFile != "" {
		r.KeyValue("Config", out.ConfigFile)
	} else {
		r.KeyValue("Config", "defaults (no lmsite.yaml)")
	}
	r.Println("")

	rows := make([][]string, 0, len(out.Checks))
	for _, c := range out.Checks {
		rows = append(rows, []string{c.Name, c.Status, c.Details})
	}
	r.Table([]string{"Check", "Status", "Details"}, rows)

	if out.Failures == 0 {
		r.Success("All checks passed")
	}
}

func checkConfig(cfg *config.Config) HealthCheck {
	if err := cfg.Validate(); err != nil {
		return HealthCheck{Name: "config", Status: statusFail, Details: err.Error()}
	}
	return HealthCheck{Name: "config", Status: statusPass}
}

func checkContent(cfg *config.Config) HealthCheck {
	c, err := content.Resolve(cfg.Content.Path)
	if err != nil {
		return HealthCheck{Name: "content", Status: statusFail, Details: err.Error()}
	}
	source := "embedded"
	if cfg.Content.Path != "" {
		source = cfg.Content.Path
	}
	return HealthCheck{
		Name:   "content",
		Status: statusPass,
		Details: fmt.Sprintf("%s: %d packages, %d projects, %d cities",
			source, len(c.Packages), len(c.Projects), len(c.Cities)),
	}
}

func checkTemplates() HealthCheck {
	if err := views.Check(); err != nil {
		return HealthCheck{Name: "templates", Status: statusFail, Details: err.Error()}
	}
	return HealthCheck{Name: "templates", Status: statusPass, Details: fmt.Sprintf("%d pages", len(views.Pages()))}
}

func checkStore(cmd *cobra.Command, cfg *config.Config) HealthCheck {
	store, err := openStore(cmd, cfg)
	if err != nil {
		return HealthCheck{Name: "store", Status: statusFail, Details: err.Error()}
	}
	defer func() { _ = store.Close() }()

	details := cfg.State.SQLDriver()
	if s, ok := store.(*state.SQLStore); ok {
		if v, err := s.MigrationVersion(cmd.Context()); err == nil {
			details = fmt.Sprintf("%s, schema version %d", details, v)
		}
	}
	if n, err := store.CountQuotes(cmd.Context()); err == nil {
		details = fmt.Sprintf("%s, %d quotes", details, n)
	}
	return HealthCheck{Name: "store", Status: statusPass, Details: details}
}

func checkNotify(cfg *config.Config) HealthCheck {
	ses := cfg.Notify.SES
	if !ses.Enabled {
		return HealthCheck{Name: "notify", Status: statusWarn, Details: "email disabled; quotes are only logged"}
	}
	return HealthCheck{Name: "notify", Status: statusPass, Details: fmt.Sprintf("SES %s -> %d recipient(s)", ses.Region, len(ses.To))}
}

func checkAdmin(cfg *config.Config) HealthCheck {
	if cfg.Admin.Password == "" {
		return HealthCheck{Name: "admin", Status: statusWarn, Details: "admin.password unset; /admin is disabled"}
	}
	return HealthCheck{Name: "admin", Status: statusPass, Details: "user " + cfg.Admin.Username}
}

func checkSession(cfg *config.Config) HealthCheck {
	if cfg.Server.SessionSecret == config.DefaultSessionSecret {
		return HealthCheck{Name: "session", Status: statusWarn, Details: "default session secret in use"}
	}
	return HealthCheck{Name: "session", Status: statusPass}
}
