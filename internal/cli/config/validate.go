package config

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/lmstudios/lmsite/internal/cli/output"
)

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.SessionSecret == "" {
		errs = append(errs, errors.New("server.session_secret is required"))
	}

	switch c.State.Driver {
	case "sqlite", "postgres", "postgresql", "pgx":
	default:
		errs = append(errs, fmt.Errorf("state.driver must be sqlite or postgres, got %q", c.State.Driver))
	}
	if c.State.DSN == "" {
		errs = append(errs, errors.New("state.dsn is required"))
	}

	if c.Quote.ResetDelay < 0 {
		errs = append(errs, errors.New("quote.reset_delay must not be negative"))
	}
	if c.Quote.Retention > 0 {
		if _, err := cron.ParseStandard(c.Quote.PurgeSchedule); err != nil {
			errs = append(errs, fmt.Errorf("quote.purge_schedule: %w", err))
		}
	}

	if c.Notify.SES.Enabled {
		if c.Notify.SES.From == "" {
			errs = append(errs, errors.New("notify.ses.from is required when SES is enabled"))
		}
		if len(c.Notify.SES.To) == 0 {
			errs = append(errs, errors.New("notify.ses.to is required when SES is enabled"))
		}
	}

	if !output.Valid(c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of auto, text, markdown, json; got %q", c.OutputFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
