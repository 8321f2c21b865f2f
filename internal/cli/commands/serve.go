package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lmstudios/lmsite/internal/cli/config"
	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/notify"
	"github.com/lmstudios/lmsite/internal/retention"
	"github.com/lmstudios/lmsite/internal/ui"
	"github.com/lmstudios/lmsite/internal/ui/features"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Open bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the LM Studios website",
		Long: `Start the web server for the LM Studios marketing site.

The server provides:
- Landing, about, services, team, FAQ and city pages
- Filterable portfolio and pricing grids
- The three-step quote wizard
- The quote admin dashboard (when admin.password is set)

Quotes older than quote.retention are purged on quote.purge_schedule.`,
		Example: `  # Start on the default port
  lmsite serve

  # Start on a custom port with a content override that reloads on save
  lmsite serve --port 3000 --content site.yaml --watch

  # Development mode with live reload, opening a browser
  lmsite serve --dev --open`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "Port to serve on")
	cmd.Flags().Bool("watch", false, "Reload the content file when it changes")
	cmd.Flags().Bool("dev", false, "Development mode (live reload, no caching)")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the site in a browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	if cfg.Server.SessionSecret == config.DefaultSessionSecret && !cfg.Server.Dev {
		logger.Warn("using the default session secret; set server.session_secret in production")
	}

	notifier, err := buildNotifier(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	job, err := retention.New(cmdCtx.Store, cfg.Quote.RetentionConfig(), logger)
	if err != nil {
		return err
	}

	server := ui.NewServer(ui.Config{
		Content: content.NewHolder(cmdCtx.Content),
		Store:   cmdCtx.Store,
		Notify:  notifier,
		Wizard:  cfg.Quote.WizardOptions(),
		Admin: features.AdminAuth{
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
		},
		Port:          cfg.Server.Port,
		Watch:         cfg.Server.Watch,
		ContentPath:   cfg.Content.Path,
		SessionSecret: cfg.Server.SessionSecret,
		SecureCookies: cfg.Server.SecureCookies,
		IsDev:         cfg.Server.Dev,
		Logger:        logger,
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	if opts.Open {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Println(fmt.Sprintf("Serving %s on %s", cmdCtx.Content.Site.Name, url))
	r.Muted("Press Ctrl+C to stop")

	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.Go(func() error {
		return server.Serve(ctx)
	})
	eg.Go(func() error {
		return job.Run(ctx)
	})
	return eg.Wait()
}

// buildNotifier logs every quote and also emails it when SES is enabled.
func buildNotifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (notify.Notifier, error) {
	notifiers := notify.Multi{notify.NewLogNotifier(logger)}
	if cfg.Notify.SES.Enabled {
		ses, err := notify.NewSESNotifier(ctx, notify.SESConfig{
			Region: cfg.Notify.SES.Region,
			From:   cfg.Notify.SES.From,
			To:     cfg.Notify.SES.To,
		}, logger)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, ses)
	}
	return notifiers, nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
