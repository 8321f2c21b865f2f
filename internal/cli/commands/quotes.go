package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lmstudios/lmsite/internal/cli/output"
	"github.com/lmstudios/lmsite/internal/retention"
	"github.com/lmstudios/lmsite/internal/state"
)

// defaultListLimit caps quotes list unless --limit is given.
const defaultListLimit = 50

// NewQuotesCommand creates the quotes command group.
func NewQuotesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Inspect and manage stored quote requests",
	}
	cmd.AddCommand(newQuotesListCommand(), newQuotesShowCommand(), newQuotesPurgeCommand())
	return cmd
}

func newQuotesListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quote requests, newest first",
		Example: `  lmsite quotes list
  lmsite quotes list --limit 10 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return listQuotes(cmd, cmdCtx, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultListLimit, "Maximum number of quotes (0 for all)")
	return cmd
}

func listQuotes(cmd *cobra.Command, cmdCtx *CommandContext, limit int) error {
	ctx := cmd.Context()
	quotes, err := cmdCtx.Store.ListQuotes(ctx, limit)
	if err != nil {
		return err
	}
	total, err := cmdCtx.Store.CountQuotes(ctx)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(struct {
			Total  int            `json:"total"`
			Quotes []*state.Quote `json:"quotes"`
		}{total, quotes})
	}

	r.Header(1, fmt.Sprintf("Quote requests (%d of %d)", len(quotes), total))
	if len(quotes) == 0 {
		r.Muted("No quote requests yet.")
		return nil
	}

	rows := make([][]string, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, []string{
			q.CreatedAt.Local().Format("2006-01-02 15:04"),
			q.Name,
			q.Email,
			q.ProjectType,
			q.Budget,
			q.Source,
			q.ID,
		})
	}
	r.Table([]string{"Received", "Name", "Email", "Project", "Budget", "Source", "ID"}, rows)
	return nil
}

func newQuotesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one quote request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			q, err := cmdCtx.Store.GetQuote(cmd.Context(), args[0])
			if errors.Is(err, state.ErrQuoteNotFound) {
				return fmt.Errorf("no quote with id %q", args[0])
			}
			if err != nil {
				return err
			}
			return showQuote(cmdCtx.Renderer, q)
		},
	}
}

func showQuote(r *output.Renderer, q *state.Quote) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(q)
	}

	r.Header(1, fmt.Sprintf("Quote from %s", q.Name))
	fields := [][2]string{
		{"id", q.ID},
		{"received", q.CreatedAt.Local().Format(time.RFC1123)},
		{"email", q.Email},
		{"phone", q.Phone},
		{"company", q.Company},
		{"project_type", q.ProjectType},
		{"package", q.Package},
		{"budget", q.Budget},
		{"timeline", q.Timeline},
		{"source", q.Source},
	}
	for _, f := range fields {
		if f[1] != "" {
			r.KeyValue(output.Label(f[0]), f[1])
		}
	}
	if q.Message != "" {
		r.Println("")
		r.Header(2, "Message")
		r.Println(q.Message)
	}
	return nil
}

func newQuotesPurgeCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete quote requests older than a cutoff",
		Long: `Delete quote requests older than --older-than. Without the flag the
configured quote.retention is used, which is what the server's scheduled
purge does.`,
		Example: `  lmsite quotes purge
  lmsite quotes purge --older-than 720h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			rc := cmdCtx.Cfg.Quote.RetentionConfig()
			if cmd.Flags().Changed("older-than") {
				if olderThan <= 0 {
					return fmt.Errorf("--older-than must be positive, got %s", olderThan)
				}
				rc.Retention = olderThan
			}
			return purgeQuotes(cmd, cmdCtx, rc)
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Delete quotes older than this (e.g. 720h)")
	return cmd
}

func purgeQuotes(cmd *cobra.Command, cmdCtx *CommandContext, rc retention.Config) error {
	r := cmdCtx.Renderer
	job, err := retention.New(cmdCtx.Store, rc, cmdCtx.Logger)
	if err != nil {
		return err
	}
	if !job.Enabled() {
		r.Warning("quote retention is disabled; nothing purged")
		return nil
	}

	n, err := job.PurgeOnce(cmd.Context())
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]int64{"deleted": n})
	}
	r.Success("Deleted " + strconv.FormatInt(n, 10) + " quote request(s) older than " + rc.Retention.String())
	return nil
}
