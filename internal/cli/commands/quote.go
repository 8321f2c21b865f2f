package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lmstudios/lmsite/internal/cli/output"
	"github.com/lmstudios/lmsite/internal/notify"
	"github.com/lmstudios/lmsite/internal/state"
	"github.com/lmstudios/lmsite/internal/wizard"
)

// NewQuoteCommand creates the quote command.
func NewQuoteCommand() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Submit a quote request from the terminal",
		Long: `Walk through the same three-step quote wizard the website uses and store
the request.

On a terminal the wizard is interactive. With --set every field is given
up front and the request is submitted without prompting, which is useful
for taking requests over the phone or from scripts.

Fields: ` + strings.Join(wizard.Fields, ", "),
		Example: `  # Interactive
  lmsite quote

  # Non-interactive
  lmsite quote --set name="Thandi Mokoena" --set email=thandi@example.co.za \
    --set project_type="New website" --set budget="R5,000 - R15,000" \
    --set timeline="1 - 3 months"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			fields, err := parseSets(sets)
			if err != nil {
				return err
			}
			submit := quoteSubmitter(cmdCtx)
			if len(fields) > 0 || !isInteractive(cmd) {
				return submitQuote(cmd.Context(), cmdCtx, fields, submit)
			}
			return runQuoteWizard(cmd, cmdCtx, submit)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a field as key=value (repeatable)")
	return cmd
}

// parseSets splits key=value pairs. Values may contain commas and '='.
func parseSets(sets []string) (map[string]string, error) {
	fields := make(map[string]string, len(sets))
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("--set %q: expected key=value", kv)
		}
		fields[strings.TrimSpace(key)] = value
	}
	return fields, nil
}

func isInteractive(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(in.Fd()))
}

// quoteSubmitter stores a draft as a CLI-sourced quote and logs it.
func quoteSubmitter(cmdCtx *CommandContext) submitFunc {
	n := notify.NewLogNotifier(cmdCtx.Logger)
	return func(ctx context.Context, d wizard.Draft) (*state.Quote, error) {
		q := state.QuoteFromDraft(d, state.SourceCLI)
		if err := cmdCtx.Store.CreateQuote(ctx, q); err != nil {
			return nil, err
		}
		if err := n.Notify(ctx, q); err != nil {
			cmdCtx.Logger.Warn("failed to notify about quote", "id", q.ID, "error", err)
		}
		return q, nil
	}
}

// submitQuote runs the wizard non-interactively over the given fields.
func submitQuote(ctx context.Context, cmdCtx *CommandContext, fields map[string]string, submit submitFunc) error {
	var unknown []string
	for name := range fields {
		if !isField(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown field(s): %s (valid: %s)", strings.Join(unknown, ", "), strings.Join(wizard.Fields, ", "))
	}

	wiz := wizard.New(cmdCtx.Cfg.Quote.WizardOptions())
	if err := wiz.Update(fields); err != nil {
		return err
	}
	for wiz.Step < wizard.LastStep {
		if err := wiz.Next(); err != nil {
			return describeWizardError(err)
		}
	}
	draft, err := wiz.Submit(time.Now())
	if err != nil {
		return describeWizardError(err)
	}

	q, err := submit(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to store quote: %w", err)
	}
	return reportQuote(cmdCtx.Renderer, q)
}

func isField(name string) bool {
	for _, f := range wizard.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// describeWizardError lists the missing fields by their flag names.
func describeWizardError(err error) error {
	var inc *wizard.IncompleteStepError
	if !errors.As(err, &inc) {
		return err
	}
	names := make([]string, 0, len(inc.Fields))
	for name := range inc.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s (%s)", name, inc.Fields[name])
	}
	return fmt.Errorf("%s: fix %s", inc.Step.Title(), strings.Join(parts, ", "))
}

func runQuoteWizard(cmd *cobra.Command, cmdCtx *CommandContext, submit submitFunc) error {
	wiz := wizard.New(cmdCtx.Cfg.Quote.WizardOptions())
	m := newQuoteModel(cmd.Context(), wiz, cmdCtx.Content.Quote, submit)

	p := tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("quote wizard failed: %w", err)
	}
	if fm, ok := final.(quoteModel); ok && fm.quote == nil {
		cmdCtx.Renderer.Muted("Quote request cancelled.")
	}
	return nil
}

func reportQuote(r *output.Renderer, q *state.Quote) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(q)
	}
	r.Success(fmt.Sprintf("Stored quote request from %s", q.Name))
	r.KeyValue("ID", q.ID)
	return nil
}
