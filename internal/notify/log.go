package notify

import (
	"context"
	"log/slog"

	"github.com/lmstudios/lmsite/internal/state"
)

// LogNotifier writes one structured log line per quote.
type LogNotifier struct {
	Logger *slog.Logger
}

// NewLogNotifier returns a LogNotifier. A nil logger discards output.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogNotifier{Logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, q *state.Quote) error {
	n.Logger.InfoContext(ctx, "new quote request",
		slog.String("id", q.ID),
		slog.String("name", q.Name),
		slog.String("email", q.Email),
		slog.String("project_type", q.ProjectType),
		slog.String("budget", q.Budget),
		slog.String("source", q.Source),
	)
	return nil
}
