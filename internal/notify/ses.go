package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/lmstudios/lmsite/internal/state"
)

// EmailSender is the subset of the SES v2 client used here.
type EmailSender interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESConfig configures email delivery.
type SESConfig struct {
	Region string
	From   string
	To     []string
}

// SESNotifier emails the studio inbox through Amazon SES.
type SESNotifier struct {
	client EmailSender
	cfg    SESConfig
	logger *slog.Logger
}

// NewSESNotifier builds an SES client from the default AWS credential chain.
func NewSESNotifier(ctx context.Context, cfg SESConfig, logger *slog.Logger) (*SESNotifier, error) {
	if cfg.From == "" || len(cfg.To) == 0 {
		return nil, fmt.Errorf("ses notifier needs a from address and at least one recipient")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return NewSESNotifierWithClient(sesv2.NewFromConfig(awsCfg), cfg, logger), nil
}

// NewSESNotifierWithClient uses an existing client.
func NewSESNotifierWithClient(client EmailSender, cfg SESConfig, logger *slog.Logger) *SESNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SESNotifier{client: client, cfg: cfg, logger: logger}
}

// Notify implements Notifier.
func (n *SESNotifier) Notify(ctx context.Context, q *state.Quote) error {
	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.cfg.From),
		Destination:      &types.Destination{ToAddresses: n.cfg.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(Subject(q)), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(Body(q)), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if q.Email != "" {
		in.ReplyToAddresses = []string{q.Email}
	}

	out, err := n.client.SendEmail(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to send quote email: %w", err)
	}
	n.logger.DebugContext(ctx, "quote email sent",
		slog.String("quote_id", q.ID),
		slog.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

// Subject is the notification email subject.
func Subject(q *state.Quote) string {
	who := q.Name
	if q.Company != "" {
		who += " (" + q.Company + ")"
	}
	return fmt.Sprintf("New quote request: %s - %s", q.ProjectType, who)
}

// Body is the plain-text notification email.
func Body(q *state.Quote) string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-13s %s\n", label+":", value)
		}
	}
	line("Name", q.Name)
	line("Email", q.Email)
	line("Phone", q.Phone)
	line("Company", q.Company)
	line("Project type", q.ProjectType)
	line("Package", q.Package)
	line("Budget", q.Budget)
	line("Timeline", q.Timeline)
	line("Received", q.CreatedAt.Format("2006-01-02 15:04 MST"))
	line("Reference", q.ID)
	if q.Message != "" {
		b.WriteString("\n")
		b.WriteString(q.Message)
		b.WriteString("\n")
	}
	return b.String()
}
