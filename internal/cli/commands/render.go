package commands

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/ui"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render a site page without starting the server",
		Long: `Render one page of the site exactly as the server would and print it.

With --markdown only the page's <main> content is printed, converted to
Markdown. This is handy for reviewing copy after editing a content file.`,
		Example: `  # Full HTML of the pricing page
  lmsite render /pricing

  # Landing page copy for Polokwane as Markdown
  lmsite render /web-design/polokwane --markdown --content site.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContextWithoutStore(cmd)
			if err != nil {
				return err
			}

			page, status, err := renderPage(cmdCtx.Content, cmdCtx.Cfg.Server.SessionSecret, args[0])
			if err != nil {
				return err
			}
			if markdown {
				page, err = mainMarkdown(page)
				if err != nil {
					return err
				}
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(page, "\n"))
			if status != http.StatusOK {
				return fmt.Errorf("%s returned %d %s", args[0], status, http.StatusText(status))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the main content as Markdown")
	return cmd
}

// renderPage runs a GET for path through the site's router.
func renderPage(c *content.Content, secret, path string) (string, int, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	server := ui.NewServer(ui.Config{
		Content:       content.NewHolder(c),
		SessionSecret: secret,
	})
	handler, err := server.Handler()
	if err != nil {
		return "", 0, err
	}

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Body.String(), rec.Code, nil
}

// mainMarkdown converts the document's <main> element to Markdown.
func mainMarkdown(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	mainEl := findElement(doc, "main")
	if mainEl == nil {
		return "", errors.New("page has no <main> element")
	}

	var buf bytes.Buffer
	for c := mainEl.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("failed to render page content: %w", err)
		}
	}

	md, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}
	return md, nil
}

// findElement returns the first element named tag in depth-first order.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
