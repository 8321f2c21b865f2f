package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmstudios/lmsite/internal/catalog"
	"github.com/lmstudios/lmsite/internal/cli/output"
	"github.com/lmstudios/lmsite/internal/content"
)

// NewProjectsCommand creates the projects command.
func NewProjectsCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List portfolio projects",
		Long: `List the portfolio projects shown on /projects, optionally narrowed to
one category. The category accepts a label or its slug; anything
unrecognised lists every project, the same as the site does.`,
		Example: `  # All projects
  lmsite projects

  # Only branding work, as JSON
  lmsite projects --category branding --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContextWithoutStore(cmd)
			if err != nil {
				return err
			}
			return listProjects(cmdCtx.Renderer, cmdCtx.Content, category)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category label or slug")
	return cmd
}

func listProjects(r *output.Renderer, c *content.Content, requested string) error {
	active := catalog.Normalize(catalog.Categories(c.Projects), requested)
	projects := catalog.Filter(c.Projects, active)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(struct {
			Category string            `json:"category"`
			Projects []content.Project `json:"projects"`
		}{active, projects})
	}

	r.Header(1, fmt.Sprintf("Projects: %s (%d)", active, len(projects)))
	if len(projects) == 0 {
		r.Muted("No projects in this category yet.")
		return nil
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{p.Title, p.Category, strconv.Itoa(p.Year), strings.Join(p.Tags, ", ")})
	}
	r.Table([]string{"Title", "Category", "Year", "Tags"}, rows)
	return nil
}

// NewPackagesCommand creates the packages command.
func NewPackagesCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "packages",
		Aliases: []string{"pricing"},
		Short:   "List pricing packages",
		Long: `List the fixed-price packages shown on /pricing, optionally narrowed to
one category.`,
		Example: `  # All packages
  lmsite packages

  # Website packages as Markdown
  lmsite packages --category websites --output markdown`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContextWithoutStore(cmd)
			if err != nil {
				return err
			}
			return listPackages(cmdCtx.Renderer, cmdCtx.Content, category)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category label or slug")
	return cmd
}

func listPackages(r *output.Renderer, c *content.Content, requested string) error {
	active := catalog.Normalize(catalog.Categories(c.Packages), requested)
	packages := catalog.Filter(c.Packages, active)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(struct {
			Category string            `json:"category"`
			Packages []content.Package `json:"packages"`
		}{active, packages})
	}

	r.Header(1, fmt.Sprintf("Packages: %s (%d)", active, len(packages)))
	if len(packages) == 0 {
		r.Muted("No packages in this category yet.")
		return nil
	}

	rows := make([][]string, 0, len(packages))
	for _, p := range packages {
		name := p.Name
		if p.Popular {
			name += " *"
		}
		rows = append(rows, []string{name, p.Category, p.PriceLabel(), p.Delivery})
	}
	r.Table([]string{"Package", "Category", "Price", "Delivery"}, rows)
	return nil
}
