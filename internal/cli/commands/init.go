package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lmstudios/lmsite/internal/cli/output"
	"github.com/lmstudios/lmsite/internal/content"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a site configuration and editable content file",
		Long: `Create a starter lmsite deployment directory.

This creates:
  - lmsite.yaml with every configuration key and its default
  - content.yaml, a copy of the built-in site content to edit
  - .gitignore excluding the local quote database and .env

Run 'lmsite serve' in the directory afterwards; content.yaml is reloaded
on save.`,
		Example: `  # Initialize in current directory
  lmsite init

  # Initialize in a new directory
  lmsite init my-site

  # Overwrite existing files
  lmsite init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, "lmsite.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("lmsite.yaml already exists. Use --force to overwrite")
	}

	written, err := copyTemplate("site", dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize site: %w", err)
	}

	contentPath := filepath.Join(dir, "content.yaml")
	if _, err := os.Stat(contentPath); err != nil || force {
		if err := os.WriteFile(contentPath, content.DefaultYAML(), 0o600); err != nil {
			return fmt.Errorf("failed to write content.yaml: %w", err)
		}
		written = append(written, "content.yaml")
	}

	for _, f := range written {
		r.Success(f)
	}

	r.Println("")
	r.Success("lmsite initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Set LMSITE_SESSION_SECRET and LMSITE_ADMIN_PASSWORD (or add them to .env)")
	r.Println("  2. Edit content.yaml")
	r.Println("  3. Run 'lmsite doctor' to check the setup")
	r.Println("  4. Run 'lmsite serve'")

	return nil
}
