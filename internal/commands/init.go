package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnenrich/internal/config"
	"github.com/cleared-dev/txnenrich/internal/industry"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new enrichment project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir)
		},
	}
	return cmd
}

func runInit(out io.Writer, dir string) error {
	// Create directory structure.
	dirs := []string{
		"data",
		"industry",
		"logs",
		"models",
		"output",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write txnenrich.yaml.
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}
	if err := config.Save(cfgPath, config.Default()); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write industry lookup tables.
	if err := industry.Default().Save(dir); err != nil {
		return fmt.Errorf("writing industry tables: %w", err)
	}

	// Write .gitignore.
	gitignore := "output/\nimport/processed/\nlogs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(out, "Initialized txnenrich project at %s\n", dir)
	return nil
}
