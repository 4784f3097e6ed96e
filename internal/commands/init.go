package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MarcSchuh/DKBParsing/internal/assignments"
	"github.com/MarcSchuh/DKBParsing/internal/categories"
	"github.com/MarcSchuh/DKBParsing/internal/config"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Scaffold a dkbparse project",
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

			return runInit(cmd, opts, absDir, seed)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "seed the category store with common German categories")

	return cmd
}

func runInit(cmd *cobra.Command, opts *rootOptions, dir string, seed bool) error {
	log := newLogger(cmd, opts)

	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}

	// Write dkbparse.yaml.
	cfg := config.Default()
	cfg.TemplateFile = "haushalt.txt"
	if err := config.Save(filepath.Join(dir, "dkbparse.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the category document, seeded or empty.
	cats, err := categories.NewStore(filepath.Join(dir, cfg.CategoriesFile), log)
	if err != nil {
		return fmt.Errorf("creating category store: %w", err)
	}
	if seed {
		for _, c := range categories.DefaultSet() {
			cats.Add(c)
		}
	}
	if err := cats.Save(); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}

	// Write the empty manual assignment document.
	assigns, err := assignments.NewStore(filepath.Join(dir, cfg.AssignmentsFile), cats, log)
	if err != nil {
		return fmt.Errorf("creating assignment store: %w", err)
	}
	if err := assigns.Save(); err != nil {
		return fmt.Errorf("writing assignments: %w", err)
	}

	// Write a household template listing the default categories.
	if err := os.WriteFile(filepath.Join(dir, cfg.TemplateFile), []byte(sampleTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing household template: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized dkbparse project at %s\n", dir)
	return nil
}

// sampleTemplate lists every default category's display name, income first
// with a blank row before the expense block.
func sampleTemplate() string {
	var b strings.Builder
	for i, c := range categories.DefaultSet() {
		b.WriteString(c.DisplayName)
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
