package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MarcSchuh/DKBParsing/internal/assignments"
	"github.com/MarcSchuh/DKBParsing/internal/categories"
	"github.com/MarcSchuh/DKBParsing/internal/config"
	"github.com/MarcSchuh/DKBParsing/internal/logging"
	"github.com/MarcSchuh/DKBParsing/internal/storage"
)

func newLogger(cmd *cobra.Command, opts *rootOptions) zerolog.Logger {
	return logging.New(cmd.ErrOrStderr(), logging.Level(opts.verbose))
}

// loadConfig reads the configuration and anchors its relative file paths to
// the config file's directory, so the CLI works from anywhere.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	cfg.CategoriesFile = anchor(base, cfg.CategoriesFile)
	cfg.AssignmentsFile = anchor(base, cfg.AssignmentsFile)
	cfg.RunLogFile = anchor(base, cfg.RunLogFile)
	cfg.TemplateFile = anchor(base, cfg.TemplateFile)
	return cfg, nil
}

func anchor(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func openStores(cfg *config.Config, log zerolog.Logger) (*categories.Store, *assignments.Store, error) {
	cats, err := categories.NewStore(cfg.CategoriesFile, log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening category store: %w", err)
	}
	assigns, err := assignments.NewStore(cfg.AssignmentsFile, cats, log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening assignment store: %w", err)
	}
	return cats, assigns, nil
}

// reportOutcome prints the result of a store mutation. A warning means the
// change is live in memory but could not be written back.
func reportOutcome(cmd *cobra.Command, outcome storage.Outcome, applied string) {
	if !outcome.Applied {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to do.")
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), applied)
	if outcome.Warning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", outcome.Warning)
	}
}
