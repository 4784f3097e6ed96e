package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MarcSchuh/DKBParsing/internal/assignments"
	"github.com/MarcSchuh/DKBParsing/internal/categories"
	"github.com/MarcSchuh/DKBParsing/internal/model"
	"github.com/MarcSchuh/DKBParsing/internal/storage"
)

func newCategoryCommand(opts *rootOptions) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories and their matching rules",
	}

	categoryCmd.AddCommand(newCategoryListCommand(opts))
	categoryCmd.AddCommand(newCategoryAddCommand(opts))
	categoryCmd.AddCommand(newCategoryRemoveCommand(opts))
	categoryCmd.AddCommand(newRuleCommand(opts, "add-string <category> <text>",
		"Add a literal search string", "Added search string %q to %s.",
		func(s *categories.Store, category, value string) (storage.Outcome, error) {
			return s.AddSearchString(category, value), nil
		}))
	categoryCmd.AddCommand(newRuleCommand(opts, "remove-string <category> <text>",
		"Remove a literal search string", "Removed search string %q from %s.",
		func(s *categories.Store, category, value string) (storage.Outcome, error) {
			return s.RemoveSearchString(category, value), nil
		}))
	categoryCmd.AddCommand(newRuleCommand(opts, "add-regex <category> <pattern>",
		"Add a regex pattern", "Added regex %q to %s.",
		func(s *categories.Store, category, value string) (storage.Outcome, error) {
			return s.AddRegexPattern(category, value)
		}))
	categoryCmd.AddCommand(newRuleCommand(opts, "remove-regex <category> <pattern>",
		"Remove a regex pattern", "Removed regex %q from %s.",
		func(s *categories.Store, category, value string) (storage.Outcome, error) {
			return s.RemoveRegexPattern(category, value), nil
		}))
	categoryCmd.AddCommand(newRuleCommand(opts, "add-iban <category> <pattern>",
		"Add an IBAN pattern", "Added IBAN pattern %q to %s.",
		func(s *categories.Store, category, value string) (storage.Outcome, error) {
			return s.AddIBANPattern(category, value), nil
		}))
	categoryCmd.AddCommand(newRuleCommand(opts, "remove-iban <category> <pattern>",
		"Remove an IBAN pattern", "Removed IBAN pattern %q from %s.",
		func(s *categories.Store, category, value string) (storage.Outcome, error) {
			return s.RemoveIBANPattern(category, value), nil
		}))

	return categoryCmd
}

// newRuleCommand builds one of the six rule subcommands; they differ only
// in the store method they call.
func newRuleCommand(opts *rootOptions, use, short, applied string, apply func(*categories.Store, string, string) (storage.Outcome, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := openCategories(cmd, opts)
			if err != nil {
				return err
			}
			outcome, err := apply(cats, args[0], args[1])
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome, fmt.Sprintf(applied, args[1], args[0]))
			return nil
		},
	}
}

func newCategoryListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories and their rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := openCategories(cmd, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cats.Len() == 0 {
				fmt.Fprintln(out, "No categories defined.")
				return nil
			}
			for _, c := range cats.All() {
				fmt.Fprintf(out, "%s (%s)\n", c.Name, c.DisplayName)
				if len(c.SearchStrings) > 0 {
					fmt.Fprintf(out, "  strings: %s\n", strings.Join(c.SearchStrings, ", "))
				}
				if len(c.RegexPatterns) > 0 {
					fmt.Fprintf(out, "  regex:   %s\n", strings.Join(c.RegexPatterns, ", "))
				}
				if len(c.IBANPatterns) > 0 {
					fmt.Fprintf(out, "  ibans:   %s\n", strings.Join(c.IBANPatterns, ", "))
				}
				if c.ExpectedMaxAmount != nil {
					fmt.Fprintf(out, "  max:     %s\n", c.ExpectedMaxAmount.StringFixed(2))
				}
			}
			return nil
		},
	}
}

func newCategoryAddCommand(opts *rootOptions) *cobra.Command {
	var displayName string
	var maxAmount string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := openCategories(cmd, opts)
			if err != nil {
				return err
			}

			c := model.NewCategory(args[0], displayName)
			if maxAmount != "" {
				d, err := decimal.NewFromString(maxAmount)
				if err != nil {
					return fmt.Errorf("parsing --max-amount: %w", err)
				}
				c.ExpectedMaxAmount = &d
			}

			reportOutcome(cmd, cats.Add(c), fmt.Sprintf("Added category %s.", args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "display name shown in outputs (defaults to the name)")
	cmd.Flags().StringVar(&maxAmount, "max-amount", "", "expected maximum amount for this category")

	return cmd
}

func newCategoryRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd, opts)
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			cats, err := categories.NewStore(cfg.CategoriesFile, log)
			if err != nil {
				return err
			}

			// Check for manual assignments while the category still
			// exists; once it is gone the assignment store refuses to load.
			name := args[0]
			if assigns, err := assignments.NewStore(cfg.AssignmentsFile, cats, log); err == nil {
				dangling := 0
				for _, a := range assigns.All() {
					if a.Category == name {
						dangling++
					}
				}
				if dangling > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(),
						"warning: %d manual assignment(s) still reference %s; remove them or the next parse will fail\n",
						dangling, name)
				}
			}

			reportOutcome(cmd, cats.Remove(name), fmt.Sprintf("Removed category %s.", name))
			return nil
		},
	}
}

func openCategories(cmd *cobra.Command, opts *rootOptions) (*categories.Store, error) {
	log := newLogger(cmd, opts)
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	return categories.NewStore(cfg.CategoriesFile, log)
}
