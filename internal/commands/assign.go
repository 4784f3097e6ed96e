package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

func newAssignCommand(opts *rootOptions) *cobra.Command {
	assignCmd := &cobra.Command{
		Use:   "assign",
		Short: "Manage manual assignments",
	}

	assignCmd.AddCommand(newAssignAddCommand(opts))
	assignCmd.AddCommand(newAssignRemoveCommand(opts))
	assignCmd.AddCommand(newAssignListCommand(opts))

	return assignCmd
}

func newAssignAddCommand(opts *rootOptions) *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "add <date> <recipient> <purpose> <category>",
		Short: "Pin a transaction to a category",
		Long: "Pin the transaction identified by date (DD.MM.YY), recipient and purpose\n" +
			"to a category, overriding every matching rule. With --amount the pin only\n" +
			"applies when the transaction amount matches to the cent.",
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd, opts)
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			_, assigns, err := openStores(cfg, log)
			if err != nil {
				return err
			}

			a := model.Assignment{
				Date:      args[0],
				Recipient: args[1],
				Purpose:   args[2],
				Category:  args[3],
			}
			if amount != "" {
				d, err := decimal.NewFromString(amount)
				if err != nil {
					return fmt.Errorf("parsing --amount: %w", err)
				}
				a.Amount = &d
			}

			outcome, err := assigns.Add(a)
			if err != nil {
				return err
			}
			reportOutcome(cmd, outcome, fmt.Sprintf("Assigned %s / %s to %s.", a.Date, a.Recipient, a.Category))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "restrict the assignment to this amount")

	return cmd
}

func newAssignRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <date> <recipient> <purpose>",
		Short: "Remove manual assignments for a transaction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd, opts)
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			_, assigns, err := openStores(cfg, log)
			if err != nil {
				return err
			}

			outcome := assigns.Remove(args[0], args[1], args[2])
			reportOutcome(cmd, outcome, fmt.Sprintf("Removed assignments for %s / %s.", args[0], args[1]))
			return nil
		},
	}
}

func newAssignListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List manual assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd, opts)
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			_, assigns, err := openStores(cfg, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if assigns.Len() == 0 {
				fmt.Fprintln(out, "No manual assignments.")
				return nil
			}
			for _, a := range assigns.All() {
				line := fmt.Sprintf("%s | %s | %s -> %s", a.Date, a.Recipient, a.Purpose, a.Category)
				if a.Amount != nil {
					line += fmt.Sprintf(" (%s)", a.Amount.StringFixed(2))
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
