package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"expensert/internal/services"
)

func (app *cli) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the ledger snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			data, err := services.NewDataService(sess.ledgers).Export(cmd.Context(), app.namespace())
			if err != nil {
				return fmt.Errorf("failed to export ledger: %w", err)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", app.namespace(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")
	return cmd
}

func (app *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the ledger with a JSON snapshot",
		Long: `Import replaces all transactions, categories and budgets of the namespace
with the snapshot in <file>. A malformed file leaves the ledger unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			sess, err := app.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := services.NewDataService(sess.ledgers).Import(cmd.Context(), app.namespace(), data); err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s\n", args[0], app.namespace())
			return nil
		},
	}
}

func (app *cli) clearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all records and restore the default categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return fmt.Errorf("refusing to clear %s without --force", app.namespace())
			}

			sess, err := app.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := services.NewDataService(sess.ledgers).Clear(cmd.Context(), app.namespace()); err != nil {
				return fmt.Errorf("failed to clear ledger: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", app.namespace())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "confirm the ledger should be cleared")
	return cmd
}
