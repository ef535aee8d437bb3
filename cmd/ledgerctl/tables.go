package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"expensert/internal/budget"
	"expensert/internal/models"
	"expensert/internal/services"
)

func (app *cli) budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Inspect budgets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show spending against every budget in its current period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			progress, err := services.NewBudgetService(sess.ledgers, time.Now).ListBudgetProgress(cmd.Context(), app.namespace())
			if err != nil {
				return err
			}
			return printBudgetStatus(cmd.OutOrStdout(), progress)
		},
	})
	return cmd
}

func (app *cli) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect categories",
	}

	var typeFilter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter *models.CategoryType
			if typeFilter != "" {
				t := models.CategoryType(typeFilter)
				filter = &t
			}

			sess, err := app.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			cats, err := services.NewCategoryService(sess.ledgers).ListCategories(cmd.Context(), app.namespace(), filter)
			if err != nil {
				return err
			}
			return printCategories(cmd.OutOrStdout(), cats)
		},
	}
	list.Flags().StringVar(&typeFilter, "type", "", "only list income or expense categories")

	cmd.AddCommand(list)
	return cmd
}

func printBudgetStatus(w io.Writer, progress []budget.Progress) error {
	if len(progress) == 0 {
		_, err := fmt.Fprintln(w, "No budgets found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tPERIOD\tWINDOW\tBUDGET\tSPENT\tREMAINING\tUSED\tSTATUS")
	for _, p := range progress {
		fmt.Fprintf(tw, "%s\t%s\t%s..%s\t%s\t%s\t%s\t%.1f%%\t%s\n",
			p.CategoryName, p.Period, p.PeriodStart, p.PeriodEnd,
			p.Amount.StringFixed(2), p.Spent.StringFixed(2), p.Remaining.StringFixed(2),
			p.Percentage, p.Status)
	}
	return tw.Flush()
}

func printCategories(w io.Writer, cats []models.Category) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCOLOR\tICON")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.Color, c.Icon)
	}
	return tw.Flush()
}
