package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"expensert/internal/services"
)

func (app *cli) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print ledger reports",
	}

	var format string
	cmd.PersistentFlags().StringVar(&format, "format", "json", "output format (json, yaml)")

	cmd.AddCommand(app.monthlyReportCmd(&format))
	cmd.AddCommand(app.trendReportCmd(&format))
	return cmd
}

func (app *cli) monthlyReportCmd(format *string) *cobra.Command {
	var month, year int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Summary and category breakdown of one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if month == 0 {
				month = int(now.Month())
			}
			if year == 0 {
				year = now.Year()
			}

			sess, err := app.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			report, err := services.NewReportService(sess.ledgers, time.Now).
				MonthlyReport(cmd.Context(), app.namespace(), time.Month(month), year)
			if err != nil {
				return err
			}
			return writeFormatted(cmd.OutOrStdout(), *format, report)
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default: current)")
	cmd.Flags().IntVar(&year, "year", 0, "year (default: current)")
	return cmd
}

func (app *cli) trendReportCmd(format *string) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Income and expenses per month, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			trend, err := services.NewReportService(sess.ledgers, time.Now).Trend(cmd.Context(), app.namespace(), months)
			if err != nil {
				return err
			}
			return writeFormatted(cmd.OutOrStdout(), *format, trend)
		},
	}

	cmd.Flags().IntVar(&months, "months", 6, "number of months")
	return cmd
}

// writeFormatted encodes v to w as indented JSON or YAML.
func writeFormatted(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (use json or yaml)", format)
	}
}
