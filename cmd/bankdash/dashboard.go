package main

import (
	"fmt"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/cli"
	"github.com/Veraticus/bankdash/internal/dashboard"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	var (
		bankID   int64
		from, to string
		width    int
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the performance of a bank",
		Long: `Show the performance figures and balance graph of a bank, or of all
banks when --bank is not given.

Examples:
  bankdash dashboard
  bankdash dashboard --bank 2 --from 2024-01-01 --to 2024-06-30`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (from == "") != (to == "") {
				return fmt.Errorf("--from and --to must be given together")
			}

			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			// The bank page carries its own dashboard; /dashboard would
			// clear the bank selection again.
			if bankID != 0 {
				err = a.openBank(ctx, bankID)
			} else {
				_, err = a.session.Navigate(ctx, api.PathDashboard)
			}
			if err != nil {
				return err
			}
			if from != "" {
				start, err := optionalDate(from)
				if err != nil {
					return err
				}
				end, err := optionalDate(to)
				if err != nil {
					return err
				}
				if err := a.session.UpdateDateRange(ctx, *start, *end); err != nil {
					return err
				}
			}

			d := a.session.Dashboard
			title := "All banks"
			if b := d.Bank(); b != nil {
				title = b.Name
			}
			if err := a.print(cli.FormatTitle(title)); err != nil {
				return err
			}

			metrics := dashboard.Panel(d.Performance())
			if len(metrics) == 0 {
				return a.print(cli.FormatInfo("No performance data."))
			}
			if err := a.print(cli.MetricTable(metrics)); err != nil {
				return err
			}
			for _, trace := range d.Graph() {
				if err := a.print(fmt.Sprintf("%-20s %s", trace.Name, dashboard.Sparkline(trace, width))); err != nil {
					return err
				}
			}
			return nil
		},
	}

	bankFlag(cmd, &bankID)
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&width, "width", 60, "sparkline width")
	return cmd
}
