package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newReportCmd(a *App) *cobra.Command {
	var (
		filters     filterFlags
		groupBy     []string
		metric      string
		mentions    []string
		barWidth    int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Show hours and footage summaries for a workbook",
		Long: `Show the summary dashboard for a workbook: total hours, hours by
technician, the daily hours trend, hours by project, footage by activity
and technician, and keyword mentions in notes.

Use --by to add a custom table, e.g. --by date,technician --metric footage.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), a, cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}

			input := filters.input()
			if interactive {
				if !a.Interactive {
					return errors.New("--interactive needs a terminal")
				}
				sel := selectionFromFlags(&filters)
				if err := a.RunForm(newFilterForm(ds.Options, &sel)); err != nil {
					return fmt.Errorf("filter form: %w", err)
				}
				input = sel.input(filters.keywordFields)
			}
			spec, err := input.Spec()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("mention") {
				mentions = a.Config.Report.Keywords
			}
			if !cmd.Flags().Changed("bar-width") {
				barWidth = a.Config.Report.BarWidth
			}

			resp, err := a.Reports.Report(cmd.Context(), ds, app.ReportRequest{
				Filter:    spec,
				Keywords:  mentions,
				GroupBy:   groupBy,
				Reduction: metric,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReport(resp, barWidth))
			return nil
		},
	}

	addFilterFlags(cmd, &filters)
	cmd.Flags().StringSliceVar(&groupBy, "by", nil, "custom table keys: technician, date, project, activity (one or two)")
	cmd.Flags().StringVar(&metric, "metric", "hours", "custom table value: hours, footage or count")
	cmd.Flags().StringArrayVar(&mentions, "mention", nil, "keyword to count in notes (repeatable; default from config)")
	cmd.Flags().IntVar(&barWidth, "bar-width", 0, "width of ranking bars (default from config)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose filters from dropdowns")
	return cmd
}
