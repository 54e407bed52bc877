package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/cli/formatter"
	"github.com/alexanderramin/fiberpay/internal/filter"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *App) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "browse FILE",
		Short: "Page through the filtered records in a terminal UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.Interactive {
				return errors.New("browse needs a terminal; use report or export instead")
			}
			spec, err := filters.spec()
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context(), a, cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}

			resp, err := a.Reports.Report(cmd.Context(), ds, app.ReportRequest{
				Filter:   spec,
				Keywords: a.Config.Report.Keywords,
			})
			if err != nil {
				return err
			}
			records := filter.Apply(ds.Records, spec)
			title := fmt.Sprintf("%s · %s", ds.Source, resp.Filter)
			return a.RunProgram(newBrowseModel(title, records, formatter.FormatReport(resp, a.Config.Report.BarWidth)))
		},
	}

	addFilterFlags(cmd, &filters)
	return cmd
}
