package cli

import (
	"fmt"

	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newExportCmd(a *App) *cobra.Command {
	var (
		filters filterFlags
		out     string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the filtered records to CSV or SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := filters.spec()
			if err != nil {
				return err
			}
			f, err := app.ParseExportFormat(format)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context(), a, cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}

			res, err := a.Exports.Export(cmd.Context(), ds, app.ExportRequest{
				Filter: spec,
				Path:   out,
				Format: f,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExportResult(res))
			return nil
		},
	}

	addFilterFlags(cmd, &filters)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (required)")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or sqlite")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
