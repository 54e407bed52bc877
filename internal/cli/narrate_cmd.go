package cli

import (
	"fmt"

	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newNarrateCmd(a *App) *cobra.Command {
	var (
		filters    filterFlags
		fiberField string
	)

	cmd := &cobra.Command{
		Use:   "narrate FILE",
		Short: "Write plain-English work summaries per day and project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := filters.spec()
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context(), a, cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("fiber-field") {
				fiberField = a.Config.Narrative.FiberField
			}

			resp, err := a.Reports.Narrate(cmd.Context(), ds, app.NarrateRequest{
				Filter:     spec,
				FiberField: fiberField,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNarrative(resp))
			return nil
		},
	}

	addFilterFlags(cmd, &filters)
	cmd.Flags().StringVar(&fiberField, "fiber-field", "", "note column describing the fiber (default from config)")
	return cmd
}
