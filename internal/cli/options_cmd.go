package cli

import (
	"fmt"

	"github.com/alexanderramin/fiberpay/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newOptionsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "options FILE",
		Short: "List the dates, projects, trucks and technicians in a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), a, cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOptions(ds.Options))
			return nil
		},
	}
}
