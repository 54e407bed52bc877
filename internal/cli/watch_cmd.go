package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/cli/formatter"
	"github.com/alexanderramin/fiberpay/internal/watch"
	"github.com/spf13/cobra"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

func newWatchCmd(a *App) *cobra.Command {
	var (
		filters  filterFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-render the report whenever the workbook is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := filters.spec()
			if err != nil {
				return err
			}
			path := args[0]
			out := cmd.OutOrStdout()

			render := func(ctx context.Context) error {
				ds, err := a.Datasets.Load(ctx, path)
				if err != nil {
					return err
				}
				resp, err := a.Reports.Report(ctx, ds, app.ReportRequest{
					Filter:   spec,
					Keywords: a.Config.Report.Keywords,
				})
				if err != nil {
					return err
				}
				if a.Interactive {
					fmt.Fprint(out, clearScreen)
				}
				fmt.Fprintln(out, formatter.FormatReport(resp, a.Config.Report.BarWidth))
				fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Updated %s · watching %s (ctrl+c to stop)",
					ds.LoadedAt.Format("15:04:05"), ds.Source)))
				return nil
			}

			if err := render(cmd.Context()); err != nil {
				return err
			}

			w, err := watch.New(path, debounce, a.Logger)
			if err != nil {
				return err
			}
			return w.Run(cmd.Context(), func(ctx context.Context) error {
				if err := render(ctx); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleRed.Render("Error: "+err.Error()))
					return err
				}
				return nil
			})
		},
	}

	addFilterFlags(cmd, &filters)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "wait for saves to settle before reloading")
	return cmd
}
