package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/fiberpay/internal/config"
	"github.com/alexanderramin/fiberpay/internal/rules"
	"github.com/alexanderramin/fiberpay/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the configuration and services used by CLI commands. Fields
// left nil are wired from the config file on first use.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Datasets service.DatasetService
	Reports  service.ReportService
	Exports  service.ExportService

	// Interactive reports whether stdin and stderr are terminals.
	Interactive bool

	// RunForm and RunProgram drive huh forms and bubbletea programs;
	// tests replace them.
	RunForm    func(*huh.Form) error
	RunProgram func(tea.Model) error
}

// NewRootCmd creates the top-level "fiberpay" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "fiberpay",
		Short:         "Field-work footage and hours reports from crew spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.wire(configPath, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $"+config.PathEnv+" or ./fiberpay.yaml)")

	root.AddCommand(
		newReportCmd(app),
		newNarrateCmd(app),
		newExportCmd(app),
		newOptionsCmd(app),
		newBrowseCmd(app),
		newWatchCmd(app),
		newRulesCmd(app),
	)

	return root
}

// wire fills any unset App field from configuration.
func (a *App) wire(configPath string, stderr io.Writer) error {
	if err := a.loadConfig(configPath, stderr); err != nil {
		return err
	}
	if a.Logger == nil {
		logger, err := NewLogger(a.Config.Log)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		a.Logger = logger
	}
	obs := service.NewLogUseCaseObserver(a.Logger)

	if a.Datasets == nil {
		ruleset, err := rules.Load(a.Config.RulesPath)
		if err != nil {
			return fmt.Errorf("loading rules: %w", err)
		}
		a.Datasets = service.NewDatasetService(ruleset, a.Config.EffectiveWorkers(), obs)
	}
	if a.Reports == nil {
		a.Reports = service.NewReportService(obs)
	}
	if a.Exports == nil {
		a.Exports = service.NewExportService(obs)
	}
	if a.RunForm == nil {
		a.RunForm = func(f *huh.Form) error { return f.Run() }
	}
	if a.RunProgram == nil {
		a.RunProgram = func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		}
	}
	return nil
}

// loadConfig reads configuration unless the App already carries one.
func (a *App) loadConfig(configPath string, stderr io.Writer) error {
	if a.Config != nil {
		return nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a.Config = cfg
	a.Interactive = isTerminal(os.Stdin) && isTerminal(stderr)
	return nil
}

// Close flushes the logger.
func (a *App) Close() {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

func isTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
