package cli

import (
	"fmt"

	"github.com/alexanderramin/fiberpay/internal/cli/formatter"
	"github.com/alexanderramin/fiberpay/internal/rules"
	"github.com/spf13/cobra"
)

func newRulesCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Check or print annotation rules files",
		// Skips service wiring so a broken rules file can still be checked.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return a.loadConfig(configPath, cmd.ErrOrStderr())
		},
	}
	cmd.AddCommand(newRulesCheckCmd(a), newRulesDumpCmd())
	return cmd
}

func newRulesCheckCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check [FILE]",
		Short: "Validate a rules file (default: the configured one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.Config.RulesPath
			if len(args) == 1 {
				path = args[0]
			}
			out := cmd.OutOrStdout()
			if path == "" {
				fmt.Fprintln(out, formatter.Dim("No rules file configured; using built-in rules."))
				return nil
			}

			f, err := rules.LoadFile(path)
			if err != nil {
				return err
			}
			if errs := rules.Validate(f); len(errs) > 0 {
				fmt.Fprint(out, formatter.FormatValidationErrors(errs))
				return fmt.Errorf("%s: %d problem(s)", path, len(errs))
			}
			if _, err := rules.Compile(f); err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.StyleGreen.Render("✔ ")+path+" is valid"+
				formatter.Dim(fmt.Sprintf(" (%d classifier, %d extraction rules)", len(f.Classifier), len(f.Extraction))))
			return nil
		},
	}
}

func newRulesDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the built-in rules as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := rules.Marshal(rules.DefaultFile())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
