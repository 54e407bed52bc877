package cli

import (
	"context"
	"io"

	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/cli/formatter"
	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// filterFlags are the record filters shared by every reporting command.
type filterFlags struct {
	date          string
	project       string
	truck         string
	techs         []string
	match         string
	keywords      []string
	keywordFields []string
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().AddFlagSet(filterFlagSet(f))
}

// filterFlagSet binds the filter flags to f, in display order.
func filterFlagSet(f *filterFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("filters", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.StringVar(&f.date, "date", "", "only records on this day (YYYY-MM-DD)")
	fs.StringVar(&f.project, "project", "", "only records for this project")
	fs.StringVar(&f.truck, "truck", "", "only records for this truck")
	fs.StringArrayVar(&f.techs, "tech", nil, "technician to match (repeatable)")
	fs.StringVar(&f.match, "match", "any", "technician match mode: any or all")
	fs.StringArrayVar(&f.keywords, "keyword", nil, "keyword to find in notes (repeatable, case-insensitive)")
	fs.StringArrayVar(&f.keywordFields, "keyword-field", nil, "note column to search for keywords (repeatable)")
	return fs
}

func (f *filterFlags) input() app.FilterInput {
	return app.FilterInput{
		Date:          f.date,
		Project:       f.project,
		Truck:         f.truck,
		Technicians:   f.techs,
		Match:         f.match,
		Keywords:      f.keywords,
		KeywordFields: f.keywordFields,
	}
}

func (f *filterFlags) spec() (domain.FilterSpec, error) {
	return f.input().Spec()
}

// loadDataset reads and annotates path, showing a spinner on terminals.
func loadDataset(ctx context.Context, a *App, stderr io.Writer, path string) (*app.Dataset, error) {
	if a.Interactive {
		stop := formatter.StartSpinner(stderr, "Reading "+path)
		defer stop()
	}
	return a.Datasets.Load(ctx, path)
}
