package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spektr-org/prodistat/dashboard"
	"github.com/spektr-org/prodistat/export"
)

// viewFlags are the filter and search flags shared by read commands.
type viewFlags struct {
	filters []string
	search  string
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&v.filters, "filter", nil, "Filter as dimension=value (repeatable)")
	cmd.Flags().StringVarP(&v.search, "search", "s", "", "Case-insensitive program name search")
}

func (v *viewFlags) apply(session *dashboard.Session) error {
	if err := applyFilters(session, v.filters); err != nil {
		return err
	}
	session.SetSearch(v.search)
	return nil
}

func newSummaryCmd(app *cli) *cobra.Command {
	var view viewFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the ranked per-program summary",
		Long: `Print one row per study program, ranked by applicant count.

Output defaults to an aligned text table. Pass --format to print CSV, TSV,
JSON or YAML instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := export.Table
			if cmd.Flags().Changed("format") {
				f, err := export.ParseFormat(app.cfg.Export.Format)
				if err != nil {
					return err
				}
				format = f
			}
			if format == export.XLSX {
				return fmt.Errorf("xlsx output needs a file: use the export command")
			}

			session, closeFn, err := app.openSession()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := view.apply(session); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := session.Export(out, format); err != nil {
				return err
			}
			if format == export.Table {
				stats, err := session.Stats()
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, stats.Describe(session.Locale()))
			}
			return nil
		},
	}
	view.register(cmd)
	return cmd
}
