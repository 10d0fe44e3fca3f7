package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spektr-org/prodistat/engine"
)

func newOptionsCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "options <dimension>",
		Short: "List the filter choices for a dimension",
		Long: `List the values a filter dimension accepts, "All" first.

Dimensions: funding_type, province, and gender for graduation data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeFn, err := app.openSession()
			if err != nil {
				return err
			}
			defer closeFn()

			opts, err := session.Options(engine.Dimension(args[0]))
			if err != nil {
				return err
			}
			for _, o := range opts {
				fmt.Fprintln(cmd.OutOrStdout(), o)
			}
			return nil
		},
	}
}
