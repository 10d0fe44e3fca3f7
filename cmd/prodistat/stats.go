package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newStatsCmd(app *cli) *cobra.Command {
	var view viewFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print headline numbers for the filtered population",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeFn, err := app.openSession()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := view.apply(session); err != nil {
				return err
			}
			stats, err := session.Stats()
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(stats)
		},
	}
	view.register(cmd)
	return cmd
}
