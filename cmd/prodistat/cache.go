package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spektr-org/prodistat/cache"
)

func newCacheCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the parsed snapshot cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.Open(app.cfg.CacheDir())
			if err != nil {
				return err
			}
			defer c.Close()

			stats, err := c.GetStats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache: %s\n", c.Path())
			fmt.Fprintf(out, "Snapshots: %d\n", stats.SnapshotCount)
			fmt.Fprintf(out, "Records: %d\n", stats.RecordCount)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.Open(app.cfg.CacheDir())
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	})

	return cmd
}
