package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/prodistat/export"
)

func newExportCmd(app *cli) *cobra.Command {
	var (
		view viewFlags
		out  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current table to a file",
		Long: `Write the visible summary table in the configured export format.

Without --out the file is named
data_pendaftaran_univ_bandung_2023_<timestamp>.<ext> in the current
directory. Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(app.cfg.Export.Format)
			if err != nil {
				return err
			}

			session, closeFn, err := app.openSession()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := view.apply(session); err != nil {
				return err
			}

			if out == "-" {
				return session.Export(cmd.OutOrStdout(), format)
			}
			if out == "" {
				out = export.DefaultFilename(time.Now(), format)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := session.Export(f, format); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			app.logger.Info("exported table", zap.String("path", out), zap.String("format", string(format)))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
			return nil
		},
	}
	view.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: data_pendaftaran_univ_bandung_2023_<timestamp>.<ext>)")
	return cmd
}
