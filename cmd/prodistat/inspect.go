package main

import (
	"bytes"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/prodistat/engine"
	"github.com/spektr-org/prodistat/helpers"
	"github.com/spektr-org/prodistat/schema"
)

func newInspectCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show how the source headers map to pipeline columns",
		Long: `Read the source headers, detect the variant, and print the column
layout: which header fills each logical column and which headers are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.cfg.Data.Path
			data, err := helpers.ReadSource(path)
			if err != nil {
				return err
			}

			var headers []string
			if helpers.IsWorkbook(path) {
				headers, _, err = helpers.ReadWorkbook(bytes.NewReader(data))
			} else {
				headers, _, err = helpers.ReadTable(bytes.NewReader(data))
			}
			if err != nil {
				return engine.Unavailable(path, "could not read headers", err)
			}

			variant := app.cfg.Variant()
			if variant == engine.VariantAuto {
				variant = schema.DetectVariant(headers)
			}
			layout := schema.Discover(headers, schema.Default(variant))

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(layout)
		},
	}
}
