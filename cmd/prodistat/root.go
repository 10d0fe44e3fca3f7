package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spektr-org/prodistat/cache"
	"github.com/spektr-org/prodistat/config"
	"github.com/spektr-org/prodistat/dashboard"
	"github.com/spektr-org/prodistat/engine"
)

// Version is the current version of prodistat.
var Version = "0.1.0"

// cli holds global flag values and the state built from them.
type cli struct {
	verbose    bool
	configPath string
	dataPath   string
	variant    string
	format     string
	locale     string
	noCache    bool
	workDir    string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&cli{workDir: "."})
}

// newRootCmdFor builds the command tree around app. A preset logger is kept.
func newRootCmdFor(app *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prodistat",
		Short: "Per-program admission statistics from applicant records",
		Long: `prodistat reads an admission export (CSV or XLSX) and summarizes it per
study program: applicants, admitted and rejected counts, admission rate,
funded (Bidikmisi) applicants, a competition category and a popularity
category. Filters narrow the population; search narrows the visible rows.

Examples:
  prodistat summary --data pendaftar.csv
  prodistat summary --filter funding_type=Bidikmisi --search tek
  prodistat export --format xlsx --out ringkasan.xlsx
  prodistat options province
  prodistat serve --addr :8080`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.initLogger(); err != nil {
				return err
			}
			return app.loadConfig(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&app.configPath, "config", "", "Path to config file (default: .prodistat/config.yaml)")
	pf.StringVarP(&app.dataPath, "data", "d", "", "Path to the admission CSV or XLSX file")
	pf.StringVar(&app.variant, "variant", "", "Pipeline variant: admission, graduation or auto")
	pf.StringVarP(&app.format, "format", "f", "", "Output format: csv, tsv, xlsx, table, json, yaml")
	pf.StringVar(&app.locale, "locale", "", "Label language: en or id")
	pf.BoolVar(&app.noCache, "no-cache", false, "Parse the source without the snapshot cache")

	rootCmd.AddCommand(
		newSummaryCmd(app),
		newExportCmd(app),
		newOptionsCmd(app),
		newStatsCmd(app),
		newInspectCmd(app),
		newServeCmd(app),
		newCacheCmd(app),
		newConfigCmd(app),
	)
	return rootCmd
}

func (app *cli) initLogger() error {
	if app.logger != nil {
		return nil
	}
	cfg := zap.NewProductionConfig()
	if app.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.logger = logger
	return nil
}

// loadConfig layers config file, environment, then explicitly set flags.
func (app *cli) loadConfig(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if app.configPath != "" {
		cfg, err = config.LoadFromPath(app.configPath)
	} else {
		cfg, err = config.Load(app.workDir)
	}
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "data":
			cfg.Data.Path = app.dataPath
		case "variant":
			cfg.Data.Variant = app.variant
		case "format":
			cfg.Export.Format = app.format
		case "locale":
			cfg.Data.Locale = app.locale
		case "no-cache":
			cfg.Cache.Disabled = app.noCache
		}
	})

	if err := config.Validate(cfg); err != nil {
		return err
	}
	app.cfg = cfg
	app.logger.Debug("config loaded",
		zap.String("data", cfg.Data.Path),
		zap.String("variant", cfg.Data.Variant),
		zap.Bool("cache_disabled", cfg.Cache.Disabled))
	return nil
}

// openCache opens the snapshot cache unless disabled. A cache that fails
// to open is logged and skipped.
func (app *cli) openCache() *cache.Cache {
	if app.cfg.Cache.Disabled {
		return nil
	}
	c, err := cache.Open(app.cfg.CacheDir())
	if err != nil {
		app.logger.Warn("snapshot cache unavailable", zap.Error(err))
		return nil
	}
	return c
}

// openSession loads the configured source into a new session.
// The returned close func releases the cache.
func (app *cli) openSession() (*dashboard.Session, func(), error) {
	c := app.openCache()
	closeFn := func() {
		if c != nil {
			c.Close()
		}
	}

	loader := &dashboard.Loader{Cache: c, Logger: app.logger}
	ds, variant, err := loader.Load(app.cfg.Data.Path, app.cfg.Variant())
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	session := dashboard.NewSession(ds, variant, app.sessionOptions()...)
	return session, closeFn, nil
}

func (app *cli) sessionOptions() []dashboard.Option {
	return []dashboard.Option{
		dashboard.WithLogger(app.logger),
		dashboard.WithLocale(engine.ParseLocale(app.cfg.Data.Locale)),
		dashboard.WithMappings(app.cfg.EngineMappings()),
		dashboard.WithEngineOptions(app.cfg.EngineOptions()...),
	}
}

// applyFilters parses dimension=value pairs onto the session.
func applyFilters(session *dashboard.Session, filters []string) error {
	for _, f := range filters {
		dim, value, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("invalid --filter %q: want dimension=value", f)
		}
		if err := session.SetFilter(engine.Dimension(strings.TrimSpace(dim)), value); err != nil {
			return err
		}
	}
	return nil
}
