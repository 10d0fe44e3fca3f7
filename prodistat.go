// Package prodistat summarizes university admission records per study
// program.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/prodistat/engine"
//	    "github.com/spektr-org/prodistat/helpers"
//	)
//
//	ds, variant, err := helpers.LoadFile("data_pendaftaran.csv", engine.VariantAuto)
//	result, err := engine.Execute(ds, engine.FilterCriteria{"province": "Banten"}, "tek",
//	    engine.WithVariant(variant),
//	    engine.WithLocale(engine.LocaleID),
//	)
//
// The engine filters the snapshot, aggregates per program, ranks by
// applicant count, classifies competition and popularity, then applies the
// search. It returns render-ready output: ranked rows, table data, and
// chart configs. All computation is local.
//
// The dashboard package holds one user's filter and search state on top of
// the engine. The server package exposes it over HTTP, and cmd/prodistat
// exposes it on the command line.
package prodistat
