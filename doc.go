// Package dopant injects synthetic anomalies into tabular datasets so that
// outlier detectors can be benchmarked against known ground truth.
//
// A doping run copies a dataset, picks rows at random (with replacement),
// and overwrites a random subset of each picked row's cells with values that
// are plausible for the column's type but atypical: a categorical column gets
// a rare or brand-new value, a numeric column gets a draw from a wide Laplace
// distribution around the column median. Every modification adds to the
// row's outlier score, so the score column is ground truth.
//
// # Quick Start
//
// Dope a CSV file and append the scores:
//
//	dopant run --source clean.csv --destination doped.csv --rows 20 --seed 42 --score-column
//
// Or call the transform directly:
//
//	import (
//	    "github.com/ajitpratap0/dopant/pkg/dataset"
//	    "github.com/ajitpratap0/dopant/pkg/doping"
//	)
//
//	opts := doping.DefaultOptions()
//	opts.NumRowsToModify = 20
//	opts.RandomState = 42
//
//	result, err := doping.NewTransformer().Transform(ctx, ds, opts)
//	scored, _ := result.WithScoreColumn()
//
// # Key Packages
//
//	pkg/doping       - Classification, synthesis and scoring of anomalies
//	pkg/dataset      - Columnar in-memory table
//	pkg/connector    - CSV, JSON Lines and SQL sources; CSV and JSON Lines destinations
//	pkg/compression  - Streaming gzip, zstd, lz4, snappy, s2 and deflate
//	pkg/config       - YAML job files with ${VAR} substitution
//	pkg/pool         - String interning for loaded columns
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus metrics
//
// # Configuration
//
// A job file names a source, a destination and the doping options:
//
//	name: sales-benchmark
//	source:
//	  type: csv
//	  path: data/sales.csv.gz
//	destination:
//	  type: json
//	  path: out/sales.jsonl.zst
//	doping:
//	  num_rows_to_modify: 50
//	  random_state: 7
//	events_path: out/sales.truth.json
//	score_column: true
//
// Environment variables are supported with ${VAR_NAME} syntax, and every
// run flag can also be set as DOPANT_<FLAG>.
package dopant
