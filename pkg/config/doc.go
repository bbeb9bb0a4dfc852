// Package config provides job configuration for dopant.
//
// A job names a source connector, a destination connector and the doping
// options to apply between them. Jobs are YAML files; ${VAR_NAME} and
// ${VAR_NAME:-fallback} references are replaced with environment values
// before parsing, so credentials in a DSN can stay out of the file. Unknown
// keys are rejected.
//
//	name: fraud-benchmark
//	source:
//	  type: csv
//	  path: data/transactions.csv
//	destination:
//	  type: csv
//	  path: out/transactions-doped.csv.zst
//	doping:
//	  num_rows_to_modify: 200
//	  max_cols_per_modification: 3
//	  random_state: 42
//	events_path: out/ground-truth.json
//	score_column: true
//
// Fields a file leaves out keep the values from NewJobConfig.
package config
