package config_test

import (
	"fmt"

	"github.com/ajitpratap0/dopant/pkg/config"
)

// Example_defaults shows the defaults a job starts from.
func Example_defaults() {
	cfg := config.NewJobConfig("demo")
	fmt.Println(cfg.Source.Type, cfg.Destination.Type)
	fmt.Println(cfg.Doping.NumRowsToModify, cfg.Doping.MinColsPerModification, cfg.Doping.MaxColsPerModification)
	fmt.Println(cfg.Validate())

	// Output:
	// csv csv
	// 10 1 -1
	// source.path is required for csv connector
}
