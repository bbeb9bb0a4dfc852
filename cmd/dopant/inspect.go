package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/dopant/pkg/connector/registry"
	"github.com/ajitpratap0/dopant/pkg/dataset"
	"github.com/ajitpratap0/dopant/pkg/doping"
	"github.com/ajitpratap0/dopant/pkg/errors"
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how a dataset's columns would be classified",
		Long: `Read a dataset from a source connector and print, per column, the type a
doping run would assign along with missing and distinct counts. Numeric columns
also show the min, median and max that bound generated values.`,
		Example: `  dopant inspect --source clean.csv
  dopant inspect --config job.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}
			job, err := buildJob(v)
			if err != nil {
				return err
			}
			if job.Source.Type == "" {
				return errors.New(errors.ErrorTypeConfig, "source.type is required")
			}

			src, err := registry.CreateSource(job.Source.Type, &job.Source)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := src.Initialize(ctx, &job.Source); err != nil {
				return err
			}
			ds, err := src.Read(ctx)
			if closeErr := src.Close(ctx); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			renderSummary(cmd, ds)
			return nil
		},
	}

	cmd.Flags().StringP("config", "c", "", "Path to a YAML job file (only the source is used)")
	addConnectorFlags(cmd, "source", true)
	return cmd
}

func renderSummary(cmd *cobra.Command, ds *dataset.Dataset) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Missing", "Distinct", "Min", "Median", "Max"})
	for _, s := range doping.Describe(ds) {
		t.AppendRow(table.Row{s.Name, s.Type, s.Missing, s.Distinct, stat(s.Min), stat(s.Median), stat(s.Max)})
	}
	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "(%d rows)\n", ds.RowCount())
}

func stat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', 6, 64)
}
