// Command dopant injects synthetic anomalies into tabular datasets.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/dopant/pkg/connector/registry"
	"github.com/ajitpratap0/dopant/pkg/errors"

	// Import all available connectors to register them
	_ "github.com/ajitpratap0/dopant/pkg/connector/destinations"
	_ "github.com/ajitpratap0/dopant/pkg/connector/sources"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dopant",
		Short: "dopant - synthetic anomaly injection for tabular data",
		Long: `dopant copies a dataset, overwrites randomly chosen cells with plausible but
anomalous values, and records an outlier score per row. The scores are ground
truth for benchmarking outlier detectors.`,
		SilenceUsage: true,
	}

	root.AddCommand(newVersionCommand())
	root.AddCommand(newListCommand())
	root.AddCommand(newRunCommand())
	root.AddCommand(newInspectCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dopant v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available connectors",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available Source Connectors:")
			for _, name := range registry.ListSources() {
				fmt.Fprintf(out, "  - %s%s\n", name, describe("source", name))
			}
			fmt.Fprintln(out, "\nAvailable Destination Connectors:")
			for _, name := range registry.ListDestinations() {
				fmt.Fprintf(out, "  - %s%s\n", name, describe("destination", name))
			}
		},
	}
}

func describe(connectorType, name string) string {
	info, err := registry.GetConnectorInfo(connectorType, name)
	if err != nil || info.Description == "" {
		return ""
	}
	return ": " + info.Description
}
