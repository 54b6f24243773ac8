package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// noColor disables colored terminal output for every subcommand
var noColor bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "czi2ome",
		Short: "Transform Zeiss CZI metadata into OME-XML",
		Long: `czi2ome reads the XML metadata extracted from a Zeiss CZI image
container and rewrites it as an OME-XML 2016-06 document: pixel geometry,
channels and detectors, per-tile planes, and the multi-well plate layout.

It operates on metadata only; pixel data never passes through.`,
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
