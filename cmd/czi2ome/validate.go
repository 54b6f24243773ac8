package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omekit/czi2ome/internal/cli/ui"
	"github.com/omekit/czi2ome/ome"
)

var validateCmd = &cobra.Command{
	Use:   "validate <document.ome.xml>",
	Short: "Run the downstream schema checks against an OME-XML document",
	Long:  "Parse an OME-XML document and report structural violations: missing required attributes, out-of-vocabulary values, and unresolved references",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		doc, err := ome.Parse(data)
		if err != nil {
			return err
		}

		if violations := doc.Validate(); len(violations) > 0 {
			ui.WriteViolations(os.Stderr, violations, noColor)
			return fmt.Errorf("%s failed %d check(s)", args[0], len(violations))
		}

		ui.WriteSuccess(os.Stdout, fmt.Sprintf("%s passes all checks", args[0]), noColor)
		return nil
	},
}
