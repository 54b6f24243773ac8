package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omekit/czi2ome/czi"
	"github.com/omekit/czi2ome/internal/cli/config"
	"github.com/omekit/czi2ome/internal/cli/ui"
	"github.com/omekit/czi2ome/transform"
)

var (
	convertSubblocks  string
	convertOutput     string
	convertJSON       bool
	convertStrict     bool
	convertNoValidate bool
	convertVerbose    bool
)

func init() {
	convertCmd.Flags().StringVarP(&convertSubblocks, "subblocks", "s", "", "Subblock descriptor JSON from the container reader")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output path (default: input name with .ome.xml)")
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "Output findings in JSON format")
	convertCmd.Flags().BoolVar(&convertStrict, "strict", false, "Fail on non-uniform subblock dimensions")
	convertCmd.Flags().BoolVar(&convertNoValidate, "no-validate", false, "Skip downstream schema checks on the result")
	convertCmd.Flags().BoolVar(&convertVerbose, "verbose", false, "Log findings as they are produced")
}

var convertCmd = &cobra.Command{
	Use:   "convert <metadata.xml>",
	Short: "Transform a CZI metadata document into OME-XML",
	Long:  "Read extracted CZI metadata (and optionally a subblock descriptor dump) and write the OME-XML result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		doc, err := parseMetadataFile(args[0])
		if err != nil {
			return err
		}

		var blocks []czi.Subblock
		if convertSubblocks != "" {
			f, err := os.Open(convertSubblocks)
			if err != nil {
				return fmt.Errorf("failed to open subblock descriptors: %w", err)
			}
			blocks, err = czi.LoadSubblocks(f)
			f.Close()
			if err != nil {
				return err
			}
		}

		opts := []transform.Option{
			transform.WithStrictDimensions(cfg.Transform.Strict || convertStrict),
			transform.WithCreator(cfg.Transform.Creator),
		}
		if convertVerbose {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer logger.Sync()
			opts = append(opts, transform.WithLogger(logger))
		}

		out, diags, err := transform.New(opts...).Transform(doc, blocks)
		if err != nil {
			if convertJSON {
				outputFindingsJSON(false, diags, err)
			}
			return fmt.Errorf("transform failed: %w", err)
		}

		if convertJSON {
			outputFindingsJSON(true, diags, nil)
		} else {
			ui.WriteDiagnostics(os.Stderr, diags, renderPlain(cfg))
		}

		if cfg.Output.Validate && !convertNoValidate {
			if violations := out.Validate(); len(violations) > 0 {
				ui.WriteViolations(os.Stderr, violations, renderPlain(cfg))
				return fmt.Errorf("result failed %d downstream check(s)", len(violations))
			}
		}

		data, err := out.Bytes()
		if err != nil {
			return fmt.Errorf("failed to serialize result: %w", err)
		}

		outPath := convertOutput
		if outPath == "" {
			outPath = filepath.Join(cfg.Output.Directory, deriveOutputName(args[0]))
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		if !convertJSON {
			ui.WriteSuccess(os.Stdout, fmt.Sprintf("wrote %s", outPath), renderPlain(cfg))
		}
		return nil
	},
}

// parseMetadataFile reads and parses one extracted metadata document.
func parseMetadataFile(path string) (*czi.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return czi.Parse(data)
}

// deriveOutputName swaps the metadata file's extension for .ome.xml.
func deriveOutputName(input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".ome.xml"
}

// renderPlain reports whether terminal output should skip color.
func renderPlain(cfg *config.Config) bool {
	return noColor || !cfg.Output.Pretty
}

func outputFindingsJSON(success bool, diags transform.DiagnosticList, transformErr error) {
	output := struct {
		Success     bool                     `json:"success"`
		Error       string                   `json:"error,omitempty"`
		Diagnostics transform.DiagnosticList `json:"diagnostics"`
	}{
		Success:     success,
		Diagnostics: diags,
	}
	if transformErr != nil {
		output.Error = transformErr.Error()
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}
