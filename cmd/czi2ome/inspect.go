package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/omekit/czi2ome/czi"
	"github.com/omekit/czi2ome/internal/cli/ui"
)

var inspectDump bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "Dump the full parsed metadata tree")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <metadata.xml>",
	Short: "Summarize a CZI metadata document without converting it",
	Long:  "Parse extracted CZI metadata and print the image geometry, channels, scenes, and plate layout it declares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := parseMetadataFile(args[0])
		if err != nil {
			return err
		}

		if inspectDump {
			spew.Fdump(os.Stdout, doc.Root())
			return nil
		}

		img := doc.Image()
		if img == nil {
			return fmt.Errorf("%s carries no Metadata/Information/Image subtree", args[0])
		}

		summary := ui.NewKeyValueTable(os.Stdout, noColor)
		summary.AddRow("Source", args[0])
		summary.AddRow("Pixel type", textOrDash(img, "PixelType"))
		summary.AddRow("Size", fmt.Sprintf("%s x %s", textOrDash(img, "SizeX"), textOrDash(img, "SizeY")))
		summary.AddRow("Channels (SizeC)", textOrDash(img, "SizeC"))
		summary.AddRow("Z slices (SizeZ)", textOrDash(img, "SizeZ"))
		summary.AddRow("Timepoints (SizeT)", textOrDash(img, "SizeT"))
		summary.AddRow("Bit count", textOrDash(img, "ComponentBitCount"))
		if acquired := doc.AcquisitionDate(); acquired != "" {
			summary.AddRow("Acquired", acquired)
		}
		for _, dim := range []string{"X", "Y", "Z"} {
			if meters, ok := doc.ScalingDistance(dim); ok {
				summary.AddRow("Scaling "+dim, strconv.FormatFloat(meters, 'g', -1, 64)+" m")
			}
		}
		if tpl := doc.PlateTemplate(); tpl != nil {
			name := tpl.Attr("Name")
			if name == "" {
				name, _ = tpl.ChildText("Name")
			}
			summary.AddRow("Plate template", name)
		}
		summary.Render()

		scenes := doc.Scenes()
		if len(scenes) == 0 {
			return nil
		}

		fmt.Fprintf(os.Stdout, "\n%d scene(s):\n", len(scenes))
		table := ui.NewTable(os.Stdout, []string{"INDEX", "NAME", "WELL"}, noColor)
		for _, sc := range scenes {
			well := ""
			if row, col, ok := sc.RowColumn(); ok {
				well = fmt.Sprintf("%d,%d", row, col)
			}
			table.AddRow(strconv.Itoa(sc.Index), sc.DisplayName(), well)
		}
		table.Render()

		return nil
	},
}

// textOrDash reads a child element's text, standing in a dash for
// absent or empty elements.
func textOrDash(n *czi.Node, tag string) string {
	if text, ok := n.ChildText(tag); ok && text != "" {
		return text
	}
	return "-"
}
