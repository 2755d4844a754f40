package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaohuangguan/orion-voice2map/pkg/export"
)

// exportCommand creates the export command for serializing a tree.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output    string
		formatStr string
	)

	cmd := &cobra.Command{
		Use:   "export [tree.json]",
		Short: "Export a mind map tree as outline, dot, svg, mermaid, or json",
		Long: `Export a mind map tree to a shareable format.

Formats:
  outline  indented plain-text outline
  dot      Graphviz DOT diagram text
  svg      rendered SVG diagram (via Graphviz)
  mermaid  Mermaid mindmap diagram text
  json     flat JSON node list with parent references

Exports always operate on the canonical tree; run 'rebuild' first if you
have an edited graph.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(args[0], output, formatStr)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<ext>, '-' for stdout)")
	cmd.Flags().StringVarP(&formatStr, "format", "f", string(export.FormatOutline), "output format: outline, dot, svg, mermaid, json")

	return cmd
}

func (c *CLI) runExport(input, output, formatStr string) error {
	format, err := export.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	root, err := readTreeFile(input)
	if err != nil {
		return err
	}

	data, err := export.Export(root, format)
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	if output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".tree")
		outputPath = base + export.Ext(format)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Exported %s", format)
	printFile(outputPath)
	printStats(root.Count(), 0, false)

	return nil
}
