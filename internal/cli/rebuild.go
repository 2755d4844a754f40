package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
)

// rebuildCommand creates the rebuild command for reconstructing a tree from
// an edited graph.
func (c *CLI) rebuildCommand() *cobra.Command {
	var (
		output string
		rootID string
	)

	cmd := &cobra.Command{
		Use:   "rebuild [graph.json]",
		Short: "Reconstruct a canonical tree from an edited graph",
		Long: `Reconstruct a canonical tree from an edited graph.

The rebuild command takes a graph.json file - typically after the node/edge
set was edited on a canvas - and reassembles the canonical tree. Edge order
determines sibling order. Nodes unreachable from the root are pruned;
cycles and duplicate ids are rejected.

If the stored root was deleted, the first node without an incoming edge
becomes the new root. Use --root to prefer a specific node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRebuild(args[0], output, rootID)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.tree.json)")
	cmd.Flags().StringVar(&rootID, "root", "", "preferred root node id")

	return cmd
}

func (c *CLI) runRebuild(input, output, rootID string) error {
	g, err := readGraphFile(input)
	if err != nil {
		return err
	}
	preferred := rootID
	if preferred == "" {
		preferred = g.RootID
	}

	prog := newProgress(c.Logger)
	root, err := canvas.Rebuild(g.Nodes, g.Edges, preferred)
	if err != nil {
		return fmt.Errorf("rebuild tree: %w", err)
	}

	kept := root.Count()
	pruned := len(g.Nodes) - kept
	prog.done(fmt.Sprintf("Rebuilt %d nodes", kept))

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".graph")
		outputPath = base + ".tree.json"
	}
	if err := writeTreeFile(root, outputPath); err != nil {
		return err
	}

	printSuccess("Tree reconstructed")
	printFile(outputPath)
	printStats(kept, kept-1, false)
	if pruned > 0 {
		printWarning("%d unreachable node(s) pruned", pruned)
	}
	printNewline()
	printNextStep("Export", "voice2map export "+outputPath)

	return nil
}
