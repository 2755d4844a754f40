package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
	"github.com/yaohuangguan/orion-voice2map/pkg/canvas/layout"
)

// layoutCommand creates the layout command for positioning a tree on the canvas.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		policy string
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Flatten a tree and assign canvas coordinates",
		Long: `Flatten a tree and assign canvas coordinates.

The layout command takes a tree.json file (produced by 'generate') and
flattens it into a positioned node/edge graph. The output is a graph.json
file in the same shape the canvas frontend consumes.

Policies: horizontal (default), vertical, radial. Every run is a full
rebuild of positions; previous coordinates are discarded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(args[0], output, policy)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().StringVarP(&policy, "policy", "p", string(layout.PolicyHorizontal), "layout policy: horizontal, vertical, radial")

	return cmd
}

func (c *CLI) runLayout(input, output, policyStr string) error {
	policy, err := layout.ParsePolicy(policyStr)
	if err != nil {
		return err
	}

	root, err := readTreeFile(input)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	nodes, edges := canvas.Flatten(root)
	layout.Apply(policy, nodes, edges, root.ID)
	prog.done(fmt.Sprintf("Laid out %d nodes (%s)", len(nodes), policy))

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".tree")
		outputPath = base + ".graph.json"
	}
	g := &graphFile{Nodes: nodes, Edges: edges, RootID: root.ID, Policy: string(policy)}
	if err := writeGraphFile(g, outputPath); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(nodes), len(edges), false)
	printNewline()
	printNextStep("Reconstruct after edits", "voice2map rebuild "+outputPath)

	return nil
}
