package canvas

import "github.com/yaohuangguan/orion-voice2map/pkg/mindmap"

// Flatten walks the tree rooted at root once, depth first and child-order
// preserving, and returns the derived node and edge lists. The root is
// visited first; every parent→child relation becomes one directed edge with
// a deterministic id (see [EdgeID]).
//
// Positions are left at the origin - coordinate assignment is the layout's
// job. Flatten never fails and does not mutate its input; a nil root yields
// empty lists.
//
// The traversal uses an explicit work stack instead of call recursion, so
// the depth of the tree never threatens the goroutine stack. A visited set
// guards against aliased inputs that slipped past validation: a node pushed
// twice is skipped rather than walked again.
func Flatten(root *mindmap.Node) ([]Node, []Edge) {
	if root == nil {
		return nil, nil
	}

	nodes := make([]Node, 0, root.Count())
	edges := make([]Edge, 0, cap(nodes)-1)
	visited := make(map[string]struct{}, cap(nodes))

	type frame struct {
		node   *mindmap.Node
		parent string
	}
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[curr.node.ID]; seen {
			continue
		}
		visited[curr.node.ID] = struct{}{}

		nodes = append(nodes, NewNode(curr.node, Position{}))
		if curr.parent != "" {
			edges = append(edges, Edge{
				ID:     EdgeID(curr.parent, curr.node.ID),
				Source: curr.parent,
				Target: curr.node.ID,
			})
		}

		// Push children in reverse so they pop in canonical order.
		for i := len(curr.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: curr.node.Children[i], parent: curr.node.ID})
		}
	}

	return nodes, edges
}
