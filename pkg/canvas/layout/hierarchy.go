package layout

import "github.com/yaohuangguan/orion-voice2map/pkg/canvas"

// Hierarchical assigns coordinates to nodes in place for a layered layout
// along the given principal axis (PolicyHorizontal or PolicyVertical).
//
// Ranks are computed by longest-path layering via topological traversal
// (Kahn's algorithm). On a tree this is exactly depth from root - root at
// rank 0, every child one rank below its parent - but the layering is a
// general DAG algorithm, so edited graphs that briefly hold extra edges
// still get a usable assignment. A node absent from the edge set is
// isolated: it keeps rank 0 and is laid out as a disconnected root-like
// element, which is acceptable, not an error.
//
// Within a rank, nodes keep their arrival order from the node list. No
// crossing minimization is attempted; child-order-preserving flattening
// already yields a stable, readable ordering on trees.
//
// The final mapping places the rank index along the principal axis and the
// intra-rank index along the perpendicular axis, with each node's fixed
// footprint centered on its anchor point. Edge endpoints attach at the
// leading and trailing faces along the principal axis, recorded as per-node
// connection-side hints for the rendering layer.
func Hierarchical(nodes []canvas.Node, edges []canvas.Edge, axis Policy) {
	ranks := assignRanks(nodes, edges)

	// Bucket arrival-order indices per rank.
	offsets := make(map[string]int, len(nodes))
	rankSizes := make(map[int]int)
	for i := range nodes {
		rank := ranks[nodes[i].ID]
		offsets[nodes[i].ID] = rankSizes[rank]
		rankSizes[rank]++
	}

	srcSide, dstSide := canvas.SideRight, canvas.SideLeft
	if axis == PolicyVertical {
		srcSide, dstSide = canvas.SideBottom, canvas.SideTop
	}

	for i := range nodes {
		rank := float64(ranks[nodes[i].ID])
		offset := float64(offsets[nodes[i].ID])

		principal := rank * (principalExtent(axis) + rankGap)
		perpendicular := offset * (perpendicularExtent(axis) + siblingGap)

		// Anchor is the footprint center; stored position is the corner.
		if axis == PolicyVertical {
			nodes[i].Position = canvas.Position{
				X: perpendicular - NodeWidth/2,
				Y: principal - NodeHeight/2,
			}
		} else {
			nodes[i].Position = canvas.Position{
				X: principal - NodeWidth/2,
				Y: perpendicular - NodeHeight/2,
			}
		}
		nodes[i].SourceSide = srcSide
		nodes[i].TargetSide = dstSide
	}
}

func principalExtent(axis Policy) float64 {
	if axis == PolicyVertical {
		return NodeHeight
	}
	return NodeWidth
}

func perpendicularExtent(axis Policy) float64 {
	if axis == PolicyVertical {
		return NodeWidth
	}
	return NodeHeight
}

// assignRanks computes longest-path layering over the edge set.
// Each node lands at one plus the maximum rank of its parents; nodes with
// no incoming edges (the root, and any isolated node) land at rank 0.
//
// Nodes caught in a cycle never reach zero in-degree and keep their default
// rank 0 - the layout still terminates and produces coordinates, leaving
// structural rejection to reconstruction.
func assignRanks(nodes []canvas.Node, edges []canvas.Edge) map[string]int {
	inDegree := make(map[string]int, len(nodes))
	children := make(map[string][]string, len(nodes))
	for _, e := range edges {
		inDegree[e.Target]++
		children[e.Source] = append(children[e.Source], e.Target)
	}

	ranks := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range children[curr] {
			if rank := ranks[curr] + 1; rank > ranks[child] {
				ranks[child] = rank
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return ranks
}
