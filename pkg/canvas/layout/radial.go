package layout

import (
	"math"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
)

// Radial assigns coordinates to nodes in place by recursive angular
// subdivision around the root.
//
// The root sits at the origin. Every node's radius is its depth times a
// fixed increment, and every node's angular span is split equally among its
// direct children regardless of subtree size - balanced trees look even,
// skewed trees do not get proportionally more angular room. That is a known
// aesthetic limitation of the equal-split design, kept deliberately simple,
// not a bug.
//
// A node's own angle is the midpoint of its span; its Cartesian position is
// (r·cosθ − w/2, r·sinθ − h/2), centering the fixed footprint on the polar
// point. Children are traversed in canonical order as recorded by the edge
// list. Parent/child discovery uses an adjacency map built once from the
// edges up front; edge direction matters for nothing else here.
//
// The walk uses an explicit work stack with a visited-set check at push
// time, so cyclic edge sets terminate. Nodes unreachable from the root
// (orphaned fragments) keep their prior positions untouched.
func Radial(nodes []canvas.Node, edges []canvas.Edge, rootID string) {
	children := make(map[string][]string, len(nodes))
	for _, e := range edges {
		children[e.Source] = append(children[e.Source], e.Target)
	}

	index := make(map[string]int, len(nodes))
	for i := range nodes {
		index[nodes[i].ID] = i
	}
	if _, ok := index[rootID]; !ok {
		return
	}

	type frame struct {
		id         string
		depth      int
		from, upto float64 // angular span in radians
	}
	stack := []frame{{id: rootID, from: 0, upto: 2 * math.Pi}}
	visited := map[string]struct{}{rootID: {}}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		radius := float64(curr.depth) * radiusStep
		angle := (curr.from + curr.upto) / 2

		i := index[curr.id]
		nodes[i].Position = canvas.Position{
			X: radius*math.Cos(angle) - NodeWidth/2,
			Y: radius*math.Sin(angle) - NodeHeight/2,
		}
		nodes[i].SourceSide = canvas.SideBottom
		nodes[i].TargetSide = canvas.SideTop

		kids := children[curr.id]
		if len(kids) == 0 {
			continue
		}
		slice := (curr.upto - curr.from) / float64(len(kids))
		// Push in reverse so children pop in canonical order.
		for k := len(kids) - 1; k >= 0; k-- {
			child := kids[k]
			if _, seen := visited[child]; seen {
				continue
			}
			if _, ok := index[child]; !ok {
				continue
			}
			visited[child] = struct{}{}
			stack = append(stack, frame{
				id:    child,
				depth: curr.depth + 1,
				from:  curr.from + float64(k)*slice,
				upto:  curr.from + float64(k+1)*slice,
			})
		}
	}
}
