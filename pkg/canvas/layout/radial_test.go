package layout

import (
	"math"
	"testing"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

const epsilon = 1e-9

// center recovers the footprint center from a stored corner position.
func center(n canvas.Node) (float64, float64) {
	return n.Position.X + NodeWidth/2, n.Position.Y + NodeHeight/2
}

func TestRadial_RootAtOrigin(t *testing.T) {
	nodes, edges := sampleCanvas()
	Radial(nodes, edges, "root")

	for _, n := range nodes {
		if n.ID == "root" {
			x, y := center(n)
			if math.Abs(x) > epsilon || math.Abs(y) > epsilon {
				t.Errorf("root center = (%v, %v), want origin", x, y)
			}
			return
		}
	}
}

func TestRadial_RadiusByDepth(t *testing.T) {
	nodes, edges := sampleCanvas()
	Radial(nodes, edges, "root")

	depth := map[string]int{"root": 0, "a": 1, "b": 1, "a1": 2, "a2": 2}
	for _, n := range nodes {
		x, y := center(n)
		want := float64(depth[n.ID]) * radiusStep
		if got := math.Hypot(x, y); math.Abs(got-want) > epsilon {
			t.Errorf("node %s radius = %v, want %v", n.ID, got, want)
		}
	}
}

func TestRadial_EqualAngularPartition(t *testing.T) {
	// Root with k children: each child's span is 2π/k and the node angle is
	// the span midpoint, so child j sits at angle (j + 0.5)·2π/k.
	root := &mindmap.Node{ID: "root", Label: "r"}
	const k = 5
	ids := make([]string, k)
	for i := range k {
		id := mindmap.NewID()
		ids[i] = id
		root.Children = append(root.Children, &mindmap.Node{ID: id, Label: "c"})
	}

	nodes, edges := canvas.Flatten(root)
	Radial(nodes, edges, "root")

	byID := make(map[string]canvas.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	slice := 2 * math.Pi / k
	for j, id := range ids {
		angle := (float64(j) + 0.5) * slice
		wantX := radiusStep * math.Cos(angle)
		wantY := radiusStep * math.Sin(angle)
		x, y := center(byID[id])
		if math.Abs(x-wantX) > epsilon || math.Abs(y-wantY) > epsilon {
			t.Errorf("child %d center = (%v, %v), want (%v, %v)", j, x, y, wantX, wantY)
		}
	}
}

func TestRadial_NestedSpans(t *testing.T) {
	// Grandchildren split their parent's span, not the full circle:
	// child 0 of 2 owns [0, π); its two children sit at π/4 and 3π/4 midpoints
	// of the two halves of that span.
	tree := &mindmap.Node{ID: "root", Label: "r", Children: []*mindmap.Node{
		{ID: "c0", Label: "c0", Children: []*mindmap.Node{
			{ID: "g0", Label: "g0"},
			{ID: "g1", Label: "g1"},
		}},
		{ID: "c1", Label: "c1"},
	}}

	nodes, edges := canvas.Flatten(tree)
	Radial(nodes, edges, "root")

	byID := make(map[string]canvas.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	for i, want := range []float64{math.Pi / 4, 3 * math.Pi / 4} {
		id := []string{"g0", "g1"}[i]
		x, y := center(byID[id])
		got := math.Atan2(y, x)
		if got < 0 {
			got += 2 * math.Pi
		}
		if math.Abs(got-want) > epsilon {
			t.Errorf("%s angle = %v, want %v", id, got, want)
		}
	}
}

func TestRadial_UnreachableKeepsPosition(t *testing.T) {
	nodes, edges := sampleCanvas()
	prior := canvas.Position{X: 42, Y: 43}
	nodes = append(nodes, canvas.Node{ID: "orphan", Position: prior})

	Radial(nodes, edges, "root")

	for _, n := range nodes {
		if n.ID == "orphan" && n.Position != prior {
			t.Errorf("orphan position changed to %+v", n.Position)
		}
	}
}

func TestRadial_MissingRoot(t *testing.T) {
	nodes, edges := sampleCanvas()
	// Must be a no-op, not a panic, when the root id is absent.
	Radial(nodes, edges, "ghost")
}

func TestRadial_CycleTerminates(t *testing.T) {
	nodes := []canvas.Node{{ID: "A"}, {ID: "B"}}
	edges := []canvas.Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "A"},
	}
	Radial(nodes, edges, "A")
}

func TestApply_Dispatch(t *testing.T) {
	for _, policy := range []Policy{PolicyHorizontal, PolicyVertical, PolicyRadial} {
		nodes, edges := sampleCanvas()
		Apply(policy, nodes, edges, "root")

		moved := false
		for _, n := range nodes {
			if n.Position != (canvas.Position{}) {
				moved = true
				break
			}
		}
		if !moved {
			t.Errorf("policy %s left all nodes at the origin", policy)
		}
	}
}
