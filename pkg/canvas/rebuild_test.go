package canvas

import (
	"errors"
	"testing"

	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

func TestResolveRoot_Preferred(t *testing.T) {
	nodes, edges := Flatten(sampleTree())
	id, err := ResolveRoot(nodes, edges, "root")
	if err != nil {
		t.Fatalf("ResolveRoot: %v", err)
	}
	if id != "root" {
		t.Errorf("resolved %s, want root", id)
	}
}

func TestResolveRoot_Fallback(t *testing.T) {
	// Nodes [A,B,C], edges A→B, B→C, preferred id absent: A is the unique
	// zero-in-degree node and must win deterministically.
	nodes := []Node{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	edges := []Edge{
		{ID: EdgeID("A", "B"), Source: "A", Target: "B"},
		{ID: EdgeID("B", "C"), Source: "B", Target: "C"},
	}

	id, err := ResolveRoot(nodes, edges, "Z")
	if err != nil {
		t.Fatalf("ResolveRoot: %v", err)
	}
	if id != "A" {
		t.Errorf("resolved %s, want A", id)
	}
}

func TestResolveRoot_NoCandidate(t *testing.T) {
	// Pure cycle: every node has an incoming edge.
	nodes := []Node{{ID: "A"}, {ID: "B"}}
	edges := []Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "A"},
	}

	_, err := ResolveRoot(nodes, edges, "Z")
	if !errors.Is(err, ErrNoRoot) {
		t.Fatalf("expected ErrNoRoot, got %v", err)
	}
}

func TestRebuild_RoundTrip(t *testing.T) {
	// Flatten then rebuild with no edits in between is the identity.
	orig := sampleTree()
	nodes, edges := Flatten(orig)

	got, err := Rebuild(nodes, edges, orig.ID)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !mindmap.Equal(orig, got) {
		t.Error("round trip should reproduce the original tree")
	}
	if err := mindmap.Validate(got); err != nil {
		t.Errorf("rebuilt tree should validate: %v", err)
	}
}

func TestRebuild_DropsTransientFields(t *testing.T) {
	nodes, edges := Flatten(sampleTree())
	nodes[1].Data.Hovered = true
	nodes[1].Data.Editing = true

	got, err := Rebuild(nodes, edges, "root")
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	// The canonical form has no transient state; equality against the
	// unedited source proves it was dropped along with the resolved color.
	if !mindmap.Equal(sampleTree(), got) {
		t.Error("transient UI state leaked into the canonical tree")
	}
}

func TestRebuild_Pruning(t *testing.T) {
	// Nodes [A,B,C], edge A→B only: C is an orphaned fragment, silently excluded.
	nodes := []Node{
		{ID: "A", Data: NodeData{Label: "a"}},
		{ID: "B", Data: NodeData{Label: "b"}},
		{ID: "C", Data: NodeData{Label: "c"}},
	}
	edges := []Edge{{ID: EdgeID("A", "B"), Source: "A", Target: "B"}}

	got, err := Rebuild(nodes, edges, "A")
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if got.ID != "A" || len(got.Children) != 1 || got.Children[0].ID != "B" {
		t.Errorf("unexpected tree: %+v", got)
	}
	if got.Find("C") != nil {
		t.Error("orphaned node C should be pruned")
	}
}

func TestRebuild_CycleRejection(t *testing.T) {
	nodes := []Node{{ID: "A"}, {ID: "B"}}
	edges := []Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "A"},
	}

	// Must terminate with a structural failure regardless of preferred root.
	for _, preferred := range []string{"A", "B"} {
		_, err := Rebuild(nodes, edges, preferred)
		if err == nil {
			t.Fatalf("preferred %s: expected structural failure", preferred)
		}
	}
}

func TestRebuild_ReachableCycle(t *testing.T) {
	// Root with a cycle hanging off it: A→B, B→C, C→B.
	nodes := []Node{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	edges := []Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
		{Source: "C", Target: "B"},
	}

	_, err := Rebuild(nodes, edges, "A")
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
}

func TestRebuild_DuplicateID(t *testing.T) {
	nodes := []Node{{ID: "A"}, {ID: "A"}}
	_, err := Rebuild(nodes, nil, "A")
	if !errors.Is(err, ErrDuplicateNodeID) {
		t.Fatalf("expected ErrDuplicateNodeID, got %v", err)
	}
}

func TestRebuild_MissingEndpoint(t *testing.T) {
	nodes := []Node{{ID: "A"}}
	edges := []Edge{{Source: "A", Target: "ghost"}}
	_, err := Rebuild(nodes, edges, "A")
	if !errors.Is(err, ErrMissingEndpoint) {
		t.Fatalf("expected ErrMissingEndpoint, got %v", err)
	}
}

func TestRebuild_EdgeOrderBecomesChildOrder(t *testing.T) {
	// Reordered edges reorder siblings - current edge order is the new
	// canonical order, by contract.
	nodes := []Node{{ID: "r"}, {ID: "x"}, {ID: "y"}}
	edges := []Edge{
		{Source: "r", Target: "y"},
		{Source: "r", Target: "x"},
	}

	got, err := Rebuild(nodes, edges, "r")
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if got.Children[0].ID != "y" || got.Children[1].ID != "x" {
		t.Errorf("children = [%s %s], want [y x]", got.Children[0].ID, got.Children[1].ID)
	}
}

func TestRebuild_NoNodes(t *testing.T) {
	_, err := Rebuild(nil, nil, "anything")
	if !errors.Is(err, ErrNoRoot) {
		t.Fatalf("expected ErrNoRoot for empty graph, got %v", err)
	}
}
