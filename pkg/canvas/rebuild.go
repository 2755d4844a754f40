package canvas

import (
	"fmt"

	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// ResolveRoot answers "which node id is root" for the given live graph.
//
// If a node with the preferred id exists it wins. Otherwise the original
// root was deleted by the user, and the first node in current node-list
// order that never appears as an edge target (zero in-degree) becomes the
// new root. If no such node exists - every node has an incoming edge, so
// the graph is a cycle or a pure cycle fragment - ResolveRoot returns
// [ErrNoRoot].
//
// ResolveRoot never mutates the graph.
func ResolveRoot(nodes []Node, edges []Edge, preferredID string) (string, error) {
	for _, n := range nodes {
		if n.ID == preferredID {
			return preferredID, nil
		}
	}

	hasIncoming := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		hasIncoming[e.Target] = struct{}{}
	}

	for _, n := range nodes {
		if _, ok := hasIncoming[n.ID]; !ok {
			return n.ID, nil
		}
	}

	return "", fmt.Errorf("%w: every node has an incoming edge", ErrNoRoot)
}

// Rebuild reconstructs a canonical tree from the live node and edge sets.
//
// Root resolution follows [ResolveRoot]. Each graph node becomes a draft
// canonical node copied field for field from its data payload; the resolved
// color and the transient UI flags are dropped (color is recomputed on the
// next flatten, the flags never round-trip). For every edge, in edge-list
// order, the target draft is appended as a child of the source draft -
// current edge order becomes the new canonical sibling order.
//
// The returned tree contains exactly the nodes reachable from the resolved
// root. Unreachable nodes are orphaned graph fragments and are pruned
// silently; that is intentional, not an error.
//
// Malformed input is rejected with a typed error rather than producing a
// corrupt tree: [ErrDuplicateNodeID] for id collisions, [ErrMissingEndpoint]
// for edges into the void, and [ErrCycle] when a cycle is reachable from
// the root. The reachability walk keeps a visited set and treats a revisit
// as the structural error, so a cyclic edge set terminates instead of
// recursing without bound.
func Rebuild(nodes []Node, edges []Edge, preferredRootID string) (*mindmap.Node, error) {
	rootID, err := ResolveRoot(nodes, edges, preferredRootID)
	if err != nil {
		return nil, err
	}

	drafts := make(map[string]*mindmap.Node, len(nodes))
	for _, n := range nodes {
		if _, dup := drafts[n.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		drafts[n.ID] = draftNode(n)
	}

	for _, e := range edges {
		src, okS := drafts[e.Source]
		dst, okD := drafts[e.Target]
		if !okS || !okD {
			return nil, fmt.Errorf("%w: %s→%s", ErrMissingEndpoint, e.Source, e.Target)
		}
		src.Children = append(src.Children, dst)
	}

	root := drafts[rootID]

	// Reachability check doubles as cycle rejection: a node encountered
	// twice from the root means the edge set loops back on itself.
	visited := make(map[string]struct{}, len(drafts))
	stack := []*mindmap.Node{root}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[curr.ID]; seen {
			return nil, fmt.Errorf("%w: revisited %s", ErrCycle, curr.ID)
		}
		visited[curr.ID] = struct{}{}

		for i := len(curr.Children) - 1; i >= 0; i-- {
			stack = append(stack, curr.Children[i])
		}
	}

	return root, nil
}

// draftNode copies a graph node's payload into a fresh canonical node,
// explicitly dropping the resolved color and transient UI state.
func draftNode(n Node) *mindmap.Node {
	draft := &mindmap.Node{
		ID:        n.ID,
		Label:     n.Data.Label,
		Details:   n.Data.Details,
		Category:  n.Data.Category,
		CreatedAt: n.Data.CreatedAt,
	}
	if n.Data.Style != nil && !n.Data.Style.IsZero() {
		style := *n.Data.Style
		draft.Style = &style
	}
	if len(n.Data.Links) > 0 {
		draft.Links = make([]mindmap.Link, len(n.Data.Links))
		copy(draft.Links, n.Data.Links)
	}
	return draft
}
