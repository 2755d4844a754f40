// Package canvas holds the positioned graph representation of a mind map and
// the transforms between it and the canonical tree form.
//
// A canvas is an ordered node list plus a directed edge list. It is derived
// from a canonical tree by [Flatten], positioned by pkg/canvas/layout, handed
// to the rendering surface, and mutated freely by user edits until a save or
// export reconstructs a fresh canonical tree via [Rebuild].
package canvas

import (
	"errors"
	"fmt"

	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

var (
	// ErrNoRoot is returned by [ResolveRoot] when neither the preferred root
	// id nor any zero-in-degree node exists - every node has an incoming
	// edge, which implies a cycle or pure cycle fragment.
	ErrNoRoot = errors.New("no valid root")

	// ErrDuplicateNodeID is returned by [Rebuild] when two graph nodes share
	// an id. Reconstruction refuses to guess which one the edges mean.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrMissingEndpoint is returned by [Rebuild] when an edge references a
	// node id absent from the node list.
	ErrMissingEndpoint = errors.New("edge references missing node")

	// ErrCycle is returned by [Rebuild] when a cycle is reachable from the
	// resolved root. The edit surface cannot create one through normal
	// add-child operations, but imported or hand-built graphs can.
	ErrCycle = errors.New("cycle reachable from root")
)

// Position is a 2-D coordinate on the rendering surface.
// It addresses the top-left corner of the node's footprint.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Side names a node face where edges attach. The layout records per-node
// hints consumed by the rendering layer; they carry no meaning for
// reconstruction.
type Side string

// Connection sides.
const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Default background colors per category, used when a node carries no
// explicit style override. The uncategorized fallback is last.
const (
	ColorIdea     = "#a7c7e7"
	ColorTask     = "#b5e7a0"
	ColorQuestion = "#f3c6e8"
	ColorFact     = "#f9e79f"
	ColorDefault  = "#e8e8e8"
)

// NodeData is the display payload carried by a graph node. It mirrors the
// canonical node's display fields plus the resolved background color and
// transient UI-only state. The transient fields never round-trip into the
// canonical tree.
type NodeData struct {
	Label     string           `json:"label"`
	Details   string           `json:"details,omitempty"`
	Category  mindmap.Category `json:"category,omitempty"`
	Style     *mindmap.Style   `json:"style,omitempty"`
	Links     []mindmap.Link   `json:"links,omitempty"`
	CreatedAt int64            `json:"createdAt,omitempty"`

	// Color is the resolved display color, recomputed on every flatten.
	Color string `json:"color,omitempty"`

	// Transient UI state. Dropped on reconstruction.
	Hovered bool `json:"hovered,omitempty"`
	Editing bool `json:"editing,omitempty"`
}

// Node is a positioned graph node.
type Node struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`

	// SourceSide and TargetSide hint where outgoing and incoming edges
	// attach, set by the layout and read by the renderer.
	SourceSide Side `json:"sourceSide,omitempty"`
	TargetSide Side `json:"targetSide,omitempty"`
}

// Edge is a directed parent→child connection between two graph nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgeID derives an edge id from its endpoints. The derivation is
// deterministic so re-flattening the same tree is idempotent.
func EdgeID(source, target string) string {
	return fmt.Sprintf("e%s-%s", source, target)
}

// ResolveColor returns the display color for a node: the explicit style
// override if set, else the category default, else the plain fallback.
func ResolveColor(style *mindmap.Style, category mindmap.Category) string {
	if style != nil && style.BackgroundColor != "" {
		return style.BackgroundColor
	}
	switch category {
	case mindmap.CategoryIdea:
		return ColorIdea
	case mindmap.CategoryTask:
		return ColorTask
	case mindmap.CategoryQuestion:
		return ColorQuestion
	case mindmap.CategoryFact:
		return ColorFact
	}
	return ColorDefault
}

// NewNode builds a graph node for an interactively created canonical node,
// placed at the given position with its color resolved.
func NewNode(n *mindmap.Node, pos Position) Node {
	return Node{
		ID:       n.ID,
		Position: pos,
		Data: NodeData{
			Label:     n.Label,
			Details:   n.Details,
			Category:  n.Category,
			Style:     n.Style,
			Links:     n.Links,
			CreatedAt: n.CreatedAt,
			Color:     ResolveColor(n.Style, n.Category),
		},
	}
}
