// Package layout assigns coordinates to a flattened mind map canvas.
//
// Two families are implemented: a layered hierarchical layout with a
// horizontal or vertical principal axis, and a radial layout built on equal
// angular subdivision. Every policy performs a full rebuild of positions -
// layouts are never incremental and never merge against a previous result.
//
// Layouts never fail: any well-formed node/edge set produces some layout,
// including isolated nodes and graphs whose root was deleted.
package layout

import (
	"fmt"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
)

// Policy selects a layout algorithm and principal axis.
type Policy string

// Recognized layout policies.
const (
	// PolicyHorizontal is the hierarchical layout with ranks advancing
	// left to right.
	PolicyHorizontal Policy = "horizontal"

	// PolicyVertical is the hierarchical layout with ranks advancing
	// top to bottom.
	PolicyVertical Policy = "vertical"

	// PolicyRadial places nodes on concentric circles around the root.
	PolicyRadial Policy = "radial"
)

// ParsePolicy validates a policy selector received across a boundary.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyHorizontal, PolicyVertical, PolicyRadial:
		return p, nil
	}
	return "", fmt.Errorf("unknown layout policy %q (want horizontal, vertical, or radial)", s)
}

// Node footprint and spacing constants. Every node is laid out with the
// same fixed footprint regardless of its rendered size - an approximation,
// not a measured bounding box.
const (
	NodeWidth  = 172.0
	NodeHeight = 48.0

	// rankGap separates consecutive ranks along the principal axis.
	rankGap = 80.0

	// siblingGap separates neighbors within a rank along the perpendicular axis.
	siblingGap = 24.0

	// radiusStep is the fixed radius increment per depth level in the
	// radial layout.
	radiusStep = 220.0
)

// Apply positions nodes in place according to the chosen policy.
// rootID is only consulted by the radial layout (the hierarchical layouts
// derive everything from the edge set). Apply never fails; an unknown
// policy falls back to [PolicyHorizontal].
func Apply(policy Policy, nodes []canvas.Node, edges []canvas.Edge, rootID string) {
	switch policy {
	case PolicyVertical:
		Hierarchical(nodes, edges, PolicyVertical)
	case PolicyRadial:
		Radial(nodes, edges, rootID)
	default:
		Hierarchical(nodes, edges, PolicyHorizontal)
	}
}
