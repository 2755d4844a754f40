package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// FlatNode is one entry of the flat JSON export: the canonical display
// fields plus an explicit parent reference instead of nesting. Depth-first
// order is preserved, so re-importing in list order reproduces sibling
// order.
type FlatNode struct {
	ID        string           `json:"id"`
	ParentID  string           `json:"parentId,omitempty"`
	Label     string           `json:"label"`
	Details   string           `json:"details,omitempty"`
	Category  mindmap.Category `json:"category,omitempty"`
	Style     *mindmap.Style   `json:"style,omitempty"`
	Links     []mindmap.Link   `json:"links,omitempty"`
	CreatedAt int64            `json:"createdAt,omitempty"`
}

// FlatJSON serializes the tree as a JSON array of [FlatNode] in depth-first
// canonical order.
func FlatJSON(root *mindmap.Node) ([]byte, error) {
	flat := make([]FlatNode, 0, root.Count())

	type frame struct {
		node   *mindmap.Node
		parent string
	}
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		flat = append(flat, FlatNode{
			ID:        curr.node.ID,
			ParentID:  curr.parent,
			Label:     curr.node.Label,
			Details:   curr.node.Details,
			Category:  curr.node.Category,
			Style:     curr.node.Style,
			Links:     curr.node.Links,
			CreatedAt: curr.node.CreatedAt,
		})

		for i := len(curr.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: curr.node.Children[i], parent: curr.node.ID})
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(flat); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}
