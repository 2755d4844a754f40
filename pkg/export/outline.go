package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// Outline serializes the tree as an indented plain-text outline, one node
// per line, two spaces per depth level. Details are written as an indented
// continuation line; links follow as "- title: url" bullets.
func Outline(root *mindmap.Node) []byte {
	var buf bytes.Buffer

	type frame struct {
		node  *mindmap.Node
		depth int
	}
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		indent := strings.Repeat("  ", curr.depth)
		buf.WriteString(indent)
		buf.WriteString(curr.node.Label)
		if curr.node.Category != "" {
			fmt.Fprintf(&buf, " [%s]", curr.node.Category)
		}
		buf.WriteByte('\n')

		if curr.node.Details != "" {
			for _, line := range strings.Split(curr.node.Details, "\n") {
				fmt.Fprintf(&buf, "%s  | %s\n", indent, line)
			}
		}
		for _, l := range curr.node.Links {
			fmt.Fprintf(&buf, "%s  - %s: %s\n", indent, l.Title, l.URL)
		}

		for i := len(curr.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: curr.node.Children[i], depth: curr.depth + 1})
		}
	}

	return buf.Bytes()
}
