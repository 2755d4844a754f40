package export

import (
	"bytes"
	"strings"

	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// Mermaid serializes the tree as a Mermaid "mindmap" diagram. Depth is
// expressed through indentation; labels are sanitized because Mermaid
// treats several punctuation characters as markup.
func Mermaid(root *mindmap.Node) []byte {
	var buf bytes.Buffer
	buf.WriteString("mindmap\n")

	type frame struct {
		node  *mindmap.Node
		depth int
	}
	stack := []frame{{node: root, depth: 1}}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		buf.WriteString(strings.Repeat("  ", curr.depth))
		if curr.depth == 1 {
			buf.WriteString("root((" + mermaidLabel(curr.node.Label) + "))\n")
		} else {
			buf.WriteString(mermaidLabel(curr.node.Label) + "\n")
		}

		for i := len(curr.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: curr.node.Children[i], depth: curr.depth + 1})
		}
	}

	return buf.Bytes()
}

var mermaidReplacer = strings.NewReplacer(
	"(", "&#40;",
	")", "&#41;",
	"[", "&#91;",
	"]", "&#93;",
	"{", "&#123;",
	"}", "&#125;",
	"\n", " ",
)

func mermaidLabel(label string) string {
	label = strings.TrimSpace(mermaidReplacer.Replace(label))
	if label == "" {
		return "untitled"
	}
	return label
}
