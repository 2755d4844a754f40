// Package export serializes a canonical mind map tree into shareable
// formats.
//
// Every exporter takes the reconstructed canonical tree - consumers rebuild
// from the live graph first (see pkg/canvas.Rebuild) so all formats agree
// on one entry point and one structure.
package export

import (
	"fmt"

	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// Format names an export serializer.
type Format string

// Supported export formats.
const (
	// FormatOutline is an indented plain-text outline.
	FormatOutline Format = "outline"
	// FormatDOT is Graphviz DOT diagram text.
	FormatDOT Format = "dot"
	// FormatSVG renders the DOT diagram to SVG via Graphviz.
	FormatSVG Format = "svg"
	// FormatMermaid is Mermaid mindmap diagram text.
	FormatMermaid Format = "mermaid"
	// FormatJSON is a flat JSON node list with parent references.
	FormatJSON Format = "json"
)

// ParseFormat validates a format selector received across a boundary.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatOutline, FormatDOT, FormatSVG, FormatMermaid, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want outline, dot, svg, mermaid, or json)", s)
}

// Export serializes the tree in the given format.
func Export(root *mindmap.Node, format Format) ([]byte, error) {
	if err := mindmap.Validate(root); err != nil {
		return nil, fmt.Errorf("validate tree: %w", err)
	}

	switch format {
	case FormatOutline:
		return Outline(root), nil
	case FormatDOT:
		return []byte(ToDOT(root)), nil
	case FormatSVG:
		return RenderSVG(ToDOT(root))
	case FormatMermaid:
		return Mermaid(root), nil
	case FormatJSON:
		return FlatJSON(root)
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// Ext returns the conventional file extension for a format.
func Ext(format Format) string {
	switch format {
	case FormatOutline:
		return ".txt"
	case FormatDOT:
		return ".dot"
	case FormatSVG:
		return ".svg"
	case FormatMermaid:
		return ".mmd"
	case FormatJSON:
		return ".json"
	}
	return ".out"
}
