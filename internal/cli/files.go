package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// graphFile is the on-disk form of a positioned graph, matching the HTTP
// surface's payload shape.
type graphFile struct {
	Nodes  []canvas.Node `json:"nodes"`
	Edges  []canvas.Edge `json:"edges"`
	RootID string        `json:"rootId,omitempty"`
	Policy string        `json:"policy,omitempty"`
}

// readTreeFile loads a canonical tree file ({"root": ...}) and validates it.
func readTreeFile(path string) (*mindmap.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree %s: %w", path, err)
	}
	var tree mindmap.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse tree %s: %w", path, err)
	}
	if tree.Root == nil {
		return nil, fmt.Errorf("tree %s has no root", path)
	}
	if err := mindmap.Validate(tree.Root); err != nil {
		return nil, fmt.Errorf("invalid tree %s: %w", path, err)
	}
	return tree.Root, nil
}

// writeTreeFile writes a canonical tree file, creating or truncating path.
func writeTreeFile(root *mindmap.Node, path string) error {
	data, err := json.MarshalIndent(mindmap.Tree{Root: root}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write tree %s: %w", path, err)
	}
	return nil
}

// readGraphFile loads a positioned graph file.
func readGraphFile(path string) (*graphFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", path, err)
	}
	var g graphFile
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse graph %s: %w", path, err)
	}
	return &g, nil
}

// writeGraphFile writes a positioned graph file.
func writeGraphFile(g *graphFile, path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write graph %s: %w", path, err)
	}
	return nil
}

// readTranscript reads a transcript from a file, or from stdin when path
// is "-".
func readTranscript(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", path, err)
	}
	return string(data), nil
}
