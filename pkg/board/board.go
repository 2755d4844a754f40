// Package board holds the live editing state of one mind map session.
//
// The positioned node/edge set is a single shared mutable resource. Board
// guards it behind a mutex and applies every mutation as a pure transform
// from the latest snapshot to the next one - handlers never write a stale
// snapshot captured from an earlier read. Asynchronous enrichment results
// merge by id lookup at merge time for the same reason: arbitrary network
// latency may pass, during which the target node can be edited or deleted.
package board

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
	"github.com/yaohuangguan/orion-voice2map/pkg/canvas/layout"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// ErrNodeNotFound is returned by mutations that require an existing target
// node. Enrichment merges deliberately do NOT return it - a vanished target
// is a benign race there, not an error.
var ErrNodeNotFound = errors.New("node not found")

// Snapshot is one immutable view of the live graph. The slices are copies;
// holding a Snapshot never observes later edits.
type Snapshot struct {
	Nodes  []canvas.Node
	Edges  []canvas.Edge
	RootID string
	Policy layout.Policy
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Nodes:  slices.Clone(s.Nodes),
		Edges:  slices.Clone(s.Edges),
		RootID: s.RootID,
		Policy: s.Policy,
	}
}

// Board is the state container for one editor session. Single logical
// writer; safe for concurrent readers and async enrichment merges.
type Board struct {
	mu     sync.RWMutex
	state  Snapshot
	logger *log.Logger
}

// New creates an empty board. Pass nil to use the default logger.
func New(logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Default()
	}
	return &Board{logger: logger}
}

// Load replaces the board contents with a freshly flattened and laid-out
// derivation of the canonical tree. This is a full rebuild - load and
// layout-policy changes are the only events that recompute positions.
func (b *Board) Load(root *mindmap.Node, policy layout.Policy) error {
	if err := mindmap.Validate(root); err != nil {
		return fmt.Errorf("validate tree: %w", err)
	}

	nodes, edges := canvas.Flatten(root)
	layout.Apply(policy, nodes, edges, root.ID)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = Snapshot{Nodes: nodes, Edges: edges, RootID: root.ID, Policy: policy}
	b.logger.Debug("board loaded", "nodes", len(nodes), "edges", len(edges), "policy", policy)
	return nil
}

// Snapshot returns a copy of the current state.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state.clone()
}

// update applies a pure current-state → next-state transform under the
// lock. The transform receives a private copy and returns the replacement;
// it must not retain references past its return.
func (b *Board) update(fn func(Snapshot) (Snapshot, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, err := fn(b.state.clone())
	if err != nil {
		return err
	}
	b.state = next
	return nil
}

// SetPolicy switches the layout policy and recomputes every position from
// scratch. Positions dragged by the user are overwritten; layout is never
// incremental.
func (b *Board) SetPolicy(policy layout.Policy) {
	_ = b.update(func(s Snapshot) (Snapshot, error) {
		layout.Apply(policy, s.Nodes, s.Edges, s.RootID)
		s.Policy = policy
		return s, nil
	})
	b.logger.Debug("layout policy changed", "policy", policy)
}

// AddChild creates a new node under the given parent and returns its id.
// The child is placed near its parent; a full layout pass only happens on
// the next policy change or reload.
func (b *Board) AddChild(parentID, label string) (string, error) {
	child := mindmap.New(label)
	err := b.update(func(s Snapshot) (Snapshot, error) {
		i := indexOf(s.Nodes, parentID)
		if i < 0 {
			return s, fmt.Errorf("%w: %s", ErrNodeNotFound, parentID)
		}
		pos := canvas.Position{
			X: s.Nodes[i].Position.X + layout.NodeWidth + 40,
			Y: s.Nodes[i].Position.Y + layout.NodeHeight + 16,
		}
		s.Nodes = append(s.Nodes, canvas.NewNode(child, pos))
		s.Edges = append(s.Edges, canvas.Edge{
			ID:     canvas.EdgeID(parentID, child.ID),
			Source: parentID,
			Target: child.ID,
		})
		return s, nil
	})
	if err != nil {
		return "", err
	}
	return child.ID, nil
}

// Relabel changes a node's label.
func (b *Board) Relabel(id, label string) error {
	return b.mutateNode(id, func(n *canvas.Node) {
		n.Data.Label = label
	})
}

// SetDetails changes a node's long-form details text.
func (b *Board) SetDetails(id, details string) error {
	return b.mutateNode(id, func(n *canvas.Node) {
		n.Data.Details = details
	})
}

// SetCategory reclassifies a node and re-resolves its display color.
func (b *Board) SetCategory(id string, category mindmap.Category) error {
	if !category.Valid() {
		return fmt.Errorf("invalid category %q", category)
	}
	return b.mutateNode(id, func(n *canvas.Node) {
		n.Data.Category = category
		n.Data.Color = canvas.ResolveColor(n.Data.Style, category)
	})
}

// Restyle replaces a node's style record and re-resolves its color.
// An all-zero style clears the override.
func (b *Board) Restyle(id string, style mindmap.Style) error {
	if err := style.Validate(); err != nil {
		return err
	}
	return b.mutateNode(id, func(n *canvas.Node) {
		if style.IsZero() {
			n.Data.Style = nil
		} else {
			s := style
			n.Data.Style = &s
		}
		n.Data.Color = canvas.ResolveColor(n.Data.Style, n.Data.Category)
	})
}

// Move drags a node to a new position.
func (b *Board) Move(id string, pos canvas.Position) error {
	return b.mutateNode(id, func(n *canvas.Node) {
		n.Position = pos
	})
}

// Delete removes a node and its incident edges. The node's former subtree
// stays on the board as orphaned fragments; reconstruction prunes them
// later, and root loss is recovered by the zero-in-degree fallback.
func (b *Board) Delete(id string) error {
	return b.update(func(s Snapshot) (Snapshot, error) {
		i := indexOf(s.Nodes, id)
		if i < 0 {
			return s, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
		s.Nodes = slices.Delete(s.Nodes, i, i+1)
		s.Edges = slices.DeleteFunc(s.Edges, func(e canvas.Edge) bool {
			return e.Source == id || e.Target == id
		})
		return s, nil
	})
}

// Tree reconstructs the canonical tree from the current graph. Callers that
// persist or export should keep their previous canonical snapshot when this
// returns an error.
func (b *Board) Tree() (*mindmap.Node, error) {
	s := b.Snapshot()
	return canvas.Rebuild(s.Nodes, s.Edges, s.RootID)
}

// mutateNode applies an in-place edit to the node with the given id,
// as a latest-state transform.
func (b *Board) mutateNode(id string, edit func(*canvas.Node)) error {
	return b.update(func(s Snapshot) (Snapshot, error) {
		i := indexOf(s.Nodes, id)
		if i < 0 {
			return s, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
		edit(&s.Nodes[i])
		return s, nil
	})
}

func indexOf(nodes []canvas.Node, id string) int {
	return slices.IndexFunc(nodes, func(n canvas.Node) bool { return n.ID == id })
}
