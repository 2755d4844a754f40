// Package mindmap defines the canonical tree model for mind map documents.
//
// A document is a single rooted tree of [Node] values with ordered children.
// The canonical tree is the source of truth for persistence and export; the
// positioned representation the rendering surface works with lives in
// pkg/canvas and is derived from (and reconstructed back into) this form.
//
// Nodes are immutable after creation in the sense that reconstruction always
// produces a fresh tree rather than patching an existing one. Child order is
// semantically meaningful: it drives layout sibling order and export order.
package mindmap

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNilRoot is returned by [Validate] when the tree has no root node.
	ErrNilRoot = errors.New("tree has no root")

	// ErrEmptyNodeID is returned by [Validate] when a node has an empty id.
	// All nodes must carry a non-empty identifier.
	ErrEmptyNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Validate] when two nodes share an id.
	// Node IDs must be unique within one document.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrSharedNode is returned by [Validate] when the same node value is
	// reachable through more than one parent. The canonical form is a tree,
	// not a DAG; shared children indicate aliasing or a cycle.
	ErrSharedNode = errors.New("node reachable through multiple parents")

	// ErrInvalidCategory is returned by [Validate] for an unknown category value.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidStyle is returned by [Validate] when a style field holds a
	// value outside its closed set of variants.
	ErrInvalidStyle = errors.New("invalid style value")
)

// Category classifies a node. The set is closed; an empty Category means
// the node is uncategorized and falls through to the plain default color.
type Category string

// Recognized categories.
const (
	CategoryIdea     Category = "idea"
	CategoryTask     Category = "task"
	CategoryQuestion Category = "question"
	CategoryFact     Category = "fact"
)

// Valid reports whether the category is empty or one of the recognized values.
func (c Category) Valid() bool {
	switch c {
	case "", CategoryIdea, CategoryTask, CategoryQuestion, CategoryFact:
		return true
	}
	return false
}

// Shape variants for node rendering.
const (
	ShapeRounded = "rounded"
	ShapeSquare  = "square"
	ShapeCircle  = "circle"
)

// Font size variants.
const (
	FontSizeSmall  = "sm"
	FontSizeMedium = "md"
	FontSizeLarge  = "lg"
)

// Font family variants.
const (
	FontSans  = "sans"
	FontSerif = "serif"
	FontMono  = "mono"
)

// Style holds per-node display overrides. Every field is independently
// optional (empty string means "use the computed default"), but the set of
// fields is fixed - this is a closed record, not an open map.
type Style struct {
	BackgroundColor string `json:"backgroundColor,omitempty" bson:"backgroundColor,omitempty"`
	Shape           string `json:"shape,omitempty" bson:"shape,omitempty"`
	FontSize        string `json:"fontSize,omitempty" bson:"fontSize,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty" bson:"fontFamily,omitempty"`
}

// IsZero reports whether no style field is set.
func (s Style) IsZero() bool { return s == Style{} }

// Validate checks every set field against its closed variant set.
// The background color is free-form (any CSS color string is accepted).
func (s Style) Validate() error {
	switch s.Shape {
	case "", ShapeRounded, ShapeSquare, ShapeCircle:
	default:
		return ErrInvalidStyle
	}
	switch s.FontSize {
	case "", FontSizeSmall, FontSizeMedium, FontSizeLarge:
	default:
		return ErrInvalidStyle
	}
	switch s.FontFamily {
	case "", FontSans, FontSerif, FontMono:
	default:
		return ErrInvalidStyle
	}
	return nil
}

// Link is an external reference attached to a node.
// Links are ordered and append-only in practice.
type Link struct {
	Title string `json:"title" bson:"title"`
	URL   string `json:"url" bson:"url"`
}

// Node is a single node of the canonical tree.
//
// The zero value is not usable - ID must be set (use [NewID]) before the
// node joins a document.
type Node struct {
	ID        string   `json:"id" bson:"id"`
	Label     string   `json:"label" bson:"label"`
	Details   string   `json:"details,omitempty" bson:"details,omitempty"`
	Category  Category `json:"category,omitempty" bson:"category,omitempty"`
	Style     *Style   `json:"style,omitempty" bson:"style,omitempty"`
	Links     []Link   `json:"links,omitempty" bson:"links,omitempty"`
	CreatedAt int64    `json:"createdAt,omitempty" bson:"createdAt,omitempty"` // unix millis
	Children  []*Node  `json:"children,omitempty" bson:"children,omitempty"`
}

// Tree is the boundary envelope for a canonical tree document.
type Tree struct {
	Root *Node `json:"root" bson:"root"`
}

// NewID returns a fresh process-wide-unique node identifier.
// IDs are assigned at creation and never reused.
func NewID() string { return uuid.NewString() }

// Now returns the current time as a createdAt timestamp (unix millis).
func Now() int64 { return time.Now().UnixMilli() }

// New creates a node with a fresh id and creation timestamp.
func New(label string) *Node {
	return &Node{ID: NewID(), Label: label, CreatedAt: Now()}
}

// Count returns the number of nodes in the subtree rooted at n, including n.
// Returns 0 for a nil node. The walk uses an explicit stack, so arbitrarily
// deep trees do not exhaust the call stack; a stray shared node cannot loop
// it because each pointer is pushed exactly once per parent and Validate
// rejects aliased trees before they circulate.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	count := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		for i := len(curr.Children) - 1; i >= 0; i-- {
			stack = append(stack, curr.Children[i])
		}
	}
	return count
}

// Find returns the node with the given id in the subtree rooted at n,
// or nil if no such node exists.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curr.ID == id {
			return curr
		}
		for i := len(curr.Children) - 1; i >= 0; i-- {
			stack = append(stack, curr.Children[i])
		}
	}
	return nil
}

// Clone returns a deep copy of the subtree rooted at n.
// Style, links, and children are copied; the clone shares no pointers with
// the original, so mutating one cannot alias the other.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		ID:        n.ID,
		Label:     n.Label,
		Details:   n.Details,
		Category:  n.Category,
		CreatedAt: n.CreatedAt,
	}
	if n.Style != nil {
		style := *n.Style
		out.Style = &style
	}
	if len(n.Links) > 0 {
		out.Links = make([]Link, len(n.Links))
		copy(out.Links, n.Links)
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Validate checks the structural invariants of the tree rooted at root:
// non-nil root, non-empty unique ids, no node reachable through more than
// one parent (which would make the structure a DAG or cyclic), and closed
// enum values for category and style.
//
// The walk uses an explicit stack with a visited set keyed by pointer, so
// an aliased or cyclic structure is detected at push time rather than by
// recursing into it.
func Validate(root *Node) error {
	if root == nil {
		return ErrNilRoot
	}

	seenIDs := make(map[string]struct{})
	seenPtrs := make(map[*Node]struct{})
	stack := []*Node{root}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if curr.ID == "" {
			return ErrEmptyNodeID
		}
		if _, dup := seenIDs[curr.ID]; dup {
			return ErrDuplicateNodeID
		}
		seenIDs[curr.ID] = struct{}{}
		if _, seen := seenPtrs[curr]; seen {
			return ErrSharedNode
		}
		seenPtrs[curr] = struct{}{}

		if !curr.Category.Valid() {
			return ErrInvalidCategory
		}
		if curr.Style != nil {
			if err := curr.Style.Validate(); err != nil {
				return err
			}
		}

		for i := len(curr.Children) - 1; i >= 0; i-- {
			child := curr.Children[i]
			if child == nil {
				return ErrNilRoot
			}
			if _, seen := seenPtrs[child]; seen {
				return ErrSharedNode
			}
			stack = append(stack, child)
		}
	}
	return nil
}

// Equal reports whether two trees are equal in id, label, details, category,
// style, links, createdAt, and child order for every node. Used by tests and
// by save paths that skip writes when nothing changed.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.Label != b.Label || a.Details != b.Details ||
		a.Category != b.Category || a.CreatedAt != b.CreatedAt {
		return false
	}
	switch {
	case a.Style == nil && b.Style != nil,
		a.Style != nil && b.Style == nil:
		return false
	case a.Style != nil && *a.Style != *b.Style:
		return false
	}
	if len(a.Links) != len(b.Links) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Links {
		if a.Links[i] != b.Links[i] {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
