// Package store persists saved mind map documents.
//
// A [Document] wraps a canonical tree with identity and bookkeeping:
// title, the layout policy it was last viewed under, and timestamps.
// Three backends implement [Store]: in-memory (tests, ephemeral sessions),
// file-based JSON (the CLI default, under the XDG data directory), and
// MongoDB (the serve deployment).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas/layout"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a saved mind map.
type Document struct {
	ID        string        `json:"id" bson:"_id"`
	Title     string        `json:"title" bson:"title"`
	Root      *mindmap.Node `json:"root" bson:"root"`
	Layout    layout.Policy `json:"layout,omitempty" bson:"layout,omitempty"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Summary is a listing entry: a document without its tree.
type Summary struct {
	ID        string        `json:"id" bson:"_id"`
	Title     string        `json:"title" bson:"title"`
	Layout    layout.Policy `json:"layout,omitempty" bson:"layout,omitempty"`
	Nodes     int           `json:"nodes" bson:"nodes"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Store is the interface for document persistence backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves a document by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Document, error)

	// Put stores a document, overwriting any previous version with the
	// same id. UpdatedAt is stamped by the store; CreatedAt is stamped on
	// first write.
	Put(ctx context.Context, doc *Document) error

	// List returns summaries of all documents, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a document. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// NewDocument creates a document around a canonical tree with a fresh id.
func NewDocument(title string, root *mindmap.Node, policy layout.Policy) *Document {
	return &Document{
		ID:     mindmap.NewID(),
		Title:  title,
		Root:   root,
		Layout: policy,
	}
}

func summarize(doc *Document) Summary {
	return Summary{
		ID:        doc.ID,
		Title:     doc.Title,
		Layout:    doc.Layout,
		Nodes:     doc.Root.Count(),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// stamp fills the document timestamps for a write.
func stamp(doc *Document, existing *time.Time) {
	now := time.Now().UTC()
	if existing != nil && !existing.IsZero() {
		doc.CreatedAt = *existing
	} else if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
}
