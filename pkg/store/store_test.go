package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas/layout"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

func sampleDoc() *Document {
	root := &mindmap.Node{
		ID:    "root",
		Label: "Trip",
		Children: []*mindmap.Node{
			{ID: "a", Label: "Flights"},
		},
	}
	return NewDocument("Trip planning", root, layout.PolicyRadial)
}

// runStoreTests exercises the Store contract against any backend.
func runStoreTests(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	// Missing documents report ErrNotFound.
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) = %v, want ErrNotFound", err)
	}

	doc := sampleDoc()
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Error("Put should stamp timestamps")
	}

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Trip planning" || got.Layout != layout.PolicyRadial {
		t.Errorf("document fields lost: %+v", got)
	}
	if !mindmap.Equal(got.Root, doc.Root) {
		t.Error("tree did not round trip through the store")
	}

	// Overwrite keeps CreatedAt and advances UpdatedAt.
	created := got.CreatedAt
	time.Sleep(5 * time.Millisecond)
	got.Title = "Renamed"
	if err := s.Put(ctx, got); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	again, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	if again.Title != "Renamed" {
		t.Errorf("overwrite lost: %+v", again)
	}
	if !again.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on overwrite: %v → %v", created, again.CreatedAt)
	}
	if !again.UpdatedAt.After(created) {
		t.Error("UpdatedAt should advance on overwrite")
	}

	// Listing.
	second := sampleDoc()
	second.Title = "Another map"
	if err := s.Put(ctx, second); err != nil {
		t.Fatalf("Put second: %v", err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(list))
	}
	if list[0].ID != second.ID {
		t.Error("List should order most recently updated first")
	}
	if list[0].Nodes != 2 {
		t.Errorf("summary node count = %d, want 2", list[0].Nodes)
	}

	// Delete is idempotent.
	if err := s.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete (again): %v", err)
	}
	if _, err := s.Get(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	runStoreTests(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()
	runStoreTests(t, s)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	doc := sampleDoc()
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Mutating what we put or got must not affect the stored copy.
	doc.Root.Label = "mutated after put"
	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Root.Label != "Trip" {
		t.Error("store shared memory with the caller's tree")
	}
	got.Root.Label = "mutated after get"
	again, _ := s.Get(ctx, doc.ID)
	if again.Root.Label != "Trip" {
		t.Error("Get returned a shared tree")
	}
}

func TestFileStore_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Put(ctx, sampleDoc()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := os.WriteFile(dir+"/garbage.json", []byte("{not json"), 0600); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List returned %d entries, want 1 (corrupt file skipped)", len(list))
	}
}
