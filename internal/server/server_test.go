package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
	"github.com/yaohuangguan/orion-voice2map/pkg/store"
)

type stubStructurer struct {
	root *mindmap.Node
	err  error
}

func (s *stubStructurer) StructureTranscript(_ context.Context, _ string, _ bool) (*mindmap.Node, error) {
	return s.root, s.err
}

type stubEnricher struct {
	links []mindmap.Link
}

func (s *stubEnricher) Lookup(context.Context, string) ([]mindmap.Link, error) {
	return s.links, nil
}

func newTestServer(t *testing.T, structurer Structurer, enricher Enricher) *Server {
	t.Helper()
	return New(Config{Addr: ":0"}, store.NewMemoryStore(), structurer, enricher, nil)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body not JSON: %v: %s", err, rec.Body.String())
	}
	return body.Error.Code
}

func sampleTree() *mindmap.Node {
	root := mindmap.New("Garden")
	root.Children = []*mindmap.Node{mindmap.New("Soil"), mindmap.New("Seeds")}
	return root
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGenerate(t *testing.T) {
	s := newTestServer(t, &stubStructurer{root: sampleTree()}, nil)
	rec := do(t, s, http.MethodPost, "/api/generate", generateRequest{Transcript: "a note"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var tree mindmap.Tree
	if err := json.Unmarshal(rec.Body.Bytes(), &tree); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tree.Root == nil || tree.Root.Label != "Garden" {
		t.Errorf("tree = %+v", tree.Root)
	}
}

func TestGenerate_NotConfigured(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := do(t, s, http.MethodPost, "/api/generate", generateRequest{Transcript: "a note"})
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "UNSUPPORTED" {
		t.Errorf("code = %s", code)
	}
}

func TestFlattenAndRebuildRoundTrip(t *testing.T) {
	s := newTestServer(t, nil, nil)
	root := sampleTree()

	rec := do(t, s, http.MethodPost, "/api/flatten", flattenRequest{Root: root, Policy: "horizontal"})
	if rec.Code != http.StatusOK {
		t.Fatalf("flatten status = %d: %s", rec.Code, rec.Body.String())
	}
	var graph graphPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &graph); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if len(graph.Nodes) != 3 || len(graph.Edges) != 2 {
		t.Fatalf("graph = %d nodes, %d edges", len(graph.Nodes), len(graph.Edges))
	}
	if graph.RootID != root.ID {
		t.Errorf("rootId = %s", graph.RootID)
	}

	rec = do(t, s, http.MethodPost, "/api/rebuild", rebuildRequest{graphPayload: graph})
	if rec.Code != http.StatusOK {
		t.Fatalf("rebuild status = %d: %s", rec.Code, rec.Body.String())
	}
	var tree mindmap.Tree
	if err := json.Unmarshal(rec.Body.Bytes(), &tree); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	if !mindmap.Equal(tree.Root, root) {
		t.Error("round trip should reproduce the tree")
	}
}

func TestLayout_MovesNodes(t *testing.T) {
	s := newTestServer(t, nil, nil)
	nodes, edges := canvas.Flatten(sampleTree())

	rec := do(t, s, http.MethodPost, "/api/layout", layoutRequest{
		graphPayload: graphPayload{Nodes: nodes, Edges: edges},
		Policy:       "vertical",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var graph graphPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &graph); err != nil {
		t.Fatalf("decode: %v", err)
	}
	moved := false
	for _, n := range graph.Nodes {
		if n.Position != (canvas.Position{}) {
			moved = true
		}
	}
	if !moved {
		t.Error("layout should assign coordinates")
	}
}

func TestLayout_BadPolicy(t *testing.T) {
	s := newTestServer(t, nil, nil)
	nodes, edges := canvas.Flatten(sampleTree())
	rec := do(t, s, http.MethodPost, "/api/layout", layoutRequest{
		graphPayload: graphPayload{Nodes: nodes, Edges: edges},
		Policy:       "diagonal",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "INVALID_LAYOUT" {
		t.Errorf("code = %s", code)
	}
}

func TestLayout_NoRoot(t *testing.T) {
	s := newTestServer(t, nil, nil)
	// a↔b: every node has an incoming edge, so no root candidate exists.
	nodes := []canvas.Node{{ID: "a"}, {ID: "b"}}
	edges := []canvas.Edge{
		{ID: canvas.EdgeID("a", "b"), Source: "a", Target: "b"},
		{ID: canvas.EdgeID("b", "a"), Source: "b", Target: "a"},
	}
	rec := do(t, s, http.MethodPost, "/api/layout", layoutRequest{
		graphPayload: graphPayload{Nodes: nodes, Edges: edges},
		Policy:       "radial",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if code := decodeError(t, rec); code != "NO_VALID_ROOT" {
		t.Errorf("code = %s", code)
	}
}

func TestRebuild_Cycle(t *testing.T) {
	s := newTestServer(t, nil, nil)
	nodes := []canvas.Node{{ID: "a"}, {ID: "b"}}
	edges := []canvas.Edge{
		{ID: canvas.EdgeID("a", "b"), Source: "a", Target: "b"},
		{ID: canvas.EdgeID("b", "a"), Source: "b", Target: "a"},
	}
	rec := do(t, s, http.MethodPost, "/api/rebuild", rebuildRequest{
		graphPayload:    graphPayload{Nodes: nodes, Edges: edges},
		PreferredRootID: "a",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if code := decodeError(t, rec); code != "INVALID_GRAPH" {
		t.Errorf("code = %s", code)
	}
}

func TestExport_Outline(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := do(t, s, http.MethodPost, "/api/export/outline", mindmap.Tree{Root: sampleTree()})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "Garden") {
		t.Errorf("outline = %s", rec.Body.String())
	}
}

func TestExport_BadFormat(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := do(t, s, http.MethodPost, "/api/export/docx", mindmap.Tree{Root: sampleTree()})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "INVALID_FORMAT" {
		t.Errorf("code = %s", code)
	}
}

func TestEnrich(t *testing.T) {
	links := []mindmap.Link{{Title: "Ref", URL: "https://example.org"}}
	s := newTestServer(t, nil, &stubEnricher{links: links})
	rec := do(t, s, http.MethodPost, "/api/enrich", enrichRequest{Query: "compost"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp enrichResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Links) != 1 || resp.Links[0].Title != "Ref" {
		t.Errorf("links = %+v", resp.Links)
	}
}

func TestMapsCRUD(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodPost, "/api/maps", mapRequest{Title: "Garden plan", Root: sampleTree()})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var doc store.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode doc: %v", err)
	}
	if doc.ID == "" || doc.CreatedAt.IsZero() {
		t.Fatalf("doc = %+v", doc)
	}

	rec = do(t, s, http.MethodGet, "/api/maps", nil)
	var summaries []store.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Nodes != 3 {
		t.Fatalf("summaries = %+v", summaries)
	}

	updated := sampleTree()
	rec = do(t, s, http.MethodPut, fmt.Sprintf("/api/maps/%s", doc.ID), mapRequest{Title: "Renamed", Root: updated, Layout: "radial"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, fmt.Sprintf("/api/maps/%s", doc.ID), nil)
	var got store.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode doc: %v", err)
	}
	if got.Title != "Renamed" || string(got.Layout) != "radial" {
		t.Errorf("doc = %+v", got)
	}

	rec = do(t, s, http.MethodDelete, fmt.Sprintf("/api/maps/%s", doc.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, fmt.Sprintf("/api/maps/%s", doc.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "MAP_NOT_FOUND" {
		t.Errorf("code = %s", code)
	}
}

func TestMaps_BadTitle(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := do(t, s, http.MethodPost, "/api/maps", mapRequest{Title: "", Root: sampleTree()})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
