package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yaohuangguan/orion-voice2map/pkg/cache"
	apperrors "github.com/yaohuangguan/orion-voice2map/pkg/errors"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// modelReply builds a generateContent response whose single candidate
// carries the given text.
func modelReply(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"parts": []map[string]string{{"text": text}}},
			"finishReason": "STOP",
		}},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", cache.NewNullCache(), 0, Options{})
	c.baseURL = srv.URL
	return c
}

func TestStructureTranscript(t *testing.T) {
	outlineJSON := `{
		"label": "Garden project",
		"category": "idea",
		"children": [
			{"label": "Buy seeds", "category": "task"},
			{"label": "Tomatoes need full sun", "category": "fact", "details": "at least 6h"}
		]
	}`
	var gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		w.Write([]byte(modelReply(outlineJSON)))
	})

	root, err := c.StructureTranscript(context.Background(), "so I want to start a garden...", false)
	if err != nil {
		t.Fatalf("StructureTranscript: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if root.Label != "Garden project" || root.Category != mindmap.CategoryIdea {
		t.Errorf("root = %q/%q", root.Label, root.Category)
	}
	if len(root.Children) != 2 {
		t.Fatalf("children = %d", len(root.Children))
	}
	if root.Children[1].Details != "at least 6h" {
		t.Errorf("details not carried: %q", root.Children[1].Details)
	}
	if root.ID == "" || root.Children[0].ID == "" || root.ID == root.Children[0].ID {
		t.Error("ids must be assigned and unique")
	}
	if err := mindmap.Validate(root); err != nil {
		t.Errorf("result must validate: %v", err)
	}
}

func TestStructureTranscript_FencedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelReply("```json\n{\"label\": \"Topic\"}\n```")))
	})
	root, err := c.StructureTranscript(context.Background(), "a note", false)
	if err != nil {
		t.Fatalf("fenced JSON should decode: %v", err)
	}
	if root.Label != "Topic" {
		t.Errorf("label = %q", root.Label)
	}
}

func TestStructureTranscript_UnknownCategoryDropped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelReply(`{"label": "Topic", "category": "musing"}`)))
	})
	root, err := c.StructureTranscript(context.Background(), "a note", false)
	if err != nil {
		t.Fatalf("StructureTranscript: %v", err)
	}
	if root.Category != "" {
		t.Errorf("unknown category should fall to uncategorized, got %q", root.Category)
	}
}

func TestStructureTranscript_EmptyTranscript(t *testing.T) {
	c := NewClient("k", cache.NewNullCache(), 0, Options{})
	_, err := c.StructureTranscript(context.Background(), "   ", false)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidTranscript) {
		t.Errorf("want INVALID_TRANSCRIPT, got %v", err)
	}
}

func TestStructureTranscript_BlankLabelFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelReply(`{"label": "Topic", "children": [{"label": "  "}]}`)))
	})
	_, err := c.StructureTranscript(context.Background(), "a note", false)
	if !apperrors.Is(err, apperrors.ErrCodeStructural) {
		t.Errorf("want STRUCTURAL_FAILURE, got %v", err)
	}
}

func TestStructureTranscript_NoCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})
	_, err := c.StructureTranscript(context.Background(), "a note", false)
	if !apperrors.Is(err, apperrors.ErrCodeStructural) {
		t.Errorf("want STRUCTURAL_FAILURE, got %v", err)
	}
}

func TestStructureTranscript_PromptOptions(t *testing.T) {
	var prompt string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			prompt = req.Contents[0].Parts[0].Text
		}
		w.Write([]byte(modelReply(`{"label": "Topic"}`)))
	})
	c.opts.MaxNodes = 12
	c.opts.Language = "de"

	if _, err := c.StructureTranscript(context.Background(), "a note", false); err != nil {
		t.Fatalf("StructureTranscript: %v", err)
	}
	if !strings.Contains(prompt, "at most 12 nodes") {
		t.Errorf("prompt missing node cap: %q", prompt)
	}
	if !strings.Contains(prompt, "in de") {
		t.Errorf("prompt missing language hint: %q", prompt)
	}
}

func TestSuggestLinks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelReply(`[
			{"title": "Tomato", "url": "https://en.wikipedia.org/wiki/Tomato"},
			{"title": "bogus", "url": "not-a-url"},
			{"title": "", "url": "https://example.com/guide"}
		]`)))
	})

	links, err := c.SuggestLinks(context.Background(), "Tomatoes", "", false)
	if err != nil {
		t.Fatalf("SuggestLinks: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("invalid URL should be dropped, got %d links", len(links))
	}
	if links[1].Title != "https://example.com/guide" {
		t.Errorf("blank title should fall back to URL, got %q", links[1].Title)
	}
}

func TestSuggestLinks_EmptyLabel(t *testing.T) {
	c := NewClient("k", cache.NewNullCache(), 0, Options{})
	_, err := c.SuggestLinks(context.Background(), "", "", false)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
}
