package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
	"github.com/yaohuangguan/orion-voice2map/pkg/canvas/layout"
	apperrors "github.com/yaohuangguan/orion-voice2map/pkg/errors"
	"github.com/yaohuangguan/orion-voice2map/pkg/export"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
	"github.com/yaohuangguan/orion-voice2map/pkg/store"
)

// graphPayload is the wire form of a positioned graph, shared by the
// flatten, layout, and rebuild endpoints.
type graphPayload struct {
	Nodes  []canvas.Node `json:"nodes"`
	Edges  []canvas.Edge `json:"edges"`
	RootID string        `json:"rootId,omitempty"`
}

type generateRequest struct {
	Transcript string `json:"transcript"`
	Refresh    bool   `json:"refresh,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.structurer == nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeUnsupported, "transcript structuring is not configured"))
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, r, "invalid request body")
		return
	}

	root, err := s.structurer.StructureTranscript(r.Context(), req.Transcript, req.Refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mindmap.Tree{Root: root})
}

type flattenRequest struct {
	Root   *mindmap.Node `json:"root"`
	Policy string        `json:"policy,omitempty"`
}

func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	var req flattenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Root == nil {
		s.badRequest(w, r, "request must carry a root node")
		return
	}
	if err := mindmap.Validate(req.Root); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidTree, err, "invalid tree"))
		return
	}

	nodes, edges := canvas.Flatten(req.Root)
	if req.Policy != "" {
		policy, err := layout.ParsePolicy(req.Policy)
		if err != nil {
			s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidLayout, err, "invalid layout policy"))
			return
		}
		layout.Apply(policy, nodes, edges, req.Root.ID)
	}
	writeJSON(w, http.StatusOK, graphPayload{Nodes: nodes, Edges: edges, RootID: req.Root.ID})
}

type layoutRequest struct {
	graphPayload
	Policy string `json:"policy"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, r, "invalid request body")
		return
	}
	policy, err := layout.ParsePolicy(req.Policy)
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidLayout, err, "invalid layout policy"))
		return
	}
	rootID, err := canvas.ResolveRoot(req.Nodes, req.Edges, req.RootID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	layout.Apply(policy, req.Nodes, req.Edges, rootID)
	writeJSON(w, http.StatusOK, graphPayload{Nodes: req.Nodes, Edges: req.Edges, RootID: rootID})
}

type rebuildRequest struct {
	graphPayload
	PreferredRootID string `json:"preferredRootId,omitempty"`
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	var req rebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, r, "invalid request body")
		return
	}
	preferred := req.PreferredRootID
	if preferred == "" {
		preferred = req.RootID
	}

	root, err := canvas.Rebuild(req.Nodes, req.Edges, preferred)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mindmap.Tree{Root: root})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid export format"))
		return
	}
	var req mindmap.Tree
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Root == nil {
		s.badRequest(w, r, "request must carry a root node")
		return
	}

	data, err := export.Export(req.Root, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func contentTypeFor(format export.Format) string {
	switch format {
	case export.FormatJSON:
		return "application/json"
	case export.FormatSVG:
		return "image/svg+xml"
	case export.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "text/plain; charset=utf-8"
	}
}

type enrichRequest struct {
	Query string `json:"query"`
}

type enrichResponse struct {
	Links []mindmap.Link `json:"links"`
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	if s.enricher == nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeUnsupported, "link enrichment is not configured"))
		return
	}
	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		s.badRequest(w, r, "query is required")
		return
	}

	links, err := s.enricher.Lookup(r.Context(), req.Query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, enrichResponse{Links: links})
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

type mapRequest struct {
	Title  string        `json:"title"`
	Root   *mindmap.Node `json:"root"`
	Layout string        `json:"layout,omitempty"`
}

// decodeMapRequest validates the shared body of map create and update.
func (s *Server) decodeMapRequest(r *http.Request) (*mapRequest, layout.Policy, error) {
	var req mapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Root == nil {
		return nil, "", apperrors.New(apperrors.ErrCodeInvalidInput, "request must carry a root node")
	}
	if err := apperrors.ValidateMapTitle(req.Title); err != nil {
		return nil, "", err
	}
	if err := mindmap.Validate(req.Root); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrCodeInvalidTree, err, "invalid tree")
	}
	policy := layout.PolicyHorizontal
	if req.Layout != "" {
		var err error
		if policy, err = layout.ParsePolicy(req.Layout); err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrCodeInvalidLayout, err, "invalid layout policy")
		}
	}
	return &req, policy, nil
}

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	req, policy, err := s.decodeMapRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc := store.NewDocument(req.Title, req.Root, policy)
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, policy, err := s.decodeMapRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	existing.Title = req.Title
	existing.Root = req.Root
	existing.Layout = policy
	if err := s.store.Put(r.Context(), existing); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
