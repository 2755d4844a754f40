// Package pkg provides the core libraries for voice2map mind mapping.
//
// # Overview
//
// voice2map turns a voice-note transcript into an editable hierarchical mind
// map. The pkg directory splits into four areas:
//
//  1. Domain - canonical trees and the tree↔graph transforms
//  2. State - the live editing session container
//  3. Infrastructure - caching, persistence, observability, HTTP plumbing
//  4. Integrations - external API clients (Gemini, Brave Search)
//
// # Architecture
//
// The typical data flow:
//
//	Transcript
//	     ↓
//	[integrations/gemini] (structure into a canonical tree)
//	     ↓
//	[canvas] Flatten (tree → positioned node/edge graph)
//	     ↓
//	[canvas/layout] (hierarchical or radial coordinates)
//	     ↓
//	[board] (live edits: add, rename, delete, restyle, enrich)
//	     ↓
//	[canvas] Rebuild (graph → canonical tree)
//	     ↓
//	[export] / [store] (outline, dot, svg, mermaid, json; save)
//
// # Main Packages
//
// [mindmap] - The canonical tree: nodes with labels, details, categories,
// closed style records, and external links. Single-rooted, ordered children.
//
// [canvas] - Tree↔graph transforms. Flatten emits the positioned node/edge
// set a canvas frontend consumes; Rebuild reassembles the canonical tree
// from an arbitrarily edited graph, pruning unreachable nodes and rejecting
// cycles.
//
// [canvas/layout] - Coordinate assignment: layered hierarchical layout
// (horizontal or vertical axis) and radial layout on concentric circles.
//
// [board] - The single source of truth for one editing session. Every
// mutation is a pure snapshot transform under a mutex; asynchronous
// enrichment merges by id at merge time.
//
// [export] - Serializers over the reconstructed tree: indented outline,
// Graphviz DOT (+ rendered SVG), Mermaid mindmap, flat JSON.
//
// [store] - Document persistence: memory, JSON files under the XDG data
// directory, and MongoDB.
//
// [cache] - Response caching: file, null, and Redis backends with a SHA-256
// keyer over typed key options.
//
// [integrations] - Shared REST client composing caching, retry with
// backoff, and observability hooks; [integrations/gemini] structures
// transcripts, [integrations/brave] looks up reference links.
//
// [errors] - Coded errors for the CLI and HTTP boundaries, plus input
// validation.
//
// [observability] - Engine, cache, and HTTP hooks with no-op defaults.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/canvas/...   # Specific package
package pkg
