// Package cli implements the voice2map command-line interface.
//
// This package provides commands for structuring transcripts into mind map
// trees, laying them out as canvas graphs, reconstructing edited graphs,
// exporting, interactively editing, and serving the HTTP API. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - generate: Structure a transcript into a canonical tree
//   - layout: Flatten a tree and assign canvas coordinates
//   - rebuild: Reconstruct a canonical tree from an edited graph
//   - export: Serialize a tree as outline, dot, svg, mermaid, or json
//   - edit: Interactive terminal outline editor
//   - serve: Run the HTTP API
//   - cache: Manage the response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"time"

	"github.com/charmbracelet/log"
)

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Structured 42 nodes (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
