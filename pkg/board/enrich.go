package board

import (
	"context"
	"fmt"
	"slices"

	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// Enricher looks up external references for a topic. Implementations live
// in pkg/integrations; lookups go over the network and may take arbitrary
// time.
type Enricher interface {
	Lookup(ctx context.Context, query string) ([]mindmap.Link, error)
}

// MergeLinks appends links to the node with the given id, as a transform of
// the then-current state.
//
// If the id is no longer present the merge is a silent no-op: this is the
// delete-during-enrichment race, and the result is simply discarded. The
// target is located by id at merge time, never through a node reference
// captured before the lookup started.
func (b *Board) MergeLinks(id string, links []mindmap.Link) {
	if len(links) == 0 {
		return
	}
	_ = b.update(func(s Snapshot) (Snapshot, error) {
		i := indexOf(s.Nodes, id)
		if i < 0 {
			b.logger.Debug("enrichment target gone, dropping result", "node", id)
			return s, nil
		}
		merged := slices.Clone(s.Nodes[i].Data.Links)
		for _, l := range links {
			if !slices.Contains(merged, l) {
				merged = append(merged, l)
			}
		}
		s.Nodes[i].Data.Links = merged
		return s, nil
	})
}

// Enrich looks up links for the node's label and merges the result into the
// then-current node. The node may be edited or deleted while the lookup is
// in flight; only the merge step observes board state, and it re-reads it
// under the lock.
func (b *Board) Enrich(ctx context.Context, e Enricher, id string) error {
	s := b.Snapshot()
	i := indexOf(s.Nodes, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	links, err := e.Lookup(ctx, s.Nodes[i].Data.Label)
	if err != nil {
		return fmt.Errorf("enrich %s: %w", id, err)
	}

	b.MergeLinks(id, links)
	return nil
}
