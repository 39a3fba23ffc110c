// Package emit writes GIF text from a populated sequence store and a
// source of path/walk metadata, re-joining translated node runs back into
// their original segments, grounded on gfa.cpp's SegmentCache and
// write_segments.
package emit

import (
	"fmt"
	"sort"

	"github.com/basepair-tools/gifx/translate"
)

// segmentInfo is the range a cached segment name occupies.
type segmentInfo struct {
	name  string
	first uint64
	limit uint64
}

// SegmentCache re-joins a sequence store's node entries into the original
// segments they were translated from. With a translation table it
// recovers the original segment name and concatenates every chunk in a
// translated run back into one sequence; without one (direct mode) each
// node is already its own segment, named by its decimal identifier,
// matching gfa.cpp's behavior when the file carries no translation table.
type SegmentCache struct {
	store    *translate.SequenceStore
	byNode   map[uint64]segmentInfo
	segments []segmentInfo
}

// NewSegmentCache builds a cache from store. table may be nil, in which
// case every node is treated as its own segment.
func NewSegmentCache(store *translate.SequenceStore, table *translate.Table) *SegmentCache {
	c := &SegmentCache{store: store, byNode: make(map[uint64]segmentInfo)}

	if table != nil {
		table.WalkPrefix("", func(name string, r translate.Range) bool {
			info := segmentInfo{name: name, first: r.First, limit: r.Limit}
			c.segments = append(c.segments, info)
			for id := r.First; id < r.Limit; id++ {
				c.byNode[id] = info
			}
			return true
		})
	} else {
		for _, id := range store.NodeIDs() {
			info := segmentInfo{name: fmt.Sprintf("%d", id), first: id, limit: id + 1}
			c.segments = append(c.segments, info)
			c.byNode[id] = info
		}
	}

	sort.Slice(c.segments, func(i, j int) bool { return c.segments[i].first < c.segments[j].first })
	return c
}

// SegmentName returns the original segment name a node identifier belongs
// to.
func (c *SegmentCache) SegmentName(id uint64) (string, bool) {
	info, ok := c.byNode[id]
	return info.name, ok
}

// Sequence concatenates every chunk of name's range, in node-identifier
// order, into the segment's full original sequence.
func (c *SegmentCache) Sequence(name string) ([]byte, bool) {
	for _, info := range c.segments {
		if info.name != name {
			continue
		}
		var out []byte
		for id := info.first; id < info.limit; id++ {
			chunk, ok := c.store.Sequence(id)
			if !ok {
				return nil, false
			}
			out = append(out, chunk...)
		}
		return out, true
	}
	return nil, false
}

// Segments returns every cached segment name in ascending node-identifier
// order. With a translation table this is also the order segments were
// first seen during ingest; in direct mode it is numeric id order, which
// need not match the order of the S-lines.
func (c *SegmentCache) Segments() []string {
	names := make([]string, len(c.segments))
	for i, info := range c.segments {
		names[i] = info.name
	}
	return names
}
