// Package gbwtref is an in-memory reference implementation of the succinct
// index builder interface. The real succinct pangenome graph index is an
// external collaborator out of scope for this repo; this package exists so ingest has a concrete builder to
// drive during tests and so EMIT has something to read back for the
// round-trip property, mirroring the teacher's mock-behind-interface
// pattern for its database providers.
package gbwtref

import (
	"fmt"
	"sync"

	"github.com/basepair-tools/gifx/encode"
)

// Index accumulates Insert calls in source order and refuses Insert after
// Finish, matching the specification's "finalize-after-all" lifecycle.
type Index struct {
	mu       sync.Mutex
	metadata any
	entries  []encode.Entry
	finished bool
}

// NewIndex returns an empty, unfinished index.
func NewIndex() *Index {
	return &Index{}
}

// SetMetadata installs m, overwriting any value installed previously.
func (idx *Index) SetMetadata(m any) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.metadata = m
}

// Insert copies nodes and appends it as the next entry. Insert after
// Finish is a programming error and returns an error rather than
// panicking.
func (idx *Index) Insert(nodes []encode.Node, bothStrands bool) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.finished {
		return fmt.Errorf("gbwtref: cannot insert after finish")
	}
	cp := make([]encode.Node, len(nodes))
	copy(cp, nodes)
	idx.entries = append(idx.entries, encode.Entry{Nodes: cp, BothStrands: bothStrands})
	return nil
}

// Finish marks the index complete. Calling it twice is a no-op.
func (idx *Index) Finish() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.finished = true
	return nil
}

// Metadata returns the installed metadata value.
func (idx *Index) Metadata() any {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.metadata
}

// Entries returns the flushed path/walk entries in insertion order.
func (idx *Index) Entries() []encode.Entry {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	out := make([]encode.Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Finished reports whether Finish has been called.
func (idx *Index) Finished() bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.finished
}

var _ encode.IndexBuilder = (*Index)(nil)
