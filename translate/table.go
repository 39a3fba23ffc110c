// Package translate assigns dense node identifiers to GIF segments and
// stores their sequences, following the disposal rules in the
// specification's segment-translator component.
package translate

import (
	"sync"

	roaring "github.com/RoaringBitmap/roaring"
	radix "github.com/armon/go-radix"
)

// Range is a contiguous half-open span of node identifiers [First, Limit)
// assigned to one segment. Limit - First is always at least 1.
type Range struct {
	First uint64
	Limit uint64
}

// Len returns the number of node identifiers in the range.
func (r Range) Len() uint64 { return r.Limit - r.First }

// Table maps opaque segment names to disjoint node-identifier ranges
// assigned in order of appearance. Lookups go through a direct map for the
// common case and a radix tree for prefix-oriented exploration (segment
// names in real pangenomes are frequently chromosome/contig-prefixed,
// e.g. "chr1", "chr1.hap2"), mirroring the teacher's patricia-tree index
// that keeps both a radix.Tree and a direct map in sync.
type Table struct {
	mu       sync.Mutex
	tree     *radix.Tree
	direct   map[string]Range
	nextFree uint64
	coverage *roaring.Bitmap
}

// NewTable returns an empty translation table. Node identifier 0 is
// reserved, so allocation starts at 1.
func NewTable() *Table {
	return &Table{
		tree:     radix.New(),
		direct:   make(map[string]Range),
		nextFree: 1,
		coverage: roaring.New(),
	}
}

// Allocate assigns the next nodeCount contiguous node identifiers to name
// and records the resulting range. Ranges are never reused and never
// overlap: each call advances NextFree by nodeCount.
func (t *Table) Allocate(name string, nodeCount uint64) Range {
	if nodeCount == 0 {
		nodeCount = 1
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	first := t.nextFree
	limit := first + nodeCount
	t.nextFree = limit

	r := Range{First: first, Limit: limit}
	t.tree.Insert(name, r)
	t.direct[name] = r
	t.coverage.AddRange(first, limit)
	return r
}

// Lookup returns the range assigned to name, if any.
func (t *Table) Lookup(name string) (Range, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.direct[name]; ok {
		return r, true
	}
	if v, ok := t.tree.Get(name); ok {
		return v.(Range), true
	}
	return Range{}, false
}

// NextFree returns the next node identifier that will be allocated.
func (t *Table) NextFree() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nextFree
}

// Size returns the number of segment names that have been allocated a range.
func (t *Table) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.direct)
}

// Coverage returns a snapshot of the node identifiers allocated so far, for
// invariant checks (disjoint, contiguous from 1) in tests.
func (t *Table) Coverage() *roaring.Bitmap {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.coverage.Clone()
}

// WalkPrefix visits every (name, range) pair whose name starts with
// prefix, in the same early-stop style used by the rescan iterators: fn
// returning false stops the walk.
func (t *Table) WalkPrefix(prefix string, fn func(name string, r Range) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tree.WalkPrefix(prefix, func(key string, value interface{}) bool {
		return !fn(key, value.(Range))
	})
}
