// Package encode expands translated path/walk segment references into the
// succinct index builder's node encoding and streams them into the
// builder, one flush per path or walk.
package encode

// Node is one encoded position in a path: a node identifier plus its
// traversal orientation. The succinct index builder (an external
// collaborator) owns the bit-level
// encoding scheme; this package only produces the logical (id, reverse)
// pairs in traversal order.
type Node struct {
	ID      uint64
	Reverse bool
}

// IndexBuilder is the succinct index builder's interface, exactly as
// listed in the specification: it accepts metadata and a flush-terminated
// stream of encoded node positions, one flush per path or walk.
type IndexBuilder interface {
	// SetMetadata installs the accumulated PATH/WALK METADATA before any
	// insertion. The specification requires this happen before the first
	// Insert call.
	SetMetadata(m any)
	// Insert commits one path or walk's encoded node sequence. bothStrands
	// requests that the builder also index the reverse complement.
	Insert(nodes []Node, bothStrands bool) error
	// Finish commits the index after every path and walk has been flushed.
	Finish() error
}

// MinSequencesPerBatch is the builder constant used by the automatic
// batch-size formula. The specification leaves its exact value to the
// builder; this value is this repo's own conservative choice, not a
// constant taken from any particular succinct-index builder.
const MinSequencesPerBatch = 100

// DetermineBatchSize chooses the maximum number of node positions buffered
// between flushes: the user-supplied size is honored as-is unless
// automatic sizing is requested, in which case it becomes a floor for
// MinSequencesPerBatch*(maxPathLength+1), itself clipped to fileSize.
func DetermineBatchSize(batchSize uint64, automatic bool, maxPathLength int, fileSize int64) uint64 {
	if !automatic && batchSize > 0 {
		return batchSize
	}

	minSize := uint64(MinSequencesPerBatch) * uint64(maxPathLength+1)
	if minSize < batchSize {
		minSize = batchSize
	}
	if fileSize >= 0 && uint64(fileSize) < minSize {
		minSize = uint64(fileSize)
	}
	return minSize
}
