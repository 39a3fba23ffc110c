package emit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"github.com/basepair-tools/gifx/encode"
	"github.com/basepair-tools/gifx/metadata"
)

// Reader is what EMIT needs from a populated index: the metadata value
// installed via SetMetadata, and the flushed path/walk entries in the
// same order EncodeAll produced them (every path, then every walk).
// gbwtref.Index satisfies this, and so can any other IndexBuilder-
// compatible reader the caller supplies.
type Reader interface {
	Metadata() any
	Entries() []encode.Entry
}

// EdgeFunc supplies caller-known edges to WriteGIF in the same early-stop
// iteration style used by the rescan iterators. Ingest never produces
// edges itself (spec.md §4.4: the graph is topology-free), so this is
// nil for graphs that have not had edges added after ingest.
type EdgeFunc func(link func(from string, fromReverse bool, to string, toReverse bool) bool)

// WriteGIF writes S-lines for every cached segment, L-lines from edges (if
// not nil), and one P- or W-line per metadata record, reconstructing
// segment references from reader's flushed node sequences via cache.
func WriteGIF(w io.Writer, cache *SegmentCache, reader Reader, edges EdgeFunc) error {
	for _, name := range cache.Segments() {
		seq, ok := cache.Sequence(name)
		if !ok {
			return fmt.Errorf("emit: no sequence cached for segment %q", name)
		}
		if _, err := fmt.Fprintf(w, "S\t%s\t%s\n", name, seq); err != nil {
			return err
		}
	}

	if edges != nil {
		var writeErr error
		edges(func(from string, fromReverse bool, to string, toReverse bool) bool {
			if _, err := fmt.Fprintf(w, "L\t%s\t%s\t%s\t%s\n", from, orientChar(fromReverse), to, orientChar(toReverse)); err != nil {
				writeErr = err
				return false
			}
			return true
		})
		if writeErr != nil {
			return writeErr
		}
	}

	meta, ok := reader.Metadata().(metadata.Metadata)
	if !ok {
		return fmt.Errorf("emit: reader metadata is not metadata.Metadata")
	}
	entries := reader.Entries()
	if len(entries) != len(meta.Paths)+len(meta.Walks) {
		return fmt.Errorf("emit: %d metadata records but %d flushed entries", len(meta.Paths)+len(meta.Walks), len(entries))
	}

	// Collapsing a flushed node sequence back into its original segment
	// references is pure, per-entry work, so it fans out across entries
	// concurrently. iter.Map preserves input order, so the sequential
	// write loops below stay deterministic regardless of goroutine
	// scheduling.
	collapsed := iter.Map(entries, func(e *encode.Entry) collapseResult {
		refs, err := collapseSegments(e.Nodes, cache)
		return collapseResult{refs: refs, err: err}
	})
	for _, c := range collapsed {
		if c.err != nil {
			return c.err
		}
	}

	for i, rec := range meta.Paths {
		refs := collapsed[i].refs
		if _, err := fmt.Fprintf(w, "P\t%s\t%s\n", pathName(rec), joinPathSegments(refs)); err != nil {
			return err
		}
	}

	for j, rec := range meta.Walks {
		idx := len(meta.Paths) + j
		refs := collapsed[idx].refs
		end := rec.Start + walkLength(refs, cache)
		if _, err := fmt.Fprintf(w, "W\t%s\t%d\t%s\t%d\t%d\t%s\n",
			rec.Sample, rec.Haplotype, rec.Contig, rec.Start, end, joinWalkSegments(refs)); err != nil {
			return err
		}
	}

	return nil
}

// collapseResult is one entry's collapsed segment references, or the
// error collapseSegments hit, carried through iter.Map.
type collapseResult struct {
	refs []segmentRef
	err  error
}

func orientChar(reverse bool) string {
	if reverse {
		return "-"
	}
	return "+"
}

// segmentRef is one collapsed path- or walk-segment reference: the
// original segment name and the orientation it was traversed with.
type segmentRef struct {
	name    string
	reverse bool
}

// collapseSegments groups a flushed node sequence back into one reference
// per original segment: translated mode expands a single reference into
// every node in its range, so consecutive nodes sharing the same segment
// name and orientation collapse back into the reference that produced
// them.
func collapseSegments(nodes []encode.Node, cache *SegmentCache) ([]segmentRef, error) {
	var refs []segmentRef
	i := 0
	for i < len(nodes) {
		name, ok := cache.SegmentName(nodes[i].ID)
		if !ok {
			return nil, fmt.Errorf("emit: node %d has no cached segment", nodes[i].ID)
		}
		reverse := nodes[i].Reverse
		j := i + 1
		for j < len(nodes) {
			next, ok := cache.SegmentName(nodes[j].ID)
			if !ok || next != name || nodes[j].Reverse != reverse {
				break
			}
			j++
		}
		refs = append(refs, segmentRef{name: name, reverse: reverse})
		i = j
	}
	return refs, nil
}

func joinPathSegments(refs []segmentRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.name + orientChar(r.reverse)
	}
	return strings.Join(parts, ",")
}

func joinWalkSegments(refs []segmentRef) string {
	var b strings.Builder
	for _, r := range refs {
		if r.reverse {
			b.WriteByte('<')
		} else {
			b.WriteByte('>')
		}
		b.WriteString(r.name)
	}
	return b.String()
}

// walkLength sums the original segment lengths a walk traverses, used to
// recompute the W-line end coordinate: the MetadataBuilder interface
// (spec.md §6) only carries the walk's start, not its end, so EMIT
// derives it from the walked sequence.
func walkLength(refs []segmentRef, cache *SegmentCache) int {
	total := 0
	for _, r := range refs {
		if seq, ok := cache.Sequence(r.name); ok {
			total += len(seq)
		}
	}
	return total
}

// pathName reconstructs a P-line's name from its metadata record. A
// reference-mode record (produced by AddReferencePath when the file also
// had walks) carries the original literal name verbatim in Contig. A
// regex-parsed record composes the PanSN sample#haplotype#contig form
// when a contig was captured, or falls back to the sample field alone
// when the configured pattern captured the whole name as one group.
func pathName(rec metadata.PathRecord) string {
	if rec.Sample == metadata.ReferenceSampleName && rec.Haplotype == 0 && rec.Fragment == 0 {
		return rec.Contig
	}
	if rec.Contig != "" {
		return rec.Sample + "#" + strconv.Itoa(rec.Haplotype) + "#" + rec.Contig
	}
	return rec.Sample
}
