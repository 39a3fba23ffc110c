package encode

import (
	"strconv"

	"github.com/basepair-tools/gifx/gif"
	"github.com/basepair-tools/gifx/metadata"
	"github.com/basepair-tools/gifx/translate"
)

// Encoder expands each path and walk's oriented segment references into
// encoded node positions and flushes them into an IndexBuilder, one flush
// per path or walk. Direct mode emits exactly one Node per reference;
// translated mode expands a reference into every node in its range, in
// forward or reverse order depending on orientation.
type Encoder struct {
	builder    IndexBuilder
	translator *translate.Translator
}

// NewEncoder pairs builder with the translator that produced the segment
// ranges the file's paths and walks reference.
func NewEncoder(builder IndexBuilder, translator *translate.Translator) *Encoder {
	return &Encoder{builder: builder, translator: translator}
}

// EncodeAll installs metadata into the builder, then encodes every path and
// walk in f in source order. A path-segment or walk-segment name with no
// entry in the translation table is a REFERENCE error and aborts encoding
// immediately; the builder has not been finished at that point.
func (e *Encoder) EncodeAll(f *gif.File, builder metadata.Builder) (*Result, error) {
	metadataValue := builder.GetMetadata()
	e.builder.SetMetadata(metadataValue)

	result := &Result{Graph: e.translator.Graph(), Metadata: metadataValue}

	var current []Node
	var failure error

	appendSegment := func(name string, isReverse bool) bool {
		var ok bool
		current, ok = e.appendSegment(current, name, isReverse)
		if !ok {
			failure = &gif.Error{Kind: gif.ErrReference, Reason: "segment " + name + " has no assigned node range"}
			return false
		}
		return true
	}

	f.ForEachPath(
		func(name string) bool {
			current = current[:0]
			return true
		},
		appendSegment,
		func() bool {
			if failure != nil {
				return false
			}
			if err := e.builder.Insert(current, true); err != nil {
				failure = err
				return false
			}
			result.Paths++
			return true
		},
	)
	if failure != nil {
		return nil, failure
	}

	f.ForEachWalk(
		func(sample, haplotype, contig, start string) bool {
			current = current[:0]
			return true
		},
		appendSegment,
		func() bool {
			if failure != nil {
				return false
			}
			if err := e.builder.Insert(current, true); err != nil {
				failure = err
				return false
			}
			result.Walks++
			return true
		},
	)
	if failure != nil {
		return nil, failure
	}

	if err := e.builder.Finish(); err != nil {
		return nil, err
	}
	return result, nil
}

// appendSegment resolves one oriented segment reference into zero or more
// Node entries, in direct or translated mode per the translator, and
// appends them to dst. It reports false when the reference cannot be
// resolved.
func (e *Encoder) appendSegment(dst []Node, name string, isReverse bool) ([]Node, bool) {
	if !e.translator.Translating() {
		id, ok := e.directID(name)
		if !ok {
			return dst, false
		}
		return append(dst, Node{ID: id, Reverse: isReverse}), true
	}

	r, ok := e.translator.Table().Lookup(name)
	if !ok {
		return dst, false
	}

	if !isReverse {
		for id := r.First; id < r.Limit; id++ {
			dst = append(dst, Node{ID: id, Reverse: false})
		}
	} else {
		for id := r.Limit; id > r.First; id-- {
			dst = append(dst, Node{ID: id - 1, Reverse: true})
		}
	}
	return dst, true
}

// directID resolves name to its node identifier in direct mode, where
// every segment name is its own decimal node identifier and therefore
// always present in the graph once preprocessing has succeeded.
func (e *Encoder) directID(name string) (uint64, bool) {
	id, ok := parseNodeID(name)
	if !ok || !e.translator.Graph().HasNode(id) {
		return 0, false
	}
	return id, true
}

func parseNodeID(name string) (uint64, bool) {
	id, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
