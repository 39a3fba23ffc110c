package translate

import (
	"fmt"
	"math"
	"strconv"
)

// Disposal identifies which of the three translator outcomes a segment
// received.
type Disposal int

const (
	Direct Disposal = iota
	TranslatedOneToOne
	TranslatedSplit
)

// Translator assigns node identifiers to segments, choosing once (from the
// preprocessor's file-wide statistics) whether the whole file needs
// translation, then per-segment whether a translated segment fits in one
// node or must be split across several.
type Translator struct {
	store         *SequenceStore
	graph         *Graph
	table         *Table
	translating   bool
	maxNodeLength uint64
}

// NewTranslator decides the file-wide translation mode from the
// preprocessor's statistics: translation is required when any segment
// exceeds maxNodeLength (0 means unbounded) or when forceTranslate is set
// because some segment name failed to parse as a positive node identifier.
func NewTranslator(maxSegmentLength int, forceTranslate bool, maxNodeLength int) *Translator {
	limit := uint64(math.MaxUint64)
	if maxNodeLength > 0 {
		limit = uint64(maxNodeLength)
	}

	translating := forceTranslate || uint64(maxSegmentLength) > limit

	t := &Translator{
		store:         NewSequenceStore(),
		graph:         NewGraph(),
		translating:   translating,
		maxNodeLength: limit,
	}
	if translating {
		t.table = NewTable()
	}
	return t
}

// Translating reports whether this file requires translation.
func (t *Translator) Translating() bool { return t.translating }

// Table returns the translation table, or nil in direct mode.
func (t *Translator) Table() *Table { return t.table }

// Store returns the sequence store being populated.
func (t *Translator) Store() *SequenceStore { return t.store }

// Graph returns the topology-free graph being populated.
func (t *Translator) Graph() *Graph { return t.graph }

// TranslateSegment stores name's sequence and creates the node(s) it maps
// to, returning which disposal was used.
func (t *Translator) TranslateSegment(name string, sequence []byte) (Disposal, error) {
	if !t.translating {
		id, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			return Direct, fmt.Errorf("translate: segment %q is not a valid node identifier", name)
		}
		if err := t.store.Add(id, sequence, ModeDirect); err != nil {
			return Direct, err
		}
		t.graph.CreateNode(id)
		return Direct, nil
	}

	n := uint64(len(sequence))
	if n <= t.maxNodeLength {
		r := t.table.Allocate(name, 1)
		if err := t.store.Add(r.First, sequence, ModeTranslated); err != nil {
			return TranslatedOneToOne, err
		}
		t.graph.CreateNode(r.First)
		return TranslatedOneToOne, nil
	}

	count := (n + t.maxNodeLength - 1) / t.maxNodeLength
	r := t.table.Allocate(name, count)
	for i := uint64(0); i < count; i++ {
		start := i * t.maxNodeLength
		end := start + t.maxNodeLength
		if end > n {
			end = n
		}
		id := r.First + i
		if err := t.store.Add(id, sequence[start:end], ModeTranslated); err != nil {
			return TranslatedSplit, err
		}
		t.graph.CreateNode(id)
	}
	return TranslatedSplit, nil
}
