package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basepair-tools/gifx/encode"
	"github.com/basepair-tools/gifx/metadata"
	"github.com/basepair-tools/gifx/translate"
)

type fakeReader struct {
	metadata any
	entries  []encode.Entry
}

func (r *fakeReader) Metadata() any            { return r.metadata }
func (r *fakeReader) Entries() []encode.Entry  { return r.entries }

func TestSegmentCacheDirectMode(t *testing.T) {
	store := translate.NewSequenceStore()
	require.NoError(t, store.Add(1, []byte("ACGT"), translate.ModeDirect))
	require.NoError(t, store.Add(2, []byte("TTTT"), translate.ModeDirect))

	cache := NewSegmentCache(store, nil)
	assert.ElementsMatch(t, []string{"1", "2"}, cache.Segments())

	seq, ok := cache.Sequence("1")
	require.True(t, ok)
	assert.Equal(t, []byte("ACGT"), seq)

	name, ok := cache.SegmentName(2)
	require.True(t, ok)
	assert.Equal(t, "2", name)
}

func TestSegmentCacheTranslatedModeRejoinsSplitSegment(t *testing.T) {
	store := translate.NewSequenceStore()
	table := translate.NewTable()
	r := table.Allocate("chr1", 3)
	require.NoError(t, store.Add(r.First, []byte("ACGT"), translate.ModeTranslated))
	require.NoError(t, store.Add(r.First+1, []byte("ACGT"), translate.ModeTranslated))
	require.NoError(t, store.Add(r.First+2, []byte("AC"), translate.ModeTranslated))

	cache := NewSegmentCache(store, table)
	seq, ok := cache.Sequence("chr1")
	require.True(t, ok)
	assert.Equal(t, []byte("ACGTACGTAC"), seq)

	assert.Equal(t, []string{"chr1"}, cache.Segments())
}

func TestWriteGIFDirectModeRoundTripsPath(t *testing.T) {
	store := translate.NewSequenceStore()
	require.NoError(t, store.Add(1, []byte("ACGT"), translate.ModeDirect))
	require.NoError(t, store.Add(2, []byte("TTTT"), translate.ModeDirect))
	cache := NewSegmentCache(store, nil)

	reader := &fakeReader{
		metadata: metadata.Metadata{
			Paths: []metadata.PathRecord{{Sample: "path1"}},
		},
		entries: []encode.Entry{
			{Nodes: []encode.Node{{ID: 1, Reverse: false}, {ID: 2, Reverse: true}}, BothStrands: true},
		},
	}

	var buf strings.Builder
	require.NoError(t, WriteGIF(&buf, cache, reader, nil))

	out := buf.String()
	assert.Contains(t, out, "S\t1\tACGT\n")
	assert.Contains(t, out, "S\t2\tTTTT\n")
	assert.Contains(t, out, "P\tpath1\t1+,2-\n")
}

func TestWriteGIFTranslatedModeCollapsesRunsBackToOneReference(t *testing.T) {
	store := translate.NewSequenceStore()
	table := translate.NewTable()
	r := table.Allocate("chr1", 3)
	require.NoError(t, store.Add(r.First, []byte("ACGT"), translate.ModeTranslated))
	require.NoError(t, store.Add(r.First+1, []byte("ACGT"), translate.ModeTranslated))
	require.NoError(t, store.Add(r.First+2, []byte("AC"), translate.ModeTranslated))
	cache := NewSegmentCache(store, table)

	reader := &fakeReader{
		metadata: metadata.Metadata{
			Paths: []metadata.PathRecord{{Sample: "path1"}},
		},
		entries: []encode.Entry{
			{Nodes: []encode.Node{
				{ID: r.First, Reverse: false},
				{ID: r.First + 1, Reverse: false},
				{ID: r.First + 2, Reverse: false},
			}},
		},
	}

	var buf strings.Builder
	require.NoError(t, WriteGIF(&buf, cache, reader, nil))
	assert.Contains(t, buf.String(), "P\tpath1\tchr1+\n")
}

func TestWriteGIFWalkEndRecomputedFromSegmentLengths(t *testing.T) {
	store := translate.NewSequenceStore()
	require.NoError(t, store.Add(1, []byte("ACGT"), translate.ModeDirect))
	require.NoError(t, store.Add(2, []byte("TTTT"), translate.ModeDirect))
	cache := NewSegmentCache(store, nil)

	reader := &fakeReader{
		metadata: metadata.Metadata{
			Walks: []metadata.WalkRecord{{Sample: "s1", Haplotype: 0, Contig: "c1", Start: 10}},
		},
		entries: []encode.Entry{
			{Nodes: []encode.Node{{ID: 1}, {ID: 2}}},
		},
	}

	var buf strings.Builder
	require.NoError(t, WriteGIF(&buf, cache, reader, nil))
	assert.Contains(t, buf.String(), "W\ts1\t0\tc1\t10\t18\t>1>2\n")
}

func TestWriteGIFWritesLinksWhenEdgeFuncProvided(t *testing.T) {
	store := translate.NewSequenceStore()
	require.NoError(t, store.Add(1, []byte("ACGT"), translate.ModeDirect))
	cache := NewSegmentCache(store, nil)

	reader := &fakeReader{metadata: metadata.Metadata{}}
	edges := func(link func(from string, fromReverse bool, to string, toReverse bool) bool) {
		link("1", false, "1", false)
	}

	var buf strings.Builder
	require.NoError(t, WriteGIF(&buf, cache, reader, edges))
	assert.Contains(t, buf.String(), "L\t1\t+\t1\t+\n")
}

func TestWriteGIFMismatchedEntryCountErrors(t *testing.T) {
	store := translate.NewSequenceStore()
	require.NoError(t, store.Add(1, []byte("ACGT"), translate.ModeDirect))
	cache := NewSegmentCache(store, nil)

	reader := &fakeReader{
		metadata: metadata.Metadata{Paths: []metadata.PathRecord{{Sample: "p1"}}},
		entries:  nil,
	}

	var buf strings.Builder
	err := WriteGIF(&buf, cache, reader, nil)
	assert.Error(t, err)
}

func TestPathNameReconstruction(t *testing.T) {
	ref := metadata.PathRecord{Sample: metadata.ReferenceSampleName, Contig: "original-path-name"}
	assert.Equal(t, "original-path-name", pathName(ref))

	pansn := metadata.PathRecord{Sample: "sample1", Haplotype: 2, Contig: "chr1"}
	assert.Equal(t, "sample1#2#chr1", pathName(pansn))

	bare := metadata.PathRecord{Sample: "sample1"}
	assert.Equal(t, "sample1", pathName(bare))
}
