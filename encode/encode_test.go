package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basepair-tools/gifx/diag"
	"github.com/basepair-tools/gifx/gif"
	"github.com/basepair-tools/gifx/mapping"
	"github.com/basepair-tools/gifx/metadata"
	"github.com/basepair-tools/gifx/translate"
)

// fakeBuilder is a minimal metadata.Builder that just counts calls,
// since EncodeAll only calls GetMetadata and installs its value.
type fakeBuilder struct {
	paths int
	walks int
}

func (b *fakeBuilder) AddReferencePath(name string) bool { b.paths++; return true }
func (b *fakeBuilder) AddWalk(sample, haplotype, contig, start string) bool {
	b.walks++
	return true
}
func (b *fakeBuilder) Parse(name string) bool { b.paths++; return true }
func (b *fakeBuilder) GetMetadata() any        { return nil }

// recordingIndex is a minimal IndexBuilder that records every Insert call.
type recordingIndex struct {
	metadata any
	entries  []Entry
	finished bool
}

func (r *recordingIndex) SetMetadata(m any) { r.metadata = m }
func (r *recordingIndex) Insert(nodes []Node, bothStrands bool) error {
	cp := make([]Node, len(nodes))
	copy(cp, nodes)
	r.entries = append(r.entries, Entry{Nodes: cp, BothStrands: bothStrands})
	return nil
}
func (r *recordingIndex) Finish() error { r.finished = true; return nil }

func preprocessed(t *testing.T, data string) *gif.File {
	t.Helper()
	f, err := gif.Preprocess(mapping.FromBytes([]byte(data)), diag.Discard())
	require.NoError(t, err)
	return f
}

func TestEncodeAllDirectMode(t *testing.T) {
	data := "S\t1\tACGT\n" +
		"S\t2\tTTTT\n" +
		"P\tpath1\t1+,2-\n"
	f := preprocessed(t, data)

	translator := translate.NewTranslator(f.Stats.MaxSegmentLength, f.Stats.TranslateSegmentIDs, 0)
	f.ForEachSegment(func(name string, seq []byte) bool {
		_, err := translator.TranslateSegment(name, seq)
		require.NoError(t, err)
		return true
	})
	require.False(t, translator.Translating())

	idx := &recordingIndex{}
	enc := NewEncoder(idx, translator)
	result, err := enc.EncodeAll(f, &fakeBuilder{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Paths)
	assert.Equal(t, 0, result.Walks)
	require.Len(t, idx.entries, 1)
	assert.Equal(t, []Node{{ID: 1, Reverse: false}, {ID: 2, Reverse: true}}, idx.entries[0].Nodes)
	assert.True(t, idx.finished)
}

func TestEncodeAllTranslatedModeExpandsRange(t *testing.T) {
	data := "S\tchr1\tACGTACGTAC\n" +
		"S\tchr2\tGGGG\n" +
		"P\tpath1\tchr1+\n"
	f := preprocessed(t, data)

	translator := translate.NewTranslator(f.Stats.MaxSegmentLength, f.Stats.TranslateSegmentIDs, 4)
	f.ForEachSegment(func(name string, seq []byte) bool {
		_, err := translator.TranslateSegment(name, seq)
		require.NoError(t, err)
		return true
	})
	require.True(t, translator.Translating())

	r, ok := translator.Table().Lookup("chr1")
	require.True(t, ok)
	require.Equal(t, uint64(3), r.Len())

	idx := &recordingIndex{}
	enc := NewEncoder(idx, translator)
	result, err := enc.EncodeAll(f, &fakeBuilder{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Paths)

	require.Len(t, idx.entries, 1)
	assert.Equal(t, []Node{
		{ID: r.First, Reverse: false},
		{ID: r.First + 1, Reverse: false},
		{ID: r.First + 2, Reverse: false},
	}, idx.entries[0].Nodes)
}

func TestEncodeAllTranslatedModeReverseWalksRangeDescending(t *testing.T) {
	data := "S\tchr1\tACGTACGTAC\n" +
		"P\tpath1\tchr1-\n"
	f := preprocessed(t, data)

	translator := translate.NewTranslator(f.Stats.MaxSegmentLength, f.Stats.TranslateSegmentIDs, 4)
	f.ForEachSegment(func(name string, seq []byte) bool {
		_, err := translator.TranslateSegment(name, seq)
		require.NoError(t, err)
		return true
	})

	r, ok := translator.Table().Lookup("chr1")
	require.True(t, ok)

	idx := &recordingIndex{}
	enc := NewEncoder(idx, translator)
	_, err := enc.EncodeAll(f, &fakeBuilder{})
	require.NoError(t, err)

	require.Len(t, idx.entries, 1)
	assert.Equal(t, []Node{
		{ID: r.First + 2, Reverse: true},
		{ID: r.First + 1, Reverse: true},
		{ID: r.First, Reverse: true},
	}, idx.entries[0].Nodes)
}

func TestEncodeAllUnknownSegmentIsReferenceError(t *testing.T) {
	data := "S\tchr1\tACGT\n" +
		"P\tpath1\tchr1+\n"
	f := preprocessed(t, data)

	// A translating translator that never saw "chr1" allocated: the path
	// references a segment with no assigned node range.
	translator := translate.NewTranslator(0, true, 0)
	idx := &recordingIndex{}
	enc := NewEncoder(idx, translator)
	_, err := enc.EncodeAll(f, &fakeBuilder{})
	require.Error(t, err)
	gerr, ok := err.(*gif.Error)
	require.True(t, ok)
	assert.Equal(t, gif.ErrReference, gerr.Kind)
}

func TestEncodeAllWalks(t *testing.T) {
	data := "S\t1\tACGT\n" +
		"S\t2\tTTTT\n" +
		"W\ts1\t0\tc1\t0\t8\t>1>2\n"
	f := preprocessed(t, data)

	translator := translate.NewTranslator(f.Stats.MaxSegmentLength, f.Stats.TranslateSegmentIDs, 0)
	f.ForEachSegment(func(name string, seq []byte) bool {
		_, err := translator.TranslateSegment(name, seq)
		require.NoError(t, err)
		return true
	})

	idx := &recordingIndex{}
	enc := NewEncoder(idx, translator)
	result, err := enc.EncodeAll(f, &fakeBuilder{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Paths)
	assert.Equal(t, 1, result.Walks)
	require.Len(t, idx.entries, 1)
	assert.Equal(t, []Node{{ID: 1}, {ID: 2}}, idx.entries[0].Nodes)
}

func TestDetermineBatchSizeFixedHonored(t *testing.T) {
	got := DetermineBatchSize(500, false, 10, 1_000_000)
	assert.Equal(t, uint64(500), got)
}

func TestDetermineBatchSizeAutomaticFloor(t *testing.T) {
	got := DetermineBatchSize(0, true, 3, 1_000_000)
	assert.Equal(t, uint64(MinSequencesPerBatch)*4, got)
}

func TestDetermineBatchSizeClippedToFileSize(t *testing.T) {
	got := DetermineBatchSize(0, true, 3, 10)
	assert.Equal(t, uint64(10), got)
}

func TestDetermineBatchSizeAutomaticRespectsLargerFixedFloor(t *testing.T) {
	got := DetermineBatchSize(10_000, true, 3, 1_000_000)
	assert.Equal(t, uint64(10_000), got)
}

var _ metadata.Builder = (*fakeBuilder)(nil)
