package ingest

import (
	"os"

	"github.com/basepair-tools/gifx/diag"
	"github.com/basepair-tools/gifx/encode"
	"github.com/basepair-tools/gifx/gif"
	"github.com/basepair-tools/gifx/internal/gbwtref"
	"github.com/basepair-tools/gifx/mapping"
	"github.com/basepair-tools/gifx/metadata"
	"github.com/basepair-tools/gifx/translate"
)

// Ingest runs the full pipeline over the GIF file at path: map, preprocess,
// translate segments, parse metadata, encode paths and walks into an
// internal succinct-index stand-in. On success it returns the populated
// sequence store and a summary of what was encoded; on any error the
// mapped region has already been released and both return values are nil.
func Ingest(path string, parameters Parameters) (*translate.SequenceStore, *encode.Result, error) {
	sink := diag.NewSink(os.Stderr, parameters.ShowProgress)

	sink.Progressf("Validating GIF file %s", path)
	mapped, err := mapping.Open(path)
	if err != nil {
		return nil, nil, &gif.Error{Kind: gif.ErrOpen, Reason: err.Error()}
	}
	defer mapped.Close()

	f, err := gif.Preprocess(mapped, sink)
	if err != nil {
		return nil, nil, err
	}

	if cerr := checkContent(f); cerr != nil {
		sink.Error(0, 0, "content", cerr.Reason)
		return nil, nil, cerr
	}

	sink.Progressf("Found %d segments, %d links, %d paths, %d walks",
		f.Segments(), f.Links(), f.Paths(), f.Walks())

	translator := translate.NewTranslator(f.Stats.MaxSegmentLength, f.Stats.TranslateSegmentIDs, parameters.MaxNodeLength)

	sink.Progress("Parsing segments")
	var translateErr error
	f.ForEachSegment(func(name string, sequence []byte) bool {
		if _, err := translator.TranslateSegment(name, sequence); err != nil {
			translateErr = err
			return false
		}
		return true
	})
	if translateErr != nil {
		return nil, nil, translateErr
	}

	sink.Progress("Indexing paths and walks")
	builder, err := metadata.NewRegexBuilder(parameters.PathNameRegex, parameters.PathNameFields)
	if err != nil {
		sink.Error(0, 0, "path name regex", err.Error())
		return nil, nil, &gif.Error{Kind: gif.ErrMetadata, Reason: err.Error()}
	}
	if err := parseMetadata(f, builder); err != nil {
		sink.Error(0, 0, "metadata", err.Error())
		return nil, nil, err
	}

	batchSize := encode.DetermineBatchSize(parameters.BatchSize, parameters.AutomaticBatchSize, f.Stats.MaxPathLength, int64(mapped.Len()))
	sink.Progressf("Using batch size %d", batchSize)

	idx := gbwtref.NewIndex()
	enc := encode.NewEncoder(idx, translator)
	result, err := enc.EncodeAll(f, builder)
	if err != nil {
		sink.Error(0, 0, "path segment", err.Error())
		return nil, nil, err
	}

	sink.Progressf("Encoded %d paths, %d walks", result.Paths, result.Walks)
	return translator.Store(), result, nil
}

// checkContent implements the CONTENT check: a file with no segments, or
// with segments but no paths and no walks, is rejected before segment
// parsing begins.
func checkContent(f *gif.File) *gif.Error {
	if f.Segments() == 0 {
		return &gif.Error{Kind: gif.ErrContent, Reason: "the file has no segments"}
	}
	if f.Paths() == 0 && f.Walks() == 0 {
		return &gif.Error{Kind: gif.ErrContent, Reason: "the file has segments but no paths or walks"}
	}
	return nil
}

// parseMetadata orchestrates the two modes from the specification: when
// the file has walks, P-lines are registered under the reserved reference
// sample and W-lines are recorded structurally; otherwise every P-line
// name is parsed with the configured convention.
func parseMetadata(f *gif.File, builder metadata.Builder) error {
	if f.Walks() > 0 {
		f.ForEachPathName(func(name string) bool {
			return builder.AddReferencePath(name)
		})
		f.ForEachWalkName(func(sample, haplotype, contig, start string) bool {
			return builder.AddWalk(sample, haplotype, contig, start)
		})
	} else {
		f.ForEachPathName(func(name string) bool {
			return builder.Parse(name)
		})
	}

	if rb, ok := builder.(*metadata.RegexBuilder); ok {
		if err := rb.Err(); err != nil {
			return &gif.Error{Kind: gif.ErrMetadata, Reason: err.Error()}
		}
	}
	return nil
}
