package gif

import (
	"strconv"

	"github.com/basepair-tools/gifx/diag"
	"github.com/basepair-tools/gifx/mapping"
	"github.com/basepair-tools/gifx/tokenize"
)

// RecordIndex holds four ordered sequences of line-start offsets, one per
// record kind, in ascending source order.
type RecordIndex struct {
	Segments []int
	Links    []int
	Paths    []int
	Walks    []int
}

// Stats accumulates the summary statistics the preprocessor derives from a
// single forward pass: the longest segment and path/walk seen, and whether
// any segment name fails to parse as a positive node identifier.
type Stats struct {
	MaxSegmentLength    int
	MaxPathLength       int
	TranslateSegmentIDs bool
}

// File is the result of preprocessing: the mapped bytes, the tokenizer
// built over them, the per-kind record index, and summary statistics.
// Every rescan iterator in this package walks File's RecordIndex using
// File's Tokenizer.
type File struct {
	mapped *mapping.File
	tz     *tokenize.Tokenizer
	Index  RecordIndex
	Stats  Stats
}

// Tokenizer exposes the tokenizer built over the mapped bytes, for
// components that need to re-derive fields outside the iterators below.
func (f *File) Tokenizer() *tokenize.Tokenizer { return f.tz }

func (f *File) Segments() int { return len(f.Index.Segments) }
func (f *File) Links() int    { return len(f.Index.Links) }
func (f *File) Paths() int    { return len(f.Index.Paths) }
func (f *File) Walks() int    { return len(f.Index.Walks) }

// Preprocess performs the single forward pass over mapped's bytes: it
// classifies every line by its first byte, validates mandatory fields of
// recognized records, records line-start offsets, and accumulates Stats.
// It stops and returns the first violation encountered.
func Preprocess(mapped *mapping.File, sink *diag.Sink) (*File, error) {
	buf := mapped.Bytes()
	tz := tokenize.New(buf, tokenize.DefaultMasks())
	f := &File{mapped: mapped, tz: tz}

	pos := 0
	line := 0
	for pos != len(buf) {
		var err error
		switch buf[pos] {
		case 'S':
			pos, err = f.addSLine(tz, pos, line)
		case 'L':
			pos, err = f.addLLine(tz, pos, line)
		case 'P':
			pos, err = f.addPLine(tz, pos, line)
		case 'W':
			pos, err = f.addWLine(tz, pos, line)
		default:
			pos = tz.NextLine(pos)
		}
		if err != nil {
			if gerr, ok := err.(*Error); ok {
				sink.Error(gerr.Record, gerr.Line, gerr.Field, gerr.Reason)
			}
			return nil, err
		}
		line++
	}

	return f, nil
}

// checkField mirrors GFAFile::check_field: a field must be non-empty, and
// when shouldHaveNext is set it must be followed by another field.
func checkField(field tokenize.Token, fieldName string, shouldHaveNext bool) error {
	if field.Empty() {
		return &Error{Kind: ErrStructure, Record: field.Kind, Line: field.Line, Field: fieldName, Reason: "has no " + fieldName}
	}
	if shouldHaveNext && !field.HasNext {
		return &Error{Kind: ErrStructure, Record: field.Kind, Line: field.Line, Field: fieldName, Reason: "ended after " + fieldName}
	}
	return nil
}

func isNonNegativeInteger(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (f *File) addSLine(tz *tokenize.Tokenizer, iter, lineNum int) (int, error) {
	f.Index.Segments = append(f.Index.Segments, iter)

	field := tz.FirstField(iter, lineNum)
	if err := checkField(field, "record type", true); err != nil {
		return 0, err
	}

	field = tz.NextField(field)
	if err := checkField(field, "segment name", true); err != nil {
		return 0, err
	}
	if !f.Stats.TranslateSegmentIDs {
		name := field.String()
		id, ok := isNonNegativeInteger(name)
		if !ok || id == 0 {
			f.Stats.TranslateSegmentIDs = true
		}
	}

	field = tz.NextField(field)
	if err := checkField(field, "sequence", false); err != nil {
		return 0, err
	}
	if field.Len() > f.Stats.MaxSegmentLength {
		f.Stats.MaxSegmentLength = field.Len()
	}

	return tz.NextLine(field.End), nil
}

func (f *File) addLLine(tz *tokenize.Tokenizer, iter, lineNum int) (int, error) {
	f.Index.Links = append(f.Index.Links, iter)

	field := tz.FirstField(iter, lineNum)
	if err := checkField(field, "record type", true); err != nil {
		return 0, err
	}

	field = tz.NextField(field)
	if err := checkField(field, "source segment", true); err != nil {
		return 0, err
	}

	field = tz.NextField(field)
	if err := checkField(field, "source orientation", true); err != nil {
		return 0, err
	}
	if !field.ValidOrientation() {
		return 0, &Error{Kind: ErrShape, Record: field.Kind, Line: lineNum, Field: "source orientation", Reason: "invalid source orientation " + field.String()}
	}

	field = tz.NextField(field)
	if err := checkField(field, "destination segment", true); err != nil {
		return 0, err
	}

	field = tz.NextField(field)
	if err := checkField(field, "destination orientation", false); err != nil {
		return 0, err
	}
	if !field.ValidOrientation() {
		return 0, &Error{Kind: ErrShape, Record: field.Kind, Line: lineNum, Field: "destination orientation", Reason: "invalid destination orientation " + field.String()}
	}

	return tz.NextLine(field.End), nil
}

func (f *File) addPLine(tz *tokenize.Tokenizer, iter, lineNum int) (int, error) {
	f.Index.Paths = append(f.Index.Paths, iter)

	field := tz.FirstField(iter, lineNum)
	if err := checkField(field, "record type", true); err != nil {
		return 0, err
	}

	field = tz.NextField(field)
	if err := checkField(field, "path name", true); err != nil {
		return 0, err
	}

	field = tz.NextSubfield(field)
	if field.Empty() && !field.HasNext {
		return 0, &Error{Kind: ErrEmptyCollection, Record: field.Kind, Line: lineNum, Field: "path segments", Reason: "the path is empty"}
	}

	pathLength := 0
	for {
		if !field.ValidPathSegment() {
			return 0, &Error{Kind: ErrShape, Record: field.Kind, Line: lineNum, Field: "path segment", Reason: "invalid path segment " + field.String()}
		}
		pathLength++
		if !field.HasNext {
			break
		}
		field = tz.NextSubfield(field)
	}
	if pathLength > f.Stats.MaxPathLength {
		f.Stats.MaxPathLength = pathLength
	}

	return tz.NextLine(field.End), nil
}

func (f *File) addWLine(tz *tokenize.Tokenizer, iter, lineNum int) (int, error) {
	f.Index.Walks = append(f.Index.Walks, iter)

	field := tz.FirstField(iter, lineNum)
	if err := checkField(field, "record type", true); err != nil {
		return 0, err
	}

	field = tz.NextField(field)
	if err := checkField(field, "sample name", true); err != nil {
		return 0, err
	}

	field = tz.NextField(field)
	if err := checkField(field, "haplotype index", true); err != nil {
		return 0, err
	}

	field = tz.NextField(field)
	if err := checkField(field, "contig name", true); err != nil {
		return 0, err
	}

	field = tz.NextField(field)
	if err := checkField(field, "start position", true); err != nil {
		return 0, err
	}

	field = tz.NextField(field)
	if err := checkField(field, "end position", false); err != nil {
		return 0, err
	}

	pathLength := 0
	if field.HasNext {
		field = tz.WalkStart(field)
		for {
			field = tz.NextWalkSubfield(field)
			if !field.ValidWalkSegment() {
				return 0, &Error{Kind: ErrShape, Record: field.Kind, Line: lineNum, Field: "walk segment", Reason: "invalid walk segment " + field.String()}
			}
			pathLength++
			if !field.HasNext {
				break
			}
		}
	}
	if pathLength == 0 {
		return 0, &Error{Kind: ErrEmptyCollection, Record: field.Kind, Line: lineNum, Field: "walk segments", Reason: "the walk is empty"}
	}
	if pathLength > f.Stats.MaxPathLength {
		f.Stats.MaxPathLength = pathLength
	}

	return tz.NextLine(field.End), nil
}
