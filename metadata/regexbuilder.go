package metadata

import (
	"regexp"
	"strconv"
)

// fieldCodes maps a path_name_fields letter to the PathRecord field it
// fills, used only as a positional fallback when the configured regex has
// no Go-style named capture groups (?P<sample>...), (?P<haplotype>...),
// (?P<contig>...), (?P<fragment>...).
var fieldCodes = map[byte]string{
	'S': "sample",
	'H': "haplotype",
	'C': "contig",
	'F': "fragment",
}

// RegexBuilder is the reference MetadataBuilder implementation: it applies
// a configured regular expression with named capture groups to path
// names, or, for walks, records the structured fields verbatim. Missing
// fields default to an empty sample, zero haplotype, empty contig, and
// zero fragment.
type RegexBuilder struct {
	re      *regexp.Regexp
	fields  string
	paths   []PathRecord
	walks   []WalkRecord
	failed  bool
	failure error
}

// NewRegexBuilder compiles pattern (DefaultRegex if empty) and records
// fields (DefaultFields if empty) for positional fallback.
func NewRegexBuilder(pattern, fields string) (*RegexBuilder, error) {
	if pattern == "" {
		pattern = DefaultRegex
	}
	if fields == "" {
		fields = DefaultFields
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexBuilder{re: re, fields: fields}, nil
}

// AddReferencePath registers name as a reference-sample path, per the
// specification's rule that P-line paths in a file that also has walks
// are reclassified under the reserved reference sample name.
func (b *RegexBuilder) AddReferencePath(name string) bool {
	b.paths = append(b.paths, PathRecord{Sample: ReferenceSampleName, Contig: name})
	return true
}

// AddWalk records a walk's structured sample/haplotype/contig/start
// fields, converting haplotype and start to integers. A non-integer field
// is a METADATA error: AddWalk returns false and records the failure.
func (b *RegexBuilder) AddWalk(sample, haplotype, contig, start string) bool {
	hap, err := strconv.Atoi(haplotype)
	if err != nil {
		b.fail(err)
		return false
	}
	startPos, err := strconv.Atoi(start)
	if err != nil {
		b.fail(err)
		return false
	}
	b.walks = append(b.walks, WalkRecord{Sample: sample, Haplotype: hap, Contig: contig, Start: startPos})
	return true
}

// Parse applies the configured regex to name. A non-match is a METADATA
// error. Fields not captured by the regex keep their zero value.
func (b *RegexBuilder) Parse(name string) bool {
	match := b.re.FindStringSubmatch(name)
	if match == nil {
		b.fail(errNoMatch{name})
		return false
	}

	rec := PathRecord{}

	names := b.re.SubexpNames()
	haveNamed := false
	for i, n := range names {
		if i == 0 || n == "" {
			continue
		}
		switch n {
		case "sample":
			rec.Sample = match[i]
			haveNamed = true
		case "haplotype":
			if match[i] != "" {
				v, err := strconv.Atoi(match[i])
				if err != nil {
					b.fail(err)
					return false
				}
				rec.Haplotype = v
			}
			haveNamed = true
		case "contig":
			rec.Contig = match[i]
			haveNamed = true
		case "fragment":
			if match[i] != "" {
				v, err := strconv.Atoi(match[i])
				if err != nil {
					b.fail(err)
					return false
				}
				rec.Fragment = v
			}
			haveNamed = true
		}
	}

	if !haveNamed {
		// Positional fallback: the i-th character of fields names the
		// field filled by the i-th capture group (match[i+1]).
		for i := 0; i < len(b.fields) && i+1 < len(match); i++ {
			field, ok := fieldCodes[b.fields[i]]
			if !ok {
				continue
			}
			value := match[i+1]
			switch field {
			case "sample":
				rec.Sample = value
			case "contig":
				rec.Contig = value
			case "haplotype":
				v, err := strconv.Atoi(value)
				if err != nil {
					b.fail(err)
					return false
				}
				rec.Haplotype = v
			case "fragment":
				v, err := strconv.Atoi(value)
				if err != nil {
					b.fail(err)
					return false
				}
				rec.Fragment = v
			}
		}
	}

	b.paths = append(b.paths, rec)
	return true
}

// GetMetadata returns the accumulated paths and walks.
func (b *RegexBuilder) GetMetadata() any {
	return Metadata{Paths: b.paths, Walks: b.walks}
}

// Err returns the first METADATA failure encountered, if any.
func (b *RegexBuilder) Err() error { return b.failure }

func (b *RegexBuilder) fail(err error) {
	if !b.failed {
		b.failed = true
		b.failure = err
	}
}

// Metadata is the value RegexBuilder.GetMetadata returns.
type Metadata struct {
	Paths []PathRecord
	Walks []WalkRecord
}

type errNoMatch struct{ name string }

func (e errNoMatch) Error() string { return "metadata: path name " + e.name + " does not match the configured regex" }
