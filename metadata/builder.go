// Package metadata produces structured path/walk metadata records and
// defines the builder interface the path encoder installs them into. The
// builder itself — its final representation and on-disk form — is an
// external collaborator; this package ships one reference implementation
// (RegexBuilder) that satisfies the documented contract in full.
package metadata

// Builder is the external metadata collaborator's interface, exactly as
// listed in the specification: it accepts reference-path names, walk
// headers, and path names to parse, and eventually yields a metadata
// value installed into the index builder.
type Builder interface {
	// AddReferencePath registers name as a path recovered under the
	// reserved reference sample, used when the file also contains walks.
	AddReferencePath(name string) bool
	// AddWalk registers a walk's structured header fields verbatim.
	AddWalk(sample, haplotype, contig, start string) bool
	// Parse applies the configured path-name convention to name, used
	// only when the file has no walks.
	Parse(name string) bool
	// GetMetadata returns the accumulated metadata value.
	GetMetadata() any
}

// PathRecord is the structured record produced for one path name, whether
// by regex capture (Parse) or reference-path registration
// (AddReferencePath).
type PathRecord struct {
	Sample    string
	Haplotype int
	Contig    string
	Fragment  int
}

// WalkRecord is the structured record produced for one walk header.
type WalkRecord struct {
	Sample    string
	Haplotype int
	Contig    string
	Start     int
}

// ReferenceSampleName is the reserved sample name under which P-line paths
// are stored when the file also contains W-line walks.
const ReferenceSampleName = "reference"

// DefaultRegex is applied to path names when no pattern is configured. It
// follows the PanSN sample#haplotype#contig convention common to
// pangenome path names; a name with no '#' separators at all is captured
// whole by the sample group.
const DefaultRegex = `^(?P<sample>[^#]*)(?:#(?P<haplotype>[^#]*)(?:#(?P<contig>.*))?)?$`

// DefaultFields assigns the first unnamed capture group to the sample
// field when the configured regex has no Go-style named groups. It is not
// consulted for a regex that has any named group, such as DefaultRegex.
const DefaultFields = "S"
