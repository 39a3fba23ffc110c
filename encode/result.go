package encode

import "github.com/basepair-tools/gifx/translate"

// Result summarizes one successful EncodeAll call: the topology-free graph
// index, which outlives ingest alongside the sequence store, and counts
// useful for diagnostics and the round-trip property test.
type Result struct {
	Graph    *translate.Graph
	Metadata any
	Paths    int
	Walks    int
}

// Entry is one flushed path or walk's fully expanded node sequence, as
// read back by EMIT from any IndexBuilder-compatible reader.
type Entry struct {
	Nodes       []Node
	BothStrands bool
}
