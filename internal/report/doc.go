// Package report parses the wavehunter daemon's line-oriented analysis logs
// into structured, versioned reports.
//
// The daemon serializes one JSON record per line: a metadata record first,
// then one record per analyzed or skipped packet. Two historical record
// schemas exist on the wire; both normalize onto the same in-memory model. A
// recovering parser reassembles records whose serialized form was split
// across physical lines, and aggregate statistics are recomputed from the
// normalized rows on every assembly.
package report
