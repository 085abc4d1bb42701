package report

import (
	"encoding/json"
	"time"
)

// Severity is the ordinal threat level attached to a warning event.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// Event is a user-facing signal attached to an analyzed packet. It is a
// closed union: Informational or Warning. A nil Event in a row's event slice
// means the analyzer at that position produced nothing for the packet.
type Event interface {
	isEvent()
	// Message returns the analyzer-provided display text.
	Message() string
}

// Informational is an event that carries information but no threat signal.
type Informational struct {
	Text string
}

func (Informational) isEvent() {}

func (e Informational) Message() string { return e.Text }

// Warning is an event that signals a potential threat at some severity.
type Warning struct {
	Severity Severity
	Text     string
}

func (Warning) isEvent() {}

func (e Warning) Message() string { return e.Text }

// Row is one unit of analysis output. It is a closed union: Skipped or
// Analyzed. The union is decided once at decode time; consumers switch
// exhaustively on the concrete type.
type Row interface {
	isRow()
}

// Skipped records a message the analysis engine could not process.
type Skipped struct {
	Reason string
}

func (Skipped) isRow() {}

// Analyzed records the per-analyzer events for one inspected packet. Events
// is positionally aligned with the configured analyzer list; nil slots mean
// "no event from this analyzer" and are excluded from counts and display.
type Analyzed struct {
	PacketTimestamp time.Time
	Events          []Event
}

func (Analyzed) isRow() {}

// AnalyzerInfo describes one heuristic that contributed to a report.
type AnalyzerInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     int    `json:"version"`
}

// Metadata is the leading record of every analysis log.
//
// SchemaVersion selects the row decoder for the remaining records. Logs
// written before versioning carry no schema_version; they resolve to version
// 1, and their analyzers are stamped with version 0 because pre-versioning
// heuristics are considered version 0.
type Metadata struct {
	Analyzers     []AnalyzerInfo  `json:"analyzers"`
	RuntimeInfo   json.RawMessage `json:"runtime_info,omitempty"`
	SchemaVersion int             `json:"schema_version"`
}

// Statistics holds aggregate counts derived from a report's rows. It is
// always recomputed from the rows, never stored or patched independently.
type Statistics struct {
	NumWarnings      int `json:"num_warnings"`
	NumInformational int `json:"num_informational"`
	NumSkipped       int `json:"num_skipped"`
}

// Report is the structured result of analyzing one recording. Immutable once
// assembled: the package exposes no mutators, and Statistics is consistent
// with Rows by construction.
type Report struct {
	Metadata   Metadata
	Rows       []Row
	Statistics Statistics
}

// Parse turns raw analysis log text into an assembled Report. It composes
// the recovering stream parser, the version-dispatched normalizer, and the
// statistics fold.
func Parse(text string) (*Report, error) {
	values, err := ParseStream(text)
	if err != nil {
		return nil, err
	}
	return Normalize(values)
}
