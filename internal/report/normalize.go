package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyStream is returned when an analysis log contains no records at all.
var ErrEmptyStream = errors.New("analysis stream contains no records")

// InvalidMetadataError reports that the leading record of an analysis log
// could not be interpreted as report metadata.
type InvalidMetadataError struct {
	Err error
}

func (e *InvalidMetadataError) Error() string {
	return fmt.Sprintf("invalid report metadata: %v", e.Err)
}

func (e *InvalidMetadataError) Unwrap() error { return e.Err }

// defaultAnalyzerVersion is stamped onto every analyzer of a legacy
// (unversioned) report. Pre-versioning heuristics are considered version 0 so
// their findings are clearly distinguishable from versioned reruns.
const defaultAnalyzerVersion = 0

// Normalize interprets a parsed value sequence as one report: a leading
// metadata record followed by rows in the schema the metadata declares. The
// schema version is resolved once and selects exactly one row decoder; mixed
// schemas within one report are impossible by construction.
func Normalize(values []json.RawMessage) (*Report, error) {
	if len(values) == 0 {
		return nil, ErrEmptyStream
	}

	var metadata Metadata
	if err := json.Unmarshal(values[0], &metadata); err != nil {
		return nil, &InvalidMetadataError{Err: err}
	}
	if metadata.Analyzers == nil {
		return nil, &InvalidMetadataError{Err: errors.New("missing analyzers list")}
	}

	if metadata.SchemaVersion == 0 {
		metadata.SchemaVersion = 1
		for i := range metadata.Analyzers {
			metadata.Analyzers[i].Version = defaultAnalyzerVersion
		}
	}

	var rows []Row
	var err error
	switch metadata.SchemaVersion {
	case 1:
		rows, err = decodeV1Rows(values[1:])
	default:
		rows, err = decodeV2Rows(values[1:])
	}
	if err != nil {
		return nil, err
	}

	return &Report{
		Metadata:   metadata,
		Rows:       rows,
		Statistics: Aggregate(rows),
	}, nil
}

// v1 schema: each record covers one message container and fans out into zero
// or more rows, one per skip reason plus one per analyzed packet.
type v1Record struct {
	Timestamp             time.Time         `json:"timestamp"`
	SkippedMessageReasons []string          `json:"skipped_message_reasons"`
	Analysis              []v1AnalysisEntry `json:"analysis"`
}

type v1AnalysisEntry struct {
	Timestamp time.Time         `json:"timestamp"`
	Events    []json.RawMessage `json:"events"`
}

func decodeV1Rows(values []json.RawMessage) ([]Row, error) {
	rows := make([]Row, 0, len(values))
	for i, value := range values {
		var record v1Record
		if err := json.Unmarshal(value, &record); err != nil {
			return nil, fmt.Errorf("decode v1 record %d: %w", i+1, err)
		}
		for _, reason := range record.SkippedMessageReasons {
			rows = append(rows, Skipped{Reason: reason})
		}
		for _, entry := range record.Analysis {
			events, err := decodeEvents(entry.Events)
			if err != nil {
				return nil, fmt.Errorf("decode v1 record %d events: %w", i+1, err)
			}
			rows = append(rows, Analyzed{PacketTimestamp: entry.Timestamp, Events: events})
		}
	}
	return rows, nil
}

// v2 schema: each record is already one logical row.
type v2Record struct {
	PacketTimestamp      *time.Time        `json:"packet_timestamp"`
	SkippedMessageReason *string           `json:"skipped_message_reason"`
	Events               []json.RawMessage `json:"events"`
}

func decodeV2Rows(values []json.RawMessage) ([]Row, error) {
	rows := make([]Row, 0, len(values))
	for i, value := range values {
		var record v2Record
		if err := json.Unmarshal(value, &record); err != nil {
			return nil, fmt.Errorf("decode v2 record %d: %w", i+1, err)
		}
		if record.SkippedMessageReason != nil {
			rows = append(rows, Skipped{Reason: *record.SkippedMessageReason})
			continue
		}
		events, err := decodeEvents(record.Events)
		if err != nil {
			return nil, fmt.Errorf("decode v2 record %d events: %w", i+1, err)
		}
		var timestamp time.Time
		if record.PacketTimestamp != nil {
			timestamp = *record.PacketTimestamp
		}
		rows = append(rows, Analyzed{PacketTimestamp: timestamp, Events: events})
	}
	return rows, nil
}
