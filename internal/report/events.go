package report

import (
	"bytes"
	"encoding/json"
)

// The daemon has serialized event kinds two ways over time: a flat string
// ("Informational", "Low", "Medium", "High") and a tagged object
// ({"type": "Informational"} or {"type": "QualitativeWarning", "severity": ...}).
// Both forms decode here.
type wireEvent struct {
	EventType json.RawMessage `json:"event_type"`
	Message   string          `json:"message"`
}

type wireEventKind struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
}

// mapSeverity maps a wire severity token onto the closed Severity enum.
// Unrecognized or missing tokens map to Low: a forward-incompatible token
// must degrade the one event's display, never reject the whole report.
func mapSeverity(token string) Severity {
	switch token {
	case "High":
		return SeverityHigh
	case "Medium":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// decodeEvent decodes one event slot. A JSON null or absent slot yields
// (nil, nil), meaning the analyzer produced nothing for this packet.
func decodeEvent(raw json.RawMessage) (Event, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	var wire wireEvent
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}

	kind := bytes.TrimSpace(wire.EventType)
	if len(kind) > 0 && kind[0] == '"' {
		var token string
		if err := json.Unmarshal(kind, &token); err != nil {
			return nil, err
		}
		if token == "Informational" {
			return Informational{Text: wire.Message}, nil
		}
		return Warning{Severity: mapSeverity(token), Text: wire.Message}, nil
	}

	var tagged wireEventKind
	if len(kind) > 0 {
		if err := json.Unmarshal(kind, &tagged); err != nil {
			return nil, err
		}
	}
	if tagged.Type == "Informational" {
		return Informational{Text: wire.Message}, nil
	}
	return Warning{Severity: mapSeverity(tagged.Severity), Text: wire.Message}, nil
}

// decodeEvents decodes a positionally-aligned event slice, preserving nil
// slots for analyzers that produced nothing.
func decodeEvents(raw []json.RawMessage) ([]Event, error) {
	if raw == nil {
		return nil, nil
	}
	events := make([]Event, len(raw))
	for i, slot := range raw {
		event, err := decodeEvent(slot)
		if err != nil {
			return nil, err
		}
		events[i] = event
	}
	return events, nil
}
