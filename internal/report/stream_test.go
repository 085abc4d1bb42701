package report

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseStreamOneValuePerLine(t *testing.T) {
	input := `{"a":1}
{"b":2}
{"c":3}`

	values, err := ParseStream(input)
	if err != nil {
		t.Fatalf("ParseStream: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("got %d values, want 3", len(values))
	}

	var first map[string]int
	if err := json.Unmarshal(values[0], &first); err != nil {
		t.Fatalf("unmarshal first value: %v", err)
	}
	if first["a"] != 1 {
		t.Errorf("values emitted out of order: first = %v", first)
	}
}

func TestParseStreamEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n", "\n\n", "   \n  "} {
		values, err := ParseStream(input)
		if err != nil {
			t.Errorf("ParseStream(%q): %v", input, err)
		}
		if len(values) != 0 {
			t.Errorf("ParseStream(%q) = %d values, want 0", input, len(values))
		}
	}
}

func TestParseStreamRecoversSplitRecord(t *testing.T) {
	// A raw newline inside a string value splits the record across two
	// physical lines. Rejoining without the newline makes it parse again.
	input := "{\"msg\":\"line one\nline two\"}\n{\"ok\":true}"

	values, err := ParseStream(input)
	if err != nil {
		t.Fatalf("ParseStream: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("got %d values, want 2", len(values))
	}

	var record struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(values[0], &record); err != nil {
		t.Fatalf("unmarshal rejoined record: %v", err)
	}
	if record.Msg != "line oneline two" {
		t.Errorf("rejoined message = %q, want the two halves concatenated", record.Msg)
	}
}

func TestParseStreamBlankLinesBetweenRecords(t *testing.T) {
	input := "{\"a\":1}\n\n\n{\"b\":2}\n"

	values, err := ParseStream(input)
	if err != nil {
		t.Fatalf("ParseStream: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("got %d values, want 2", len(values))
	}
}

func TestParseStreamMalformedTrailer(t *testing.T) {
	_, err := ParseStream("invalid\njson")
	var malformed *MalformedStreamError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v, want MalformedStreamError", err)
	}
	if malformed.Fragment != "invalidjson" {
		t.Errorf("Fragment = %q, want accumulated text for diagnostics", malformed.Fragment)
	}
}

func TestParseStreamValidRecordsThenGarbage(t *testing.T) {
	_, err := ParseStream("{\"a\":1}\n{broken")
	var malformed *MalformedStreamError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v, want MalformedStreamError", err)
	}
}
