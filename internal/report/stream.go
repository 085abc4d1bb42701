package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MalformedStreamError reports that the trailing portion of an analysis log
// could not be parsed as a complete JSON value.
type MalformedStreamError struct {
	Fragment string
}

func (e *MalformedStreamError) Error() string {
	fragment := e.Fragment
	if len(fragment) > 256 {
		fragment = fragment[:256] + "..."
	}
	return fmt.Sprintf("malformed analysis stream, unparsable trailing record: %q", fragment)
}

// ParseStream splits raw log text into an ordered sequence of JSON values.
//
// The format is nominally one record per line, but a record containing a raw
// newline inside a string value is written across two physical lines. The
// parser recovers such records by accumulating lines until the accumulator
// parses as one complete JSON value. Lines are rejoined without reinserting
// the newline: that is exactly the transformation that makes a string split
// by a raw newline parseable again, so the embedded newline byte is not
// reconstructed.
//
// Record content is not validated, reordered, or deduplicated; output order
// equals input order. Empty input yields an empty sequence. Input whose final
// accumulated record never parses fails with MalformedStreamError.
func ParseStream(text string) ([]json.RawMessage, error) {
	lines := strings.Split(text, "\n")
	values := make([]json.RawMessage, 0, len(lines))

	acc := ""
	for _, line := range lines {
		acc += line
		if strings.TrimSpace(acc) == "" {
			acc = ""
			continue
		}
		if json.Valid([]byte(acc)) {
			values = append(values, json.RawMessage(acc))
			acc = ""
		}
	}

	if strings.TrimSpace(acc) != "" {
		return nil, &MalformedStreamError{Fragment: acc}
	}
	return values, nil
}
