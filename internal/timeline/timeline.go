package timeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a single webcam snapshot: when it was captured and where the
// image lives. Timestamps are epoch seconds as reported by the ashcam API;
// larger means more recent.
type Record struct {
	Timestamp int64
	URL       string
}

// Timeline is a newest-first sequence of records. Index 0 is the most
// recently captured image.
type Timeline []Record

// MarshalJSON encodes the record as the two-element array form used on disk.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{r.Timestamp, r.URL})
}

// UnmarshalJSON decodes the two-element array form. The timestamp element
// is accepted as either a JSON number or an int-like string; state files
// written by earlier versions of this tool stored whichever form the API
// returned.
func (r *Record) UnmarshalJSON(data []byte) error {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if len(elements) != 2 {
		return fmt.Errorf("decode record: expected 2 elements, got %d", len(elements))
	}

	timestamp, err := parseTimestamp(elements[0])
	if err != nil {
		return fmt.Errorf("decode record timestamp: %w", err)
	}

	var imageURL string
	if err := json.Unmarshal(elements[1], &imageURL); err != nil {
		return fmt.Errorf("decode record url: %w", err)
	}

	r.Timestamp = timestamp
	r.URL = imageURL
	return nil
}

func parseTimestamp(raw json.RawMessage) (int64, error) {
	var value any
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(&value); err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case json.Number:
		return v.Int64()
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("timestamp %q is not an integer", v)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("timestamp has unsupported type %T", value)
	}
}

// Head returns the most recent record.
func (t Timeline) Head() (Record, bool) {
	if len(t) == 0 {
		return Record{}, false
	}
	return t[0], true
}

// Descending reports whether the timeline is strictly descending by
// timestamp. A valid timeline never contains equal timestamps.
func Descending(t Timeline) bool {
	for i := 1; i < len(t); i++ {
		if t[i-1].Timestamp <= t[i].Timestamp {
			return false
		}
	}
	return true
}
