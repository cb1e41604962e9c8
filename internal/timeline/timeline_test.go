package timeline

import (
	"encoding/json"
	"testing"
)

func TestRecordJSONRoundTrip(t *testing.T) {
	list := Timeline{
		{Timestamp: 102, URL: "url102"},
		{Timestamp: 101, URL: "url101"},
	}

	data, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[[102,"url102"],[101,"url101"]]`
	if string(data) != want {
		t.Fatalf("marshal = %s, want %s", data, want)
	}

	var decoded Timeline
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Timestamp != 102 || decoded[1].URL != "url101" {
		t.Errorf("round trip mismatch: %v", decoded)
	}
}

func TestRecordUnmarshalStringTimestamp(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`["1700000100", "https://example.com/a.jpg"]`), &rec); err != nil {
		t.Fatalf("unmarshal string timestamp: %v", err)
	}
	if rec.Timestamp != 1700000100 {
		t.Errorf("timestamp = %d, want 1700000100", rec.Timestamp)
	}
}

func TestRecordUnmarshalRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"wrong length", `[100]`},
		{"not an array", `{"timestamp": 100}`},
		{"non-integer timestamp", `["soon", "url"]`},
		{"non-string url", `[100, 42]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rec Record
			if err := json.Unmarshal([]byte(tc.data), &rec); err == nil {
				t.Errorf("unmarshal %s succeeded, want error", tc.data)
			}
		})
	}
}

func TestDescending(t *testing.T) {
	cases := []struct {
		name string
		list Timeline
		want bool
	}{
		{"empty", nil, true},
		{"single", Timeline{{Timestamp: 1}}, true},
		{"descending", Timeline{{Timestamp: 3}, {Timestamp: 2}, {Timestamp: 1}}, true},
		{"duplicate", Timeline{{Timestamp: 2}, {Timestamp: 2}}, false},
		{"ascending pair", Timeline{{Timestamp: 1}, {Timestamp: 2}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Descending(tc.list); got != tc.want {
				t.Errorf("Descending(%v) = %v, want %v", tc.list, got, tc.want)
			}
		})
	}
}
