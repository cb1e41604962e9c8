package volcview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/TheIceCreamTroll/Black-Diamond-Webcam-Monitor/internal/timeline"
)

// Image is a single entry from an image listing. Fields beyond the
// timestamp and URL are ignored.
type Image struct {
	ImageTimestamp Timestamp `json:"imageTimestamp"`
	ImageURL       string    `json:"imageUrl"`
}

// Listing models the API's image list payload.
type Listing struct {
	Images []Image `json:"images"`
}

// Timestamp is an epoch-seconds capture time. The API serializes it as a
// number on some endpoints and an int-like string on others.
type Timestamp int64

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return fmt.Errorf("imageTimestamp is null")
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode imageTimestamp: %w", err)
		}
		parsed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("imageTimestamp %q is not an integer", s)
		}
		*t = Timestamp(parsed)
		return nil
	}
	var n int64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("decode imageTimestamp: %w", err)
	}
	*t = Timestamp(n)
	return nil
}

// Records converts the listing into timeline records, preserving the API's
// order. Entries missing a URL or carrying a non-positive timestamp produce
// an ErrMalformedResponse.
func (l *Listing) Records() (timeline.Timeline, error) {
	records := make(timeline.Timeline, 0, len(l.Images))
	for i, img := range l.Images {
		if strings.TrimSpace(img.ImageURL) == "" {
			return nil, fmt.Errorf("%w: image %d missing imageUrl", ErrMalformedResponse, i)
		}
		if img.ImageTimestamp <= 0 {
			return nil, fmt.Errorf("%w: image %d missing imageTimestamp", ErrMalformedResponse, i)
		}
		records = append(records, timeline.Record{
			Timestamp: int64(img.ImageTimestamp),
			URL:       img.ImageURL,
		})
	}
	return records, nil
}
