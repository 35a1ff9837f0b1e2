// Package jsondate decodes the loosely formatted dates found in candidate
// profiles.
package jsondate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var layouts = []string{time.RFC3339Nano, time.DateOnly, "2006-01"}

// Date accepts RFC 3339 timestamps, YYYY-MM-DD and YYYY-MM. Any other string,
// including "", decodes to the zero Date so one bad profile field cannot fail
// a whole batch. Non-string JSON other than null is still an error.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	d.Time = Parse(s)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// Ptr returns the wrapped time, or nil for an absent or unparseable date.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// Parse returns the zero time when s matches none of the accepted layouts.
func Parse(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
