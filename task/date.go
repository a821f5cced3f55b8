package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the compact datetime layout Taskwarrior uses in its JSON
// export: YYYYMMDDTHHMMSSZ, always UTC, no punctuation.
const DateLayout = "20060102T150405Z"

// Date is an instant with second resolution, held in UTC. Its wire form is
// the compact Taskwarrior layout; parsing anything else fails. Encoding a
// decoded Date reproduces the original text exactly.
type Date struct {
	t time.Time
}

// NewDate converts t to UTC and truncates it to second resolution.
func NewDate(t time.Time) Date {
	return Date{t: t.UTC().Truncate(time.Second)}
}

// ParseDate parses the compact Taskwarrior datetime form. Any string that
// does not match the exact 16-character pattern, or names an invalid
// calendar date or time of day, yields a DateFormatError.
func ParseDate(s string) (Date, error) {
	if len(s) != len(DateLayout) {
		return Date{}, &DateFormatError{Input: s}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &DateFormatError{Input: s}
	}
	return Date{t: t.UTC()}, nil
}

// Time returns the underlying instant in UTC.
func (d Date) Time() time.Time {
	return d.t
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Equal reports whether d and other name the same instant.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// String returns the compact wire form.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// MarshalJSON encodes the Date as a JSON string in the compact layout.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a JSON string in the compact layout.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &DateFormatError{Input: string(data)}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateFormatError reports date text that does not match DateLayout.
type DateFormatError struct {
	Input string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q: expected layout %s", e.Input, DateLayout)
}
