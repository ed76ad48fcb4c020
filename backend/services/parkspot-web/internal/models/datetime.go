package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	clockLayout = "03:04 PM"
	dateLayout  = "2006-01-02"
	invalidDate = "Invalid Date"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// DateTime is the single date-time representation used past the API boundary. The backend sends
// local date-times as [year, month, day, hour, minute(, second)] arrays; some endpoints send ISO
// strings instead. Both decode into the same value.
type DateTime struct {
	time.Time
}

// NewDateTime wraps t.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

// UnmarshalJSON accepts an array of 5 or more integers, an ISO-8601 string or null.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	switch data[0] {
	case '[':
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("datetime: %w", err)
		}
		t, err := fromParts(parts)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	case '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("datetime: %w", err)
		}
		t, err := ParseLocal(raw)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	default:
		return fmt.Errorf("datetime: unsupported json %s", string(data))
	}
}

// MarshalJSON writes the value back in the array form the backend uses.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	parts := []int{d.Year(), int(d.Month()), d.Day(), d.Hour(), d.Minute()}
	if d.Second() != 0 {
		parts = append(parts, d.Second())
	}
	return json.Marshal(parts)
}

// Clock renders localized 12-hour time, e.g. "02:30 PM".
func (d DateTime) Clock() string {
	if d.IsZero() {
		return invalidDate
	}
	return d.Format(clockLayout)
}

// Date renders the ISO calendar date.
func (d DateTime) Date() string {
	if d.IsZero() {
		return invalidDate
	}
	return d.Format(dateLayout)
}

// Long renders "January 02, 2006, 03:04 PM" for detail pages.
func (d DateTime) Long() string {
	if d.IsZero() {
		return invalidDate
	}
	return d.Format("January 02, 2006, 03:04 PM")
}

// ParseLocal parses the ISO forms the backend and HTML datetime-local inputs produce.
// Values without an offset are interpreted in time.Local.
func ParseLocal(raw string) (time.Time, error) {
	for i, layout := range isoLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, raw)
		} else {
			t, err = time.ParseInLocation(layout, raw, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("datetime: cannot parse %q", raw)
}

func fromParts(parts []int) (time.Time, error) {
	if len(parts) < 5 {
		return time.Time{}, fmt.Errorf("datetime: expected at least 5 elements, got %d", len(parts))
	}
	second := 0
	if len(parts) > 5 {
		second = parts[5]
	}
	month := parts[1]
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("datetime: month %d out of range", month)
	}
	return time.Date(parts[0], time.Month(month), parts[2], parts[3], parts[4], second, 0, time.Local), nil
}
