package planning

import (
	"errors"
	"fmt"
	"time"
)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

// TimestampError reports an instant that none of the accepted layouts could parse.
type TimestampError struct {
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMalformedTimestamp, e.Value)
}

func (e *TimestampError) Unwrap() error {
	return ErrMalformedTimestamp
}

// Zone-less layouts are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseInstant parses an ISO-8601 timestamp as sent by the planning service.
func ParseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &TimestampError{Value: s}
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &TimestampError{Value: s}
}

// ClockLabel returns the zero-padded "HH:MM" of t read with UTC accessors.
// Match times are venue-local instants stored without zone conversion, so the
// label must not depend on the zone of the server or the viewer.
func ClockLabel(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// FormatTimeOfDay parses an ISO-8601 instant and returns its "HH:MM" label.
func FormatTimeOfDay(instant string) (string, error) {
	t, err := ParseInstant(instant)
	if err != nil {
		return "", err
	}
	return ClockLabel(t), nil
}

// MinutesBetween returns floor((end - start) / 1 minute) at millisecond
// precision. A negative span is returned as is.
func MinutesBetween(start, end string) (int, error) {
	s, err := ParseInstant(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseInstant(end)
	if err != nil {
		return 0, err
	}
	return durationMinutes(s, e), nil
}

func durationMinutes(start, end time.Time) int {
	ms := end.Sub(start).Milliseconds()
	minutes := ms / 60000
	if ms%60000 != 0 && ms < 0 {
		minutes--
	}
	return int(minutes)
}
