package planning

import (
	"errors"
	"testing"
	"time"
)

func TestFormatTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-06-01T07:05:00Z", "07:05"},
		{"2024-06-01T23:59:59.999Z", "23:59"},
		{"2024-06-01T09:30:00+02:00", "07:30"},
		{"2024-06-01T14:00:00", "14:00"},
		{"2024-06-01 08:15:00", "08:15"},
	}
	for _, tt := range tests {
		got, err := FormatTimeOfDay(tt.in)
		if err != nil {
			t.Fatalf("FormatTimeOfDay(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("FormatTimeOfDay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimeOfDayMalformed(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "2024-13-45T99:00:00Z"} {
		_, err := FormatTimeOfDay(in)
		if !errors.Is(err, ErrMalformedTimestamp) {
			t.Errorf("FormatTimeOfDay(%q) error = %v, want ErrMalformedTimestamp", in, err)
		}
		var tsErr *TimestampError
		if !errors.As(err, &tsErr) || tsErr.Value != in {
			t.Errorf("FormatTimeOfDay(%q) error is not a TimestampError carrying the input", in)
		}
	}
}

func TestMinutesBetween(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01T10:00:00Z", "2024-01-01T10:20:00Z", 20},
		{"2024-01-01T10:00:00Z", "2024-01-01T10:00:59.999Z", 0},
		{"2024-01-01T10:00:00Z", "2024-01-01T10:01:29.999Z", 1},
		{"2024-01-01T10:00:00Z", "2024-01-01T10:00:00Z", 0},
		{"2024-01-01T10:20:00Z", "2024-01-01T10:00:00Z", -20},
		{"2024-01-01T10:00:30Z", "2024-01-01T10:00:00Z", -1},
		{"2024-01-01T23:30:00Z", "2024-01-02T00:15:00Z", 45},
	}
	for _, tt := range tests {
		got, err := MinutesBetween(tt.start, tt.end)
		if err != nil {
			t.Fatalf("MinutesBetween(%q, %q) error: %v", tt.start, tt.end, err)
		}
		if got != tt.want {
			t.Errorf("MinutesBetween(%q, %q) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestMinutesBetweenMalformed(t *testing.T) {
	if _, err := MinutesBetween("nope", "2024-01-01T10:00:00Z"); !errors.Is(err, ErrMalformedTimestamp) {
		t.Errorf("expected ErrMalformedTimestamp for bad start, got %v", err)
	}
	if _, err := MinutesBetween("2024-01-01T10:00:00Z", "nope"); !errors.Is(err, ErrMalformedTimestamp) {
		t.Errorf("expected ErrMalformedTimestamp for bad end, got %v", err)
	}
}

func TestClockLabelIgnoresLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	instant := time.Date(2024, 6, 1, 12, 5, 0, 0, loc)
	if got := ClockLabel(instant); got != "07:05" {
		t.Errorf("ClockLabel = %q, want 07:05", got)
	}
}
