package models

import (
	"testing"
	"time"
)

// The expiry and history queries compare date_time values as strings, so
// the layout must order lexicographically exactly as it orders in time,
// and a stored timestamp must read back as the instant it was written.
func TestTimeLayoutRoundTripAndOrdering(t *testing.T) {
	at := time.Date(2026, 8, 31, 9, 5, 30, 0, time.Local)

	got, err := ParseTime(FormatTime(at))
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	if !got.Equal(at) {
		t.Errorf("round-trip = %v, want %v", got, at)
	}

	steps := []time.Duration{
		time.Second,
		59 * time.Second,
		time.Minute,
		2 * time.Hour,
		25 * time.Hour, // crosses a date boundary
		31 * 24 * time.Hour,
	}
	for _, step := range steps {
		earlier := FormatTime(at)
		later := FormatTime(at.Add(step))
		if !(earlier < later) {
			t.Errorf("FormatTime(+%v): %q not ordered before %q", step, earlier, later)
		}
	}
}

func TestParseTimeRejectsMalformedValue(t *testing.T) {
	if _, err := ParseTime("31-08-2026 09:05"); err == nil {
		t.Error("expected error for a value not in the stored layout")
	}
}
