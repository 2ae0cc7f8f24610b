package entities

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used in traces, files and messages
const DateLayout = "2006-01-02"

// Day truncates a timestamp to its UTC calendar day
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays offsets a calendar day
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// Horizon is the planning window [Start, End)
type Horizon struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewHorizon builds a horizon of the given number of days starting on now's calendar day
func NewHorizon(now time.Time, days int) (Horizon, error) {
	if days <= 0 {
		return Horizon{}, fmt.Errorf("%w: horizon must be positive, got %d days", ErrInvalidInput, days)
	}
	start := Day(now)
	return Horizon{Start: start, End: AddDays(start, days)}, nil
}

// Days returns the horizon length in days
func (h Horizon) Days() int {
	return int(h.End.Sub(h.Start).Hours() / 24)
}

// Contains reports whether the date falls inside the horizon
func (h Horizon) Contains(t time.Time) bool {
	return !t.Before(h.Start) && t.Before(h.End)
}

// String renders the horizon as start..end
func (h Horizon) String() string {
	return fmt.Sprintf("%s..%s", h.Start.Format(DateLayout), h.End.Format(DateLayout))
}

// Buckets returns the number of buckets of the given width covering the horizon.
// The last bucket may be cut short by the horizon end.
func (h Horizon) Buckets(bucketDays int) int {
	if bucketDays < 1 {
		bucketDays = 1
	}
	return (h.Days() + bucketDays - 1) / bucketDays
}

// BucketIndex maps a date to its bucket. Dates before the start fall in bucket 0;
// dates at or after the end return -1.
func (h Horizon) BucketIndex(date time.Time, bucketDays int) int {
	if bucketDays < 1 {
		bucketDays = 1
	}
	if !Day(date).Before(h.End) {
		return -1
	}
	offset := int(Day(date).Sub(h.Start).Hours() / 24)
	if offset < 0 {
		return 0
	}
	return offset / bucketDays
}

// BucketStart returns the first day of bucket k
func (h Horizon) BucketStart(k, bucketDays int) time.Time {
	if bucketDays < 1 {
		bucketDays = 1
	}
	return AddDays(h.Start, k*bucketDays)
}
