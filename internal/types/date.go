package types

import (
	"time"

	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
)

// DateLayout is the wire format for configured date bounds.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("invalid date %q, expected format %s", s, DateLayout).
			Mark(ierr.ErrValidation)
	}
	return t, nil
}

// FormatDate renders a timestamp in the wire date format.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// FromEpoch converts epoch seconds to a UTC timestamp.
func FromEpoch(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
