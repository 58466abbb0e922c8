package types

import "time"

// Window is the [Start, End) timestamp range of source records eligible
// for the current run.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the half-open window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
