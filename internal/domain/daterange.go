package domain

import "time"

// DateRange is an inclusive calendar window. Start covers the whole start day and End
// covers the whole end day. A zero bound leaves that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window. Each value is compared by its own
// calendar day, the same day DayKey groups it under. A zero t is never in range, so
// entries whose date could not be read are excluded instead of failing the computation.
func (r DateRange) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	key := DayKey(t)
	if !r.Start.IsZero() && key < DayKey(r.Start) {
		return false
	}
	if !r.End.IsZero() && key > DayKey(r.End) {
		return false
	}
	return true
}

// DayKey formats t as the calendar day it was recorded on.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DaysBetween counts whole calendar days from `from` to `to`. Both are reduced to their
// calendar dates first so time-of-day and DST shifts do not change the count.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
