package auction

import (
	"time"

	"kisan-backend/internal/models"
)

// WindowState is the time-derived half of a listing's state, computed from the
// clock rather than persisted. It is deliberately separate from the persisted
// available/sold status: available+CLOSED means "awaiting manual resolution".
type WindowState string

const (
	WindowOpen   WindowState = "OPEN"
	WindowClosed WindowState = "CLOSED"
)

// Window is the half-open interval [Start, End) during which bids are admitted.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds the bidding window from the listing's start time and
// duration in minutes. Duration validity (>= 1) is enforced at listing
// creation; NewWindow itself does no validation so that reads of legacy rows
// never fail.
func NewWindow(start time.Time, durationMinutes int) Window {
	return Window{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

// WindowOf returns the bidding window of a listing. This is the single shared
// window computation; every surface that gates or displays auction state goes
// through it.
func WindowOf(l *models.Listing) Window {
	return NewWindow(l.BiddingStartTime, l.BiddingDurationMinutes)
}

// StateAt classifies a query time t as OPEN (t < end) or CLOSED (t >= end).
func (w Window) StateAt(t time.Time) WindowState {
	if t.Before(w.End) {
		return WindowOpen
	}
	return WindowClosed
}

// RemainingAt returns how long the window stays open from t, zero once closed.
func (w Window) RemainingAt(t time.Time) time.Duration {
	if !t.Before(w.End) {
		return 0
	}
	return w.End.Sub(t)
}
