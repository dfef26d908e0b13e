package stockcard

import (
	"fmt"
	"math"
	"time"

	"github.com/etnz/stockcard/date"
)

const (
	// HistoryRetention is the number of daily snapshots kept.
	HistoryRetention = 14
	// MaxAvailableDays is the default number of past days offered for selection.
	MaxAvailableDays = 6
	// Today is the day selector for live prices.
	Today = "today"
)

// Snapshot is one day's captured PriceMap.
type Snapshot struct {
	Date       date.Date
	Prices     PriceMap
	CapturedAt time.Time
}

// History is the rolling window of daily snapshots, one per date, oldest first.
//
// The zero value is an empty history ready to use. History values are never
// modified in place by this package: RecordSnapshot returns a new one.
type History struct {
	days date.History[Snapshot]
}

// Len returns the number of snapshots.
func (h *History) Len() int { return h.days.Len() }

// Get returns the snapshot taken on day.
func (h *History) Get(day date.Date) (Snapshot, bool) { return h.days.Get(day) }

// Days returns the snapshot dates, oldest first.
func (h *History) Days() []date.Date { return h.days.Days() }

// Latest returns the most recent snapshot, if any.
func (h *History) Latest() (Snapshot, bool) {
	if h.days.Len() == 0 {
		return Snapshot{}, false
	}
	_, s := h.days.Latest()
	return s, true
}

func (h *History) clone() *History { return &History{days: *h.days.Clone()} }

// RecordSnapshot returns a copy of h where prices is recorded as the snapshot
// for today, taken at now, and where only the HistoryRetention most recent
// days are kept. An existing snapshot for today is replaced.
//
// Recording empty prices is a no-op: h is returned unchanged, so that a day
// without data never takes a retention slot.
func RecordSnapshot(h *History, today date.Date, prices PriceMap, now time.Time) *History {
	if h == nil {
		h = new(History)
	}
	if len(prices) == 0 {
		return h
	}
	n := h.clone()
	n.days.Append(today, Snapshot{Date: today, Prices: prices.Clone(), CapturedAt: now})
	n.days.Keep(HistoryRetention)
	return n
}

// DayOf returns the day a snapshot taken at t is recorded under: its UTC
// calendar date, as the dashboard widget keys its own history.
func DayOf(t time.Time) date.Date { return date.Of(t.UTC()) }

// AvailableDays returns up to limit days of h strictly before today, newest first.
func AvailableDays(h *History, today date.Date, limit int) []date.Date {
	limit = max(limit, 0)
	days := make([]date.Date, 0, limit)
	if h == nil {
		return days
	}
	for day := range h.days.Backward() {
		if len(days) >= limit {
			break
		}
		if day.Before(today) {
			days = append(days, day)
		}
	}
	return days
}

// DayLabel returns a short label for day as seen at now: "Yesterday",
// "3d ago" within the week, and "Jan 2" otherwise.
//
// The day is taken at noon in now's location, and the difference rounded to
// whole days, so the label does not flicker around midnight or DST changes.
func DayLabel(day date.Date, now time.Time) string {
	noon := day.At(12, now.Location())
	diff := int(math.Round(float64(now.Sub(noon)) / float64(date.Day)))
	switch {
	case diff == 1:
		return "Yesterday"
	case diff > 1 && diff < 7:
		return fmt.Sprintf("%dd ago", diff)
	default:
		return noon.Format("Jan 2")
	}
}

// SelectPrices returns the prices to value portfolios with: the live prices
// when selected is "today" (or empty), the snapshot's prices when selected is
// a recorded date, and an empty map for anything else.
func SelectPrices(selected string, live PriceMap, h *History) PriceMap {
	if selected == "" || selected == Today {
		if live == nil {
			return PriceMap{}
		}
		return live
	}
	day, err := date.Parse(selected)
	if err != nil || h == nil {
		return PriceMap{}
	}
	s, ok := h.Get(day)
	if !ok || s.Prices == nil {
		return PriceMap{}
	}
	return s.Prices
}
