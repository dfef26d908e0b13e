package renderer

import (
	"time"

	"github.com/etnz/stockcard"
	"github.com/etnz/stockcard/date"
)

// Day is an entry of the day selector.
type Day struct {
	Key      string `json:"key"` // "today" or an ISO date, as accepted by stockcard.SelectPrices
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// NewDays returns the day selector entries: "Today" first, then days as
// labelled at now. The entry matching selected is marked.
func NewDays(days []date.Date, selected string, now time.Time) []Day {
	if selected == "" {
		selected = stockcard.Today
	}
	entries := make([]Day, 0, len(days)+1)
	entries = append(entries, Day{Key: stockcard.Today, Label: "Today", Selected: selected == stockcard.Today})
	for _, d := range days {
		entries = append(entries, Day{
			Key:      d.String(),
			Label:    stockcard.DayLabel(d, now),
			Selected: selected == d.String(),
		})
	}
	return entries
}

// DayLabel returns the label of the selected day, "Today" included.
func DayLabel(selected string, now time.Time) string {
	if selected == "" || selected == stockcard.Today {
		return "Today"
	}
	d, err := date.Parse(selected)
	if err != nil {
		return selected
	}
	return stockcard.DayLabel(d, now)
}
