package renderer

import (
	"math"
	"strings"

	"github.com/etnz/stockcard"
)

// Overview is the presentation model of a stockcard.Overview. Every figure is
// already formatted.
type Overview struct {
	Title      string
	Day        string // label of the selected day, e.g. "Today" or "Yesterday"
	Totals     Totals
	Portfolios []Portfolio
}

// Totals are the aggregated figures of a portfolio or of the whole card.
type Totals struct {
	Value       string
	Basis       string
	Gain        string // signed
	GainPct     string // signed
	DailyChange string // signed
	Up          bool   // gain is not negative
	DayUp       bool   // daily change is not negative
}

// Portfolio is one portfolio section of the card.
type Portfolio struct {
	Name   string
	Totals Totals
	Rows   []Row
}

// Row is one holding.
type Row struct {
	Ticker      string
	Cash        bool
	Shares      string
	Price       string
	PriceChange string // signed, per share
	Value       string
	Basis       string
	Gain        string // signed
	GainPct     string // signed
	DailyChange string // signed
	Up          bool
	Bar         Bar
}

// Bar is the value bar of a holding, in percent of the largest holding of its
// portfolio. Basis is the part covered by the cost basis (or by the value
// when at a loss), Gain and Loss the part above or below it.
type Bar struct {
	Basis float64
	Gain  float64
	Loss  float64
}

// barColumns is the width in characters of a full text bar.
const barColumns = 20

// String draws the bar in text: "█" for the basis, "▓" for a gain, and "░"
// for a loss.
func (b Bar) String() string {
	cols := func(pct float64) int { return int(math.Round(pct * barColumns / 100)) }
	return strings.Repeat("█", cols(b.Basis)) + strings.Repeat("▓", cols(b.Gain)) + strings.Repeat("░", cols(b.Loss))
}

// NewOverview creates the presentation model of o.
func NewOverview(title, day string, o stockcard.Overview) *Overview {
	v := &Overview{
		Title:      title,
		Day:        day,
		Totals:     newTotals(o.TotalValue, o.TotalBasis, o.TotalGain, o.TotalGainPct, o.TotalDailyChange),
		Portfolios: make([]Portfolio, 0, len(o.Portfolios)),
	}
	for _, p := range o.Portfolios {
		v.Portfolios = append(v.Portfolios, newPortfolio(p))
	}
	return v
}

func newTotals(value, basis, gain stockcard.Money, gainPct stockcard.Percent, daily stockcard.Money) Totals {
	return Totals{
		Value:       value.String(),
		Basis:       basis.String(),
		Gain:        gain.SignedString(),
		GainPct:     gainPct.SignedString(),
		DailyChange: daily.SignedString(),
		Up:          !gain.IsNegative(),
		DayUp:       !daily.IsNegative(),
	}
}

func newPortfolio(p stockcard.DerivedPortfolio) Portfolio {
	v := Portfolio{
		Name:   p.Name,
		Totals: newTotals(p.TotalValue, p.TotalBasis, p.TotalGain, p.TotalGainPct, p.TotalDailyChange),
		Rows:   make([]Row, 0, len(p.Holdings)),
	}

	// largest max(value, basis) of the portfolio, at least 1.
	largest := 1.0
	for _, h := range p.Holdings {
		largest = max(largest, h.Value.AsFloat(), h.Basis.AsFloat())
	}

	for _, h := range p.Holdings {
		v.Rows = append(v.Rows, Row{
			Ticker:      h.Ticker,
			Cash:        h.Ticker == stockcard.Cash,
			Shares:      h.Shares.String(),
			Price:       h.Price.String(),
			PriceChange: h.PriceChange.SignedString(),
			Value:       h.Value.String(),
			Basis:       h.Basis.String(),
			Gain:        h.Gain.SignedString(),
			GainPct:     h.GainPct.SignedString(),
			DailyChange: h.DailyChange.SignedString(),
			Up:          !h.Gain.IsNegative(),
			Bar:         newBar(h, largest),
		})
	}
	return v
}

func newBar(h stockcard.DerivedHolding, largest float64) Bar {
	basis := h.Basis.AsFloat() / largest * 100
	value := h.Value.AsFloat() / largest * 100
	switch {
	case h.Gain.IsNegative():
		return Bar{Basis: value, Loss: basis - value}
	case h.Gain.IsZero():
		return Bar{Basis: basis}
	default:
		return Bar{Basis: basis, Gain: value - basis}
	}
}
