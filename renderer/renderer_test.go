package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/stockcard"
	"github.com/etnz/stockcard/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOverview() stockcard.Overview {
	portfolios := []stockcard.Portfolio{{
		Name: "Brokerage",
		Holdings: []stockcard.Holding{
			{Ticker: "X", Shares: stockcard.Q(10), Basis: stockcard.M(1000, "USD")},
			{Ticker: "Y", Shares: stockcard.Q(5), Basis: stockcard.M(300, "USD")},
			{Ticker: stockcard.Cash, Shares: stockcard.Q(500)},
		},
	}}
	prices := stockcard.PriceMap{"X": stockcard.NewQuote(120.0, 2.0)}
	return stockcard.ValuePortfolios(portfolios, prices, "USD")
}

func TestNewOverview(t *testing.T) {
	v := NewOverview("Stocks", "Today", sampleOverview())
	require.Len(t, v.Portfolios, 1)
	p := v.Portfolios[0]
	require.Len(t, p.Rows, 3)

	x := p.Rows[0]
	assert.Equal(t, "$120.00", x.Price)
	assert.Equal(t, "+$2.00", x.PriceChange)
	assert.Equal(t, "$1,200.00", x.Value)
	assert.Equal(t, "+$200.00", x.Gain)
	assert.Equal(t, "+20.0%", x.GainPct)
	assert.Equal(t, "+$20.00", x.DailyChange)
	assert.True(t, x.Up)

	y := p.Rows[1]
	assert.Equal(t, "$0.00", y.Price, "no quote")
	assert.Equal(t, "-$300.00", y.Gain)
	assert.Equal(t, "-100.0%", y.GainPct)
	assert.False(t, y.Up)

	assert.True(t, p.Rows[2].Cash)
	assert.Equal(t, "$500.00", p.Rows[2].Value)

	assert.Equal(t, "$1,700.00", v.Totals.Value)
	assert.Equal(t, "$1,800.00", v.Totals.Basis)
	assert.Equal(t, "-$100.00", v.Totals.Gain)
	assert.Equal(t, "-5.6%", v.Totals.GainPct)
	assert.False(t, v.Totals.Up)
	assert.True(t, v.Totals.DayUp)
	assert.Equal(t, "+$20.00", v.Totals.DailyChange)
}

func TestNewBar(t *testing.T) {
	v := NewOverview("", "", sampleOverview())
	rows := v.Portfolios[0].Rows

	// largest of max(value, basis) is X's value, 1200.
	assert.InDelta(t, 83.33, rows[0].Bar.Basis, 0.01)
	assert.InDelta(t, 16.67, rows[0].Bar.Gain, 0.01)
	assert.Zero(t, rows[0].Bar.Loss)

	assert.Zero(t, rows[1].Bar.Basis)
	assert.InDelta(t, 25, rows[1].Bar.Loss, 0.01)

	assert.InDelta(t, 41.67, rows[2].Bar.Basis, 0.01)

	assert.Equal(t, strings.Repeat("█", 17)+strings.Repeat("▓", 3), rows[0].Bar.String())
}

func TestNewBar_EmptyPortfolio(t *testing.T) {
	o := stockcard.ValuePortfolios([]stockcard.Portfolio{{Name: "Empty"}}, nil, "USD")
	v := NewOverview("", "", o)
	assert.Empty(t, v.Portfolios[0].Rows)
	assert.Equal(t, "+0.0%", v.Totals.GainPct)
}

func TestRenderOverview(t *testing.T) {
	v := NewOverview("Stocks", "Yesterday", sampleOverview())

	md := RenderOverview(v, RenderOptions{})
	assert.Contains(t, md, "# Stocks (Yesterday)")
	assert.Contains(t, md, "## Brokerage")
	assert.Contains(t, md, "| X | 10 | $120.00 | +$2.00 | $1,200.00 | +$20.00 | +$200.00 | +20.0% |")
	assert.Contains(t, md, "| CASH | | | | $500.00 | | | |")
	assert.Contains(t, md, "| **Total** | | | | **$1,700.00** |")
	assert.NotContains(t, md, "error")

	bars := RenderOverview(v, RenderOptions{Bars: true})
	assert.Contains(t, bars, "## Brokerage")
	assert.Contains(t, bars, "█")
	assert.Contains(t, bars, "$1,200.00 (+20.0%)")
	assert.NotContains(t, bars, "| Ticker |")
}

func TestRenderDays(t *testing.T) {
	now := time.Date(2025, 7, 10, 9, 0, 0, 0, time.Local)
	days := []date.Date{date.New(2025, 7, 9), date.New(2025, 7, 7), date.New(2025, 6, 30)}

	entries := NewDays(days, "2025-07-09", now)
	require.Len(t, entries, 4)
	assert.Equal(t, Day{Key: "today", Label: "Today"}, entries[0])
	assert.Equal(t, Day{Key: "2025-07-09", Label: "Yesterday", Selected: true}, entries[1])
	assert.Equal(t, "3d ago", entries[2].Label)
	assert.Equal(t, "Jun 30", entries[3].Label)

	md := RenderDays(entries)
	assert.Contains(t, md, "| **Yesterday** | 2025-07-09 |")
	assert.Contains(t, md, "| Today | today |")
}

func TestDayLabel(t *testing.T) {
	now := time.Date(2025, 7, 10, 9, 0, 0, 0, time.Local)
	assert.Equal(t, "Today", DayLabel("", now))
	assert.Equal(t, "Today", DayLabel("today", now))
	assert.Equal(t, "Yesterday", DayLabel("2025-07-09", now))
	assert.Equal(t, "garbage", DayLabel("garbage", now))
}

func TestHTML(t *testing.T) {
	md := RenderOverview(NewOverview("Stocks", "Today", sampleOverview()), RenderOptions{})
	html, err := HTML(md)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Stocks (Today)</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "$1,200.00")
}
