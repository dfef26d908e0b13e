package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/etnz/stockcard"
)

const schwabURL = "https://www.schwab.wallst.com/Prospect/Research/mutualfunds/fees.asp?symbol="

var schwabHeader = http.Header{"User-Agent": {"Mozilla/5.0"}}

// The research page shows a "first glance" table:
//
//	<table id="firstGlanceQuoteTable" ...>...<tbody><tr><td>$246.12</td><td><span class="neg">-1.35</span>...
var (
	reTable  = regexp.MustCompile(`(?s)<table id="firstGlanceQuoteTable".*?</table>`)
	rePrice  = regexp.MustCompile(`<tbody><tr><td>\$([0-9.]+)</td>`)
	reChange = regexp.MustCompile(`<tbody><tr><td>\$[0-9.]+</td><td><span.*?>([+-]?[0-9.]+)</span>`)
	newlines = strings.NewReplacer("\r", "", "\n", "")
)

// Schwab scrapes the quote out of the Schwab research page.
type Schwab struct {
	client  *http.Client
	baseURL string
}

// NewSchwab returns the Schwab source using client.
func NewSchwab(client *http.Client) *Schwab {
	return &Schwab{client: client, baseURL: schwabURL}
}

// WithBaseURL returns a copy of s querying baseURL+ticker instead.
func (s *Schwab) WithBaseURL(baseURL string) *Schwab {
	c := *s
	c.baseURL = baseURL
	return &c
}

func (s *Schwab) Quote(ctx context.Context, ticker string) (stockcard.Quote, error) {
	body, err := fetch(ctx, s.client, s.baseURL+url.QueryEscape(ticker), schwabHeader)
	if err != nil {
		return stockcard.Quote{}, fmt.Errorf("schwab %q: %w", ticker, err)
	}
	price, change := scrape(string(body))
	q, err := parseQuote(price, change)
	if err != nil {
		return stockcard.Quote{}, fmt.Errorf("schwab %q: %w", ticker, err)
	}
	return q, nil
}

// scrape extracts the price and change text from a research page.
func scrape(page string) (price, change string) {
	table := page
	if t := reTable.FindString(page); t != "" {
		table = t
	}
	table = newlines.Replace(table)
	if m := rePrice.FindStringSubmatch(table); m != nil {
		price = m[1]
	}
	if m := reChange.FindStringSubmatch(table); m != nil {
		change = m[1]
	}
	return price, change
}
