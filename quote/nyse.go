package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/stockcard"
)

const nyseURL = "https://www.nyse.com/api/nyseservice/v1/quotes?symbol="

// the endpoint rejects requests that do not look like a browser.
var nyseHeader = http.Header{
	"Accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
	"Accept-Language":           {"en-US,en;q=0.9"},
	"Cache-Control":             {"max-age=0"},
	"Sec-Fetch-Dest":            {"document"},
	"Sec-Fetch-Mode":            {"navigate"},
	"Sec-Fetch-Site":            {"none"},
	"Sec-Fetch-User":            {"?1"},
	"Upgrade-Insecure-Requests": {"1"},
	"User-Agent":                {"Mozilla/5.0"},
}

/*
NYSE reads the quote API, whose response looks like:

	{
	    "quote": {
	        "symbol": "IBM",
	        "last": 246.12,
	        "change": -1.35,
	        ...
	    }
	}
*/
type NYSE struct {
	client  *http.Client
	baseURL string
}

// NewNYSE returns the NYSE source using client.
func NewNYSE(client *http.Client) *NYSE {
	return &NYSE{client: client, baseURL: nyseURL}
}

// WithBaseURL returns a copy of n querying baseURL+ticker instead.
func (n *NYSE) WithBaseURL(baseURL string) *NYSE {
	c := *n
	c.baseURL = baseURL
	return &c
}

func (n *NYSE) Quote(ctx context.Context, ticker string) (stockcard.Quote, error) {
	var jobj any
	if err := jwget(ctx, n.client, n.baseURL+url.QueryEscape(ticker), nyseHeader, &jobj); err != nil {
		return stockcard.Quote{}, fmt.Errorf("nyse %q: %w", ticker, err)
	}
	price := lookup(jobj, "$.quote.last")
	change := lookup(jobj, "$.quote.change")
	q, err := parseQuote(price, change)
	if err != nil {
		return stockcard.Quote{}, fmt.Errorf("nyse %q: last=%q: %w", ticker, price, err)
	}
	return q, nil
}

// lookup returns the text of the value at path, or "" when there is none.
func lookup(jobj any, path string) string {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return ""
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case json.Number:
		return v.String()
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
