package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/stockcard"
)

const eodhdURL = "https://eodhd.com/api/real-time/"

// EODHD reads the real-time (15 minutes delayed) quote API of eodhd.com.
//
//	https://eodhd.com/api/real-time/AAPL.US?api_token=demo&fmt=json
//	{"code":"AAPL.US","timestamp":1752091200,"close":201.5,"change":-1.2,"change_p":-0.5919, ...}
//
// Tickers without an exchange suffix are looked up on US exchanges.
type EODHD struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewEODHD returns the EODHD source authenticating with apiKey.
func NewEODHD(client *http.Client, apiKey string) *EODHD {
	return &EODHD{client: client, baseURL: eodhdURL, apiKey: apiKey}
}

// WithBaseURL returns a copy of e querying baseURL instead.
func (e *EODHD) WithBaseURL(baseURL string) *EODHD {
	c := *e
	c.baseURL = baseURL
	return &c
}

func (e *EODHD) Quote(ctx context.Context, ticker string) (stockcard.Quote, error) {
	code := ticker
	if !strings.Contains(code, ".") {
		code += ".US"
	}
	addr := fmt.Sprintf("%s%s?fmt=json&api_token=%s", e.baseURL, url.PathEscape(code), url.QueryEscape(e.apiKey))

	var jobj any
	if err := jwget(ctx, e.client, addr, nil, &jobj); err != nil {
		return stockcard.Quote{}, fmt.Errorf("eodhd %q: %w", ticker, err)
	}
	// unknown values are reported as "NA"
	q, err := parseQuote(lookup(jobj, "$.close"), lookup(jobj, "$.change"))
	if err != nil {
		return stockcard.Quote{}, fmt.Errorf("eodhd %q: %w", ticker, err)
	}
	return q, nil
}
