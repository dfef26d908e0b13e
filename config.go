package stockcard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is a card definition: where live prices come from, and the
// portfolios to value with them.
type Config struct {
	Entity     string // entity of the dashboard host holding the live prices
	Title      string
	Currency   string
	Portfolios []Portfolio
}

// DefaultTitle is used when the definition has no title.
const DefaultTitle = "Stock Portfolio"

// yconfig is the YAML form of Config, as written in the dashboard host:
//
//	entity: sensor.stock_prices
//	portfolios:
//	  - name: Brokerage
//	    stocks:
//	      - {ticker: AAPL, shares: 10, basis: 1500}
//	      - {ticker: CASH, shares: 500}
type yconfig struct {
	Entity     string `yaml:"entity"`
	Title      string `yaml:"title"`
	Currency   string `yaml:"currency"`
	Portfolios []struct {
		Name   string `yaml:"name"`
		Stocks []struct {
			Ticker string  `yaml:"ticker"`
			Shares float64 `yaml:"shares"`
			Basis  float64 `yaml:"basis"`
		} `yaml:"stocks"`
	} `yaml:"portfolios"`
}

// ParseConfig decodes and validates a card definition.
func ParseConfig(r io.Reader) (*Config, error) {
	var y yconfig
	if err := yaml.NewDecoder(r).Decode(&y); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid card definition: %w", err)
	}

	c := &Config{
		Entity:   y.Entity,
		Title:    y.Title,
		Currency: strings.ToUpper(y.Currency),
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	for _, yp := range y.Portfolios {
		p := Portfolio{Name: yp.Name}
		for _, ys := range yp.Stocks {
			p.Holdings = append(p.Holdings, Holding{
				Ticker: strings.TrimSpace(ys.Ticker),
				Shares: Q(ys.Shares),
				Basis:  M(ys.Basis, c.Currency),
			})
		}
		c.Portfolios = append(c.Portfolios, p)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfig reads a card definition file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open card definition: %w", err)
	}
	defer f.Close()
	c, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate reports the first contract violation of the definition.
func (c *Config) Validate() error {
	if c.Entity == "" {
		return errors.New("entity is required")
	}
	if len(c.Portfolios) == 0 {
		return errors.New("portfolios is required")
	}
	for i, p := range c.Portfolios {
		for j, h := range p.Holdings {
			if h.Ticker == "" {
				return fmt.Errorf("portfolio %q (#%d): stock #%d: ticker is required", p.Name, i+1, j+1)
			}
			if h.Shares.IsNegative() {
				return fmt.Errorf("portfolio %q (#%d): %s: shares must not be negative", p.Name, i+1, h.Ticker)
			}
		}
	}
	return nil
}

// Tickers returns the priced tickers of all portfolios, without duplicates,
// in order of first appearance. Cash is not a priced ticker.
func (c *Config) Tickers() []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, p := range c.Portfolios {
		for _, h := range p.Holdings {
			if h.IsCash() || seen[h.Ticker] {
				continue
			}
			seen[h.Ticker] = true
			tickers = append(tickers, h.Ticker)
		}
	}
	return tickers
}

// Value values all portfolios of the definition against prices.
func (c *Config) Value(prices PriceMap) Overview {
	return ValuePortfolios(c.Portfolios, prices, c.Currency)
}

// CardSize is the dashboard layout height hint: a header block plus one row per holding.
func (c *Config) CardSize() int {
	size := 3
	for _, p := range c.Portfolios {
		size += len(p.Holdings)
	}
	return size
}
