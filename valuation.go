package stockcard

// ValueHolding values h against prices, in currency cur.
//
// Cash is never marked to market: price 1, basis equal to its value, no gain
// and no daily change. A ticker missing from prices is valued at zero, so
// the holding shows a full loss of its basis.
func ValueHolding(h Holding, prices PriceMap, cur string) DerivedHolding {
	zero := M(0, cur)
	if h.IsCash() {
		value := M(h.Shares.Decimal(), cur)
		return DerivedHolding{
			Ticker:      Cash,
			Shares:      h.Shares,
			Basis:       value,
			Price:       M(1, cur),
			PriceChange: zero,
			Value:       value,
			Gain:        zero,
			GainPct:     0,
			DailyChange: zero,
		}
	}

	q, _ := prices.Get(h.Ticker)
	price := M(q.Price, cur).Exact()
	change := M(q.Change, cur).Exact()
	basis := M(h.Basis.Decimal(), cur)
	value := price.Mul(h.Shares)
	gain := value.Sub(basis)
	return DerivedHolding{
		Ticker:      h.Ticker,
		Shares:      h.Shares,
		Basis:       basis,
		Price:       price,
		PriceChange: change,
		Value:       value,
		Gain:        gain,
		GainPct:     gain.Percent(basis),
		DailyChange: change.Mul(h.Shares),
	}
}

// ValuePortfolio values every holding of p and aggregates them.
//
// The total gain percentage is derived from the totals, so holdings weigh in
// proportion to their basis.
func ValuePortfolio(p Portfolio, prices PriceMap, cur string) DerivedPortfolio {
	d := DerivedPortfolio{
		Name:             p.Name,
		Holdings:         make([]DerivedHolding, 0, len(p.Holdings)),
		TotalValue:       M(0, cur),
		TotalBasis:       M(0, cur),
		TotalDailyChange: M(0, cur),
	}
	for _, h := range p.Holdings {
		dh := ValueHolding(h, prices, cur)
		d.Holdings = append(d.Holdings, dh)
		d.TotalValue = d.TotalValue.Add(dh.Value)
		d.TotalBasis = d.TotalBasis.Add(dh.Basis)
		d.TotalDailyChange = d.TotalDailyChange.Add(dh.DailyChange)
	}
	d.TotalGain = d.TotalValue.Sub(d.TotalBasis)
	d.TotalGainPct = d.TotalGain.Percent(d.TotalBasis)
	return d
}

// ValuePortfolios values all portfolios against the same prices and
// aggregates them the same way ValuePortfolio aggregates holdings.
func ValuePortfolios(portfolios []Portfolio, prices PriceMap, cur string) Overview {
	o := Overview{
		Portfolios:       make([]DerivedPortfolio, 0, len(portfolios)),
		TotalValue:       M(0, cur),
		TotalBasis:       M(0, cur),
		TotalDailyChange: M(0, cur),
	}
	for _, p := range portfolios {
		d := ValuePortfolio(p, prices, cur)
		o.Portfolios = append(o.Portfolios, d)
		o.TotalValue = o.TotalValue.Add(d.TotalValue)
		o.TotalBasis = o.TotalBasis.Add(d.TotalBasis)
		o.TotalDailyChange = o.TotalDailyChange.Add(d.TotalDailyChange)
	}
	o.TotalGain = o.TotalValue.Sub(o.TotalBasis)
	o.TotalGainPct = o.TotalGain.Percent(o.TotalBasis)
	return o
}
