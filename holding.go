package stockcard

// Cash is the ticker of the non-priced holding: its value is its share count.
const Cash = "CASH"

// Holding is a position as declared in the card definition.
type Holding struct {
	Ticker string
	Shares Quantity
	Basis  Money // total cost paid
}

// IsCash reports whether h is the cash position.
func (h Holding) IsCash() bool { return h.Ticker == Cash }

// Portfolio is a named, ordered list of holdings.
type Portfolio struct {
	Name     string
	Holdings []Holding
}

// DerivedHolding is a Holding valued against a PriceMap.
type DerivedHolding struct {
	Ticker      string   `json:"ticker"`
	Shares      Quantity `json:"shares"`
	Basis       Money    `json:"basis"`
	Price       Money    `json:"price"`
	PriceChange Money    `json:"priceChange"` // per share
	Value       Money    `json:"value"`
	Gain        Money    `json:"gain"`
	GainPct     Percent  `json:"gainPct"`
	DailyChange Money    `json:"dailyChange"` // PriceChange × Shares
}

// DerivedPortfolio aggregates the derived holdings of a Portfolio.
type DerivedPortfolio struct {
	Name             string           `json:"name"`
	Holdings         []DerivedHolding `json:"holdings"`
	TotalValue       Money            `json:"totalValue"`
	TotalBasis       Money            `json:"totalBasis"`
	TotalGain        Money            `json:"totalGain"`
	TotalGainPct     Percent          `json:"totalGainPct"`
	TotalDailyChange Money            `json:"totalDailyChange"`
}

// Overview aggregates several derived portfolios.
type Overview struct {
	Portfolios       []DerivedPortfolio `json:"portfolios"`
	TotalValue       Money              `json:"totalValue"`
	TotalBasis       Money              `json:"totalBasis"`
	TotalGain        Money              `json:"totalGain"`
	TotalGainPct     Percent            `json:"totalGainPct"`
	TotalDailyChange Money              `json:"totalDailyChange"`
}
