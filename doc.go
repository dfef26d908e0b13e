// Package stockcard is the backend of a stock portfolio dashboard card.
//
// It keeps a bounded rolling history of daily price snapshots, and values a
// static set of portfolios against either the live prices or the prices of
// a recorded day. The functionalities are:
//   - Snapshot history: RecordSnapshot keeps one PriceMap per day, for at
//     most HistoryRetention days, and SnapshotStore persists it as a single
//     blob in a kv.Store. A corrupt blob reads as an empty history.
//   - Day selection: AvailableDays lists the past days that can be shown,
//     DayLabel names them ("Yesterday", "3d ago", "Jul 2"), and SelectPrices
//     picks the PriceMap to value with.
//   - Valuation: ValueHolding, ValuePortfolio and ValuePortfolios derive
//     value, gain, gain percentage and daily change. Totals are summed first
//     and percentages derived from the totals, never averaged.
//   - Card definition: Config, parsed from YAML, lists the portfolios and
//     their holdings. The CASH ticker is an unpriced cash position.
//
// Amounts are exact decimals (Money, Quantity). Live prices come from a
// QuoteResolver, implemented by the quote package.
package stockcard
