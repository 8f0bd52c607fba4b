package models

// Holding is the current aggregated position for one instrument, derived
// from its transaction history. It is never stored; the holdings processor
// recomputes it from the full log on every query.
type Holding struct {
	InstrumentKey string  `json:"instrument_key"`
	Name          string  `json:"name"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalCost     float64 `json:"total_cost"`
	TotalFees     float64 `json:"total_fees"`
	AverageCost   float64 `json:"average_cost"`
}

// ProfitLossResult is the unrealized profit/loss of one holding against a
// caller-supplied current price.
type ProfitLossResult struct {
	MarketValue   float64 `json:"market_value"`
	CostBasis     float64 `json:"cost_basis"`
	ProfitLoss    float64 `json:"profit_loss"`
	ReturnPercent float64 `json:"return_percent"`
	IsProfit      bool    `json:"is_profit"`
}

// Summary holds the per-class invested totals shown on the overview page.
type Summary struct {
	TWStockTotal          float64 `json:"tw_stock_total"`
	TWStockCount          int     `json:"tw_stock_count"`
	TWETFCount            int     `json:"tw_etf_count"`
	USStockTotal          float64 `json:"us_stock_total"`
	USStockCount          int     `json:"us_stock_count"`
	USETFCount            int     `json:"us_etf_count"`
	FundTotal             float64 `json:"fund_total"`
	CryptoTotal           float64 `json:"crypto_total"`
	PropertyPaidPrincipal float64 `json:"property_paid_principal"`
}
