package models

// Actions for a canonical transaction. A fund subscription maps to BUY and
// a fund redemption maps to SELL, so every asset class shares one pair.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// Markets for stock records.
const (
	MarketTW = "TW"
	MarketUS = "US"
)

// Transaction is the unified, intermediate representation of a recorded
// buy or sell. Each asset-class record type is responsible for mapping its
// own field names (shares/units/amount, price/nav) into this shape, so the
// holdings processor stays generic across classes.
//
// All numeric fields must be finite. Records are validated at entry; the
// holdings processor is defined only over well-formed input and propagates
// non-finite values without coercion.
type Transaction struct {
	ID            int64   `json:"id"`
	InstrumentKey string  `json:"instrument_key"`
	Name          string  `json:"name"`
	Action        string  `json:"action"` // ActionBuy or ActionSell
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Fee           float64 `json:"fee"`
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"` // signed cash total, precomputed at entry time
	Date          string  `json:"date"`  // YYYY-MM-DD, display ordering only
}
