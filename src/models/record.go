package models

import "fmt"

// StockRecord is one stock transaction (TW or US market).
type StockRecord struct {
	ID        int64   `json:"id"`
	Market    string  `json:"market"`     // MarketTW or MarketUS
	AssetType string  `json:"asset_type"` // "STOCK" or "ETF"
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Type      string  `json:"type"` // ActionBuy or ActionSell
	Date      string  `json:"date"` // YYYY-MM-DD
	Shares    float64 `json:"shares"`
	Price     float64 `json:"price"`
	Fee       float64 `json:"fee"`
	Tax       float64 `json:"tax"` // transaction tax, TW sells only
	Total     float64 `json:"total"`
}

// InstrumentKey identifies a stock by market and code, so the same ticker
// on different markets never collapses into one holding.
func (r StockRecord) InstrumentKey() string {
	return fmt.Sprintf("%s|%s", r.Market, r.Code)
}

// Canonical maps the record into the unified transaction shape.
func (r StockRecord) Canonical() Transaction {
	return Transaction{
		ID:            r.ID,
		InstrumentKey: r.InstrumentKey(),
		Name:          r.Name,
		Action:        r.Type,
		Quantity:      r.Shares,
		UnitPrice:     r.Price,
		Fee:           r.Fee,
		Tax:           r.Tax,
		Total:         r.Total,
		Date:          r.Date,
	}
}

// FundRecord is one fund subscription or redemption. Amount is the gross
// cash total of the transaction, fee included, as entered by the user.
type FundRecord struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"` // ActionBuy (subscription) or ActionSell (redemption)
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	NAV    float64 `json:"nav"`
	Units  float64 `json:"units"`
	Fee    float64 `json:"fee"`
}

func (r FundRecord) InstrumentKey() string { return r.Name }

func (r FundRecord) Canonical() Transaction {
	return Transaction{
		ID:            r.ID,
		InstrumentKey: r.InstrumentKey(),
		Name:          r.Name,
		Action:        r.Type,
		Quantity:      r.Units,
		UnitPrice:     r.NAV,
		Fee:           r.Fee,
		Total:         r.Amount,
		Date:          r.Date,
	}
}

// CryptoRecord is one crypto transaction.
type CryptoRecord struct {
	ID     int64   `json:"id"`
	Symbol string  `json:"symbol"`
	Type   string  `json:"type"` // ActionBuy or ActionSell
	Date   string  `json:"date"`
	Amount float64 `json:"amount"` // coin quantity
	Price  float64 `json:"price"`  // per-coin price
	Fee    float64 `json:"fee"`
	Total  float64 `json:"total"`
}

func (r CryptoRecord) InstrumentKey() string { return r.Symbol }

func (r CryptoRecord) Canonical() Transaction {
	return Transaction{
		ID:            r.ID,
		InstrumentKey: r.InstrumentKey(),
		Name:          r.Symbol,
		Action:        r.Type,
		Quantity:      r.Amount,
		UnitPrice:     r.Price,
		Fee:           r.Fee,
		Total:         r.Total,
		Date:          r.Date,
	}
}

// PropertyRecord is one property entry. Properties carry no holdings; they
// only feed the summary totals.
type PropertyRecord struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// PaymentRecord is one mortgage payment against a property.
type PaymentRecord struct {
	ID         int64   `json:"id"`
	PropertyID int64   `json:"property_id"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Principal  float64 `json:"principal"`
	Interest   float64 `json:"interest"`
}

// Snapshot is the full contents of all record logs, used for the combined
// records endpoint and for JSON export/import.
type Snapshot struct {
	Stocks     []StockRecord    `json:"stocks"`
	Funds      []FundRecord     `json:"funds"`
	Cryptos    []CryptoRecord   `json:"cryptos"`
	Properties []PropertyRecord `json:"properties"`
	Payments   []PaymentRecord  `json:"payments"`
}
