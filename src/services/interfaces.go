package services

import (
	"context"
	"errors"

	"github.com/username/investrack/backend/src/models"
)

// Define common service errors
var (
	// ErrInsufficientQuantity rejects a sell whose quantity exceeds the
	// currently held quantity for that instrument. The check runs before
	// the record is appended; once a sell is in the log the holdings
	// processor cannot distinguish an over-sell from a closed position.
	ErrInsufficientQuantity = errors.New("insufficient quantity held")

	// ErrHoldingNotFound means no open holding exists for the instrument.
	ErrHoldingNotFound = errors.New("no open holding for instrument")

	// ErrUnknownAssetClass means the requested class is not stocks, funds or cryptos.
	ErrUnknownAssetClass = errors.New("unknown asset class")
)

// Asset classes that carry holdings.
const (
	AssetClassStocks  = "stocks"
	AssetClassFunds   = "funds"
	AssetClassCryptos = "cryptos"
)

// StockRecordInput is the payload for recording a stock transaction.
// Total is computed by the service, never accepted from the client.
type StockRecordInput struct {
	Market    string  `json:"market"`
	AssetType string  `json:"asset_type"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Date      string  `json:"date"`
	Shares    float64 `json:"shares"`
	Price     float64 `json:"price"`
	Fee       float64 `json:"fee"`
	Tax       float64 `json:"tax"`
}

type FundRecordInput struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	NAV    float64 `json:"nav"`
	Units  float64 `json:"units"`
	Fee    float64 `json:"fee"`
}

type CryptoRecordInput struct {
	Symbol string  `json:"symbol"`
	Type   string  `json:"type"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
	Fee    float64 `json:"fee"`
}

type PropertyRecordInput struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type PaymentRecordInput struct {
	PropertyID int64   `json:"property_id"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Principal  float64 `json:"principal"`
	Interest   float64 `json:"interest"`
}

// RecordService is the core application service: it validates and records
// transactions, enforces the over-sell pre-check at the append boundary,
// and derives holdings, profit/loss and summary views on demand.
type RecordService interface {
	AddStockRecord(input StockRecordInput) (models.StockRecord, error)
	DeleteStockRecord(id int64) error
	AddFundRecord(input FundRecordInput) (models.FundRecord, error)
	DeleteFundRecord(id int64) error
	AddCryptoRecord(input CryptoRecordInput) (models.CryptoRecord, error)
	DeleteCryptoRecord(id int64) error
	AddPropertyRecord(input PropertyRecordInput) (models.PropertyRecord, error)
	DeletePropertyRecord(id int64) error
	AddPaymentRecord(input PaymentRecordInput) (models.PaymentRecord, error)
	DeletePaymentRecord(id int64) error

	GetAllRecords() (models.Snapshot, error)
	GetHoldings(assetClass string) ([]models.Holding, error)
	GetProfitLoss(assetClass, instrumentKey string, currentPrice float64) (models.ProfitLossResult, error)
	GetSummary() (models.Summary, error)
	ImportSnapshot(snapshot models.Snapshot) error
}

// NameService resolves display names for stock tickers. Lookups degrade
// gracefully: on any failure the bare code is returned.
type NameService interface {
	StockDisplayName(ctx context.Context, market, code string) string
}
