package store

import (
	"errors"

	"github.com/username/investrack/backend/src/models"
)

// ErrRecordNotFound is returned by Remove operations when no record with
// the given id exists in that log.
var ErrRecordNotFound = errors.New("record not found")

// RecordStore owns the append-only transaction logs for every asset class.
// Records are immutable once appended; deletion removes them from the log
// entirely. List methods return records verbatim in id order, so grouping
// identity and first-seen ordering are stable across save/load.
type RecordStore interface {
	AppendStock(record models.StockRecord) error
	RemoveStock(id int64) error
	ListStocks() ([]models.StockRecord, error)

	AppendFund(record models.FundRecord) error
	RemoveFund(id int64) error
	ListFunds() ([]models.FundRecord, error)

	AppendCrypto(record models.CryptoRecord) error
	RemoveCrypto(id int64) error
	ListCryptos() ([]models.CryptoRecord, error)

	AppendProperty(record models.PropertyRecord) error
	RemoveProperty(id int64) error
	ListProperties() ([]models.PropertyRecord, error)

	AppendPayment(record models.PaymentRecord) error
	RemovePayment(id int64) error
	ListPayments() ([]models.PaymentRecord, error)

	// All returns the full contents of every log, for the combined records
	// endpoint and JSON export.
	All() (models.Snapshot, error)

	// ReplaceAll atomically replaces the contents of every log with the
	// given snapshot, for JSON import.
	ReplaceAll(snapshot models.Snapshot) error
}
