package store

import (
	"sync"

	"github.com/username/investrack/backend/src/models"
)

// MemoryStore is an in-memory RecordStore. It backs the tests and mirrors
// the SQLite store's contract: id-ordered lists, ErrRecordNotFound on
// unknown removes, copy-on-read so callers never alias internal slices.
type MemoryStore struct {
	mu         sync.RWMutex
	stocks     []models.StockRecord
	funds      []models.FundRecord
	cryptos    []models.CryptoRecord
	properties []models.PropertyRecord
	payments   []models.PaymentRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AppendStock(r models.StockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks = append(s.stocks, r)
	return nil
}

func (s *MemoryStore) RemoveStock(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.stocks {
		if r.ID == id {
			s.stocks = append(s.stocks[:i], s.stocks[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

func (s *MemoryStore) ListStocks() ([]models.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StockRecord, len(s.stocks))
	copy(out, s.stocks)
	return out, nil
}

func (s *MemoryStore) AppendFund(r models.FundRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funds = append(s.funds, r)
	return nil
}

func (s *MemoryStore) RemoveFund(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.funds {
		if r.ID == id {
			s.funds = append(s.funds[:i], s.funds[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

func (s *MemoryStore) ListFunds() ([]models.FundRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.FundRecord, len(s.funds))
	copy(out, s.funds)
	return out, nil
}

func (s *MemoryStore) AppendCrypto(r models.CryptoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cryptos = append(s.cryptos, r)
	return nil
}

func (s *MemoryStore) RemoveCrypto(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.cryptos {
		if r.ID == id {
			s.cryptos = append(s.cryptos[:i], s.cryptos[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

func (s *MemoryStore) ListCryptos() ([]models.CryptoRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CryptoRecord, len(s.cryptos))
	copy(out, s.cryptos)
	return out, nil
}

func (s *MemoryStore) AppendProperty(r models.PropertyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = append(s.properties, r)
	return nil
}

func (s *MemoryStore) RemoveProperty(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.properties {
		if r.ID == id {
			s.properties = append(s.properties[:i], s.properties[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

func (s *MemoryStore) ListProperties() ([]models.PropertyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PropertyRecord, len(s.properties))
	copy(out, s.properties)
	return out, nil
}

func (s *MemoryStore) AppendPayment(r models.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, r)
	return nil
}

func (s *MemoryStore) RemovePayment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.payments {
		if r.ID == id {
			s.payments = append(s.payments[:i], s.payments[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

func (s *MemoryStore) ListPayments() ([]models.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PaymentRecord, len(s.payments))
	copy(out, s.payments)
	return out, nil
}

func (s *MemoryStore) All() (models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := models.Snapshot{
		Stocks:     make([]models.StockRecord, len(s.stocks)),
		Funds:      make([]models.FundRecord, len(s.funds)),
		Cryptos:    make([]models.CryptoRecord, len(s.cryptos)),
		Properties: make([]models.PropertyRecord, len(s.properties)),
		Payments:   make([]models.PaymentRecord, len(s.payments)),
	}
	copy(snapshot.Stocks, s.stocks)
	copy(snapshot.Funds, s.funds)
	copy(snapshot.Cryptos, s.cryptos)
	copy(snapshot.Properties, s.properties)
	copy(snapshot.Payments, s.payments)
	return snapshot, nil
}

func (s *MemoryStore) ReplaceAll(snapshot models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks = append([]models.StockRecord(nil), snapshot.Stocks...)
	s.funds = append([]models.FundRecord(nil), snapshot.Funds...)
	s.cryptos = append([]models.CryptoRecord(nil), snapshot.Cryptos...)
	s.properties = append([]models.PropertyRecord(nil), snapshot.Properties...)
	s.payments = append([]models.PaymentRecord(nil), snapshot.Payments...)
	return nil
}
