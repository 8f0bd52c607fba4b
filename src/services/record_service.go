package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/username/investrack/backend/src/logger"
	"github.com/username/investrack/backend/src/models"
	"github.com/username/investrack/backend/src/processors"
	"github.com/username/investrack/backend/src/security/validation"
	"github.com/username/investrack/backend/src/store"
)

type recordServiceImpl struct {
	store    store.RecordStore
	holdings *processors.HoldingsProcessor
	summary  *processors.SummaryProcessor

	// mu serializes mutations and id assignment. Reads recompute from the
	// store and need no lock of their own.
	mu     sync.Mutex
	lastID int64
}

func NewRecordService(recordStore store.RecordStore) RecordService {
	return &recordServiceImpl{
		store:    recordStore,
		holdings: processors.NewHoldingsProcessor(),
		summary:  processors.NewSummaryProcessor(),
	}
}

// nextID returns a creation-time millisecond timestamp, bumped past the
// previous id when two records land in the same millisecond. Ids stay
// unique and monotonically informative for tie-breaking.
func (s *recordServiceImpl) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *recordServiceImpl) AddStockRecord(input StockRecordInput) (models.StockRecord, error) {
	market := strings.ToUpper(strings.TrimSpace(input.Market))
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	name := validation.SanitizeName(input.Name)
	assetType := strings.ToUpper(strings.TrimSpace(input.AssetType))

	if err := validation.ValidateMarket(market); err != nil {
		return models.StockRecord{}, err
	}
	if err := validation.ValidateAction(input.Type); err != nil {
		return models.StockRecord{}, err
	}
	if err := validation.ValidateStockCode(code); err != nil {
		return models.StockRecord{}, err
	}
	if err := validation.ValidateStringNotEmpty(name, "name"); err != nil {
		return models.StockRecord{}, err
	}
	if err := validation.ValidateStringMaxLength(name, validation.MaxNameLength, "name"); err != nil {
		return models.StockRecord{}, err
	}
	if assetType != "STOCK" && assetType != "ETF" {
		return models.StockRecord{}, fmt.Errorf("%w: asset_type ('%s') must be STOCK or ETF", validation.ErrValidationFailed, input.AssetType)
	}
	if _, err := validation.ValidateDateString(input.Date, "date"); err != nil {
		return models.StockRecord{}, err
	}
	if err := validation.ValidatePositiveNumber(input.Shares, "shares"); err != nil {
		return models.StockRecord{}, err
	}
	if market == models.MarketTW {
		// TW stocks trade whole shares only; US supports fractional shares.
		if err := validation.ValidateWholeNumber(input.Shares, "shares"); err != nil {
			return models.StockRecord{}, err
		}
	}
	if err := validation.ValidatePositiveNumber(input.Price, "price"); err != nil {
		return models.StockRecord{}, err
	}
	if err := validation.ValidateNonNegativeNumber(input.Fee, "fee"); err != nil {
		return models.StockRecord{}, err
	}
	if err := validation.ValidateNonNegativeNumber(input.Tax, "tax"); err != nil {
		return models.StockRecord{}, err
	}

	// Transaction tax applies to TW sells only.
	tax := 0.0
	if input.Type == models.ActionSell && market == models.MarketTW {
		tax = input.Tax
	}

	var total float64
	if input.Type == models.ActionBuy {
		total = input.Shares*input.Price + input.Fee
	} else {
		total = input.Shares*input.Price - input.Fee - tax
	}

	record := models.StockRecord{
		Market:    market,
		AssetType: assetType,
		Code:      code,
		Name:      name,
		Type:      input.Type,
		Date:      strings.TrimSpace(input.Date),
		Shares:    input.Shares,
		Price:     input.Price,
		Fee:       input.Fee,
		Tax:       tax,
		Total:     total,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Type == models.ActionSell {
		if err := s.checkSellQuantityLocked(AssetClassStocks, record.InstrumentKey(), input.Shares); err != nil {
			return models.StockRecord{}, err
		}
	}

	record.ID = s.nextID()
	if err := s.store.AppendStock(record); err != nil {
		return models.StockRecord{}, err
	}
	logger.L.Info("Stock record added", "id", record.ID, "instrument", record.InstrumentKey(), "type", record.Type)
	return record, nil
}

func (s *recordServiceImpl) AddFundRecord(input FundRecordInput) (models.FundRecord, error) {
	name := validation.SanitizeName(input.Name)

	if err := validation.ValidateStringNotEmpty(name, "name"); err != nil {
		return models.FundRecord{}, err
	}
	if err := validation.ValidateStringMaxLength(name, validation.MaxNameLength, "name"); err != nil {
		return models.FundRecord{}, err
	}
	if err := validation.ValidateAction(input.Type); err != nil {
		return models.FundRecord{}, err
	}
	if _, err := validation.ValidateDateString(input.Date, "date"); err != nil {
		return models.FundRecord{}, err
	}
	if err := validation.ValidatePositiveNumber(input.Amount, "amount"); err != nil {
		return models.FundRecord{}, err
	}
	if err := validation.ValidatePositiveNumber(input.NAV, "nav"); err != nil {
		return models.FundRecord{}, err
	}
	if err := validation.ValidatePositiveNumber(input.Units, "units"); err != nil {
		return models.FundRecord{}, err
	}
	if err := validation.ValidateNonNegativeNumber(input.Fee, "fee"); err != nil {
		return models.FundRecord{}, err
	}

	record := models.FundRecord{
		Name:   name,
		Type:   input.Type,
		Date:   strings.TrimSpace(input.Date),
		Amount: input.Amount,
		NAV:    input.NAV,
		Units:  input.Units,
		Fee:    input.Fee,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Type == models.ActionSell {
		if err := s.checkSellQuantityLocked(AssetClassFunds, record.InstrumentKey(), input.Units); err != nil {
			return models.FundRecord{}, err
		}
	}

	record.ID = s.nextID()
	if err := s.store.AppendFund(record); err != nil {
		return models.FundRecord{}, err
	}
	logger.L.Info("Fund record added", "id", record.ID, "name", record.Name, "type", record.Type)
	return record, nil
}

func (s *recordServiceImpl) AddCryptoRecord(input CryptoRecordInput) (models.CryptoRecord, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))

	if err := validation.ValidateCryptoSymbol(symbol); err != nil {
		return models.CryptoRecord{}, err
	}
	if err := validation.ValidateAction(input.Type); err != nil {
		return models.CryptoRecord{}, err
	}
	if _, err := validation.ValidateDateString(input.Date, "date"); err != nil {
		return models.CryptoRecord{}, err
	}
	if err := validation.ValidatePositiveNumber(input.Amount, "amount"); err != nil {
		return models.CryptoRecord{}, err
	}
	if err := validation.ValidatePositiveNumber(input.Price, "price"); err != nil {
		return models.CryptoRecord{}, err
	}
	if err := validation.ValidateNonNegativeNumber(input.Fee, "fee"); err != nil {
		return models.CryptoRecord{}, err
	}

	var total float64
	if input.Type == models.ActionBuy {
		total = input.Amount*input.Price + input.Fee
	} else {
		total = input.Amount*input.Price - input.Fee
	}

	record := models.CryptoRecord{
		Symbol: symbol,
		Type:   input.Type,
		Date:   strings.TrimSpace(input.Date),
		Amount: input.Amount,
		Price:  input.Price,
		Fee:    input.Fee,
		Total:  total,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Type == models.ActionSell {
		if err := s.checkSellQuantityLocked(AssetClassCryptos, record.InstrumentKey(), input.Amount); err != nil {
			return models.CryptoRecord{}, err
		}
	}

	record.ID = s.nextID()
	if err := s.store.AppendCrypto(record); err != nil {
		return models.CryptoRecord{}, err
	}
	logger.L.Info("Crypto record added", "id", record.ID, "symbol", record.Symbol, "type", record.Type)
	return record, nil
}

func (s *recordServiceImpl) AddPropertyRecord(input PropertyRecordInput) (models.PropertyRecord, error) {
	name := validation.SanitizeName(input.Name)
	description := validation.SanitizeName(input.Description)

	if err := validation.ValidateStringNotEmpty(name, "name"); err != nil {
		return models.PropertyRecord{}, err
	}
	if err := validation.ValidateStringMaxLength(name, validation.MaxNameLength, "name"); err != nil {
		return models.PropertyRecord{}, err
	}
	if err := validation.ValidateStringNotEmpty(input.Type, "type"); err != nil {
		return models.PropertyRecord{}, err
	}
	if _, err := validation.ValidateDateString(input.Date, "date"); err != nil {
		return models.PropertyRecord{}, err
	}
	if err := validation.ValidatePositiveNumber(input.Amount, "amount"); err != nil {
		return models.PropertyRecord{}, err
	}
	if err := validation.ValidateStringMaxLength(description, validation.MaxDescriptionLength, "description"); err != nil {
		return models.PropertyRecord{}, err
	}

	record := models.PropertyRecord{
		Name:        name,
		Type:        strings.TrimSpace(input.Type),
		Date:        strings.TrimSpace(input.Date),
		Amount:      input.Amount,
		Description: description,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = s.nextID()
	if err := s.store.AppendProperty(record); err != nil {
		return models.PropertyRecord{}, err
	}
	logger.L.Info("Property record added", "id", record.ID, "name", record.Name)
	return record, nil
}

func (s *recordServiceImpl) AddPaymentRecord(input PaymentRecordInput) (models.PaymentRecord, error) {
	if _, err := validation.ValidateDateString(input.Date, "date"); err != nil {
		return models.PaymentRecord{}, err
	}
	if err := validation.ValidatePositiveNumber(input.Amount, "amount"); err != nil {
		return models.PaymentRecord{}, err
	}
	if err := validation.ValidateNonNegativeNumber(input.Principal, "principal"); err != nil {
		return models.PaymentRecord{}, err
	}
	if err := validation.ValidateNonNegativeNumber(input.Interest, "interest"); err != nil {
		return models.PaymentRecord{}, err
	}

	// A payment must reference an existing property.
	properties, err := s.store.ListProperties()
	if err != nil {
		return models.PaymentRecord{}, err
	}
	found := false
	for _, p := range properties {
		if p.ID == input.PropertyID {
			found = true
			break
		}
	}
	if !found {
		return models.PaymentRecord{}, fmt.Errorf("%w: property %d", store.ErrRecordNotFound, input.PropertyID)
	}

	record := models.PaymentRecord{
		PropertyID: input.PropertyID,
		Date:       strings.TrimSpace(input.Date),
		Amount:     input.Amount,
		Principal:  input.Principal,
		Interest:   input.Interest,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = s.nextID()
	if err := s.store.AppendPayment(record); err != nil {
		return models.PaymentRecord{}, err
	}
	logger.L.Info("Payment record added", "id", record.ID, "propertyID", record.PropertyID)
	return record, nil
}

func (s *recordServiceImpl) DeleteStockRecord(id int64) error    { return s.store.RemoveStock(id) }
func (s *recordServiceImpl) DeleteFundRecord(id int64) error     { return s.store.RemoveFund(id) }
func (s *recordServiceImpl) DeleteCryptoRecord(id int64) error   { return s.store.RemoveCrypto(id) }
func (s *recordServiceImpl) DeletePropertyRecord(id int64) error { return s.store.RemoveProperty(id) }
func (s *recordServiceImpl) DeletePaymentRecord(id int64) error  { return s.store.RemovePayment(id) }

func (s *recordServiceImpl) GetAllRecords() (models.Snapshot, error) {
	return s.store.All()
}

// GetHoldings recomputes the open holdings for one asset class from the
// full transaction log. Nothing is cached or updated incrementally.
func (s *recordServiceImpl) GetHoldings(assetClass string) ([]models.Holding, error) {
	txs, err := s.canonicalLog(assetClass)
	if err != nil {
		return nil, err
	}
	return s.holdings.Process(txs), nil
}

func (s *recordServiceImpl) GetProfitLoss(assetClass, instrumentKey string, currentPrice float64) (models.ProfitLossResult, error) {
	if err := validation.ValidatePositiveNumber(currentPrice, "price"); err != nil {
		return models.ProfitLossResult{}, err
	}
	holdings, err := s.GetHoldings(assetClass)
	if err != nil {
		return models.ProfitLossResult{}, err
	}
	for _, h := range holdings {
		if h.InstrumentKey == instrumentKey {
			return s.holdings.ProfitLoss(h, currentPrice), nil
		}
	}
	return models.ProfitLossResult{}, fmt.Errorf("%w: %s", ErrHoldingNotFound, instrumentKey)
}

func (s *recordServiceImpl) GetSummary() (models.Summary, error) {
	snapshot, err := s.store.All()
	if err != nil {
		return models.Summary{}, err
	}
	return s.summary.Process(snapshot), nil
}

// ImportSnapshot replaces every log with the given snapshot. Records are
// checked for structural validity; totals are trusted as exported.
func (s *recordServiceImpl) ImportSnapshot(snapshot models.Snapshot) error {
	for _, r := range snapshot.Stocks {
		if err := validation.ValidateMarket(r.Market); err != nil {
			return fmt.Errorf("stock record %d: %w", r.ID, err)
		}
		if err := validation.ValidateAction(r.Type); err != nil {
			return fmt.Errorf("stock record %d: %w", r.ID, err)
		}
		if err := validation.ValidatePositiveNumber(r.Shares, "shares"); err != nil {
			return fmt.Errorf("stock record %d: %w", r.ID, err)
		}
		if err := validation.ValidatePositiveNumber(r.Price, "price"); err != nil {
			return fmt.Errorf("stock record %d: %w", r.ID, err)
		}
	}
	for _, r := range snapshot.Funds {
		if err := validation.ValidateAction(r.Type); err != nil {
			return fmt.Errorf("fund record %d: %w", r.ID, err)
		}
		if err := validation.ValidatePositiveNumber(r.Units, "units"); err != nil {
			return fmt.Errorf("fund record %d: %w", r.ID, err)
		}
	}
	for _, r := range snapshot.Cryptos {
		if err := validation.ValidateAction(r.Type); err != nil {
			return fmt.Errorf("crypto record %d: %w", r.ID, err)
		}
		if err := validation.ValidatePositiveNumber(r.Amount, "amount"); err != nil {
			return fmt.Errorf("crypto record %d: %w", r.ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.ReplaceAll(snapshot); err != nil {
		return err
	}
	logger.L.Info("Snapshot imported",
		"stocks", len(snapshot.Stocks), "funds", len(snapshot.Funds),
		"cryptos", len(snapshot.Cryptos), "properties", len(snapshot.Properties),
		"payments", len(snapshot.Payments))
	return nil
}

// checkSellQuantityLocked enforces the over-sell pre-check against a fresh
// holdings computation. Caller holds s.mu so no append can race the check.
func (s *recordServiceImpl) checkSellQuantityLocked(assetClass, instrumentKey string, sellQuantity float64) error {
	txs, err := s.canonicalLog(assetClass)
	if err != nil {
		return err
	}
	for _, h := range s.holdings.Process(txs) {
		if h.InstrumentKey == instrumentKey {
			if sellQuantity > h.TotalQuantity {
				return fmt.Errorf("%w: %s holds %v, sell requested %v", ErrInsufficientQuantity, instrumentKey, h.TotalQuantity, sellQuantity)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s holds 0, sell requested %v", ErrInsufficientQuantity, instrumentKey, sellQuantity)
}

func (s *recordServiceImpl) canonicalLog(assetClass string) ([]models.Transaction, error) {
	switch assetClass {
	case AssetClassStocks:
		records, err := s.store.ListStocks()
		if err != nil {
			return nil, err
		}
		txs := make([]models.Transaction, 0, len(records))
		for _, r := range records {
			txs = append(txs, r.Canonical())
		}
		return txs, nil
	case AssetClassFunds:
		records, err := s.store.ListFunds()
		if err != nil {
			return nil, err
		}
		txs := make([]models.Transaction, 0, len(records))
		for _, r := range records {
			txs = append(txs, r.Canonical())
		}
		return txs, nil
	case AssetClassCryptos:
		records, err := s.store.ListCryptos()
		if err != nil {
			return nil, err
		}
		txs := make([]models.Transaction, 0, len(records))
		for _, r := range records {
			txs = append(txs, r.Canonical())
		}
		return txs, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAssetClass, assetClass)
	}
}
