package processors

import (
	"testing"

	"github.com/username/investrack/backend/src/models"
)

func TestSummaryProcessor(t *testing.T) {
	p := NewSummaryProcessor()

	snapshot := models.Snapshot{
		Stocks: []models.StockRecord{
			{Market: models.MarketTW, AssetType: "STOCK", Total: 1015},
			{Market: models.MarketTW, AssetType: "ETF", Total: 500.5},
			{Market: models.MarketUS, AssetType: "STOCK", Total: 2000},
			{Market: models.MarketUS, AssetType: "STOCK", Total: -472},
		},
		Funds: []models.FundRecord{
			{Amount: 10000},
			{Amount: 2500},
		},
		Cryptos: []models.CryptoRecord{
			{Total: 1234.56},
		},
		Payments: []models.PaymentRecord{
			{Amount: 30000, Principal: 18000, Interest: 12000},
			{Amount: 30000, Principal: 18200, Interest: 11800},
		},
	}

	s := p.Process(snapshot)

	if s.TWStockTotal != 1515.5 {
		t.Errorf("TWStockTotal: want 1515.5, got %f", s.TWStockTotal)
	}
	if s.TWStockCount != 1 || s.TWETFCount != 1 {
		t.Errorf("TW counts: want 1/1, got %d/%d", s.TWStockCount, s.TWETFCount)
	}
	if s.USStockTotal != 1528 {
		t.Errorf("USStockTotal: want 2000-472=1528, got %f", s.USStockTotal)
	}
	if s.USStockCount != 2 || s.USETFCount != 0 {
		t.Errorf("US counts: want 2/0, got %d/%d", s.USStockCount, s.USETFCount)
	}
	if s.FundTotal != 12500 {
		t.Errorf("FundTotal: want 12500, got %f", s.FundTotal)
	}
	if s.CryptoTotal != 1234.56 {
		t.Errorf("CryptoTotal: want 1234.56, got %f", s.CryptoTotal)
	}
	if s.PropertyPaidPrincipal != 36200 {
		t.Errorf("PropertyPaidPrincipal: want 36200, got %f", s.PropertyPaidPrincipal)
	}
}

func TestSummaryProcessorEmptySnapshot(t *testing.T) {
	p := NewSummaryProcessor()
	s := p.Process(models.Snapshot{})
	if s != (models.Summary{}) {
		t.Fatalf("expected zero summary for empty snapshot, got %+v", s)
	}
}
