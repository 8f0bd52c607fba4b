package processors

import (
	"math"
	"testing"

	"github.com/username/investrack/backend/src/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func buy(key string, qty, price, fee float64) models.Transaction {
	return models.Transaction{
		InstrumentKey: key,
		Action:        models.ActionBuy,
		Quantity:      qty,
		UnitPrice:     price,
		Fee:           fee,
		Total:         qty*price + fee,
	}
}

func sell(key string, qty, price, fee, tax float64) models.Transaction {
	return models.Transaction{
		InstrumentKey: key,
		Action:        models.ActionSell,
		Quantity:      qty,
		UnitPrice:     price,
		Fee:           fee,
		Tax:           tax,
		Total:         qty*price - fee - tax,
	}
}

func TestProcessSingleBuy(t *testing.T) {
	p := NewHoldingsProcessor()

	holdings := p.Process([]models.Transaction{buy("TW|2330", 100, 10.0, 15)})
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}

	h := holdings[0]
	if h.TotalQuantity != 100 {
		t.Errorf("TotalQuantity: want 100, got %f", h.TotalQuantity)
	}
	if h.TotalCost != 1015 {
		t.Errorf("TotalCost: want 1015, got %f", h.TotalCost)
	}
	if h.TotalFees != 15 {
		t.Errorf("TotalFees: want 15, got %f", h.TotalFees)
	}
	if !almostEqual(h.AverageCost, 10.0) {
		t.Errorf("AverageCost: want 10.0, got %f", h.AverageCost)
	}
}

func TestProcessBuyThenPartialSell(t *testing.T) {
	p := NewHoldingsProcessor()

	txs := []models.Transaction{
		buy("TW|2330", 100, 10.0, 15),
		sell("TW|2330", 40, 12.0, 5, 3), // total = 40*12 - 5 - 3 = 472
	}
	holdings := p.Process(txs)
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}

	h := holdings[0]
	if h.TotalQuantity != 60 {
		t.Errorf("TotalQuantity: want 60, got %f", h.TotalQuantity)
	}
	if h.TotalCost != 543 {
		t.Errorf("TotalCost: want 1015-472=543, got %f", h.TotalCost)
	}
	if h.TotalFees != 23 {
		t.Errorf("TotalFees: want 15+5+3=23, got %f", h.TotalFees)
	}
	if !almostEqual(h.AverageCost, 520.0/60.0) {
		t.Errorf("AverageCost: want %f, got %f", 520.0/60.0, h.AverageCost)
	}
}

func TestProcessEmptyLog(t *testing.T) {
	p := NewHoldingsProcessor()
	if holdings := p.Process([]models.Transaction{}); len(holdings) != 0 {
		t.Fatalf("expected no holdings for empty log, got %d", len(holdings))
	}
	if holdings := p.Process(nil); len(holdings) != 0 {
		t.Fatalf("expected no holdings for nil log, got %d", len(holdings))
	}
}

func TestProcessFiltersClosedAndOverSoldPositions(t *testing.T) {
	p := NewHoldingsProcessor()

	txs := []models.Transaction{
		buy("US|AAPL", 10, 150, 1),
		sell("US|AAPL", 10, 160, 1, 0), // fully closed
		buy("US|TSLA", 5, 200, 1),
		sell("US|TSLA", 8, 210, 1, 0), // over-sold, negative remainder
		buy("US|NVDA", 3, 400, 1),     // still open
	}
	holdings := p.Process(txs)
	if len(holdings) != 1 {
		t.Fatalf("expected only the open holding, got %d", len(holdings))
	}
	if holdings[0].InstrumentKey != "US|NVDA" {
		t.Errorf("expected US|NVDA to survive, got %s", holdings[0].InstrumentKey)
	}
}

func TestProcessInterleavedInstruments(t *testing.T) {
	p := NewHoldingsProcessor()

	txs := []models.Transaction{
		buy("US|AAPL", 10, 100, 0),
		buy("US|TSLA", 4, 250, 0),
		sell("US|AAPL", 5, 110, 0, 0),
		buy("US|AAPL", 2, 120, 0),
		sell("US|TSLA", 1, 260, 0, 0),
	}
	holdings := p.Process(txs)
	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(holdings))
	}

	// First-seen order is preserved.
	if holdings[0].InstrumentKey != "US|AAPL" || holdings[1].InstrumentKey != "US|TSLA" {
		t.Fatalf("unexpected order: %s, %s", holdings[0].InstrumentKey, holdings[1].InstrumentKey)
	}
	if holdings[0].TotalQuantity != 7 {
		t.Errorf("AAPL quantity: want 10-5+2=7, got %f", holdings[0].TotalQuantity)
	}
	if holdings[1].TotalQuantity != 3 {
		t.Errorf("TSLA quantity: want 4-1=3, got %f", holdings[1].TotalQuantity)
	}
}

func TestProcessOrderIndependence(t *testing.T) {
	p := NewHoldingsProcessor()

	txs := []models.Transaction{
		buy("US|AAPL", 10, 100, 2),
		sell("US|AAPL", 3, 110, 1, 0),
		buy("US|TSLA", 4, 250, 2),
		buy("US|AAPL", 5, 105, 2),
	}
	permuted := []models.Transaction{txs[3], txs[1], txs[2], txs[0]}

	a := p.Process(txs)
	b := p.Process(permuted)
	if len(a) != len(b) {
		t.Fatalf("holding counts differ: %d vs %d", len(a), len(b))
	}

	byKey := make(map[string]models.Holding, len(b))
	for _, h := range b {
		byKey[h.InstrumentKey] = h
	}
	for _, want := range a {
		got, ok := byKey[want.InstrumentKey]
		if !ok {
			t.Fatalf("missing holding for %s in permuted result", want.InstrumentKey)
		}
		if !almostEqual(got.TotalQuantity, want.TotalQuantity) ||
			!almostEqual(got.TotalCost, want.TotalCost) ||
			!almostEqual(got.TotalFees, want.TotalFees) ||
			!almostEqual(got.AverageCost, want.AverageCost) {
			t.Errorf("holding %s differs across permutations: %+v vs %+v", want.InstrumentKey, want, got)
		}
	}
}

func TestProcessIsPureAndIdempotent(t *testing.T) {
	p := NewHoldingsProcessor()

	txs := []models.Transaction{
		buy("US|AAPL", 10, 100, 2),
		sell("US|AAPL", 3, 110, 1, 0),
	}
	snapshot := make([]models.Transaction, len(txs))
	copy(snapshot, txs)

	first := p.Process(txs)
	second := p.Process(txs)

	for i := range txs {
		if txs[i] != snapshot[i] {
			t.Fatalf("input mutated at index %d: %+v vs %+v", i, txs[i], snapshot[i])
		}
	}
	if len(first) != len(second) {
		t.Fatalf("repeated calls disagree: %d vs %d holdings", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("repeated calls disagree at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestProcessQuantityConservation(t *testing.T) {
	p := NewHoldingsProcessor()

	var txs []models.Transaction
	var bought, sold float64
	for i := 0; i < 50; i++ {
		q := float64(i%7 + 1)
		if i%3 == 0 && sold+q < bought {
			txs = append(txs, sell("C|BTC", q, 30000, 1, 0))
			sold += q
		} else {
			txs = append(txs, buy("C|BTC", q, 30000, 1))
			bought += q
		}
	}

	holdings := p.Process(txs)
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}
	if !almostEqual(holdings[0].TotalQuantity, bought-sold) {
		t.Errorf("conservation violated: want %f, got %f", bought-sold, holdings[0].TotalQuantity)
	}
}

func TestProfitLoss(t *testing.T) {
	p := NewHoldingsProcessor()

	// Holding from the buy-100/sell-40 scenario.
	h := models.Holding{
		InstrumentKey: "TW|2330",
		TotalQuantity: 60,
		TotalCost:     543,
		TotalFees:     23,
		AverageCost:   520.0 / 60.0,
	}
	pl := p.ProfitLoss(h, 11.0)

	if !almostEqual(pl.MarketValue, 660) {
		t.Errorf("MarketValue: want 660, got %f", pl.MarketValue)
	}
	if !almostEqual(pl.CostBasis, 520) {
		t.Errorf("CostBasis: want 520, got %f", pl.CostBasis)
	}
	if !almostEqual(pl.ProfitLoss, 140) {
		t.Errorf("ProfitLoss: want 140, got %f", pl.ProfitLoss)
	}
	if !almostEqual(pl.ReturnPercent, 140.0/520.0*100) {
		t.Errorf("ReturnPercent: want %f, got %f", 140.0/520.0*100, pl.ReturnPercent)
	}
	if !pl.IsProfit {
		t.Errorf("expected IsProfit for positive delta")
	}
}

func TestProfitLossZeroCostBasisGuard(t *testing.T) {
	p := NewHoldingsProcessor()

	cases := []struct {
		name    string
		holding models.Holding
	}{
		{"zero basis", models.Holding{TotalQuantity: 10, TotalCost: 5, TotalFees: 5}},
		{"negative basis", models.Holding{TotalQuantity: 10, TotalCost: 3, TotalFees: 8}},
	}
	for _, c := range cases {
		pl := p.ProfitLoss(c.holding, 42.0)
		if pl.ReturnPercent != 0 {
			t.Errorf("%s: ReturnPercent must be 0, got %f", c.name, pl.ReturnPercent)
		}
		if math.IsNaN(pl.ReturnPercent) || math.IsInf(pl.ReturnPercent, 0) {
			t.Errorf("%s: ReturnPercent must be finite", c.name)
		}
	}
}
