package processors

import (
	"github.com/username/investrack/backend/src/models"
)

// HoldingsProcessor derives the current set of open holdings from a
// transaction log. It is stateless: every call re-runs one accumulation
// pass over the full log, so there is no incremental state to go stale
// when records are appended or deleted.
type HoldingsProcessor struct{}

func NewHoldingsProcessor() *HoldingsProcessor { return &HoldingsProcessor{} }

// Process aggregates transactions of one asset class into open holdings.
//
// Grouping is by InstrumentKey and the result preserves first-seen order.
// The accumulation is order-independent: BUY adds quantity and total, SELL
// subtracts them, and fee+tax always accumulate into TotalFees regardless
// of action. Average cost is blended across all time — there is no
// FIFO/LIFO lot matching. Instruments whose remaining quantity is not
// positive (fully closed or over-sold) are dropped from the result.
//
// Precondition: all numeric fields are finite. Non-finite values propagate
// through the arithmetic; they are a caller validation failure, not a
// condition this processor detects. The input slice is never mutated.
func (p *HoldingsProcessor) Process(txs []models.Transaction) []models.Holding {
	index := make(map[string]int, len(txs))
	holdings := make([]models.Holding, 0, len(txs))

	for _, tx := range txs {
		i, ok := index[tx.InstrumentKey]
		if !ok {
			i = len(holdings)
			index[tx.InstrumentKey] = i
			holdings = append(holdings, models.Holding{
				InstrumentKey: tx.InstrumentKey,
				Name:          tx.Name,
			})
		}

		h := &holdings[i]
		switch tx.Action {
		case models.ActionBuy:
			h.TotalQuantity += tx.Quantity
			h.TotalCost += tx.Total
		case models.ActionSell:
			h.TotalQuantity -= tx.Quantity
			h.TotalCost -= tx.Total
		}
		h.TotalFees += tx.Fee + tx.Tax
	}

	open := make([]models.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.TotalQuantity > 0 {
			h.AverageCost = (h.TotalCost - h.TotalFees) / h.TotalQuantity
			open = append(open, h)
		}
	}
	return open
}

// ProfitLoss computes the unrealized profit/loss of one holding at the
// supplied current price. Assumes holding.TotalQuantity > 0, which Process
// already guarantees for its output. When the cost basis is zero or
// negative the return percentage is 0, never NaN or Inf.
func (p *HoldingsProcessor) ProfitLoss(holding models.Holding, currentPrice float64) models.ProfitLossResult {
	marketValue := holding.TotalQuantity * currentPrice
	costBasis := holding.TotalCost - holding.TotalFees
	profitLoss := marketValue - costBasis

	returnPercent := 0.0
	if costBasis > 0 {
		returnPercent = (profitLoss / costBasis) * 100
	}

	return models.ProfitLossResult{
		MarketValue:   marketValue,
		CostBasis:     costBasis,
		ProfitLoss:    profitLoss,
		ReturnPercent: returnPercent,
		IsProfit:      profitLoss >= 0,
	}
}
