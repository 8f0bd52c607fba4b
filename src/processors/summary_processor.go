package processors

import (
	"github.com/username/investrack/backend/src/models"
	"github.com/username/investrack/backend/src/utils"
)

// SummaryProcessor computes the per-class invested totals for the overview
// page. Like the holdings processor it is a stateless pass over the logs.
type SummaryProcessor struct{}

func NewSummaryProcessor() *SummaryProcessor { return &SummaryProcessor{} }

// Process sums each asset class. Stock totals sum the signed transaction
// totals per market; the counts are transaction counts per market and
// asset type. Property exposure is the accumulated paid principal.
func (p *SummaryProcessor) Process(snapshot models.Snapshot) models.Summary {
	var s models.Summary

	for _, r := range snapshot.Stocks {
		switch r.Market {
		case models.MarketTW:
			s.TWStockTotal += r.Total
			if r.AssetType == "ETF" {
				s.TWETFCount++
			} else {
				s.TWStockCount++
			}
		case models.MarketUS:
			s.USStockTotal += r.Total
			if r.AssetType == "ETF" {
				s.USETFCount++
			} else {
				s.USStockCount++
			}
		}
	}

	for _, r := range snapshot.Funds {
		s.FundTotal += r.Amount
	}
	for _, r := range snapshot.Cryptos {
		s.CryptoTotal += r.Total
	}
	for _, r := range snapshot.Payments {
		s.PropertyPaidPrincipal += r.Principal
	}

	s.TWStockTotal = utils.RoundFloat(s.TWStockTotal, 2)
	s.USStockTotal = utils.RoundFloat(s.USStockTotal, 2)
	s.FundTotal = utils.RoundFloat(s.FundTotal, 2)
	s.CryptoTotal = utils.RoundFloat(s.CryptoTotal, 2)
	s.PropertyPaidPrincipal = utils.RoundFloat(s.PropertyPaidPrincipal, 2)
	return s
}
