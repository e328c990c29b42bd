package insight

import (
	"strings"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/transaction"
)

// transportationInsights covers heavy rideshare use and repeated
// parking fees.
func (e *Engine) transportationInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds

	var transport []*transaction.Transaction
	for _, t := range s.Transactions {
		category := NormalizeCategory(t.CategoryPrimary)
		if category == "TRANSPORTATION" || category == "TRAVEL" || MatchesKeywords(t.Name, e.rules.TransportKeywords) {
			transport = append(transport, t)
		}
	}
	if len(transport) == 0 {
		return nil
	}

	var out []Candidate
	total := positiveSum(transport)

	rideshare := decimal.Zero
	for _, t := range transport {
		if IsSpending(t) && MatchesKeywords(t.Name, e.rules.RideshareKeywords) {
			rideshare = rideshare.Add(t.Amount)
		}
	}
	if rideshare.GreaterThan(dec(th.RideshareFloor)) {
		out = append(out, Candidate{
			Family:      FamilyTransportationMix,
			Title:       "High Rideshare Spending",
			Description: "You spent heavily on rideshares, a transit pass or carpooling might reduce costs.",
			Priority:    PriorityMedium,
			Evidence: map[string]any{
				"rideshare_spending":   evidenceAmount(rideshare),
				"total_transportation": evidenceAmount(total),
			},
			Context: "Last 90 days of transportation transactions.",
		})
	}

	var parking []*transaction.Transaction
	for _, t := range transport {
		if strings.Contains(strings.ToLower(t.Name), "parking") {
			parking = append(parking, t)
		}
	}
	if len(parking) >= th.ParkingCount {
		out = append(out, Candidate{
			Family:      FamilyTransportationMix,
			Title:       "Parking Fees Adding Up",
			Description: "Frequent parking fees suggest a monthly parking pass could save money.",
			Priority:    PriorityLow,
			Evidence: map[string]any{
				"transactions": len(parking),
				"total_spent":  evidenceAmount(positiveSum(parking)),
			},
			Context: "Parking transactions during the last 90 days.",
		})
	}

	return out
}
