package insight

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/transaction"
)

// sustainabilityInsights covers local-business share, local shop
// loyalty, the thrift/secondhand trend, air travel footprint, and the
// month-over-month local-support shift.
func (e *Engine) sustainabilityInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	var out []Candidate

	totalSpending := positiveSum(s.Transactions)
	var local []*transaction.Transaction
	for _, t := range s.Transactions {
		if e.rules.IsLocal(t) {
			local = append(local, t)
		}
	}
	localSpending := decimal.Zero
	for _, t := range local {
		localSpending = localSpending.Add(t.Amount)
	}

	if localSpending.IsPositive() {
		hundred := decimal.NewFromInt(100)
		localPct := decimal.Zero
		if totalSpending.IsPositive() {
			localPct = localSpending.Div(totalSpending).Mul(hundred)
		}
		out = append(out, Candidate{
			Family: FamilyLocalSupport,
			Title:  "Local Business Support",
			Description: fmt.Sprintf(
				"%s%% of spending went to local businesses. Great job supporting your community!",
				localPct.Round(0),
			),
			Priority: PriorityLow,
			Evidence: map[string]any{
				"local_spending":   evidenceAmount(localSpending),
				"total_spending":   evidenceAmount(totalSpending),
				"local_percentage": evidenceAmount(localPct.Round(1)),
			},
			Context: "Local vs total spending over the last 90 days.",
		})
	}

	// Repeat visits to local merchants.
	visits := make(map[string]int)
	var visitOrder []string
	for _, t := range local {
		merchant := MerchantLabel(t)
		if merchant == "" {
			continue
		}
		if _, ok := visits[merchant]; !ok {
			visitOrder = append(visitOrder, merchant)
		}
		visits[merchant]++
	}
	var repeatMerchants []string
	repeatVisits := 0
	for _, merchant := range visitOrder {
		if visits[merchant] >= th.LocalLoyaltyVisits {
			repeatMerchants = append(repeatMerchants, merchant)
			repeatVisits += visits[merchant]
		}
	}
	if len(repeatMerchants) >= th.LocalLoyaltyMerchants {
		samples := repeatMerchants
		if len(samples) > 5 {
			samples = samples[:5]
		}
		out = append(out, Candidate{
			Family: FamilyLocalShopLoyalty,
			Title:  "Local Shop Loyalty",
			Description: fmt.Sprintf(
				"You visited %d local spots %d+ times (%d visits total), strong hometown support.",
				len(repeatMerchants), th.LocalLoyaltyVisits, repeatVisits,
			),
			Priority: PriorityLow,
			Evidence: map[string]any{
				"merchant_count": len(repeatMerchants),
				"repeat_visits":  repeatVisits,
				"merchants":      samples,
			},
			Context: "Repeat visits counted over the last 90 days.",
		})
	}

	// Thrift and secondhand purchases.
	lowWasteStart := s.Now.AddDate(0, 0, -th.LowWasteWindowDays)
	var lowWaste []*transaction.Transaction
	for _, t := range s.Transactions {
		if !IsSpending(t) || t.Date.Before(lowWasteStart) {
			continue
		}
		category := NormalizeCategory(t.CategoryPrimary)
		label := strings.ToLower(MerchantLabel(t))
		if containsString(e.rules.LowWasteCategories, category) || MatchesKeywords(label, e.rules.LowWasteKeywords) {
			lowWaste = append(lowWaste, t)
		}
	}
	if len(lowWaste) >= th.LowWasteMinCount {
		total := decimal.Zero
		for _, t := range lowWaste {
			total = total.Add(t.Amount)
		}
		out = append(out, Candidate{
			Family: FamilyLowWasteTrend,
			Title:  "Low-Waste Purchase Trend",
			Description: fmt.Sprintf(
				"You made %d thrift or secondhand purchases, supporting circular consumption.",
				len(lowWaste),
			),
			Priority: PriorityMedium,
			Evidence: map[string]any{
				"transaction_count": len(lowWaste),
				"total_spent":       evidenceAmount(total),
			},
			Context: "Based on purchases tagged as thrift/secondhand in the last 90 days.",
		})
	}

	// Airline purchases as a carbon signal.
	airlineStart := s.Now.AddDate(0, 0, -th.AirlineWindowDays)
	airlineCategories := []string{"AIRLINES", "AIR_TRAVEL", "TRAVEL"}
	var airline []*transaction.Transaction
	for _, t := range s.Transactions {
		if !IsSpending(t) || t.Date.Before(airlineStart) {
			continue
		}
		category := NormalizeCategory(t.CategoryPrimary)
		label := strings.ToLower(MerchantLabel(t))
		if containsString(airlineCategories, category) || MatchesKeywords(label, e.rules.AirlineKeywords) {
			airline = append(airline, t)
		}
	}
	if len(airline) >= th.AirlineMinCount {
		total := decimal.Zero
		for _, t := range airline {
			total = total.Add(t.Amount)
		}
		out = append(out, Candidate{
			Family: FamilyAirTravelFootprint,
			Title:  "Air Travel Footprint",
			Description: fmt.Sprintf(
				"You had %d airline purchases this quarter. Air travel is a major carbon driver.",
				len(airline),
			),
			Priority: PriorityMedium,
			Evidence: map[string]any{
				"transaction_count": len(airline),
				"total_spent":       evidenceAmount(total),
			},
			Context: "Airline-tagged spend over the last 90 days.",
		})
	}

	// Month-over-month local-support share shift.
	currentMonthStart := monthStart(s.Now)
	previousMonthStart := monthStart(currentMonthStart.AddDate(0, 0, -1))
	currentLocal := decimal.Zero
	previousLocal := decimal.Zero
	for _, t := range local {
		switch {
		case !t.Date.Before(currentMonthStart):
			currentLocal = currentLocal.Add(t.Amount)
		case !t.Date.Before(previousMonthStart):
			previousLocal = previousLocal.Add(t.Amount)
		}
	}
	currentTotal := decimal.Zero
	previousTotal := decimal.Zero
	for _, t := range s.Transactions {
		if !IsSpending(t) {
			continue
		}
		switch {
		case !t.Date.Before(currentMonthStart):
			currentTotal = currentTotal.Add(t.Amount)
		case !t.Date.Before(previousMonthStart):
			previousTotal = previousTotal.Add(t.Amount)
		}
	}
	if currentTotal.IsPositive() && previousTotal.IsPositive() {
		hundred := decimal.NewFromInt(100)
		currentShare := currentLocal.Div(currentTotal)
		previousShare := previousLocal.Div(previousTotal)
		if currentShare.Sub(previousShare).GreaterThanOrEqual(dec(th.SeasonalShareDelta)) {
			out = append(out, Candidate{
				Family: FamilySeasonalLocalSupport,
				Title:  "Local Support Trend",
				Description: fmt.Sprintf(
					"Local-business spending rose from %s%% to %s%% this month, a strong seasonal boost.",
					previousShare.Mul(hundred).Round(0), currentShare.Mul(hundred).Round(0),
				),
				Priority: PriorityLow,
				Evidence: map[string]any{
					"current_share":  evidenceAmount(currentShare.Mul(hundred).Round(1)),
					"previous_share": evidenceAmount(previousShare.Mul(hundred).Round(1)),
				},
				Context: "Comparing current vs previous month.",
			})
		}
	}

	return out
}
