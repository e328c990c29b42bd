package insight

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/transaction"
)

type restaurantStats struct {
	count     int
	total     decimal.Decimal
	lastVisit time.Time
}

// diningInsights covers the dining-focused families: the month-over-
// recent-weeks spike, delivery versus grocery spend, the coffee habit,
// and the per-restaurant favorite/lapsed/comeback/push flags. Multiple
// flags may fire for the same restaurant.
func (e *Engine) diningInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds

	var dining []*transaction.Transaction
	for _, t := range s.Transactions {
		if containsString(e.rules.DiningCategories, NormalizeCategory(t.CategoryPrimary)) {
			dining = append(dining, t)
		}
	}
	if len(dining) == 0 {
		return nil
	}

	var out []Candidate

	// Current-month dining spend vs the mean of recent full-week buckets.
	currentMonthStart := monthStart(s.Now)
	thisMonth := decimal.Zero
	for _, t := range dining {
		if IsSpending(t) && !t.Date.Before(currentMonthStart) {
			thisMonth = thisMonth.Add(t.Amount)
		}
	}

	lookbackStart := s.Now.AddDate(0, 0, -th.DiningSpikeLookback)
	var buckets []decimal.Decimal
	weekEnd := currentMonthStart
	for len(buckets) < th.DiningSpikeMaxBuckets {
		weekStart := weekEnd.AddDate(0, 0, -7)
		if weekStart.Before(lookbackStart) {
			break
		}
		total := decimal.Zero
		for _, t := range dining {
			if IsSpending(t) && !t.Date.Before(weekStart) && t.Date.Before(weekEnd) {
				total = total.Add(t.Amount)
			}
		}
		if total.IsPositive() {
			buckets = append(buckets, total)
		}
		weekEnd = weekStart
	}
	if len(buckets) > 1 {
		sum := decimal.Zero
		for _, b := range buckets {
			sum = sum.Add(b)
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(buckets))))
		risePct := dec(th.DiningSpikeRisePct)
		threshold := avg.Mul(decimal.NewFromInt(100).Add(risePct)).Div(decimal.NewFromInt(100))
		if avg.IsPositive() && thisMonth.GreaterThan(threshold) {
			pct := thisMonth.Sub(avg).Div(avg).Mul(decimal.NewFromInt(100))
			out = append(out, Candidate{
				Family:      FamilyCategorySpike,
				Title:       "Dining Spending Increase",
				Description: fmt.Sprintf("Dining this month is up %s%% vs your recent weekly average.", pct.Round(0)),
				Priority:    PriorityMedium,
				Evidence: map[string]any{
					"this_month":          evidenceAmount(thisMonth),
					"average":             evidenceAmount(avg),
					"increase_percentage": evidenceAmount(pct),
				},
				Context: "Current month compared to recent weekly dining averages.",
			})
		}
	}

	// Delivery spend vs grocery spend.
	delivery := decimal.Zero
	grocery := decimal.Zero
	for _, t := range s.Transactions {
		if !IsSpending(t) {
			continue
		}
		detailed := NormalizeCategory(t.CategoryDetailed)
		if detailed == "FOOD_DELIVERY" || MatchesKeywords(t.Name, e.rules.DeliveryKeywords) {
			delivery = delivery.Add(t.Amount)
		}
		if containsString(e.rules.GroceryCategories, detailed) {
			grocery = grocery.Add(t.Amount)
		}
	}
	if grocery.IsPositive() && delivery.GreaterThan(grocery.Mul(dec(th.DeliveryGroceryRatio))) {
		ratio := delivery.Div(grocery).Mul(decimal.NewFromInt(100))
		out = append(out, Candidate{
			Family:      FamilyDeliveryVsGrocery,
			Description: "Food delivery outpaces grocery spending, meal planning could lower costs.",
			Priority:    PriorityMedium,
			Evidence: map[string]any{
				"delivery_spending": evidenceAmount(delivery),
				"grocery_spending":  evidenceAmount(grocery),
				"percentage":        evidenceAmount(ratio),
			},
			Context: "Comparison over the last 30 days.",
		})
	}

	// Coffee habit.
	var coffee []*transaction.Transaction
	for _, t := range dining {
		if strings.Contains(strings.ToLower(t.Name), "coffee") || NormalizeCategory(t.CategoryDetailed) == "COFFEE" {
			coffee = append(coffee, t)
		}
	}
	if len(coffee) >= th.CoffeeHabitCount {
		out = append(out, Candidate{
			Family:      FamilyHabitFrequency,
			Title:       "Daily Coffee Habit",
			Description: fmt.Sprintf("%d coffee purchases logged recently, a rewards program could cut costs.", len(coffee)),
			Priority:    PriorityLow,
			Evidence: map[string]any{
				"transactions": len(coffee),
				"total_spent":  evidenceAmount(positiveSum(coffee)),
			},
			Context: "Based on the past 90 days of coffee-related transactions.",
		})
	}

	// Per-restaurant visit stats, keyed by merchant with name fallback.
	stats := make(map[string]*restaurantStats)
	var names []string
	for _, t := range dining {
		name := MerchantLabel(t)
		if name == "" {
			continue
		}
		st, ok := stats[name]
		if !ok {
			st = &restaurantStats{total: decimal.Zero, lastVisit: t.Date}
			stats[name] = st
			names = append(names, name)
		}
		st.count++
		if IsSpending(t) {
			st.total = st.total.Add(t.Amount)
		}
		if t.Date.After(st.lastVisit) {
			st.lastVisit = t.Date
		}
	}

	for _, name := range names {
		st := stats[name]
		quiet := daysSince(s.Now, st.lastVisit)

		if st.count >= th.FavoriteMinVisits && st.total.GreaterThan(dec(th.FavoriteSpendFloor)) {
			out = append(out, Candidate{
				Family:      FamilyFavoriteMerchants,
				Title:       fmt.Sprintf("%s is a Favorite", name),
				Description: fmt.Sprintf("You visited %s %d times recently, check their loyalty perks.", name, st.count),
				Priority:    PriorityLow,
				Evidence: map[string]any{
					"visits":      st.count,
					"total_spent": evidenceAmount(st.total),
				},
				Context: "Calculated from the last 90 days of visits.",
			})
		}

		if st.count >= th.LapsedMinVisits && quiet >= th.LapsedQuietDays {
			out = append(out, Candidate{
				Family:      FamilyLapsedFavorites,
				Title:       fmt.Sprintf("Visit %s Again?", name),
				Description: fmt.Sprintf("It's been %d days since your last visit to %s.", quiet, name),
				Priority:    PriorityLow,
				Evidence: map[string]any{
					"days_since_visit": quiet,
					"total_visits":     st.count,
				},
				Context: "Based on visit history within the last 90 days.",
			})
		}

		if st.count >= 1 && quiet >= th.ComebackQuietDays {
			out = append(out, Candidate{
				Family:      FamilyRestaurantComeback,
				Title:       fmt.Sprintf("Return to %s", name),
				Description: fmt.Sprintf("It's been %d days since you visited %s. Plan a visit?", quiet, name),
				Priority:    PriorityMedium,
				Evidence: map[string]any{
					"days_since_visit": quiet,
					"recent_visits":    st.count,
				},
				Context: "Recent dining history across the last 90 days.",
			})
		}

		if st.count >= th.PushMinVisits && quiet <= th.PushWindowDays {
			out = append(out, Candidate{
				Family:      FamilyFavoriteRestaurantPush,
				Title:       fmt.Sprintf("Make the Most of %s", name),
				Description: fmt.Sprintf("You've visited %s %d times recently. Consider booking again or using loyalty perks.", name, st.count),
				Priority:    PriorityMedium,
				Evidence: map[string]any{
					"recent_visits":   st.count,
					"recent_spend":    evidenceAmount(st.total),
					"days_since_last": quiet,
				},
				Context: "Based on dining frequency and recent spend.",
			})
		}
	}

	return out
}
