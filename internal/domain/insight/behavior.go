package insight

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// behavioralInsights covers weekend-heavy spending and the evening
// concentration signal carried in provider payment metadata.
func (e *Engine) behavioralInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	var out []Candidate

	weekend := decimal.Zero
	weekday := decimal.Zero
	for _, t := range s.Transactions {
		if !IsSpending(t) {
			continue
		}
		switch t.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekend = weekend.Add(t.Amount)
		default:
			weekday = weekday.Add(t.Amount)
		}
	}
	if weekday.IsPositive() && weekend.GreaterThan(weekday.Mul(dec(th.WeekendRatio))) {
		out = append(out, Candidate{
			Family:      FamilyWeekendPattern,
			Title:       "Weekend Spending Pattern",
			Description: "Weekend spending is significantly higher than weekdays, a weekend budget may help.",
			Priority:    PriorityMedium,
			Evidence: map[string]any{
				"weekend_spending": evidenceAmount(weekend),
				"weekday_spending": evidenceAmount(weekday),
			},
			Context: "Weekend vs weekday spending over the last 90 days.",
		})
	}

	// Evening tagging comes from the provider's payment metadata; it is
	// not derived from timestamps here.
	evening := 0
	for _, t := range s.Transactions {
		if IsSpending(t) && strings.Contains(strings.ToLower(t.PaymentMetadata), "evening") {
			evening++
		}
	}
	if len(s.Transactions) > 0 && float64(evening) > float64(len(s.Transactions))*th.EveningShare {
		out = append(out, Candidate{
			Family:      FamilyTimeOfDayPattern,
			Title:       "Evening Spending Trend",
			Description: "A large share of purchases occur in the evening, consider setting reminders before late-night spending.",
			Priority:    PriorityLow,
			Evidence: map[string]any{
				"evening_transactions": evening,
				"total_transactions":   len(s.Transactions),
			},
			Context: "Time-of-day pattern over the last 90 days.",
		})
	}

	return out
}
