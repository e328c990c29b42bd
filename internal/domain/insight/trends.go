package insight

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/transaction"
)

// consumptionInsights compares each category's current-month spend to
// the previous calendar month and flags large swings, escalating
// priority for extreme moves.
func (e *Engine) consumptionInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds

	currentMonthStart := monthStart(s.Now)
	lastMonthStart := monthStart(currentMonthStart.AddDate(0, 0, -1))

	current := make(map[string]decimal.Decimal)
	previous := make(map[string]decimal.Decimal)
	var categories []string
	for _, t := range s.Transactions {
		category := NormalizeCategory(t.CategoryPrimary)
		if category == "" || !IsSpending(t) {
			continue
		}
		switch {
		case !t.Date.Before(currentMonthStart):
			if _, ok := current[category]; !ok {
				categories = append(categories, category)
			}
			current[category] = current[category].Add(t.Amount)
		case !t.Date.Before(lastMonthStart):
			previous[category] = previous[category].Add(t.Amount)
		}
	}

	hundred := decimal.NewFromInt(100)
	var out []Candidate
	for _, category := range categories {
		previousAmount := previous[category]
		if !previousAmount.IsPositive() {
			continue
		}
		currentAmount := current[category]
		changePct := currentAmount.Sub(previousAmount).Div(previousAmount).Mul(hundred)
		if changePct.Abs().LessThan(dec(th.TrendChangePct)) {
			continue
		}
		direction := "Increased"
		priority := PriorityMedium
		if changePct.IsNegative() {
			direction = "Decreased"
			priority = PriorityLow
			if changePct.Abs().GreaterThanOrEqual(dec(th.TrendHighDecPct)) {
				priority = PriorityHigh
			}
		} else if changePct.GreaterThanOrEqual(dec(th.TrendHighIncPct)) {
			priority = PriorityHigh
		}
		label := FormatCategoryLabel(category)
		out = append(out, Candidate{
			Family: FamilyCategoryTrend,
			Title:  fmt.Sprintf("%s Spending %s", label, direction),
			Description: fmt.Sprintf(
				"%s spending has %s by %s%%.",
				label, strings.ToLower(direction), changePct.Abs().Round(0),
			),
			Priority: priority,
			Evidence: map[string]any{
				"category":          label,
				"change_percentage": evidenceAmount(changePct),
				"current_amount":    evidenceAmount(currentAmount),
				"previous_amount":   evidenceAmount(previousAmount),
			},
			Context: "Current month compared to previous month.",
		})
	}
	return out
}

// incomeInsights flags missing income outright, and recurring deposits
// per merchant when enough arrive in the window.
func (e *Engine) incomeInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds

	var income []*transaction.Transaction
	for _, t := range s.Transactions {
		if t.Amount.IsNegative() {
			income = append(income, t)
		}
	}
	if len(income) == 0 {
		return []Candidate{{
			Family:      FamilyIncomePattern,
			Title:       "No Income Activity",
			Description: "No recent income activity. Enable notifications or verify payroll.",
			Priority:    PriorityMedium,
			Evidence:    map[string]any{},
			Context:     "No deposits detected over the past 30 days.",
		}}
	}

	byMerchant := make(map[string][]*transaction.Transaction)
	var merchants []string
	for _, t := range income {
		if t.MerchantName == "" {
			continue
		}
		if _, ok := byMerchant[t.MerchantName]; !ok {
			merchants = append(merchants, t.MerchantName)
		}
		byMerchant[t.MerchantName] = append(byMerchant[t.MerchantName], t)
	}

	var out []Candidate
	for _, merchant := range merchants {
		deposits := byMerchant[merchant]
		if len(deposits) < th.IncomeRecurringCount {
			continue
		}
		sum := decimal.Zero
		for _, t := range deposits {
			sum = sum.Add(t.Amount)
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(deposits))))
		out = append(out, Candidate{
			Family:      FamilyIncomePattern,
			Title:       fmt.Sprintf("Recurring Deposits from %s", merchant),
			Description: fmt.Sprintf("%s deposits arrive consistently. Automate savings on payday.", merchant),
			Priority:    PriorityMedium,
			Evidence: map[string]any{
				"transactions":    len(deposits),
				"average_deposit": evidenceAmount(avg),
			},
			Context: "Recurring deposit pattern over the last 90 days.",
		})
	}
	return out
}

// goalInsights flags a savings milestone over balances held outside
// checking-like subtypes.
func (e *Engine) goalInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	excluded := []string{"checking", "paypal", "venmo"}

	total := decimal.Zero
	for _, acc := range s.Accounts {
		if containsString(excluded, strings.ToLower(acc.Subtype)) {
			continue
		}
		if acc.CurrentBalance != nil {
			total = total.Add(*acc.CurrentBalance)
		}
	}
	if !total.GreaterThan(dec(th.SavingsFloor)) {
		return nil
	}
	return []Candidate{{
		Family: FamilySavingsMilestone,
		Title:  "Savings Milestone",
		Description: fmt.Sprintf(
			"Current liquid savings total $%s. Set a specific target to keep momentum.",
			total.Round(0),
		),
		Priority: PriorityLow,
		Evidence: map[string]any{
			"current_savings": evidenceAmount(total),
		},
		Context: "Snapshot of current liquid balances.",
	}}
}
