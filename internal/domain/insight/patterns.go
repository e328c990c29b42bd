package insight

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/transaction"
)

type merchantWindowStats struct {
	category       string
	currentCount   int
	currentAmount  decimal.Decimal
	previousCount  int
	previousAmount decimal.Decimal
}

// spendingPatternInsights covers the pattern families: dining bursts,
// merchant switching, cost drift, category saturation, category
// volatility, and the overall consistency score.
func (e *Engine) spendingPatternInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	var out []Candidate

	out = append(out, e.burstInsight(s)...)

	// Merchant switching and cost drift share 60-day window stats split
	// into two 30-day halves.
	currentStart := s.Now.AddDate(0, 0, -30)
	previousStart := s.Now.AddDate(0, 0, -60)
	stats := make(map[string]*merchantWindowStats)
	var merchants []string
	for _, t := range s.Transactions {
		if !IsSpending(t) || t.MerchantName == "" || t.Date.Before(previousStart) {
			continue
		}
		category := NormalizeCategory(t.CategoryPrimary)
		st, ok := stats[t.MerchantName]
		if !ok {
			st = &merchantWindowStats{
				category:       category,
				currentAmount:  decimal.Zero,
				previousAmount: decimal.Zero,
			}
			stats[t.MerchantName] = st
			merchants = append(merchants, t.MerchantName)
		}
		if st.category == "" && category != "" {
			st.category = category
		}
		if !t.Date.Before(currentStart) {
			st.currentCount++
			st.currentAmount = st.currentAmount.Add(t.Amount)
		} else {
			st.previousCount++
			st.previousAmount = st.previousAmount.Add(t.Amount)
		}
	}

	out = append(out, e.switchingInsight(merchants, stats)...)
	out = append(out, e.driftInsights(merchants, stats)...)
	out = append(out, e.saturationInsights(s)...)
	out = append(out, e.volatilityInsights(s)...)

	// Consistency score over all months with nonzero spend.
	monthTotals := make(map[string]decimal.Decimal)
	var monthKeys []string
	for _, t := range s.Transactions {
		if !IsSpending(t) {
			continue
		}
		key := monthKey(t.Date)
		if _, ok := monthTotals[key]; !ok {
			monthKeys = append(monthKeys, key)
		}
		monthTotals[key] = monthTotals[key].Add(t.Amount)
	}
	var monthly []float64
	for _, key := range monthKeys {
		if monthTotals[key].IsPositive() {
			monthly = append(monthly, evidenceAmount(monthTotals[key]))
		}
	}
	if len(monthly) >= th.ConsistencyMinMonths {
		mean, std := meanStddev(monthly)
		volatility := 1.0
		if mean > 0 {
			volatility = math.Min(1, std/mean)
		}
		score := int(math.Round((1 - volatility) * 100))
		out = append(out, Candidate{
			Family:      FamilyConsistencyScore,
			Title:       "Consistency Score",
			Description: fmt.Sprintf("Your overall spending pattern is %d%% consistent month-to-month.", score),
			Priority:    PriorityLow,
			Evidence: map[string]any{
				"score":                 score,
				"average_monthly_spend": roundTo(mean, 2),
			},
			Context: "Calculated across recent months of activity.",
		})
	}

	return out
}

// burstInsight slides a two-pointer window over date-sorted dining
// spending and reports the densest qualifying window.
func (e *Engine) burstInsight(s *Snapshot) []Candidate {
	th := e.rules.Thresholds

	var dining []*transaction.Transaction
	for _, t := range s.Transactions {
		if IsSpending(t) && containsString(e.rules.DiningCategories, NormalizeCategory(t.CategoryPrimary)) {
			dining = append(dining, t)
		}
	}
	if len(dining) < th.BurstMinCount {
		return nil
	}
	sort.SliceStable(dining, func(i, j int) bool {
		return dining[i].Date.Before(dining[j].Date)
	})

	windowSpan := time.Duration(th.BurstWindowDays) * 24 * time.Hour
	floor := dec(th.BurstTotalFloor)

	type window struct {
		count      int
		total      decimal.Decimal
		start, end time.Time
	}
	var best *window
	left := 0
	for right := range dining {
		for dining[right].Date.Sub(dining[left].Date) > windowSpan {
			left++
		}
		count := right - left + 1
		if count < th.BurstMinCount {
			continue
		}
		total := decimal.Zero
		for _, t := range dining[left : right+1] {
			total = total.Add(t.Amount)
		}
		if total.LessThan(floor) {
			continue
		}
		if best == nil || count > best.count || (count == best.count && total.GreaterThan(best.total)) {
			best = &window{count: count, total: total, start: dining[left].Date, end: dining[right].Date}
		}
	}
	if best == nil {
		return nil
	}

	spanDays := daysSince(best.end, best.start) + 1
	if spanDays < 1 {
		spanDays = 1
	}
	return []Candidate{{
		Family:      FamilyBurstSpending,
		Title:       "Burst of Dining Activity",
		Description: fmt.Sprintf("You had a %d-day spike with %d dining purchases, possibly a special occasion or social streak.", spanDays, best.count),
		Priority:    PriorityMedium,
		Evidence: map[string]any{
			"transaction_count": best.count,
			"total_spent":       evidenceAmount(best.total),
			"window_start":      best.start.Format("2006-01-02"),
			"window_end":        best.end.Format("2006-01-02"),
		},
		Context: "Detected within a rolling 3-day window.",
	}}
}

// switchingInsight pairs a merchant that went quiet with a new merchant
// that took over in the same category. At most one insight is emitted.
func (e *Engine) switchingInsight(merchants []string, stats map[string]*merchantWindowStats) []Candidate {
	th := e.rules.Thresholds

	type lapsed struct {
		merchant      string
		previousCount int
	}
	categoryLapsed := make(map[string]lapsed)
	for _, merchant := range merchants {
		st := stats[merchant]
		if st.category == "" || st.previousCount < th.SwitchPriorMinVisits || st.currentCount != 0 {
			continue
		}
		if existing, ok := categoryLapsed[st.category]; !ok || st.previousCount > existing.previousCount {
			categoryLapsed[st.category] = lapsed{merchant: merchant, previousCount: st.previousCount}
		}
	}

	for _, merchant := range merchants {
		st := stats[merchant]
		if st.category == "" || st.currentCount < th.SwitchCurrentMinVisits || st.previousCount > th.SwitchPriorMaxRecent {
			continue
		}
		prior, ok := categoryLapsed[st.category]
		if !ok || prior.merchant == merchant {
			continue
		}
		label := FormatCategoryLabel(st.category)
		return []Candidate{{
			Family: FamilyMerchantSwitching,
			Title:  fmt.Sprintf("Switched %s Spot", label),
			Description: fmt.Sprintf(
				"You've recently switched from %s to %s for %s purchases, %d visits vs %d last month.",
				prior.merchant, merchant, strings.ToLower(label), st.currentCount, prior.previousCount,
			),
			Priority: PriorityMedium,
			Evidence: map[string]any{
				"new_merchant": merchant,
				"old_merchant": prior.merchant,
				"new_visits":   st.currentCount,
				"old_visits":   prior.previousCount,
				"category":     label,
			},
			Context: "Comparing the last 30 days to the prior 30-day period.",
		}}
	}
	return nil
}

// driftInsights flags merchants whose average ticket rose between the
// two halves of the 60-day window, reporting the fastest growers.
func (e *Engine) driftInsights(merchants []string, stats map[string]*merchantWindowStats) []Candidate {
	th := e.rules.Thresholds

	type drift struct {
		merchant    string
		previousAvg decimal.Decimal
		currentAvg  decimal.Decimal
		growth      decimal.Decimal
	}
	var candidates []drift
	for _, merchant := range merchants {
		st := stats[merchant]
		if st.currentCount < th.DriftMinHalfCount || st.previousCount < th.DriftMinHalfCount {
			continue
		}
		previousAvg := st.previousAmount.Div(decimal.NewFromInt(int64(st.previousCount)))
		currentAvg := st.currentAmount.Div(decimal.NewFromInt(int64(st.currentCount)))
		if previousAvg.IsPositive() && currentAvg.GreaterThanOrEqual(previousAvg.Mul(dec(th.DriftRatio))) {
			candidates = append(candidates, drift{
				merchant:    merchant,
				previousAvg: previousAvg,
				currentAvg:  currentAvg,
				growth:      currentAvg.Sub(previousAvg).Div(previousAvg),
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].growth.GreaterThan(candidates[j].growth)
	})
	if len(candidates) > th.DriftTopMerchants {
		candidates = candidates[:th.DriftTopMerchants]
	}

	var out []Candidate
	for _, c := range candidates {
		out = append(out, Candidate{
			Family: FamilyCostDrift,
			Title:  fmt.Sprintf("Rising Spend at %s", c.merchant),
			Description: fmt.Sprintf(
				"Your average spend at %s rose from $%s to $%s over 60 days.",
				c.merchant, c.previousAvg.StringFixed(2), c.currentAvg.StringFixed(2),
			),
			Priority: PriorityMedium,
			Evidence: map[string]any{
				"merchant":          c.merchant,
				"previous_average":  evidenceAmount(c.previousAvg),
				"current_average":   evidenceAmount(c.currentAvg),
				"change_percentage": roundTo(evidenceAmount(c.growth.Mul(decimal.NewFromInt(100))), 1),
			},
			Context: "Comparison between the last and prior 30-day windows.",
		})
	}
	return out
}

// saturationInsights flags a category that dominates the current month
// well beyond its share of the prior 60-day baseline.
func (e *Engine) saturationInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds

	currentMonthStart := monthStart(s.Now)
	baselineStart := currentMonthStart.AddDate(0, 0, -60)

	currentTotals := make(map[string]decimal.Decimal)
	baselineTotals := make(map[string]decimal.Decimal)
	var categories []string
	currentTotal := decimal.Zero
	baselineTotal := decimal.Zero

	for _, t := range s.Transactions {
		if !IsSpending(t) {
			continue
		}
		category := NormalizeCategory(t.CategoryPrimary)
		if category == "" {
			category = "GENERAL"
		}
		switch {
		case !t.Date.Before(currentMonthStart):
			if _, ok := currentTotals[category]; !ok {
				categories = append(categories, category)
			}
			currentTotals[category] = currentTotals[category].Add(t.Amount)
			currentTotal = currentTotal.Add(t.Amount)
		case !t.Date.Before(baselineStart):
			baselineTotals[category] = baselineTotals[category].Add(t.Amount)
			baselineTotal = baselineTotal.Add(t.Amount)
		}
	}
	if !currentTotal.IsPositive() {
		return nil
	}

	var out []Candidate
	for _, category := range categories {
		amount := currentTotals[category]
		share := amount.Div(currentTotal)
		baselineShare := decimal.Zero
		if baselineTotal.IsPositive() {
			baselineShare = baselineTotals[category].Div(baselineTotal)
		}
		if amount.GreaterThanOrEqual(currentTotal.Mul(dec(th.SaturationShare))) &&
			share.Sub(baselineShare).GreaterThanOrEqual(dec(th.SaturationDelta)) &&
			amount.GreaterThan(dec(th.SaturationFloor)) {
			label := FormatCategoryLabel(category)
			hundred := decimal.NewFromInt(100)
			out = append(out, Candidate{
				Family: FamilyCategorySaturation,
				Title:  fmt.Sprintf("%s Dominates Spending", label),
				Description: fmt.Sprintf(
					"%s made up %s%% of your spending this month, well above the usual %s%%.",
					label, share.Mul(hundred).Round(0), baselineShare.Mul(hundred).Round(0),
				),
				Priority: PriorityMedium,
				Evidence: map[string]any{
					"category":       label,
					"current_share":  evidenceAmount(share.Mul(hundred).Round(1)),
					"baseline_share": evidenceAmount(baselineShare.Mul(hundred).Round(1)),
					"current_amount": evidenceAmount(amount),
				},
				Context: "Current month compared to the prior 60 days.",
			})
		}
	}
	return out
}

// volatilityInsights flags categories whose monthly spend swings widely
// over roughly the last five months.
func (e *Engine) volatilityInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	cutoff := s.Now.AddDate(0, 0, -th.VolatilityLookbackDays)

	byCategory := make(map[string]map[string]decimal.Decimal)
	var categories []string
	for _, t := range s.Transactions {
		if !IsSpending(t) || t.Date.Before(cutoff) {
			continue
		}
		category := NormalizeCategory(t.CategoryPrimary)
		if category == "" {
			category = "GENERAL"
		}
		months, ok := byCategory[category]
		if !ok {
			months = make(map[string]decimal.Decimal)
			byCategory[category] = months
			categories = append(categories, category)
		}
		key := monthKey(t.Date)
		months[key] = months[key].Add(t.Amount)
	}

	var out []Candidate
	for _, category := range categories {
		var amounts []float64
		for _, value := range byCategory[category] {
			if value.IsPositive() {
				amounts = append(amounts, evidenceAmount(value))
			}
		}
		if len(amounts) < th.VolatilityMinMonths {
			continue
		}
		mean, std := meanStddev(amounts)
		if mean == 0 {
			continue
		}
		low, high := amounts[0], amounts[0]
		for _, v := range amounts {
			low = math.Min(low, v)
			high = math.Max(high, v)
		}
		if std/mean >= th.VolatilityCV && high-low >= th.VolatilitySpreadFloor {
			label := FormatCategoryLabel(category)
			out = append(out, Candidate{
				Family: FamilyCategoryVolatility,
				Title:  fmt.Sprintf("Volatile %s Spending", label),
				Description: fmt.Sprintf(
					"Your spending on %s swings widely month-to-month (from $%.0f to $%.0f).",
					label, low, high,
				),
				Priority: PriorityLow,
				Evidence: map[string]any{
					"category":           label,
					"standard_deviation": roundTo(std, 2),
					"average":            roundTo(mean, 2),
				},
				Context: "Evaluated across roughly the last five months.",
			})
		}
	}
	return out
}

// meanStddev returns the mean and population standard deviation.
func meanStddev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}
