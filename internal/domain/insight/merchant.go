package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/transaction"
)

// merchantInsights covers merchant loyalty, the general-merchandise
// spike, bundling opportunities, high-frequency small purchases,
// fitness membership opportunities, travel rewards optimization, and
// duplicate recurring services.
func (e *Engine) merchantInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	var out []Candidate

	// Per-category monthly history for the merchandise spike baseline.
	categoryMonthly := make(map[string]map[string]decimal.Decimal)
	for _, t := range s.Transactions {
		if !IsSpending(t) {
			continue
		}
		category := NormalizeCategory(t.CategoryPrimary)
		if category == "" {
			category = "UNCATEGORIZED"
		}
		months, ok := categoryMonthly[category]
		if !ok {
			months = make(map[string]decimal.Decimal)
			categoryMonthly[category] = months
		}
		key := monthKey(t.Date)
		months[key] = months[key].Add(t.Amount)
	}

	// Merchant loyalty: top spenders above the floor.
	merchantSpend := make(map[string]decimal.Decimal)
	var merchantOrder []string
	for _, t := range s.Transactions {
		if t.MerchantName == "" || !IsSpending(t) {
			continue
		}
		if _, ok := merchantSpend[t.MerchantName]; !ok {
			merchantOrder = append(merchantOrder, t.MerchantName)
		}
		merchantSpend[t.MerchantName] = merchantSpend[t.MerchantName].Add(t.Amount)
	}
	sort.SliceStable(merchantOrder, func(i, j int) bool {
		return merchantSpend[merchantOrder[i]].GreaterThan(merchantSpend[merchantOrder[j]])
	})
	top := merchantOrder
	if len(top) > th.LoyaltyTopMerchants {
		top = top[:th.LoyaltyTopMerchants]
	}
	for _, merchant := range top {
		total := merchantSpend[merchant]
		if total.GreaterThan(dec(th.LoyaltySpendFloor)) {
			out = append(out, Candidate{
				Family:      FamilyMerchantLoyalty,
				Title:       fmt.Sprintf("Frequent Purchases at %s", merchant),
				Description: fmt.Sprintf("You shop at %s regularly, check for loyalty or membership perks.", merchant),
				Priority:    PriorityLow,
				Evidence: map[string]any{
					"merchant":    merchant,
					"total_spent": evidenceAmount(total),
				},
				Context: "Evaluated over the last 90 days.",
			})
		}
	}

	// General-merchandise spike with a historical monthly baseline that
	// excludes the most recent month.
	electronics := decimal.Zero
	for _, t := range s.Transactions {
		if IsSpending(t) && NormalizeCategory(t.CategoryPrimary) == "GENERAL_MERCHANDISE" {
			electronics = electronics.Add(t.Amount)
		}
	}
	if electronics.GreaterThan(dec(th.ElectronicsFloor)) {
		historicalAvg := decimal.Zero
		if months, ok := categoryMonthly["GENERAL_MERCHANDISE"]; ok {
			keys := make([]string, 0, len(months))
			for key := range months {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			if len(keys) > 1 {
				past := keys[:len(keys)-1]
				sum := decimal.Zero
				for _, key := range past {
					sum = sum.Add(months[key])
				}
				historicalAvg = sum.Div(decimal.NewFromInt(int64(len(past))))
			}
		}
		out = append(out, Candidate{
			Family: FamilyCategoryTrend,
			Title:  "Electronics Spending Spike",
			Description: fmt.Sprintf(
				"Electronics purchases are far above normal, review recent big-ticket orders. Typical spend was about $%s before this spike.",
				historicalAvg.Round(0),
			),
			Priority: PriorityMedium,
			Evidence: map[string]any{
				"total_spent":        evidenceAmount(electronics),
				"historical_average": evidenceAmount(historicalAvg),
			},
			Context: "Current month compared to typical monthly spending.",
		})
	}

	out = append(out, e.bundlingInsight(s)...)
	out = append(out, e.smallPurchaseInsight(s)...)
	out = append(out, e.membershipInsight(s)...)
	out = append(out, e.travelRewardsInsight(s)...)
	out = append(out, e.duplicateServicesInsight(s)...)

	return out
}

// bundlingInsight finds the category where visits are spread across the
// most merchants and suggests consolidating at one of them.
func (e *Engine) bundlingInsight(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	windowStart := s.Now.AddDate(0, 0, -th.BundleWindowDays)

	type merchantAgg struct {
		count  int
		amount decimal.Decimal
	}
	type categoryAgg struct {
		merchants map[string]*merchantAgg
		order     []string
	}
	byCategory := make(map[string]*categoryAgg)
	var categories []string
	for _, t := range s.Transactions {
		if !IsSpending(t) || t.Date.Before(windowStart) {
			continue
		}
		category := NormalizeCategory(t.CategoryPrimary)
		merchant := MerchantLabel(t)
		if category == "" || merchant == "" {
			continue
		}
		agg, ok := byCategory[category]
		if !ok {
			agg = &categoryAgg{merchants: make(map[string]*merchantAgg)}
			byCategory[category] = agg
			categories = append(categories, category)
		}
		m, ok := agg.merchants[merchant]
		if !ok {
			m = &merchantAgg{amount: decimal.Zero}
			agg.merchants[merchant] = m
			agg.order = append(agg.order, merchant)
		}
		m.count++
		m.amount = m.amount.Add(t.Amount)
	}

	type bundle struct {
		category      string
		merchantCount int
		totalVisits   int
		totalSpent    decimal.Decimal
		samples       []string
	}
	var candidates []bundle
	for _, category := range categories {
		agg := byCategory[category]
		var frequent []string
		for _, merchant := range agg.order {
			if agg.merchants[merchant].count >= th.BundleMinVisits {
				frequent = append(frequent, merchant)
			}
		}
		if len(frequent) < th.BundleMinMerchants {
			continue
		}
		visits := 0
		spent := decimal.Zero
		for _, merchant := range frequent {
			visits += agg.merchants[merchant].count
			spent = spent.Add(agg.merchants[merchant].amount)
		}
		samples := frequent
		if len(samples) > 3 {
			samples = samples[:3]
		}
		candidates = append(candidates, bundle{
			category:      category,
			merchantCount: len(frequent),
			totalVisits:   visits,
			totalSpent:    spent,
			samples:       samples,
		})
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].totalSpent.GreaterThan(candidates[j].totalSpent)
	})
	best := candidates[0]
	label := FormatCategoryLabel(best.category)
	return []Candidate{{
		Family: FamilyMerchantBundling,
		Title:  fmt.Sprintf("Bundle %s Visits", label),
		Description: fmt.Sprintf(
			"You shop at %d different %s merchants (%d visits), consolidating at one with a loyalty program could stretch rewards.",
			best.merchantCount, strings.ToLower(label), best.totalVisits,
		),
		Priority: PriorityMedium,
		Evidence: map[string]any{
			"category":         label,
			"merchant_count":   best.merchantCount,
			"total_visits":     best.totalVisits,
			"total_spent":      evidenceAmount(best.totalSpent),
			"sample_merchants": best.samples,
		},
		Context: "Based on roughly the last 45 days of activity.",
	}}
}

// smallPurchaseInsight flags frequent micro-purchases across several
// merchants within the last month.
func (e *Engine) smallPurchaseInsight(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	windowStart := s.Now.AddDate(0, 0, -th.SmallWindowDays)
	ceiling := dec(th.SmallPurchaseCap)

	var small []*transaction.Transaction
	for _, t := range s.Transactions {
		if IsSpending(t) && !t.Date.Before(windowStart) && t.Amount.LessThanOrEqual(ceiling) {
			small = append(small, t)
		}
	}
	if len(small) < th.SmallMinCount {
		return nil
	}
	total := decimal.Zero
	merchants := make(map[string]struct{})
	for _, t := range small {
		total = total.Add(t.Amount)
		if label := MerchantLabel(t); label != "" {
			merchants[label] = struct{}{}
		}
	}
	if total.LessThan(dec(th.SmallTotalFloor)) || len(merchants) < th.SmallMinMerchants {
		return nil
	}
	return []Candidate{{
		Family: FamilyHighFrequencySmall,
		Title:  "Frequent Small Purchases",
		Description: fmt.Sprintf(
			"You made %d purchases under $10 (totaling $%s), batching essentials or buying in bulk could reduce fees.",
			len(small), total.StringFixed(2),
		),
		Priority: PriorityLow,
		Evidence: map[string]any{
			"transaction_count": len(small),
			"total_spent":       evidenceAmount(total),
			"unique_merchants":  len(merchants),
		},
		Context: "Look-back window: last 30 days.",
	}}
}

// membershipInsight flags fitness spend spread across several venues
// where a single membership plan could be cheaper.
func (e *Engine) membershipInsight(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	windowStart := s.Now.AddDate(0, 0, -th.MembershipDays)

	var memberships []*transaction.Transaction
	for _, t := range s.Transactions {
		if !IsSpending(t) || t.Date.Before(windowStart) {
			continue
		}
		category := NormalizeCategory(t.CategoryPrimary)
		label := strings.ToLower(MerchantLabel(t))
		if containsString(e.rules.FitnessCategories, category) || MatchesKeywords(label, e.rules.FitnessKeywords) {
			memberships = append(memberships, t)
		}
	}
	if len(memberships) < th.MembershipMinCount {
		return nil
	}
	total := decimal.Zero
	merchants := make(map[string]struct{})
	for _, t := range memberships {
		total = total.Add(t.Amount)
		merchants[MerchantLabel(t)] = struct{}{}
	}
	if total.LessThan(dec(th.MembershipFloor)) || len(merchants) < th.MembershipMerchants {
		return nil
	}
	return []Candidate{{
		Family: FamilyCategorySubscription,
		Title:  "Fitness Membership Opportunity",
		Description: fmt.Sprintf(
			"You spent $%s on fitness visits across %d spots, a membership plan could be cheaper.",
			total.StringFixed(2), len(merchants),
		),
		Priority: PriorityMedium,
		Evidence: map[string]any{
			"merchant_count":    len(merchants),
			"total_spent":       evidenceAmount(total),
			"transaction_count": len(memberships),
		},
		Context: "Evaluated over the last 60 days.",
	}}
}

// travelRewardsInsight flags large travel purchases that might earn
// more on a travel-tier card.
func (e *Engine) travelRewardsInsight(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	windowStart := s.Now.AddDate(0, 0, -th.TravelWindowDays)
	floor := dec(th.TravelEachFloor)

	var travel []*transaction.Transaction
	for _, t := range s.Transactions {
		if !IsSpending(t) || t.Date.Before(windowStart) || t.Amount.LessThan(floor) {
			continue
		}
		category := NormalizeCategory(t.CategoryPrimary)
		label := strings.ToLower(MerchantLabel(t))
		if containsString(e.rules.TravelCategories, category) || MatchesKeywords(label, e.rules.AirlineKeywords) {
			travel = append(travel, t)
		}
	}
	if len(travel) < th.TravelMinCount {
		return nil
	}
	total := decimal.Zero
	largest := travel[0]
	for _, t := range travel {
		total = total.Add(t.Amount)
		if t.Amount.GreaterThan(largest.Amount) {
			largest = t
		}
	}
	if total.LessThan(dec(th.TravelTotalFloor)) {
		return nil
	}
	return []Candidate{{
		Family: FamilyPaymentMethod,
		Title:  "Optimize Travel Rewards",
		Description: fmt.Sprintf(
			"%d large travel purchases totaling $%s might earn more rewards with a travel-tier card.",
			len(travel), total.StringFixed(2),
		),
		Priority: PriorityMedium,
		Evidence: map[string]any{
			"transaction_count": len(travel),
			"total_spent":       evidenceAmount(total),
			"largest_purchase":  evidenceAmount(largest.Amount),
			"largest_merchant":  MerchantLabel(largest),
		},
		Context: "Based on large travel transactions in the last 90 days.",
	}}
}

// duplicateServicesInsight reports the first service family with two or
// more distinct paying merchants in the recent window.
func (e *Engine) duplicateServicesInsight(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	windowStart := s.Now.AddDate(0, 0, -th.ServiceWindowDays)

	for _, family := range e.rules.ServiceFamilies {
		usage := make(map[string]decimal.Decimal)
		var order []string
		for _, t := range s.Transactions {
			if !IsSpending(t) || t.Date.Before(windowStart) {
				continue
			}
			merchant := MerchantLabel(t)
			if merchant == "" || !MatchesKeywords(strings.ToLower(merchant), family.Keywords) {
				continue
			}
			if _, ok := usage[merchant]; !ok {
				order = append(order, merchant)
			}
			usage[merchant] = usage[merchant].Add(t.Amount)
		}
		if len(order) < 2 {
			continue
		}
		total := decimal.Zero
		for _, merchant := range order {
			total = total.Add(usage[merchant])
		}
		samples := order
		if len(samples) > 3 {
			samples = samples[:3]
		}
		return []Candidate{{
			Family: FamilyDuplicateServices,
			Title:  fmt.Sprintf("Duplicate %s Services", titleFromKey(family.Label)),
			Description: fmt.Sprintf(
				"You paid for multiple %s providers (%s), consolidating could reduce overlap.",
				family.Label, strings.Join(samples, ", "),
			),
			Priority: PriorityLow,
			Evidence: map[string]any{
				"service_type":   family.Label,
				"merchant_count": len(order),
				"total_spent":    evidenceAmount(total),
				"merchants":      order,
			},
			Context: "Review overlapping services from the last 45 days.",
		}}
	}
	return nil
}
