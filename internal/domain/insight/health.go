package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/transaction"
)

// financialHealthInsights covers subscription load, subscription price
// changes, idle-cash and low-balance checks, and repeated ATM fees.
func (e *Engine) financialHealthInsights(s *Snapshot) []Candidate {
	th := e.rules.Thresholds
	var out []Candidate

	// Group spending by subscription-keyword merchants.
	subscriptions := make(map[string][]*transaction.Transaction)
	var subscriptionKeys []string
	for _, t := range s.Transactions {
		if !IsSpending(t) {
			continue
		}
		merchant := strings.ToLower(MerchantLabel(t))
		if merchant == "" || !MatchesKeywords(merchant, e.rules.SubscriptionKeywords) {
			continue
		}
		if _, ok := subscriptions[merchant]; !ok {
			subscriptionKeys = append(subscriptionKeys, merchant)
		}
		subscriptions[merchant] = append(subscriptions[merchant], t)
	}

	if len(subscriptionKeys) > 0 {
		var all []*transaction.Transaction
		for _, key := range subscriptionKeys {
			all = append(all, subscriptions[key]...)
		}
		total := positiveSum(all)
		if total.GreaterThan(dec(th.SubscriptionLoadTotal)) || len(subscriptionKeys) >= th.SubscriptionLoadMerchants {
			out = append(out, Candidate{
				Family:      FamilySubscriptionVolume,
				Title:       "Heavy Subscription Load",
				Description: fmt.Sprintf("%d recurring merchants billed you this quarter, review for overlaps.", len(subscriptionKeys)),
				Priority:    PriorityMedium,
				Evidence: map[string]any{
					"merchant_count":    len(subscriptionKeys),
					"transaction_count": len(all),
					"total_spent":       evidenceAmount(total),
				},
				Context: "Evaluated over the last 90 days of subscription charges.",
			})
		}

		for _, key := range subscriptionKeys {
			charges := subscriptions[key]
			if len(charges) < 2 {
				continue
			}
			sort.SliceStable(charges, func(i, j int) bool {
				return charges[i].Date.Before(charges[j].Date)
			})
			latest := charges[len(charges)-1]
			previous := charges[len(charges)-2]
			if !previous.Amount.IsPositive() {
				continue
			}
			changePct := latest.Amount.Sub(previous.Amount).Div(previous.Amount).Mul(decimal.NewFromInt(100))
			if changePct.Abs().GreaterThanOrEqual(dec(th.SubscriptionPriceChange)) {
				label := titleFromKey(key)
				out = append(out, Candidate{
					Family: FamilySubscriptionPriceChange,
					Title:  fmt.Sprintf("%s Price Change", label),
					Description: fmt.Sprintf(
						"%s changed from $%s to $%s.",
						label, previous.Amount.StringFixed(2), latest.Amount.StringFixed(2),
					),
					Priority: PriorityMedium,
					Evidence: map[string]any{
						"merchant":          label,
						"previous_amount":   evidenceAmount(previous.Amount),
						"current_amount":    evidenceAmount(latest.Amount),
						"percentage_change": evidenceAmount(changePct),
					},
					Context: "Latest billing cycle compared to the previous charge.",
				})
			}
		}
	}

	// Balance snapshot checks.
	totalBalance := decimal.Zero
	for _, acc := range s.Accounts {
		if acc.CurrentBalance != nil {
			totalBalance = totalBalance.Add(*acc.CurrentBalance)
		}
	}
	if len(s.Accounts) > 0 && totalBalance.GreaterThan(dec(th.IdleCashFloor)) {
		out = append(out, Candidate{
			Family:      FamilyCashBuffer,
			Title:       "Cash Drag in Checking",
			Description: "There is sizable idle cash in checking, moving a portion to high-yield savings could earn more.",
			Priority:    PriorityMedium,
			Evidence: map[string]any{
				"total_balance": evidenceAmount(totalBalance),
				"accounts":      len(s.Accounts),
			},
			Context: "Snapshot of current account balances.",
		})
	}
	if totalBalance.LessThan(dec(th.LowBalanceFloor)) {
		out = append(out, Candidate{
			Family:      FamilyBalanceWarning,
			Title:       "Low Account Balance",
			Description: "Balances are low, consider keeping a small buffer to avoid overdrafts.",
			Priority:    PriorityHigh,
			Evidence: map[string]any{
				"current_balance": evidenceAmount(totalBalance),
			},
			Context: "Snapshot of current account balances.",
		})
	}

	// Repeated ATM fees.
	var fees []*transaction.Transaction
	for _, t := range s.Transactions {
		if IsSpending(t) && NormalizeCategory(t.CategoryDetailed) == "ATM_FEES" {
			fees = append(fees, t)
		}
	}
	if len(fees) >= th.ATMFeeCount {
		out = append(out, Candidate{
			Family:      FamilyFeeDetection,
			Title:       "ATM Fee Drain",
			Description: "Multiple ATM fees detected, check if your bank offers fee-free networks.",
			Priority:    PriorityLow,
			Evidence: map[string]any{
				"transactions": len(fees),
				"total_fees":   evidenceAmount(positiveSum(fees)),
			},
			Context: "Fees detected over the last 90 days.",
		})
	}

	return out
}
