package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/account"
	"finsight/internal/domain/transaction"
	"finsight/internal/shared/middleware"
)

// CurrencyResolver resolves a user's dominant currency by majority vote.
type CurrencyResolver interface {
	DominantCurrency(ctx context.Context, userID int64) (string, error)
}

type DashboardHandler struct {
	accountRepo     account.Repository
	transactionRepo transaction.Repository
	currency        CurrencyResolver
}

func NewDashboardHandler(accountRepo account.Repository, transactionRepo transaction.Repository, currency CurrencyResolver) *DashboardHandler {
	return &DashboardHandler{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		currency:        currency,
	}
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type DashboardResponse struct {
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	MonthlySpending  decimal.Decimal `json:"monthlySpending"`
	TransactionCount int             `json:"transactionCount"`
	TopCategories    []CategoryTotal `json:"topCategories"`
	CurrencyCode     string          `json:"currencyCode"`
	AccountCount     int             `json:"accountCount"`
}

// HandleDashboard summarizes the user's balances and current calendar
// month: spending and top categories in the dominant currency, plus the
// month's transaction count
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	currency, err := h.currency.DominantCurrency(r.Context(), userID)
	if err != nil {
		log.Printf("Error resolving currency for user %d: %v", userID, err)
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	accounts, err := h.accountRepo.ListByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing accounts for user %d: %v", userID, err)
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	totalBalance := decimal.Zero
	for _, acc := range accounts {
		if acc.CurrentBalance != nil {
			totalBalance = totalBalance.Add(*acc.CurrentBalance)
		}
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	transactions, err := h.transactionRepo.ListByUserAndDateRange(r.Context(), userID, monthStart, now, 10000)
	if err != nil {
		log.Printf("Error listing transactions for user %d: %v", userID, err)
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	// Spending and category totals only count outflows in the dominant
	// currency; the transaction count covers the whole month.
	spending := decimal.Zero
	totals := make(map[string]decimal.Decimal)
	var categories []string
	for _, txn := range transactions {
		if !txn.Amount.IsPositive() || txn.CurrencyCode != currency {
			continue
		}
		spending = spending.Add(txn.Amount)
		if txn.CategoryPrimary == "" {
			continue
		}
		if _, seen := totals[txn.CategoryPrimary]; !seen {
			categories = append(categories, txn.CategoryPrimary)
		}
		totals[txn.CategoryPrimary] = totals[txn.CategoryPrimary].Add(txn.Amount)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return totals[categories[i]].GreaterThan(totals[categories[j]])
	})
	if len(categories) > 5 {
		categories = categories[:5]
	}
	topCategories := make([]CategoryTotal, 0, len(categories))
	for _, category := range categories {
		topCategories = append(topCategories, CategoryTotal{Category: category, Total: totals[category]})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DashboardResponse{
		TotalBalance:     totalBalance,
		MonthlySpending:  spending,
		TransactionCount: len(transactions),
		TopCategories:    topCategories,
		CurrencyCode:     currency,
		AccountCount:     len(accounts),
	})
}
