package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/account"
	"finsight/internal/domain/transaction"
)

type stubCurrencyResolver struct {
	currency string
	err      error
}

func (s *stubCurrencyResolver) DominantCurrency(ctx context.Context, userID int64) (string, error) {
	return s.currency, s.err
}

func TestHandleDashboard(t *testing.T) {
	checking := decimal.NewFromInt(1200)
	savings := decimal.NewFromInt(5400)

	accountRepo := &MockAccountRepo{
		ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*account.Account, error) {
			return []*account.Account{
				{ID: 1, UserID: userID, Name: "Checking", CurrentBalance: &checking},
				{ID: 2, UserID: userID, Name: "Savings", CurrentBalance: &savings},
				{ID: 3, UserID: userID, Name: "No Balance"},
			}, nil
		},
	}

	var gotStart time.Time
	transactionRepo := &MockTransactionRepo{
		ListByUserAndDateRangeFunc: func(ctx context.Context, userID int64, start, end time.Time, limit int) ([]*transaction.Transaction, error) {
			gotStart = start
			return []*transaction.Transaction{
				{ID: 1, Amount: decimal.NewFromInt(80), CurrencyCode: "USD", CategoryPrimary: "FOOD_AND_DRINK"},
				{ID: 2, Amount: decimal.NewFromInt(20), CurrencyCode: "USD", CategoryPrimary: "FOOD_AND_DRINK"},
				{ID: 3, Amount: decimal.NewFromInt(150), CurrencyCode: "USD", CategoryPrimary: "ENTERTAINMENT"},
				{ID: 4, Amount: decimal.NewFromInt(10), CurrencyCode: "USD"},
				{ID: 5, Amount: decimal.NewFromInt(50), CurrencyCode: "EUR", CategoryPrimary: "TRAVEL"},
				{ID: 6, Amount: decimal.NewFromInt(-2000), CurrencyCode: "USD", CategoryPrimary: "INCOME"},
			}, nil
		},
	}

	handler := NewDashboardHandler(accountRepo, transactionRepo, &stubCurrencyResolver{currency: "USD"})

	req := authedRequest(http.MethodGet, "/api/dashboard", 1)
	rr := httptest.NewRecorder()
	handler.HandleDashboard(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotStart.Day() != 1 {
		t.Errorf("expected window to start on the first of the month, got %s", gotStart)
	}

	var response DashboardResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !response.TotalBalance.Equal(decimal.NewFromInt(6600)) {
		t.Errorf("expected total balance 6600, got %s", response.TotalBalance)
	}
	// Spending excludes the EUR row and the deposit but keeps the
	// uncategorized purchase.
	if !response.MonthlySpending.Equal(decimal.NewFromInt(260)) {
		t.Errorf("expected monthly spending 260, got %s", response.MonthlySpending)
	}
	if response.TransactionCount != 6 {
		t.Errorf("expected 6 transactions, got %d", response.TransactionCount)
	}
	if response.CurrencyCode != "USD" {
		t.Errorf("expected currency USD, got %s", response.CurrencyCode)
	}
	if response.AccountCount != 3 {
		t.Errorf("expected 3 accounts, got %d", response.AccountCount)
	}

	want := []CategoryTotal{
		{Category: "ENTERTAINMENT", Total: decimal.NewFromInt(150)},
		{Category: "FOOD_AND_DRINK", Total: decimal.NewFromInt(100)},
	}
	if len(response.TopCategories) != len(want) {
		t.Fatalf("expected %d top categories, got %+v", len(want), response.TopCategories)
	}
	for i, expected := range want {
		got := response.TopCategories[i]
		if got.Category != expected.Category || !got.Total.Equal(expected.Total) {
			t.Errorf("top category %d: expected %s=%s, got %s=%s",
				i, expected.Category, expected.Total, got.Category, got.Total)
		}
	}
}

func TestHandleDashboardUnauthorized(t *testing.T) {
	handler := NewDashboardHandler(&MockAccountRepo{}, &MockTransactionRepo{}, &stubCurrencyResolver{currency: "USD"})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rr := httptest.NewRecorder()
	handler.HandleDashboard(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}
