package insight

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/account"
	"finsight/internal/domain/transaction"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

type stubRepository struct {
	currency     string
	transactions []*transaction.Transaction
	accounts     []*account.Account
	visits       []MerchantVisit

	insights []*Insight
	nextID   int64
}

func (r *stubRepository) Create(_ context.Context, params CreateParams) (*Insight, error) {
	r.nextID++
	row := &Insight{
		ID:          r.nextID,
		UserID:      params.UserID,
		Domain:      params.Domain,
		Family:      params.Family,
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		Evidence:    params.Evidence,
		CreatedAt:   fixedNow,
	}
	r.insights = append(r.insights, row)
	return row, nil
}

func (r *stubRepository) DeleteByUser(_ context.Context, userID int64) error {
	kept := r.insights[:0]
	for _, row := range r.insights {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	r.insights = kept
	return nil
}

func (r *stubRepository) ListByUser(_ context.Context, userID int64) ([]*Insight, error) {
	var out []*Insight
	for _, row := range r.insights {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubRepository) DominantCurrency(_ context.Context, _ int64) (string, error) {
	if r.currency == "" {
		return "USD", nil
	}
	return r.currency, nil
}

func (r *stubRepository) TransactionsInRange(_ context.Context, userID int64, start, end time.Time) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	for _, t := range r.transactions {
		if t.UserID == userID && !t.Date.Before(start) && !t.Date.After(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubRepository) AccountsByUser(_ context.Context, userID int64) ([]*account.Account, error) {
	var out []*account.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubRepository) PopulationMerchantVisits(_ context.Context, _ time.Time) ([]MerchantVisit, error) {
	return r.visits, nil
}

func newTxn(amount float64, date time.Time, merchant, category string) *transaction.Transaction {
	name := merchant
	if name == "" {
		name = "unnamed"
	}
	return &transaction.Transaction{
		UserID:          1,
		AccountID:       1,
		Amount:          decimal.NewFromFloat(amount),
		CurrencyCode:    "USD",
		Date:            date,
		Name:            name,
		MerchantName:    merchant,
		CategoryPrimary: category,
	}
}

func newSnapshot(txns []*transaction.Transaction, accounts []*account.Account) *Snapshot {
	return &Snapshot{
		UserID:       1,
		Currency:     "USD",
		Transactions: txns,
		Accounts:     accounts,
		Now:          fixedNow,
	}
}

func newTestEngine(repo Repository) *Engine {
	e := NewEngine(repo, DefaultRuleset())
	e.now = func() time.Time { return fixedNow }
	return e
}

func candidatesByFamily(candidates []Candidate, family Family) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.Family == family {
			out = append(out, c)
		}
	}
	return out
}

func TestGenerateAllEmptySnapshot(t *testing.T) {
	repo := &stubRepository{}
	engine := newTestEngine(repo)

	grouped, err := engine.GenerateAll(context.Background(), 1)
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}
	if len(grouped.Domains) != 0 {
		t.Errorf("expected empty grouped result, got %d domains", len(grouped.Domains))
	}
	if len(repo.insights) != 0 {
		t.Errorf("expected no persisted insights, got %d", len(repo.insights))
	}
}

func TestGenerateAllIdempotent(t *testing.T) {
	repo := &stubRepository{
		transactions: []*transaction.Transaction{
			newTxn(45, fixedNow.AddDate(0, 0, -5), "Luigi's Restaurant", "RESTAURANTS"),
			newTxn(38, fixedNow.AddDate(0, 0, -12), "Luigi's Restaurant", "RESTAURANTS"),
			newTxn(52, fixedNow.AddDate(0, 0, -20), "Luigi's Restaurant", "RESTAURANTS"),
			newTxn(15.99, fixedNow.AddDate(0, 0, -8), "Netflix", ""),
			newTxn(-2500, fixedNow.AddDate(0, 0, -14), "Acme Payroll", ""),
			newTxn(-2500, fixedNow.AddDate(0, 0, -44), "Acme Payroll", ""),
			newTxn(-2500, fixedNow.AddDate(0, 0, -74), "Acme Payroll", ""),
		},
		accounts: []*account.Account{
			{ID: 1, UserID: 1, Name: "Checking", AccountType: "depository", Subtype: "checking", CurrencyCode: "USD", IsActive: true},
		},
	}
	engine := newTestEngine(repo)

	first, err := engine.GenerateAll(context.Background(), 1)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	firstKeys := flattenGrouped(first)

	second, err := engine.GenerateAll(context.Background(), 1)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	secondKeys := flattenGrouped(second)

	if len(firstKeys) == 0 {
		t.Fatal("expected at least one insight from the seeded snapshot")
	}
	if len(firstKeys) != len(secondKeys) {
		t.Fatalf("run sizes differ: %d vs %d", len(firstKeys), len(secondKeys))
	}
	for i := range firstKeys {
		if firstKeys[i] != secondKeys[i] {
			t.Errorf("position %d differs: %q vs %q", i, firstKeys[i], secondKeys[i])
		}
	}
}

func flattenGrouped(grouped *GroupedInsights) []string {
	var out []string
	for _, domain := range grouped.Domains {
		for _, family := range domain.Families {
			for _, row := range family.Insights {
				out = append(out, fmt.Sprintf("%s/%s/%s/%s", domain.Key, family.Key, row.Title, row.Priority))
			}
		}
	}
	return out
}

func TestBurstDetection(t *testing.T) {
	// Six dining purchases of $32 spaced 8 hours apart sit inside a
	// two-day span and must report all six transactions.
	var txns []*transaction.Transaction
	start := fixedNow.AddDate(0, 0, -6)
	for i := 0; i < 6; i++ {
		txns = append(txns, newTxn(32, start.Add(time.Duration(i)*8*time.Hour), "Downtown Grill", "RESTAURANTS"))
	}
	engine := newTestEngine(&stubRepository{})

	candidates := engine.spendingPatternInsights(newSnapshot(txns, nil))
	bursts := candidatesByFamily(candidates, FamilyBurstSpending)
	if len(bursts) != 1 {
		t.Fatalf("expected exactly one burst insight, got %d", len(bursts))
	}
	if count := bursts[0].Evidence["transaction_count"]; count != 6 {
		t.Errorf("expected transaction_count 6, got %v", count)
	}
}

func TestMerchantSwitching(t *testing.T) {
	var txns []*transaction.Transaction
	for i := 0; i < 4; i++ {
		txns = append(txns, newTxn(6.5, fixedNow.AddDate(0, 0, -(35+i)), "Old Town Coffee", "COFFEE"))
	}
	for i := 0; i < 4; i++ {
		txns = append(txns, newTxn(7.25, fixedNow.AddDate(0, 0, -(1+2*i)), "Fresh Bean Coffee", "COFFEE"))
	}
	engine := newTestEngine(&stubRepository{})

	candidates := engine.spendingPatternInsights(newSnapshot(txns, nil))
	switches := candidatesByFamily(candidates, FamilyMerchantSwitching)
	if len(switches) != 1 {
		t.Fatalf("expected one merchant_switching insight, got %d", len(switches))
	}
	if got := switches[0].Evidence["new_merchant"]; got != "Fresh Bean Coffee" {
		t.Errorf("expected new merchant Fresh Bean Coffee, got %v", got)
	}
	if got := switches[0].Evidence["old_merchant"]; got != "Old Town Coffee" {
		t.Errorf("expected old merchant Old Town Coffee, got %v", got)
	}
}

func TestCategorySaturation(t *testing.T) {
	currentMonth := monthStart(fixedNow)

	tests := []struct {
		name           string
		baselineDining float64
		baselineOther  float64
		expectEmit     bool
	}{
		// Baseline share ~33%: current share 86.5% clears the 10-point delta.
		{"low baseline share emits", 200, 400, true},
		// Baseline share 80%: delta of ~6.5 points stays under threshold.
		{"high baseline share suppressed", 480, 120, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := []*transaction.Transaction{
				newTxn(160, currentMonth.AddDate(0, 0, 1), "Bistro One", "RESTAURANTS"),
				newTxn(160, currentMonth.AddDate(0, 0, 3), "Bistro One", "RESTAURANTS"),
				newTxn(160, currentMonth.AddDate(0, 0, 5), "Bistro One", "RESTAURANTS"),
				newTxn(160, currentMonth.AddDate(0, 0, 7), "Bistro One", "RESTAURANTS"),
				newTxn(100, currentMonth.AddDate(0, 0, 2), "MegaStore", "GENERAL_MERCHANDISE"),
				newTxn(tt.baselineDining, currentMonth.AddDate(0, 0, -20), "Bistro One", "RESTAURANTS"),
				newTxn(tt.baselineOther, currentMonth.AddDate(0, 0, -22), "MegaStore", "GENERAL_MERCHANDISE"),
			}
			engine := newTestEngine(&stubRepository{})

			candidates := engine.saturationInsights(newSnapshot(txns, nil))
			var diningHits int
			for _, c := range candidates {
				if c.Evidence["category"] == "Restaurants" {
					diningHits++
				}
			}
			if tt.expectEmit && diningHits != 1 {
				t.Errorf("expected a saturation insight for Restaurants, got %d", diningHits)
			}
			if !tt.expectEmit && diningHits != 0 {
				t.Errorf("expected no saturation insight for Restaurants, got %d", diningHits)
			}
		})
	}
}

func TestDiningSpike(t *testing.T) {
	currentMonth := monthStart(fixedNow)
	txns := []*transaction.Transaction{
		// Two nonzero weekly buckets of $100 before the current month.
		newTxn(100, currentMonth.AddDate(0, 0, -4), "Bistro One", "RESTAURANTS"),
		newTxn(100, currentMonth.AddDate(0, 0, -11), "Bistro Two", "RESTAURANTS"),
		// $260 this month against a $100 weekly average.
		newTxn(180, currentMonth.AddDate(0, 0, 4), "Bistro One", "RESTAURANTS"),
		newTxn(80, currentMonth.AddDate(0, 0, 8), "Bistro Two", "RESTAURANTS"),
	}
	engine := newTestEngine(&stubRepository{})

	candidates := engine.diningInsights(newSnapshot(txns, nil))
	spikes := candidatesByFamily(candidates, FamilyCategorySpike)
	if len(spikes) != 1 {
		t.Fatalf("expected one dining spike insight, got %d", len(spikes))
	}
	if got := spikes[0].Evidence["increase_percentage"]; got != 160.0 {
		t.Errorf("expected 160%% increase, got %v", got)
	}
}

func TestLocalShopLoyalty(t *testing.T) {
	var txns []*transaction.Transaction
	for i := 0; i < 3; i++ {
		txns = append(txns, newTxn(12, fixedNow.AddDate(0, 0, -(2+i*7)), "Riverside Cafe", "FOOD_AND_DRINK"))
		txns = append(txns, newTxn(9, fixedNow.AddDate(0, 0, -(4+i*7)), "Hilltop Bakery", "FOOD_AND_DRINK"))
	}
	// One non-local big-box visit must not change the result.
	txns = append(txns, newTxn(84, fixedNow.AddDate(0, 0, -3), "MegaStore", "GENERAL_MERCHANDISE"))

	engine := newTestEngine(&stubRepository{})
	candidates := engine.sustainabilityInsights(newSnapshot(txns, nil))
	loyalty := candidatesByFamily(candidates, FamilyLocalShopLoyalty)
	if len(loyalty) != 1 {
		t.Fatalf("expected one local_shop_loyalty insight, got %d", len(loyalty))
	}
	merchants, ok := loyalty[0].Evidence["merchants"].([]string)
	if !ok || len(merchants) != 2 {
		t.Fatalf("expected two repeat merchants, got %v", loyalty[0].Evidence["merchants"])
	}
	if merchants[0] != "Riverside Cafe" || merchants[1] != "Hilltop Bakery" {
		t.Errorf("unexpected merchant list: %v", merchants)
	}
}

func TestAssemblePriorityOverride(t *testing.T) {
	engine := newTestEngine(&stubRepository{})

	// cash_buffer overrides to high; a low candidate must be promoted.
	params := engine.assemble(1, Candidate{Family: FamilyCashBuffer, Priority: PriorityLow})
	if params.Priority != PriorityHigh {
		t.Errorf("expected cash_buffer low to resolve to high, got %s", params.Priority)
	}

	// An override never demotes: high stays high over a medium override.
	params = engine.assemble(1, Candidate{Family: FamilyCostDrift, Priority: PriorityHigh})
	if params.Priority != PriorityHigh {
		t.Errorf("expected high to remain high over medium override, got %s", params.Priority)
	}

	// No override leaves the candidate priority untouched.
	params = engine.assemble(1, Candidate{Family: FamilyConsistencyScore, Priority: PriorityLow})
	if params.Priority != PriorityLow {
		t.Errorf("expected low to stay low without an override, got %s", params.Priority)
	}
}

func TestAssembleDefaults(t *testing.T) {
	engine := newTestEngine(&stubRepository{})

	params := engine.assemble(1, Candidate{Family: FamilyConsistencyScore})
	if params.Title != "Consistency Score" {
		t.Errorf("expected catalog title fallback, got %q", params.Title)
	}
	if params.Priority != PriorityMedium {
		t.Errorf("expected medium default priority, got %s", params.Priority)
	}
	if got := params.Evidence["comparison_context"]; got != defaultContext {
		t.Errorf("expected default comparison context, got %v", got)
	}

	// Unknown families derive a label and land in spending patterns.
	params = engine.assemble(1, Candidate{Family: Family("mystery_family")})
	if params.Domain != DomainSpendingPatterns {
		t.Errorf("expected fallback domain, got %s", params.Domain)
	}
	if params.Title != "Mystery Family" {
		t.Errorf("expected derived title, got %q", params.Title)
	}
}

func TestGroupInsightsOrdering(t *testing.T) {
	rows := []*Insight{
		{ID: 1, UserID: 1, Domain: DomainLongTermGoals, Family: FamilySavingsMilestone, Title: "a", Priority: PriorityLow},
		{ID: 2, UserID: 1, Domain: DomainSpendingPatterns, Family: FamilyBurstSpending, Title: "b", Priority: PriorityMedium},
		{ID: 3, UserID: 1, Domain: DomainSpendingPatterns, Family: FamilyBurstSpending, Title: "c", Priority: PriorityMedium},
		{ID: 4, UserID: 1, Domain: Domain("unknown_domain"), Family: Family("unknown_family"), Title: "d", Priority: PriorityLow},
	}

	grouped := GroupInsights(rows)
	if len(grouped.Domains) != 3 {
		t.Fatalf("expected 3 domain groups, got %d", len(grouped.Domains))
	}
	if grouped.Domains[0].Key != DomainSpendingPatterns {
		t.Errorf("expected spending_patterns first, got %s", grouped.Domains[0].Key)
	}
	if grouped.Domains[1].Key != DomainLongTermGoals {
		t.Errorf("expected long_term_goals second, got %s", grouped.Domains[1].Key)
	}
	if grouped.Domains[2].Key != Domain("unknown_domain") {
		t.Errorf("expected unknown domain last, got %s", grouped.Domains[2].Key)
	}
	if grouped.Domains[2].Name != "Unknown Domain" {
		t.Errorf("expected derived display name, got %q", grouped.Domains[2].Name)
	}
	if len(grouped.Domains[0].Families) != 1 || len(grouped.Domains[0].Families[0].Insights) != 2 {
		t.Error("expected burst insights grouped under one family")
	}
}
