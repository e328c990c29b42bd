package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finsight/internal/domain/account"
	"finsight/internal/domain/transaction"
	"finsight/internal/domain/user"
	"finsight/internal/infrastructure/postgres"
	"finsight/internal/shared/auth"
)

// providerID derives a stable provider identifier from a label so the
// seeder can re-run without duplicating rows (upserts match on it).
func providerID(label string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("finsight-seed/"+label)).String()
}

type seedTxn struct {
	label            string
	amount           decimal.Decimal
	daysAgo          int
	name             string
	merchantName     string
	categoryPrimary  string
	categoryDetailed string
	paymentChannel   string
	locationCity     string
}

func runSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	email := fs.String("email", "demo@finsight.dev", "Email for the demo user")
	password := fs.String("password", "demo-password", "Password for the demo user")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	db := connect()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	demoUser, err := userRepo.Create(ctx, user.CreateUserParams{
		Email:        *email,
		PasswordHash: hash,
	})
	if errors.Is(err, user.ErrEmailTaken) {
		demoUser, err = userRepo.GetByEmail(ctx, *email)
	}
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	checkingBalance := decimal.NewFromFloat(1430.52)
	savingsBalance := decimal.NewFromFloat(6200.00)

	checking, err := accountRepo.Upsert(ctx, account.UpsertParams{
		UserID:         demoUser.ID,
		ProviderID:     providerID("account/checking"),
		Name:           "Everyday Checking",
		AccountType:    "depository",
		Subtype:        "checking",
		CurrencyCode:   "USD",
		CurrentBalance: &checkingBalance,
		IsActive:       true,
	})
	if err != nil {
		log.Fatalf("Failed to seed checking account: %v", err)
	}

	if _, err := accountRepo.Upsert(ctx, account.UpsertParams{
		UserID:         demoUser.ID,
		ProviderID:     providerID("account/savings"),
		Name:           "Rainy Day Savings",
		AccountType:    "depository",
		Subtype:        "savings",
		CurrencyCode:   "USD",
		CurrentBalance: &savingsBalance,
		IsActive:       true,
	}); err != nil {
		log.Fatalf("Failed to seed savings account: %v", err)
	}

	now := time.Now()
	txns := demoTransactions()
	for _, st := range txns {
		_, err := transactionRepo.Upsert(ctx, transaction.UpsertParams{
			UserID:           demoUser.ID,
			AccountID:        checking.ID,
			ProviderID:       providerID("txn/" + st.label),
			Amount:           st.amount,
			CurrencyCode:     "USD",
			Date:             now.AddDate(0, 0, -st.daysAgo),
			Name:             st.name,
			MerchantName:     st.merchantName,
			CategoryPrimary:  st.categoryPrimary,
			CategoryDetailed: st.categoryDetailed,
			PaymentChannel:   st.paymentChannel,
			LocationCity:     st.locationCity,
		})
		if err != nil {
			log.Fatalf("Failed to seed transaction %q: %v", st.label, err)
		}
	}

	log.Printf("Seeded user %s (id=%d) with 2 accounts and %d transactions", demoUser.Email, demoUser.ID, len(txns))
	log.Println("Run `admin insights --user-id=<id>` to generate insights")
}

// demoTransactions builds a few months of activity dense enough to
// trigger most detectors: steady payroll, a dining habit with a recent
// spike, a daily coffee run, subscriptions, groceries, rideshares,
// local shops, ATM fees, and a one-off electronics splurge.
func demoTransactions() []seedTxn {
	var txns []seedTxn

	add := func(label string, amount float64, daysAgo int, txn seedTxn) {
		txn.label = label
		txn.amount = decimal.NewFromFloat(amount)
		txn.daysAgo = daysAgo
		if txn.merchantName != "" && txn.name == "" {
			txn.name = txn.merchantName
		}
		txns = append(txns, txn)
	}

	// Biweekly payroll (negative = inflow)
	for i := 0; i < 4; i++ {
		add(fmt.Sprintf("payroll/%d", i), -2400, 5+i*14, seedTxn{
			merchantName:    "Acme Payroll",
			categoryPrimary: "INCOME",
		})
	}

	// Weekly trattoria dinners, heavier in the current month
	for i := 0; i < 10; i++ {
		add(fmt.Sprintf("dining/luigis/%d", i), 45, 3+i*7, seedTxn{
			merchantName:    "Luigi's Trattoria",
			categoryPrimary: "FOOD_AND_DRINK",
		})
	}
	for i := 0; i < 3; i++ {
		add(fmt.Sprintf("dining/extra/%d", i), 62, 1+i, seedTxn{
			merchantName:    "Harbor Grill",
			categoryPrimary: "RESTAURANTS",
		})
	}

	// Near-daily coffee
	for i := 0; i < 14; i++ {
		add(fmt.Sprintf("coffee/%d", i), 6.25, 1+i*2, seedTxn{
			merchantName:     "Daily Grind Coffee",
			categoryPrimary:  "FOOD_AND_DRINK",
			categoryDetailed: "COFFEE",
		})
	}

	// Monthly subscriptions
	for i := 0; i < 3; i++ {
		add(fmt.Sprintf("sub/netflix/%d", i), 15.99, 10+i*30, seedTxn{
			merchantName:    "Netflix",
			categoryPrimary: "ENTERTAINMENT",
		})
		add(fmt.Sprintf("sub/spotify/%d", i), 9.99, 12+i*30, seedTxn{
			merchantName:    "Spotify",
			categoryPrimary: "ENTERTAINMENT",
		})
	}

	// Weekly groceries
	for i := 0; i < 8; i++ {
		add(fmt.Sprintf("grocery/%d", i), 112.40, 2+i*7, seedTxn{
			merchantName:     "Whole Foods Market",
			categoryPrimary:  "FOOD_AND_DRINK",
			categoryDetailed: "GROCERIES",
		})
	}

	// Rideshares
	for i := 0; i < 6; i++ {
		add(fmt.Sprintf("rideshare/%d", i), 28.50, 4+i*9, seedTxn{
			merchantName:    "Uber",
			categoryPrimary: "TRANSPORTATION",
		})
	}

	// Local shops
	for i := 0; i < 4; i++ {
		add(fmt.Sprintf("local/bakery/%d", i), 9.75, 6+i*8, seedTxn{
			merchantName:    "Hilltop Bakery",
			categoryPrimary: "FOOD_AND_DRINK",
			locationCity:    "Springfield",
		})
	}
	for i := 0; i < 3; i++ {
		add(fmt.Sprintf("local/market/%d", i), 24.10, 9+i*11, seedTxn{
			merchantName:    "Local Harvest Market",
			categoryPrimary: "FOOD_AND_DRINK",
			locationCity:    "Springfield",
		})
	}

	// ATM fees
	for i := 0; i < 3; i++ {
		add(fmt.Sprintf("fee/atm/%d", i), 3.00, 8+i*18, seedTxn{
			name:             "ATM Withdrawal Fee",
			categoryPrimary:  "BANK_FEES",
			categoryDetailed: "ATM_FEES",
		})
	}

	// Electronics splurge this month
	add("electronics/tv", 540, 2, seedTxn{
		merchantName:    "Best Buy",
		categoryPrimary: "GENERAL_MERCHANDISE",
	})
	add("electronics/laptop", 410, 6, seedTxn{
		merchantName:    "Best Buy",
		categoryPrimary: "GENERAL_MERCHANDISE",
	})

	return txns
}
