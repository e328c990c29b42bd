package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrForbidden           = errors.New("access forbidden")
)

// Transaction represents a settled or pending bank transaction.
// Sign convention follows the provider feed: positive amounts are spending,
// negative amounts are inflows (income, refunds, deposits).
type Transaction struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"userId"`
	AccountID        int64           `json:"accountId"`
	ProviderID       string          `json:"providerId"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	Date             time.Time       `json:"date"`
	Name             string          `json:"name"`
	MerchantName     string          `json:"merchantName,omitempty"`
	CategoryPrimary  string          `json:"categoryPrimary,omitempty"`
	CategoryDetailed string          `json:"categoryDetailed,omitempty"`
	PaymentChannel   string          `json:"paymentChannel,omitempty"`
	PaymentMetadata  string          `json:"paymentMetadata,omitempty"`
	LocationCity     string          `json:"locationCity,omitempty"`
	IsPending        bool            `json:"isPending"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// UpsertParams is used for syncing transactions from the provider feed
// and by the demo seeder. The provider transaction ID is the upsert key.
type UpsertParams struct {
	UserID           int64
	AccountID        int64
	ProviderID       string
	Amount           decimal.Decimal
	CurrencyCode     string
	Date             time.Time
	Name             string
	MerchantName     string
	CategoryPrimary  string
	CategoryDetailed string
	PaymentChannel   string
	PaymentMetadata  string
	LocationCity     string
	IsPending        bool
}

// Validate validates the upsert parameters
func (p UpsertParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.AccountID <= 0 {
		return errors.New("valid account ID is required")
	}
	if p.ProviderID == "" {
		return errors.New("provider transaction ID is required")
	}
	if p.Name == "" {
		return errors.New("transaction name is required")
	}
	if p.Date.IsZero() {
		return errors.New("transaction date is required")
	}
	return nil
}
