package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// Allowed account types for validation
	accountTypes = map[string]struct{}{
		"depository": {},
		"credit":     {},
		"investment": {},
		"loan":       {},
		"other":      {},
	}
	// Common ISO 4217 currency codes
	validCurrencies = map[string]struct{}{
		"USD": {}, "EUR": {}, "GBP": {}, "JPY": {}, "CHF": {},
		"CAD": {}, "AUD": {}, "NZD": {}, "CNY": {}, "INR": {},
		"MXN": {}, "BRL": {}, "SEK": {}, "NOK": {}, "DKK": {},
		"PLN": {}, "TRY": {}, "KRW": {}, "SGD": {}, "HKD": {},
	}
)

// Domain errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidCurrency    = errors.New("valid ISO 4217 currency is required")
	ErrForbidden          = errors.New("access forbidden")
)

// Account represents a financial account domain entity
type Account struct {
	ID             int64            `json:"id"`
	UserID         int64            `json:"userId"`
	ProviderID     string           `json:"providerId"`
	Name           string           `json:"name"`
	AccountType    string           `json:"accountType"`
	Subtype        string           `json:"subtype,omitempty"`
	CurrencyCode   string           `json:"currencyCode"`
	CurrentBalance *decimal.Decimal `json:"currentBalance,omitempty"` // nil when the provider has no balance
	IsActive       bool             `json:"isActive"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// UpsertParams contains parameters for creating or refreshing an account
type UpsertParams struct {
	UserID         int64
	ProviderID     string
	Name           string
	AccountType    string
	Subtype        string
	CurrencyCode   string
	CurrentBalance *decimal.Decimal
	IsActive       bool
}

// Validate validates the upsert parameters
func (p UpsertParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.ProviderID == "" {
		return errors.New("provider account ID is required")
	}
	if p.Name == "" {
		return errors.New("account name is required")
	}
	if !IsValidAccountType(p.AccountType) {
		return ErrInvalidAccountType
	}
	if !IsValidCurrency(p.CurrencyCode) {
		return ErrInvalidCurrency
	}
	return nil
}

// IsValidAccountType checks if the provided account type is valid.
func IsValidAccountType(t string) bool {
	_, ok := accountTypes[t]
	return ok
}

// IsValidCurrency checks if the provided currency is a valid ISO 4217 code.
func IsValidCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	_, ok := validCurrencies[c]
	return ok
}
