package insight

import (
	"strings"

	"finsight/internal/domain/transaction"
)

// Bucket is the coarse merchant/category classification used when
// detectors need to compare spending across loosely-tagged merchants.
type Bucket string

const (
	BucketNone         Bucket = ""
	BucketDining       Bucket = "DINING"
	BucketGrocery      Bucket = "GROCERY"
	BucketTravel       Bucket = "TRAVEL"
	BucketFitness      Bucket = "FITNESS"
	BucketTransport    Bucket = "TRANSPORT"
	BucketRetail       Bucket = "RETAIL"
	BucketSubscription Bucket = "SUBSCRIPTION"
)

// NormalizeCategory turns a raw provider category into its canonical
// form: uppercased with spaces collapsed to underscores. Empty input
// stays empty. Idempotent over its own output.
func NormalizeCategory(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.ReplaceAll(strings.ToUpper(raw), " ", "_")
}

// FormatCategoryLabel renders a canonical category code for display.
// Missing categories render as "General".
func FormatCategoryLabel(category string) string {
	if category == "" {
		return "General"
	}
	return titleFromKey(NormalizeCategory(category))
}

// titleFromKey converts a snake_case key into a Title Cased label.
func titleFromKey(key string) string {
	words := strings.FieldsFunc(strings.ToLower(key), func(r rune) bool {
		return r == '_' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// MatchesKeywords reports whether value contains any keyword,
// case-insensitively. Empty values never match.
func MatchesKeywords(value string, keywords []string) bool {
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsSpending reports whether a transaction is an outflow. Provider sign
// convention: positive amounts are spending, negative are inflows.
func IsSpending(t *transaction.Transaction) bool {
	return t.Amount.IsPositive()
}

// MerchantLabel returns the best display label for a transaction's
// counterparty: merchant name when tagged, otherwise the free-text name.
func MerchantLabel(t *transaction.Transaction) string {
	if m := strings.TrimSpace(t.MerchantName); m != "" {
		return m
	}
	return strings.TrimSpace(t.Name)
}

// CategoryBucket classifies a transaction into a coarse bucket using an
// ordered cascade: each bucket first checks canonical category
// membership, then falls back to keyword matching on the merchant or
// transaction name. The cascade order decides precedence when a
// transaction could match several buckets: a "restaurant" keyword wins
// over a generic retail keyword because dining is checked first.
func (r *Ruleset) CategoryBucket(category, merchantName string) Bucket {
	normalized := NormalizeCategory(category)
	name := strings.ToLower(merchantName)

	switch {
	case containsString(r.DiningCategories, normalized) || MatchesKeywords(name, r.DiningNameKeywords):
		return BucketDining
	case containsString(r.GroceryCategories, normalized) || MatchesKeywords(name, r.GroceryNameKeywords):
		return BucketGrocery
	case containsString(r.TravelCategories, normalized) || MatchesKeywords(name, r.TravelNameKeywords):
		return BucketTravel
	case containsString(r.FitnessCategories, normalized) || MatchesKeywords(name, r.FitnessKeywords):
		return BucketFitness
	case normalized != "" && strings.Contains(normalized, "TRANSPORT"):
		return BucketTransport
	case MatchesKeywords(name, r.RideshareKeywords):
		return BucketTransport
	case normalized == "GENERAL_MERCHANDISE" || MatchesKeywords(name, r.RetailNameKeywords):
		return BucketRetail
	case MatchesKeywords(name, r.SubscriptionKeywords):
		return BucketSubscription
	}
	return BucketNone
}

// IsLocal reports whether a spending transaction looks like a local
// business: local-flavor keywords in the merchant label, or the
// transaction's city appearing inside the label.
func (r *Ruleset) IsLocal(t *transaction.Transaction) bool {
	if !IsSpending(t) {
		return false
	}
	name := strings.ToLower(MerchantLabel(t))
	city := strings.ToLower(strings.TrimSpace(t.LocationCity))
	if MatchesKeywords(name, r.LocalKeywords) {
		return true
	}
	return city != "" && strings.Contains(name, city)
}

func containsString(list []string, value string) bool {
	if value == "" {
		return false
	}
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
