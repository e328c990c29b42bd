package insight

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "food and drink", "FOOD_AND_DRINK"},
		{"already canonical", "FOOD_AND_DRINK", "FOOD_AND_DRINK"},
		{"mixed case", "General Merchandise", "GENERAL_MERCHANDISE"},
		{"empty", "", ""},
		{"single word", "travel", "TRAVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCategory(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeCategoryIdempotent(t *testing.T) {
	inputs := []string{"food and drink", "FOOD_AND_DRINK", "Air Travel", "", "gyms and fitness"}
	for _, input := range inputs {
		once := NormalizeCategory(input)
		twice := NormalizeCategory(once)
		if once != twice {
			t.Errorf("NormalizeCategory not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestFormatCategoryLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "General"},
		{"FOOD_AND_DRINK", "Food And Drink"},
		{"general merchandise", "General Merchandise"},
		{"TRAVEL", "Travel"},
	}

	for _, tt := range tests {
		got := FormatCategoryLabel(tt.input)
		if got != tt.expected {
			t.Errorf("FormatCategoryLabel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestMatchesKeywords(t *testing.T) {
	keywords := []string{"netflix", "spotify"}

	if !MatchesKeywords("NETFLIX.COM", keywords) {
		t.Error("expected case-insensitive match for NETFLIX.COM")
	}
	if MatchesKeywords("", keywords) {
		t.Error("empty value must never match")
	}
	if MatchesKeywords("whole foods", keywords) {
		t.Error("unexpected match for whole foods")
	}
}

func TestCategoryBucket(t *testing.T) {
	rules := DefaultRuleset()

	tests := []struct {
		name     string
		category string
		merchant string
		expected Bucket
	}{
		{"dining category", "FOOD_AND_DRINK", "", BucketDining},
		{"dining keyword", "", "Luigi's Restaurant", BucketDining},
		{"grocery category", "GROCERIES", "", BucketGrocery},
		{"travel category", "LODGING", "", BucketTravel},
		{"fitness keyword", "", "Peak Pilates Studio", BucketFitness},
		{"transport category substring", "TRANSPORTATION", "", BucketTransport},
		{"rideshare keyword", "", "Uber Trip", BucketTransport},
		{"retail category", "GENERAL_MERCHANDISE", "", BucketRetail},
		{"subscription keyword", "", "Netflix", BucketSubscription},
		{"no match", "MEDICAL", "City Clinic", BucketNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.CategoryBucket(tt.category, tt.merchant)
			if got != tt.expected {
				t.Errorf("CategoryBucket(%q, %q) = %q, want %q", tt.category, tt.merchant, got, tt.expected)
			}
		})
	}
}

func TestCategoryBucketCascadeOrder(t *testing.T) {
	rules := DefaultRuleset()

	// A dining category must win even when the merchant name carries a
	// retail keyword, because dining is checked first.
	if got := rules.CategoryBucket("RESTAURANTS", "Food Court at the Mall"); got != BucketDining {
		t.Errorf("dining category should take precedence over retail keyword, got %q", got)
	}

	// A grocery category beats a dining name keyword lower in the text
	// cascade only when the dining rule does not match; "market" alone
	// must land in grocery.
	if got := rules.CategoryBucket("", "Central Market"); got != BucketGrocery {
		t.Errorf("expected grocery bucket for market keyword, got %q", got)
	}
}
