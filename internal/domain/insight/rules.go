package insight

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ServiceFamily names a group of interchangeable services for the
// duplicate-services detector.
type ServiceFamily struct {
	Key      string   `yaml:"key"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Thresholds holds every numeric knob the detectors consult. Values are
// plain numbers so a deployment can tune them from YAML without code
// changes; amounts are in the user's dominant currency.
type Thresholds struct {
	WindowDays int `yaml:"window_days"`

	DiningSpikeRisePct     float64 `yaml:"dining_spike_rise_pct"`
	DiningSpikeLookback    int     `yaml:"dining_spike_lookback_days"`
	DiningSpikeMaxBuckets  int     `yaml:"dining_spike_max_buckets"`
	DeliveryGroceryRatio   float64 `yaml:"delivery_grocery_ratio"`
	CoffeeHabitCount       int     `yaml:"coffee_habit_count"`
	FavoriteMinVisits      int     `yaml:"favorite_min_visits"`
	FavoriteSpendFloor     float64 `yaml:"favorite_spend_floor"`
	LapsedMinVisits        int     `yaml:"lapsed_min_visits"`
	LapsedQuietDays        int     `yaml:"lapsed_quiet_days"`
	ComebackQuietDays      int     `yaml:"comeback_quiet_days"`
	PushMinVisits          int     `yaml:"push_min_visits"`
	PushWindowDays         int     `yaml:"push_window_days"`
	BurstWindowDays        int     `yaml:"burst_window_days"`
	BurstMinCount          int     `yaml:"burst_min_count"`
	BurstTotalFloor        float64 `yaml:"burst_total_floor"`
	SwitchPriorMinVisits   int     `yaml:"switch_prior_min_visits"`
	SwitchCurrentMinVisits int     `yaml:"switch_current_min_visits"`
	SwitchPriorMaxRecent   int     `yaml:"switch_prior_max_recent"`
	DriftRatio             float64 `yaml:"drift_ratio"`
	DriftTopMerchants      int     `yaml:"drift_top_merchants"`
	DriftMinHalfCount      int     `yaml:"drift_min_half_count"`
	SaturationShare        float64 `yaml:"saturation_share"`
	SaturationDelta        float64 `yaml:"saturation_delta"`
	SaturationFloor        float64 `yaml:"saturation_floor"`
	VolatilityLookbackDays int     `yaml:"volatility_lookback_days"`
	VolatilityMinMonths    int     `yaml:"volatility_min_months"`
	VolatilityCV           float64 `yaml:"volatility_cv"`
	VolatilitySpreadFloor  float64 `yaml:"volatility_spread_floor"`
	ConsistencyMinMonths   int     `yaml:"consistency_min_months"`

	SubscriptionLoadTotal     float64 `yaml:"subscription_load_total"`
	SubscriptionLoadMerchants int     `yaml:"subscription_load_merchants"`
	SubscriptionPriceChange   float64 `yaml:"subscription_price_change_pct"`
	IdleCashFloor             float64 `yaml:"idle_cash_floor"`
	LowBalanceFloor           float64 `yaml:"low_balance_floor"`
	ATMFeeCount               int     `yaml:"atm_fee_count"`

	LoyaltyTopMerchants int     `yaml:"loyalty_top_merchants"`
	LoyaltySpendFloor   float64 `yaml:"loyalty_spend_floor"`
	ElectronicsFloor    float64 `yaml:"electronics_floor"`
	BundleWindowDays    int     `yaml:"bundle_window_days"`
	BundleMinVisits     int     `yaml:"bundle_min_visits"`
	BundleMinMerchants  int     `yaml:"bundle_min_merchants"`
	SmallPurchaseCap    float64 `yaml:"small_purchase_cap"`
	SmallWindowDays     int     `yaml:"small_window_days"`
	SmallMinCount       int     `yaml:"small_min_count"`
	SmallTotalFloor     float64 `yaml:"small_total_floor"`
	SmallMinMerchants   int     `yaml:"small_min_merchants"`
	MembershipDays      int     `yaml:"membership_days"`
	MembershipMinCount  int     `yaml:"membership_min_count"`
	MembershipFloor     float64 `yaml:"membership_floor"`
	MembershipMerchants int     `yaml:"membership_merchants"`
	TravelWindowDays    int     `yaml:"travel_window_days"`
	TravelEachFloor     float64 `yaml:"travel_each_floor"`
	TravelTotalFloor    float64 `yaml:"travel_total_floor"`
	TravelMinCount      int     `yaml:"travel_min_count"`
	ServiceWindowDays   int     `yaml:"service_window_days"`

	WeekendRatio   float64 `yaml:"weekend_ratio"`
	EveningShare   float64 `yaml:"evening_share"`
	RideshareFloor float64 `yaml:"rideshare_floor"`
	ParkingCount   int     `yaml:"parking_count"`

	AffinityMinPopulation int `yaml:"affinity_min_population"`
	AffinityMinOverlap    int `yaml:"affinity_min_overlap"`
	AffinityTopPicks      int `yaml:"affinity_top_picks"`
	AffinityWindowDays    int `yaml:"affinity_window_days"`

	LocalLoyaltyMerchants int     `yaml:"local_loyalty_merchants"`
	LocalLoyaltyVisits    int     `yaml:"local_loyalty_visits"`
	LowWasteMinCount      int     `yaml:"low_waste_min_count"`
	LowWasteWindowDays    int     `yaml:"low_waste_window_days"`
	AirlineMinCount       int     `yaml:"airline_min_count"`
	AirlineWindowDays     int     `yaml:"airline_window_days"`
	SeasonalShareDelta    float64 `yaml:"seasonal_share_delta"`

	TrendChangePct  float64 `yaml:"trend_change_pct"`
	TrendHighIncPct float64 `yaml:"trend_high_increase_pct"`
	TrendHighDecPct float64 `yaml:"trend_high_decrease_pct"`

	IncomeRecurringCount int     `yaml:"income_recurring_count"`
	SavingsFloor         float64 `yaml:"savings_floor"`
}

// Ruleset is the full detector configuration: category sets, keyword
// tables, service families, and thresholds. DefaultRuleset returns the
// battery the engine ships with; LoadRuleset layers YAML overrides on
// top of it.
type Ruleset struct {
	DiningCategories  []string `yaml:"dining_categories"`
	GroceryCategories []string `yaml:"grocery_categories"`
	TravelCategories  []string `yaml:"travel_categories"`
	FitnessCategories []string `yaml:"fitness_categories"`

	DiningNameKeywords  []string `yaml:"dining_name_keywords"`
	GroceryNameKeywords []string `yaml:"grocery_name_keywords"`
	TravelNameKeywords  []string `yaml:"travel_name_keywords"`
	RetailNameKeywords  []string `yaml:"retail_name_keywords"`

	DeliveryKeywords     []string `yaml:"delivery_keywords"`
	SubscriptionKeywords []string `yaml:"subscription_keywords"`
	RideshareKeywords    []string `yaml:"rideshare_keywords"`
	TransportKeywords    []string `yaml:"transport_keywords"`
	LocalKeywords        []string `yaml:"local_keywords"`
	FitnessKeywords      []string `yaml:"fitness_keywords"`
	LowWasteKeywords     []string `yaml:"low_waste_keywords"`
	LowWasteCategories   []string `yaml:"low_waste_categories"`
	AirlineKeywords      []string `yaml:"airline_keywords"`

	ServiceFamilies []ServiceFamily `yaml:"service_families"`

	Thresholds Thresholds `yaml:"thresholds"`
}

// DefaultRuleset returns the built-in detector configuration.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		DiningCategories:  []string{"FOOD_AND_DRINK", "RESTAURANTS", "BARS", "FOOD_DELIVERY", "COFFEE"},
		GroceryCategories: []string{"GROCERIES", "SUPERMARKETS"},
		TravelCategories:  []string{"TRAVEL", "AIRLINES", "AIR_TRAVEL", "AIRLINE", "LODGING", "HOTELS"},
		FitnessCategories: []string{"GYM", "GYMS", "GYMS_AND_FITNESS", "SPORTS_AND_RECREATION", "FITNESS", "HEALTH_AND_FITNESS"},

		DiningNameKeywords:  []string{"restaurant", "cafe", "pizza", "bbq", "grill", "diner"},
		GroceryNameKeywords: []string{"market", "grocer", "grocery", "supermarket", "whole foods"},
		TravelNameKeywords:  []string{"hotel", "inn", "airlines", "airport"},
		RetailNameKeywords:  []string{"shop", "outlet", "store", "mall"},

		DeliveryKeywords:     []string{"uber eats", "doordash", "grubhub", "postmates", "delivery"},
		SubscriptionKeywords: []string{"subscription", "netflix", "spotify", "hulu", "adobe", "prime", "membership", "cloud", "shave"},
		RideshareKeywords:    []string{"uber", "lyft"},
		TransportKeywords:    []string{"uber", "lyft", "taxi", "gas", "parking"},
		LocalKeywords: []string{
			"local", "market", "cafe", "bakery", "farmers market", "co-op",
			"kitchen", "bistro", "cantina", "brew", "taproom", "eatery",
			"collective", "roastery", "diner",
		},
		FitnessKeywords:    []string{"gym", "fitness", "pilates", "yoga", "cycle", "boxing", "studio", "training"},
		LowWasteKeywords:   []string{"thrift", "consignment", "secondhand", "resale", "reuse", "vintage", "goodwill", "salvation army", "plato", "buffalo exchange"},
		LowWasteCategories: []string{"SECOND_HAND", "CHARITY", "USED_MERCHANDISE"},
		AirlineKeywords: []string{
			"airlines", "delta", "united", "american airlines", "southwest",
			"jetblue", "alaska airlines", "frontier", "spirit airlines", "air canada",
		},

		ServiceFamilies: []ServiceFamily{
			{Key: "cloud_storage", Label: "cloud storage", Keywords: []string{"icloud", "google storage", "google drive", "dropbox", "onedrive", "box.com", "pcloud"}},
			{Key: "productivity_suite", Label: "productivity tools", Keywords: []string{"microsoft 365", "office 365", "notion", "evernote", "asana", "todoist"}},
			{Key: "video_streaming", Label: "video streaming", Keywords: []string{"netflix", "hulu", "disney+", "max", "prime video", "apple tv"}},
		},

		Thresholds: Thresholds{
			WindowDays: 180,

			DiningSpikeRisePct:     30,
			DiningSpikeLookback:    90,
			DiningSpikeMaxBuckets:  8,
			DeliveryGroceryRatio:   1.5,
			CoffeeHabitCount:       12,
			FavoriteMinVisits:      3,
			FavoriteSpendFloor:     90,
			LapsedMinVisits:        2,
			LapsedQuietDays:        30,
			ComebackQuietDays:      21,
			PushMinVisits:          3,
			PushWindowDays:         45,
			BurstWindowDays:        3,
			BurstMinCount:          5,
			BurstTotalFloor:        50,
			SwitchPriorMinVisits:   3,
			SwitchCurrentMinVisits: 3,
			SwitchPriorMaxRecent:   1,
			DriftRatio:             1.15,
			DriftTopMerchants:      2,
			DriftMinHalfCount:      2,
			SaturationShare:        0.30,
			SaturationDelta:        0.10,
			SaturationFloor:        150,
			VolatilityLookbackDays: 150,
			VolatilityMinMonths:    3,
			VolatilityCV:           0.6,
			VolatilitySpreadFloor:  100,
			ConsistencyMinMonths:   3,

			SubscriptionLoadTotal:     400,
			SubscriptionLoadMerchants: 5,
			SubscriptionPriceChange:   10,
			IdleCashFloor:             5000,
			LowBalanceFloor:           200,
			ATMFeeCount:               3,

			LoyaltyTopMerchants: 5,
			LoyaltySpendFloor:   200,
			ElectronicsFloor:    800,
			BundleWindowDays:    45,
			BundleMinVisits:     2,
			BundleMinMerchants:  3,
			SmallPurchaseCap:    10,
			SmallWindowDays:     30,
			SmallMinCount:       12,
			SmallTotalFloor:     50,
			SmallMinMerchants:   3,
			MembershipDays:      60,
			MembershipMinCount:  3,
			MembershipFloor:     150,
			MembershipMerchants: 2,
			TravelWindowDays:    90,
			TravelEachFloor:     250,
			TravelTotalFloor:    500,
			TravelMinCount:      2,
			ServiceWindowDays:   45,

			WeekendRatio:   1.4,
			EveningShare:   0.30,
			RideshareFloor: 150,
			ParkingCount:   5,

			AffinityMinPopulation: 5,
			AffinityMinOverlap:    5,
			AffinityTopPicks:      3,
			AffinityWindowDays:    90,

			LocalLoyaltyMerchants: 2,
			LocalLoyaltyVisits:    3,
			LowWasteMinCount:      3,
			LowWasteWindowDays:    90,
			AirlineMinCount:       2,
			AirlineWindowDays:     90,
			SeasonalShareDelta:    0.05,

			TrendChangePct:  25,
			TrendHighIncPct: 40,
			TrendHighDecPct: 85,

			IncomeRecurringCount: 3,
			SavingsFloor:         500,
		},
	}
}

// LoadRuleset reads YAML overrides from path and layers them onto the
// default ruleset. Fields absent from the file keep their defaults;
// list fields present in the file replace the default list entirely.
func LoadRuleset(path string) (*Ruleset, error) {
	rules := DefaultRuleset()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset file: %w", err)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset file: %w", err)
	}
	return rules, nil
}

// dec converts a configured threshold into an exact decimal for
// comparisons against transaction amounts.
func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
