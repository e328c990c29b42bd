package insight

// Domain is the top-level grouping key for insight families.
type Domain string

const (
	DomainSpendingPatterns    Domain = "spending_patterns"
	DomainSpendingTrends      Domain = "spending_trends"
	DomainFinancialHealth     Domain = "financial_health"
	DomainOptimizationRewards Domain = "optimization_rewards"
	DomainBehaviorLifestyle   Domain = "behavior_lifestyle"
	DomainSustainabilityLocal Domain = "sustainability_local"
	DomainIncomeCashflow      Domain = "income_cashflow"
	DomainLongTermGoals       Domain = "long_term_goals"
)

// Family identifies a specific detector-defined insight type.
type Family string

const (
	FamilyBurstSpending           Family = "burst_spending"
	FamilyCategorySpike           Family = "category_spike"
	FamilyDeliveryVsGrocery       Family = "delivery_vs_grocery"
	FamilyHabitFrequency          Family = "habit_frequency"
	FamilyMerchantSwitching       Family = "merchant_switching"
	FamilyFavoriteMerchants       Family = "favorite_merchants"
	FamilyLapsedFavorites         Family = "lapsed_favorites"
	FamilyRestaurantComeback      Family = "restaurant_comeback"
	FamilyFavoriteRestaurantPush  Family = "favorite_restaurant_push"
	FamilySubscriptionVolume      Family = "subscription_volume"
	FamilySubscriptionPriceChange Family = "subscription_price_change"
	FamilyCostDrift               Family = "cost_drift"
	FamilyCategorySaturation      Family = "category_saturation"
	FamilyCategoryVolatility      Family = "category_volatility"
	FamilyConsistencyScore        Family = "consistency_score"
	FamilyCashBuffer              Family = "cash_buffer"
	FamilyBalanceWarning          Family = "balance_warning"
	FamilyFeeDetection            Family = "fee_detection"
	FamilyMerchantLoyalty         Family = "merchant_loyalty"
	FamilyMerchantBundling        Family = "merchant_bundling"
	FamilyHighFrequencySmall      Family = "high_frequency_small"
	FamilyCategorySubscription    Family = "category_subscription_opportunity"
	FamilyPaymentMethod           Family = "payment_method_optimization"
	FamilyDuplicateServices       Family = "duplicate_services"
	FamilyCategoryTrend           Family = "category_trend"
	FamilyWeekendPattern          Family = "weekend_pattern"
	FamilyTimeOfDayPattern        Family = "time_of_day_pattern"
	FamilyCrossUserAffinity       Family = "cross_user_affinity"
	FamilyTransportationMix       Family = "transportation_mix"
	FamilyLocalSupport            Family = "local_support"
	FamilyLocalShopLoyalty        Family = "local_shop_loyalty"
	FamilyLowWasteTrend           Family = "low_waste_trend"
	FamilyAirTravelFootprint      Family = "air_travel_footprint"
	FamilySeasonalLocalSupport    Family = "seasonal_local_support"
	FamilyIncomePattern           Family = "income_pattern"
	FamilySavingsMilestone        Family = "savings_milestone"
)

// DomainMeta is the static display metadata for a domain.
type DomainMeta struct {
	Name        string
	Description string
	Order       int
}

// FamilyMeta is the static metadata record attached to each family.
// Override, when set, is the floor priority for the family: the
// assembler promotes a candidate's priority up to it, never down.
type FamilyMeta struct {
	Domain      Domain
	Name        string
	Description string
	Override    Priority
}

var domainCatalog = map[Domain]DomainMeta{
	DomainSpendingPatterns:    {Name: "Spending Patterns", Description: "Recurring behaviors and merchant habits.", Order: 1},
	DomainSpendingTrends:      {Name: "Spending Trends", Description: "Month-over-month or category shifts.", Order: 2},
	DomainFinancialHealth:     {Name: "Financial Health", Description: "Balances, fees, and cash buffers.", Order: 3},
	DomainOptimizationRewards: {Name: "Optimization & Rewards", Description: "Opportunities to save or earn more.", Order: 4},
	DomainBehaviorLifestyle:   {Name: "Behavior & Lifestyle", Description: "Time-based or habit insights.", Order: 5},
	DomainSustainabilityLocal: {Name: "Sustainability & Local Impact", Description: "Local businesses and ethical spending.", Order: 6},
	DomainIncomeCashflow:      {Name: "Income & Cashflow", Description: "Deposits, paycheck patterns, and gaps.", Order: 7},
	DomainLongTermGoals:       {Name: "Long-Term Goals", Description: "Savings milestones and planning.", Order: 8},
}

var familyCatalog = map[Family]FamilyMeta{
	FamilyBurstSpending:           {Domain: DomainSpendingPatterns, Name: "Burst Spending", Description: "Short windows of unusually dense activity.", Override: PriorityMedium},
	FamilyCategorySpike:           {Domain: DomainSpendingTrends, Name: "Category Spike", Description: "Significant increase in category spending.", Override: PriorityHigh},
	FamilyDeliveryVsGrocery:       {Domain: DomainSpendingPatterns, Name: "Delivery vs Groceries", Description: "Delivery costs compared to grocery spending."},
	FamilyHabitFrequency:          {Domain: DomainBehaviorLifestyle, Name: "Habit Frequency", Description: "Repeated discretionary habits."},
	FamilyMerchantSwitching:       {Domain: DomainSpendingPatterns, Name: "Merchant Switching", Description: "Shifts between similar merchants."},
	FamilyFavoriteMerchants:       {Domain: DomainSpendingPatterns, Name: "Favorite Merchants", Description: "High-frequency merchants."},
	FamilyLapsedFavorites:         {Domain: DomainBehaviorLifestyle, Name: "Lapsed Favorites", Description: "Merchants you haven't visited recently."},
	FamilyRestaurantComeback:      {Domain: DomainBehaviorLifestyle, Name: "Restaurant Comeback", Description: "Suggests revisiting spots you haven't been to in a while.", Override: PriorityMedium},
	FamilyFavoriteRestaurantPush:  {Domain: DomainBehaviorLifestyle, Name: "Favorite Restaurant Suggestion", Description: "Highlights a favorite dining spot and reminds you to enjoy it again.", Override: PriorityMedium},
	FamilySubscriptionVolume:      {Domain: DomainOptimizationRewards, Name: "Subscription Volume", Description: "Recurring subscriptions overview."},
	FamilySubscriptionPriceChange: {Domain: DomainSpendingTrends, Name: "Subscription Price Change", Description: "Subscription cost adjustments."},
	FamilyCostDrift:               {Domain: DomainSpendingPatterns, Name: "Cost Drift", Description: "Average spend that slowly increases.", Override: PriorityMedium},
	FamilyCategorySaturation:      {Domain: DomainSpendingPatterns, Name: "Category Saturation", Description: "Single category dominates total spending.", Override: PriorityMedium},
	FamilyCategoryVolatility:      {Domain: DomainSpendingPatterns, Name: "Category Volatility", Description: "Large month-to-month category swings.", Override: PriorityMedium},
	FamilyConsistencyScore:        {Domain: DomainSpendingPatterns, Name: "Consistency Score", Description: "Predictability of monthly spending."},
	FamilyCashBuffer:              {Domain: DomainFinancialHealth, Name: "Cash Buffer", Description: "Checking vs savings opportunity.", Override: PriorityHigh},
	FamilyBalanceWarning:          {Domain: DomainFinancialHealth, Name: "Balance Warning", Description: "Low account balances.", Override: PriorityHigh},
	FamilyFeeDetection:            {Domain: DomainFinancialHealth, Name: "Fee Detection", Description: "ATM or maintenance fees.", Override: PriorityMedium},
	FamilyMerchantLoyalty:         {Domain: DomainOptimizationRewards, Name: "Merchant Loyalty Opportunity", Description: "Frequent merchants with loyalty options.", Override: PriorityMedium},
	FamilyMerchantBundling:        {Domain: DomainOptimizationRewards, Name: "Merchant Bundling", Description: "Similar merchants that could be consolidated.", Override: PriorityMedium},
	FamilyHighFrequencySmall:      {Domain: DomainOptimizationRewards, Name: "High-Frequency Small Purchases", Description: "Frequent micro-purchases that could be batched.", Override: PriorityMedium},
	FamilyCategorySubscription:    {Domain: DomainOptimizationRewards, Name: "Category Subscription Opportunity", Description: "Category spend that resembles a membership.", Override: PriorityHigh},
	FamilyPaymentMethod:           {Domain: DomainOptimizationRewards, Name: "Payment Method Optimization", Description: "Large transactions better suited for bonus rewards.", Override: PriorityHigh},
	FamilyDuplicateServices:       {Domain: DomainOptimizationRewards, Name: "Duplicate Services", Description: "Multiple services offering the same benefit.", Override: PriorityMedium},
	FamilyCategoryTrend:           {Domain: DomainSpendingTrends, Name: "Category Trend Shift", Description: "Category spending increase or decrease."},
	FamilyWeekendPattern:          {Domain: DomainBehaviorLifestyle, Name: "Weekend Pattern", Description: "Weekend vs weekday spending."},
	FamilyTimeOfDayPattern:        {Domain: DomainBehaviorLifestyle, Name: "Time of Day Pattern", Description: "Spending concentrated in specific hours."},
	FamilyCrossUserAffinity:       {Domain: DomainBehaviorLifestyle, Name: "Cross-User Affinity Recommendations", Description: "People with similar habits also enjoy these merchants or categories.", Override: PriorityMedium},
	FamilyTransportationMix:       {Domain: DomainBehaviorLifestyle, Name: "Transportation Mix", Description: "Rideshare and parking behaviors."},
	FamilyLocalSupport:            {Domain: DomainSustainabilityLocal, Name: "Local Support", Description: "Spending at local businesses."},
	FamilyLocalShopLoyalty:        {Domain: DomainSustainabilityLocal, Name: "Local Shop Loyalty", Description: "Repeat visits to local merchants."},
	FamilyLowWasteTrend:           {Domain: DomainSustainabilityLocal, Name: "Low-Waste Trend", Description: "Secondhand or thrift purchases."},
	FamilyAirTravelFootprint:      {Domain: DomainSustainabilityLocal, Name: "Air Travel Footprint", Description: "Airline spending as a carbon signal.", Override: PriorityMedium},
	FamilySeasonalLocalSupport:    {Domain: DomainSustainabilityLocal, Name: "Seasonal Local Support", Description: "Local share shift month-to-month."},
	FamilyIncomePattern:           {Domain: DomainIncomeCashflow, Name: "Income Pattern", Description: "Recurring deposits and cashflow gaps."},
	FamilySavingsMilestone:        {Domain: DomainLongTermGoals, Name: "Savings Milestone", Description: "Progress toward savings goals."},
}

// MetaForDomain returns display metadata for a domain key. Unknown keys
// fall back to a derived title-cased label sorted after catalog entries.
func MetaForDomain(d Domain) DomainMeta {
	if meta, ok := domainCatalog[d]; ok {
		return meta
	}
	return DomainMeta{Name: titleFromKey(string(d)), Order: 999}
}

// MetaForFamily returns the metadata record for a family key. Unknown
// keys land in the spending-patterns domain with a derived label and no
// priority override.
func MetaForFamily(f Family) FamilyMeta {
	if meta, ok := familyCatalog[f]; ok {
		return meta
	}
	return FamilyMeta{Domain: DomainSpendingPatterns, Name: titleFromKey(string(f))}
}
