package insight

import (
	"context"
	"fmt"
	"sort"
)

var bucketLabels = map[Bucket]string{
	BucketDining:       "restaurants and dining",
	BucketGrocery:      "grocery stores",
	BucketTransport:    "transportation and rideshare",
	BucketTravel:       "travel",
	BucketFitness:      "fitness",
	BucketRetail:       "retail and general merchandise",
	BucketSubscription: "subscriptions and streaming",
}

// affinityInsights recommends merchants popular with users whose visit
// patterns overlap the current user's. This is the only detector that
// reaches outside the snapshot: it pulls a population-wide index of
// distinct (user, merchant, category) rows for the last 90 days.
func (e *Engine) affinityInsights(ctx context.Context, s *Snapshot) ([]Candidate, error) {
	th := e.rules.Thresholds

	type merchantMeta struct {
		category string
		bucket   Bucket
	}
	userMerchants := make(map[string]merchantMeta)
	var userOrder []string
	for _, t := range s.Transactions {
		if t.MerchantName == "" || !IsSpending(t) {
			continue
		}
		if _, ok := userMerchants[t.MerchantName]; !ok {
			userOrder = append(userOrder, t.MerchantName)
		}
		category := NormalizeCategory(t.CategoryPrimary)
		userMerchants[t.MerchantName] = merchantMeta{
			category: category,
			bucket:   e.rules.CategoryBucket(t.CategoryPrimary, t.MerchantName),
		}
	}
	if len(userMerchants) == 0 {
		return nil, nil
	}

	since := s.Now.AddDate(0, 0, -th.AffinityWindowDays)
	rows, err := e.repo.PopulationMerchantVisits(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load population merchant visits: %w", err)
	}

	merchantUsers := make(map[string]map[int64]struct{})
	merchantCategories := make(map[string]string)
	merchantBuckets := make(map[string]Bucket)
	var merchantOrder []string
	for _, row := range rows {
		if row.Merchant == "" {
			continue
		}
		users, ok := merchantUsers[row.Merchant]
		if !ok {
			users = make(map[int64]struct{})
			merchantUsers[row.Merchant] = users
			merchantOrder = append(merchantOrder, row.Merchant)
			merchantCategories[row.Merchant] = NormalizeCategory(row.Category)
			merchantBuckets[row.Merchant] = e.rules.CategoryBucket(row.Category, row.Merchant)
		}
		users[row.UserID] = struct{}{}
	}

	// The current user's merchants always count toward the population.
	for _, merchant := range userOrder {
		meta := userMerchants[merchant]
		users, ok := merchantUsers[merchant]
		if !ok {
			users = make(map[int64]struct{})
			merchantUsers[merchant] = users
			merchantOrder = append(merchantOrder, merchant)
			merchantCategories[merchant] = meta.category
			merchantBuckets[merchant] = meta.bucket
		}
		users[s.UserID] = struct{}{}
	}

	type affinityScore struct {
		score      float64
		base       string
		confidence float64
		overlap    int
		population int
		bucket     Bucket
		category   string
	}
	scores := make(map[string]*affinityScore)
	var scoreOrder []string
	for _, base := range userOrder {
		meta := userMerchants[base]
		baseCategory := meta.category
		if baseCategory == "" {
			baseCategory = merchantCategories[base]
		}
		baseBucket := meta.bucket
		if baseBucket == BucketNone {
			baseBucket = merchantBuckets[base]
		}
		if baseBucket == BucketNone {
			continue
		}
		baseUsers := merchantUsers[base]
		if len(baseUsers) < th.AffinityMinPopulation {
			continue
		}
		for _, candidate := range merchantOrder {
			if candidate == base {
				continue
			}
			if _, visited := userMerchants[candidate]; visited {
				continue
			}
			if merchantBuckets[candidate] == BucketNone || merchantBuckets[candidate] != baseBucket {
				continue
			}
			overlap := 0
			for user := range merchantUsers[candidate] {
				if _, ok := baseUsers[user]; ok {
					overlap++
				}
			}
			if overlap < th.AffinityMinOverlap {
				continue
			}
			confidence := float64(overlap) / float64(len(baseUsers))
			adoption := float64(len(merchantUsers[candidate])) / float64(len(baseUsers))
			score := confidence * adoption
			existing, ok := scores[candidate]
			if !ok {
				scores[candidate] = &affinityScore{
					score: score, base: base, confidence: confidence,
					overlap: overlap, population: len(baseUsers),
					bucket: baseBucket, category: baseCategory,
				}
				scoreOrder = append(scoreOrder, candidate)
			} else if score > existing.score {
				*existing = affinityScore{
					score: score, base: base, confidence: confidence,
					overlap: overlap, population: len(baseUsers),
					bucket: baseBucket, category: baseCategory,
				}
			}
		}
	}
	if len(scores) == 0 {
		return nil, nil
	}

	sort.SliceStable(scoreOrder, func(i, j int) bool {
		return scores[scoreOrder[i]].score > scores[scoreOrder[j]].score
	})
	if len(scoreOrder) > th.AffinityTopPicks {
		scoreOrder = scoreOrder[:th.AffinityTopPicks]
	}

	var out []Candidate
	for _, candidate := range scoreOrder {
		meta := scores[candidate]
		categoryText := bucketLabels[meta.bucket]
		if categoryText == "" {
			categoryLabel := merchantCategories[meta.base]
			if categoryLabel == "" {
				categoryLabel = merchantCategories[candidate]
			}
			if categoryLabel != "" {
				categoryText = FormatCategoryLabel(categoryLabel)
			} else {
				categoryText = "this category"
			}
		}
		out = append(out, Candidate{
			Family: FamilyCrossUserAffinity,
			Title:  fmt.Sprintf("Users who love %s also enjoy %s", meta.base, candidate),
			Description: fmt.Sprintf(
				"Within %s, fans of %s frequently visit %s. Consider giving it a try.",
				categoryText, meta.base, candidate,
			),
			Priority: PriorityMedium,
			Evidence: map[string]any{
				"base_merchant":         meta.base,
				"recommended_merchant":  candidate,
				"confidence_percentage": roundTo(meta.confidence*100, 1),
				"supporting_users":      meta.overlap,
			},
			Context: "Aggregated across similar users in the last 90 days.",
		})
	}
	return out, nil
}
