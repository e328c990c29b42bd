package insight

import (
	"context"
	"fmt"
	"log"
	"time"

	"finsight/internal/shared/metrics"
)

// defaultContext is attached to any candidate that does not describe
// its own evaluation window.
const defaultContext = "Based on the last 90 days of activity."

// Engine produces insights for a user by running every detector over a
// frozen snapshot of recent activity. Each run deletes the user's prior
// insights and regenerates the full set; callers must serialize runs
// for the same user (the engine itself holds no locks).
type Engine struct {
	repo  Repository
	rules *Ruleset

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

// NewEngine creates an insight engine backed by the given repository
// and detector configuration.
func NewEngine(repo Repository, rules *Ruleset) *Engine {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Engine{
		repo:  repo,
		rules: rules,
		now:   time.Now,
	}
}

// GenerateAll regenerates the full insight set for a user and returns
// it grouped by domain and family. The existing set is deleted first;
// an empty snapshot yields an empty grouped result without running any
// detector.
func (e *Engine) GenerateAll(ctx context.Context, userID int64) (*GroupedInsights, error) {
	started := e.now()

	if err := e.repo.DeleteByUser(ctx, userID); err != nil {
		metrics.GenerationRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to clear insights: %w", err)
	}

	snapshot, err := loadSnapshot(ctx, e.repo, userID, e.now(), e.rules.Thresholds.WindowDays)
	if err != nil {
		metrics.GenerationRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	if snapshot.Empty() {
		metrics.GenerationRuns.WithLabelValues("empty").Inc()
		return e.ListGrouped(ctx, userID)
	}

	var candidates []Candidate
	candidates = append(candidates, e.diningInsights(snapshot)...)
	candidates = append(candidates, e.spendingPatternInsights(snapshot)...)
	candidates = append(candidates, e.financialHealthInsights(snapshot)...)
	candidates = append(candidates, e.merchantInsights(snapshot)...)
	candidates = append(candidates, e.behavioralInsights(snapshot)...)
	candidates = append(candidates, e.transportationInsights(snapshot)...)

	affinity, err := e.affinityInsights(ctx, snapshot)
	if err != nil {
		metrics.GenerationRuns.WithLabelValues("error").Inc()
		return nil, err
	}
	candidates = append(candidates, affinity...)

	candidates = append(candidates, e.sustainabilityInsights(snapshot)...)
	candidates = append(candidates, e.consumptionInsights(snapshot)...)
	candidates = append(candidates, e.incomeInsights(snapshot)...)
	candidates = append(candidates, e.goalInsights(snapshot)...)

	for _, candidate := range candidates {
		params := e.assemble(userID, candidate)
		if _, err := e.repo.Create(ctx, params); err != nil {
			metrics.GenerationRuns.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("failed to persist insight: %w", err)
		}
		metrics.InsightsGenerated.WithLabelValues(string(params.Domain)).Inc()
	}

	metrics.GenerationRuns.WithLabelValues("success").Inc()
	metrics.GenerationDuration.Observe(time.Since(started).Seconds())
	log.Printf("Generated %d insights for user %d", len(candidates), userID)

	return e.ListGrouped(ctx, userID)
}

// ListGrouped returns the user's stored insights grouped by domain and
// family without regenerating them.
func (e *Engine) ListGrouped(ctx context.Context, userID int64) (*GroupedInsights, error) {
	rows, err := e.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return GroupInsights(rows), nil
}

// assemble finalizes a candidate: family metadata fills missing title
// and description, the family's override can promote (never demote) the
// priority, and the default comparison context is attached when the
// detector supplied none.
func (e *Engine) assemble(userID int64, c Candidate) CreateParams {
	meta := MetaForFamily(c.Family)

	title := c.Title
	if title == "" {
		title = meta.Name
	}
	description := c.Description
	if description == "" {
		description = meta.Description
	}

	priority := c.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if meta.Override != "" && meta.Override.MoreSevere(priority) {
		priority = meta.Override
	}

	evidence := make(map[string]any, len(c.Evidence)+1)
	for k, v := range c.Evidence {
		evidence[k] = v
	}
	if _, ok := evidence["comparison_context"]; !ok {
		context := c.Context
		if context == "" {
			context = defaultContext
		}
		evidence["comparison_context"] = context
	}

	return CreateParams{
		UserID:      userID,
		Domain:      meta.Domain,
		Family:      c.Family,
		Title:       title,
		Description: description,
		Priority:    priority,
		Evidence:    evidence,
	}
}

// GroupInsights arranges stored insights into the API response shape:
// domains in catalog display order, families in first-seen order within
// each domain. Unknown domains sort after catalog entries.
func GroupInsights(rows []*Insight) *GroupedInsights {
	type domainAccum struct {
		meta     DomainMeta
		key      Domain
		families []Family
		byFamily map[Family][]*Insight
	}

	accums := make(map[Domain]*domainAccum)
	var order []Domain
	for _, row := range rows {
		accum, ok := accums[row.Domain]
		if !ok {
			accum = &domainAccum{
				meta:     MetaForDomain(row.Domain),
				key:      row.Domain,
				byFamily: make(map[Family][]*Insight),
			}
			accums[row.Domain] = accum
			order = append(order, row.Domain)
		}
		if _, seen := accum.byFamily[row.Family]; !seen {
			accum.families = append(accum.families, row.Family)
		}
		accum.byFamily[row.Family] = append(accum.byFamily[row.Family], row)
	}

	// Stable sort by display order, preserving first-seen order on ties.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && accums[order[j]].meta.Order < accums[order[j-1]].meta.Order; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	grouped := &GroupedInsights{Domains: make([]DomainGroup, 0, len(order))}
	for _, key := range order {
		accum := accums[key]
		group := DomainGroup{
			Key:         key,
			Name:        accum.meta.Name,
			Description: accum.meta.Description,
			Families:    make([]FamilyGroup, 0, len(accum.families)),
		}
		for _, family := range accum.families {
			familyMeta := MetaForFamily(family)
			group.Families = append(group.Families, FamilyGroup{
				Key:         family,
				Name:        familyMeta.Name,
				Description: familyMeta.Description,
				Insights:    accum.byFamily[family],
			})
		}
		grouped.Domains = append(grouped.Domains, group)
	}
	return grouped
}
