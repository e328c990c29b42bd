package insight

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrInsightNotFound = errors.New("insight not found")
)

// Priority orders insights for display. Severity is high > medium > low.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// rank maps a priority to its severity position; unknown values are
// treated as medium, matching how loosely-tagged rows are displayed.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// MoreSevere reports whether p outranks other.
func (p Priority) MoreSevere(other Priority) bool {
	return p.rank() < other.rank()
}

// Insight is a finalized observation persisted for a user. Insights are
// regenerated wholesale on every run; rows only live until the next run.
type Insight struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"userId"`
	Domain      Domain         `json:"domain"`
	Family      Family         `json:"family"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    Priority       `json:"priority"`
	Evidence    map[string]any `json:"evidence,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Candidate is a detector's raw output before priority arbitration and
// metadata attachment. Title/Description override the family defaults
// when set. Context describes the evaluation window; when empty the
// assembler fills in the default 90-day context.
type Candidate struct {
	Family      Family
	Title       string
	Description string
	Priority    Priority
	Evidence    map[string]any
	Context     string
}

// CreateParams carries a finalized insight to the persistence layer.
// Evidence is serialized to JSON text by the repository.
type CreateParams struct {
	UserID      int64
	Domain      Domain
	Family      Family
	Title       string
	Description string
	Priority    Priority
	Evidence    map[string]any
}

// FamilyGroup is one insight family's records inside a domain group.
type FamilyGroup struct {
	Key         Family     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Insights    []*Insight `json:"insights"`
}

// DomainGroup collects a domain's families in catalog order.
type DomainGroup struct {
	Key         Domain        `json:"key"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Families    []FamilyGroup `json:"families"`
}

// GroupedInsights is the engine's response shape: domains ordered by
// their catalog display order, families keyed within each domain.
type GroupedInsights struct {
	Domains []DomainGroup `json:"domains"`
}
