package insight

import (
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/domain/transaction"
)

// Detector helpers shared across the detector files. Grouping passes
// keep an insertion-ordered key slice next to each map so that a rerun
// over the same snapshot emits candidates in the same order; Go map
// iteration alone would not be deterministic.

func positiveSum(txns []*transaction.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if IsSpending(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func daysSince(now, then time.Time) int {
	return int(now.Sub(then).Hours() / 24)
}

func evidenceAmount(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func roundTo(value float64, places int32) float64 {
	return evidenceAmount(decimal.NewFromFloat(value).Round(places))
}
