package insight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRuleset(t *testing.T) {
	rules := DefaultRuleset()

	if rules.Thresholds.WindowDays != 180 {
		t.Errorf("expected 180-day window, got %d", rules.Thresholds.WindowDays)
	}
	if len(rules.ServiceFamilies) != 3 {
		t.Errorf("expected 3 service families, got %d", len(rules.ServiceFamilies))
	}
	if !containsString(rules.DiningCategories, "FOOD_AND_DRINK") {
		t.Error("dining categories missing FOOD_AND_DRINK")
	}
	for _, keyword := range []string{"uber", "lyft", "taxi", "gas", "parking"} {
		if !containsString(rules.TransportKeywords, keyword) {
			t.Errorf("transport keywords missing %q", keyword)
		}
	}
}

func TestLoadRulesetOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ruleset.yaml")
	content := []byte("thresholds:\n  coffee_habit_count: 20\n  idle_cash_floor: 10000\nrideshare_keywords:\n  - uber\n  - lyft\n  - cabify\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write ruleset file: %v", err)
	}

	rules, err := LoadRuleset(path)
	if err != nil {
		t.Fatalf("LoadRuleset failed: %v", err)
	}
	if rules.Thresholds.CoffeeHabitCount != 20 {
		t.Errorf("expected overridden coffee count 20, got %d", rules.Thresholds.CoffeeHabitCount)
	}
	if rules.Thresholds.IdleCashFloor != 10000 {
		t.Errorf("expected overridden idle cash floor, got %v", rules.Thresholds.IdleCashFloor)
	}
	if len(rules.RideshareKeywords) != 3 {
		t.Errorf("expected replaced rideshare list, got %v", rules.RideshareKeywords)
	}
	// Untouched fields keep their defaults.
	if rules.Thresholds.WindowDays != 180 {
		t.Errorf("expected default window to survive, got %d", rules.Thresholds.WindowDays)
	}
}

func TestLoadRulesetEmptyPath(t *testing.T) {
	rules, err := LoadRuleset("")
	if err != nil {
		t.Fatalf("LoadRuleset with empty path failed: %v", err)
	}
	if rules.Thresholds.BurstMinCount != 5 {
		t.Errorf("expected defaults, got burst min count %d", rules.Thresholds.BurstMinCount)
	}
}

func TestPriorityMoreSevere(t *testing.T) {
	if !PriorityHigh.MoreSevere(PriorityMedium) {
		t.Error("high must outrank medium")
	}
	if !PriorityMedium.MoreSevere(PriorityLow) {
		t.Error("medium must outrank low")
	}
	if PriorityLow.MoreSevere(PriorityLow) {
		t.Error("equal priorities must not outrank each other")
	}
	// Unknown values are treated as medium.
	if Priority("urgent").MoreSevere(PriorityMedium) {
		t.Error("unknown priority should rank as medium")
	}
}
