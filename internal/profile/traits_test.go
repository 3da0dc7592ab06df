package profile

import (
	"math"
	"testing"
)

func notes(categories ...string) []Note {
	out := make([]Note, 0, len(categories))
	for _, cat := range categories {
		out = append(out, Note{Text: "n", Category: cat})
	}
	return out
}

func TestTraits_Empty(t *testing.T) {
	if got := Traits(nil); len(got) != 0 {
		t.Errorf("Traits(nil) = %v, want empty", got)
	}
	// Uncategorized notes alone still yield an empty map.
	if got := Traits(notes("", "", "")); len(got) != 0 {
		t.Errorf("Traits(uncategorized) = %v, want empty", got)
	}
}

func TestTraits_Proportions(t *testing.T) {
	history := notes("food", "food", "gold", "")
	got := Traits(history)

	if got["food"] != 0.67 {
		t.Errorf("food score = %v, want 0.67", got["food"])
	}
	if got["gold"] != 0.33 {
		t.Errorf("gold score = %v, want 0.33", got["gold"])
	}
	if _, ok := got["sleep"]; ok {
		t.Error("sleep has no notes and must be omitted, not zero-valued")
	}
}

func TestTraits_NoZeroScores(t *testing.T) {
	got := Traits(notes("sleep", "sleep", "sleep"))
	for cat, score := range got {
		if score == 0 {
			t.Errorf("category %s returned with score 0", cat)
		}
	}
	if got["sleep"] != 1.0 {
		t.Errorf("sleep score = %v, want 1.0", got["sleep"])
	}
}

func TestTraits_SumAtMostOne(t *testing.T) {
	got := Traits(notes("food", "gold", "sleep", "food", "gold", "gold", ""))
	sum := 0.0
	for _, score := range got {
		sum += score
	}
	// Rounding each share to two decimals can push the sum a hair past 1.
	if sum > 1.0+0.01*float64(len(got)) {
		t.Errorf("trait scores sum to %v", sum)
	}
}

func TestDrift_NotEvaluatedBelowWindow(t *testing.T) {
	history := notes("food", "food", "food", "food", "food", "food", "food", "food", "food")
	got := Drift(history)
	if got.Evaluated {
		t.Error("drift evaluated with only 9 notes")
	}
	if len(got.Categories) != 0 {
		t.Errorf("unevaluated drift carries categories: %v", got.Categories)
	}
}

func TestDrift_EvaluatedAtExactlyWindow(t *testing.T) {
	history := notes("food", "food", "food", "food", "food", "food", "food", "food", "food", "food")
	got := Drift(history)
	if !got.Evaluated {
		t.Fatal("drift not evaluated with 10 notes")
	}
	// Uniform history: recent and all-time shares are identical, no drift.
	if len(got.Categories) != 0 {
		t.Errorf("uniform history drifted: %v", got.Categories)
	}
}

func TestDrift_DetectsShift(t *testing.T) {
	// 20 food notes followed by 10 sleep notes. All-time food share is 2/3
	// but the recent window has none; sleep goes from 1/3 to all of it.
	history := notes()
	for i := 0; i < 20; i++ {
		history = append(history, Note{Text: "n", Category: "food"})
	}
	for i := 0; i < 10; i++ {
		history = append(history, Note{Text: "n", Category: "sleep"})
	}

	got := Drift(history)
	if !got.Evaluated {
		t.Fatal("drift not evaluated")
	}
	if len(got.Categories) != 2 {
		t.Fatalf("drifted = %v, want [food sleep]", got.Categories)
	}
	if got.Categories[0] != "food" || got.Categories[1] != "sleep" {
		t.Errorf("drifted = %v, want table order [food sleep]", got.Categories)
	}
}

func TestDrift_ThresholdInclusive(t *testing.T) {
	// 20-note history where gold moves by exactly the 0.3 threshold: 2 gold
	// and 8 food in the old half, 8 gold and 2 food in the recent window.
	history := notes()
	for i := 0; i < 2; i++ {
		history = append(history, Note{Text: "n", Category: "gold"})
	}
	for i := 0; i < 8; i++ {
		history = append(history, Note{Text: "n", Category: "food"})
	}
	for i := 0; i < 8; i++ {
		history = append(history, Note{Text: "n", Category: "gold"})
	}
	for i := 0; i < 2; i++ {
		history = append(history, Note{Text: "n", Category: "food"})
	}

	// gold: all-time 10/20 = 0.5, recent 8/10 = 0.8, diff exactly 0.3.
	got := Drift(history)
	if !got.Evaluated {
		t.Fatal("drift not evaluated")
	}
	found := false
	for _, cat := range got.Categories {
		if cat == "gold" {
			found = true
		}
	}
	if !found {
		t.Errorf("gold moved by exactly the threshold and must drift, got %v", got.Categories)
	}
}

func TestDrift_WindowIsLastTen(t *testing.T) {
	// Only the final 10 notes form the recent window; the sleep burst before
	// them must not count as recent.
	history := notes()
	for i := 0; i < 10; i++ {
		history = append(history, Note{Text: "n", Category: "sleep"})
	}
	for i := 0; i < 10; i++ {
		history = append(history, Note{Text: "n", Category: "sleep"})
	}
	got := Drift(history)
	if !got.Evaluated || len(got.Categories) != 0 {
		t.Errorf("homogeneous history drifted: %+v", got)
	}
}

func TestTraits_RoundingTwoDecimals(t *testing.T) {
	history := notes("food", "gold", "sleep")
	got := Traits(history)
	for cat, score := range got {
		scaled := score * 100
		if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Errorf("%s score %v not rounded to two decimals", cat, score)
		}
	}
}
