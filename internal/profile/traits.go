package profile

import "math"

const (
	driftWindow    = 10
	driftThreshold = 0.3
)

// Traits returns each category's share of the categorized notes in history,
// rounded to two decimals. Categories with no notes are omitted entirely, so
// an absent key reads as zero; an empty map means no categorized notes exist.
func Traits(history []Note) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for _, n := range history {
		if n.Category != "" {
			counts[n.Category]++
			total++
		}
	}
	if total == 0 {
		return map[string]float64{}
	}

	scores := make(map[string]float64, len(counts))
	for cat, c := range counts {
		scores[cat] = math.Round(float64(c)/float64(total)*100) / 100
	}
	return scores
}

// DriftResult keeps "not enough history to evaluate" distinguishable from
// "evaluated, nothing drifted". Callers currently render both the same way
// (no drift notice), but the API does not conflate the states.
type DriftResult struct {
	Evaluated  bool
	Categories []string
}

// Drift compares each category's frequency over the last ten notes against
// its all-time frequency. A category whose recent share moved by at least 0.3
// in either direction is drifted. Histories shorter than the window are not
// evaluated at all.
func Drift(history []Note) DriftResult {
	if len(history) < driftWindow {
		return DriftResult{}
	}

	recent := history[len(history)-driftWindow:]
	totalCounts := make(map[string]int)
	recentCounts := make(map[string]int)
	for _, n := range history {
		if n.Category != "" {
			totalCounts[n.Category]++
		}
	}
	for _, n := range recent {
		if n.Category != "" {
			recentCounts[n.Category]++
		}
	}

	var drifted []string
	for _, cat := range Categories() {
		totalPct := float64(totalCounts[cat]) / float64(len(history))
		recentPct := float64(recentCounts[cat]) / float64(len(recent))
		if math.Abs(recentPct-totalPct) >= driftThreshold {
			drifted = append(drifted, cat)
		}
	}
	return DriftResult{Evaluated: true, Categories: drifted}
}
