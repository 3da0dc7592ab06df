// Package inflect decorates base responses with profile-derived flavor.
//
// This is the deterministic-context policy: every prefix is a pure function
// of the profile signals and the wall clock, so the same profile at the same
// hour always yields the same decoration. The inflector never mutates the
// profile and never touches I/O.
package inflect

import (
	"strings"
	"time"

	"github.com/grunthall/gruntbot/internal/profile"
)

// Signals is the derived profile state the inflector consumes.
type Signals struct {
	Traits map[string]float64
	Drift  profile.DriftResult
}

// Time-of-day flavor buckets.
const (
	FlavorMorning   = "morning"
	FlavorAfternoon = "afternoon"
	FlavorEvening   = "evening"
	FlavorLateNight = "late_night"
)

// A trait this strong dominates the user's recent history.
const dominantTraitThreshold = 0.5

var flavorLines = map[string]string{
	FlavorMorning:   "Rise and grunt!",
	FlavorAfternoon: "GruntBot thinks your gold pile needs tending.",
	FlavorEvening:   "Evening whispers carry true strength.",
	FlavorLateNight: "Moonlight grunts echo in your soul...",
}

// Priority order for the trait line: gold beats food beats sleep when more
// than one trait clears the threshold.
var traitLines = []struct {
	Category string
	Line     string
}{
	{profile.CategoryGold, "You sound like a mighty merchant today."},
	{profile.CategoryFood, "Speak quick, before you wander off in search of feast."},
	{profile.CategorySleep, "Another dreamy whisper from the shadows..."},
}

// TimeFlavor buckets the wall-clock hour: morning 5-11, afternoon 12-16,
// evening 17-21, late night otherwise.
func TimeFlavor(now time.Time) string {
	hour := now.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return FlavorMorning
	case hour >= 12 && hour < 17:
		return FlavorAfternoon
	case hour >= 17 && hour < 22:
		return FlavorEvening
	default:
		return FlavorLateNight
	}
}

// Inflect prepends the contextual prefixes to base: time-of-day flavor,
// then the dominant-trait line if any trait scores at least 0.5, then a
// drift notice when drift was evaluated and found. Prefixes are joined by
// single spaces with the base response last.
func Inflect(base string, sig Signals, now time.Time) string {
	parts := []string{flavorLines[TimeFlavor(now)]}

	for _, tl := range traitLines {
		if sig.Traits[tl.Category] >= dominantTraitThreshold {
			parts = append(parts, tl.Line)
			break
		}
	}

	if sig.Drift.Evaluated && len(sig.Drift.Categories) > 0 {
		parts = append(parts, "GruntBot senses change... More "+strings.Join(sig.Drift.Categories, ", ")+" lately.")
	}

	parts = append(parts, base)
	return strings.Join(parts, " ")
}
