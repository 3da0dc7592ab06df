package profile

import "strings"

const (
	CategoryFood  = "food"
	CategoryGold  = "gold"
	CategorySleep = "sleep"
)

type categoryKeywords struct {
	Category string
	Keywords []string
}

// Table order matters: classification is first-match-wins, so a text hitting
// keywords of several categories lands in the one listed first.
var keywordTable = []categoryKeywords{
	{CategoryFood, []string{"pie", "snack", "eat", "hungry", "food"}},
	{CategoryGold, []string{"treasure", "money", "rich", "coins", "gold"}},
	{CategorySleep, []string{"nap", "tired", "rest", "bed", "sleep"}},
}

// Classify maps free text to the first category whose keyword set has a
// substring match in the lowercased text, or "" when nothing matches.
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range keywordTable {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return entry.Category
			}
		}
	}
	return ""
}

// Categories returns the category labels in table order.
func Categories() []string {
	cats := make([]string, 0, len(keywordTable))
	for _, entry := range keywordTable {
		cats = append(cats, entry.Category)
	}
	return cats
}
