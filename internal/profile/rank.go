package profile

type rankThreshold struct {
	Min   int
	Label string
}

// Highest threshold first; the first satisfied row wins. The zero row makes
// the lookup total.
var rankTable = []rankThreshold{
	{20000, "Warchief"},
	{10000, "Champion"},
	{4000, "Veteran"},
	{2000, "Grunt"},
	{1000, "Scout"},
	{200, "Peon"},
	{0, "Newcomer"},
}

// Rank maps a cumulative word count to its tier label. The count is returned
// alongside the label because every caller reports both together.
func Rank(wordCount int) (string, int) {
	for _, row := range rankTable {
		if wordCount >= row.Min {
			return row.Label, wordCount
		}
	}
	return "Newcomer", wordCount
}
