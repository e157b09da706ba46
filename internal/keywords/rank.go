package keywords

import "sort"

// Frequency is a term and the number of times it was seen.
type Frequency struct {
	Term  string
	Count int
}

// RankByFrequency counts terms and returns the limit most frequent ones in
// descending order. Equal counts keep the order in which terms were first
// seen. A limit of zero or less returns every term.
func RankByFrequency(terms []string, limit int) []Frequency {
	index := make(map[string]int, len(terms))
	ranked := make([]Frequency, 0, len(terms))
	for _, term := range terms {
		if i, ok := index[term]; ok {
			ranked[i].Count++
			continue
		}
		index[term] = len(ranked)
		ranked = append(ranked, Frequency{Term: term, Count: 1})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
