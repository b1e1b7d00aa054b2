package learning

import "sort"

// counter tallies string occurrences while remembering first-seen order
// so repeated runs over the same data rank ties identically.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) get(key string) int {
	return c.counts[key]
}

type countEntry struct {
	key   string
	count int
}

// mostCommon returns up to n entries ordered by count descending, with
// ties broken by first appearance.
func (c *counter) mostCommon(n int) []countEntry {
	entries := make([]countEntry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, countEntry{key: key, count: c.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
