package manifest

import "sort"

// SortByOrder orders entries by descending Priority. Entries with the same
// priority keep their discovery order.
func SortByOrder(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority() > entries[j].Priority()
	})
}
