package store

import "strings"

// indexByTitle finds want by case-insensitive comparison of normalized
// titles, so stored titles with runs of spaces still match.
func indexByTitle[E any](entries []E, title func(E) string, want string) int {
	want = normalizeTitle(want)
	for i, entry := range entries {
		if strings.EqualFold(normalizeTitle(title(entry)), want) {
			return i
		}
	}
	return -1
}

// removeAt returns entries without index i, preserving order.
func removeAt[E any](entries []E, i int) []E {
	out := make([]E, 0, len(entries)-1)
	out = append(out, entries[:i]...)
	return append(out, entries[i+1:]...)
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}
