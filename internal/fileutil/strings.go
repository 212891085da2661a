package fileutil

import "strings"

func DedupeStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// JoinWords joins command-line words into one trimmed value.
func JoinWords(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
