package cleaning

import (
	"sort"
	"strings"
)

// UnknownAuthor is the author set assigned to books without author data.
const UnknownAuthor = "Unknown"

// NormalizeAuthors turns a comma separated author list into an order
// independent key, so "B, A" and "A,B" count as the same author set.
func NormalizeAuthors(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return UnknownAuthor
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
