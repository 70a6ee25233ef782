package models

import (
	"fmt"
	"strings"
)

// DefaultGroupCount is the number of corpus partitions in the study.
const DefaultGroupCount = 6

// Groups returns the fixed set of group labels: "Group 1".."Group n".
func Groups(n int) []string {
	if n <= 0 {
		n = DefaultGroupCount
	}
	labels := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		labels = append(labels, fmt.Sprintf("Group %d", i))
	}
	return labels
}

// ValidGroup reports whether label is one of the n study groups.
func ValidGroup(label string, n int) bool {
	for _, g := range Groups(n) {
		if g == label {
			return true
		}
	}
	return false
}

// GroupFolder maps a group label to its folder / manifest prefix,
// e.g. "Group 1" -> "Group_1".
func GroupFolder(label string) string {
	return strings.ReplaceAll(label, " ", "_")
}
