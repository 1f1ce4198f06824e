package commonutils

import (
	"strconv"
	"strings"
)

func IsFlagPositiveNumber(flag string) bool {
	num, err := strconv.Atoi(flag)
	if err != nil {
		return false
	}
	return num > 0
}

// SplitCommaList splits a comma separated flag value, dropping blanks and duplicates
// while keeping the original order.
func SplitCommaList(value string) []string {
	var items []string
	seen := make(map[string]bool)
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		items = append(items, item)
	}
	return items
}
