package utils

import (
	"strconv"
	"strings"
)

// ParseID parses a positive decimal id from a path or form value.
func ParseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
