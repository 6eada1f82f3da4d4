package utils

import "strconv"

// ParseLimit reads a limit query parameter. Anything that is not a positive
// integer comes back as zero and the caller picks its own default.
func ParseLimit(s string) int {
	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 {
		return 0
	}

	return limit
}
