package lz78

import "strconv"

// ParseSize parses a decimal size with an optional K (x1024) or M
// (x1024*1024) suffix. Empty input, a negative value, or a malformed
// number all yield 0. A suffix other than K/M/k/m is not recognized as a
// multiplier and is simply dropped, so only the leading decimal run is
// parsed.
func ParseSize(s string) int {
	if s == "" {
		return 0
	}

	mult := 1
	switch s[len(s)-1] {
	case 'K', 'k':
		mult = 1024
		s = s[:len(s)-1]
	case 'M', 'm':
		mult = 1024 * 1024
		s = s[:len(s)-1]
	}

	end := len(s)
	for end > 0 && (s[end-1] < '0' || s[end-1] > '9') {
		end--
	}
	s = s[:end]
	if s == "" {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n * mult
}
