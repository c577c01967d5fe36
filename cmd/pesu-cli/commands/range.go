package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// parseSelection turns user input like "3", "1-4", "2,5-7", "-3",
// "4-", "-" or "*" into one-based indexes, capped at max. Open range
// ends default to the first and last entry. Duplicates collapse, order
// is kept.
func parseSelection(input string, max int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "*" || input == "-" {
		all := make([]int, max)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}

	seen := make(map[int]bool)
	var picked []int
	add := func(n int) error {
		if n < 1 || n > max {
			return fmt.Errorf("%d is out of range, pick between 1 and %d", n, max)
		}
		if !seen[n] {
			seen[n] = true
			picked = append(picked, n)
		}
		return nil
	}

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("could not understand %q", part)
			}
			if err := add(n); err != nil {
				return nil, err
			}
			continue
		}

		start, end := 1, max
		if lo = strings.TrimSpace(lo); lo != "" {
			n, err := strconv.Atoi(lo)
			if err != nil {
				return nil, fmt.Errorf("could not understand %q", part)
			}
			start = n
		}
		if hi = strings.TrimSpace(hi); hi != "" {
			n, err := strconv.Atoi(hi)
			if err != nil {
				return nil, fmt.Errorf("could not understand %q", part)
			}
			end = n
		}
		if end < start {
			return nil, fmt.Errorf("%q runs backwards", part)
		}
		for n := start; n <= end; n++ {
			if err := add(n); err != nil {
				return nil, err
			}
		}
	}

	if len(picked) == 0 {
		return nil, fmt.Errorf("nothing selected")
	}
	return picked, nil
}
