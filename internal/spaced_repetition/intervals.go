package spaced_repetition

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultIntervals is the classic revision curve in days
var DefaultIntervals = Intervals{1, 3, 7, 15, 30}

// Intervals is an ordered sequence of revision gaps in days
type Intervals []int

// ParseIntervals reads a comma-separated list such as "1,3,7,15,30"
func ParseIntervals(s string) (Intervals, error) {
	var out Intervals
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %w", part, err)
		}
		out = append(out, n)
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks that the table is non-empty and every gap is positive
func (iv Intervals) Validate() error {
	if len(iv) == 0 {
		return fmt.Errorf("interval table is empty")
	}
	for i, gap := range iv {
		if gap <= 0 {
			return fmt.Errorf("interval %d must be positive, got %d", i, gap)
		}
	}
	return nil
}

// GapFor returns the gap in days for the given revision count.
// The count is clamped into the table, so the last gap repeats forever.
func (iv Intervals) GapFor(revisionCount int) int {
	if revisionCount < 0 {
		revisionCount = 0
	}
	if revisionCount > len(iv)-1 {
		revisionCount = len(iv) - 1
	}
	return iv[revisionCount]
}

// Contains reports whether days is exactly one of the milestones
func (iv Intervals) Contains(days int) bool {
	for _, gap := range iv {
		if gap == days {
			return true
		}
	}
	return false
}

// Exceeds reports whether days is past at least one milestone
func (iv Intervals) Exceeds(days int) bool {
	for _, gap := range iv {
		if days > gap {
			return true
		}
	}
	return false
}
