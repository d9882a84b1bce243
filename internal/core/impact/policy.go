package impact

import (
	"fmt"
	"strings"
)

// MatchPolicy controls how keywords that contain each other are counted.
type MatchPolicy int

const (
	// Overlapping counts every keyword found, so "eggs" also matches "egg".
	Overlapping MatchPolicy = iota
	// Longest drops a keyword when a longer matched keyword contains it.
	Longest
)

func (p MatchPolicy) String() string {
	switch p {
	case Longest:
		return "longest"
	default:
		return "overlapping"
	}
}

// ParseMatchPolicy accepts "overlapping" (or empty) and "longest".
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overlapping":
		return Overlapping, nil
	case "longest":
		return Longest, nil
	default:
		return Overlapping, fmt.Errorf("unknown impact match policy %q", s)
	}
}
