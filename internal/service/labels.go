package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/sitepatrol/internal/patrol"
)

// ResolveLabels maps user-typed checkpoint names to ids, in order. A label
// may be an exact name (case-insensitive), a numeric id, or a close
// misspelling of exactly one name.
func ResolveLabels(catalog *patrol.Catalog, labels []string) ([]patrol.PointerID, error) {
	out := make([]patrol.PointerID, 0, len(labels))
	for _, raw := range labels {
		label := strings.TrimSpace(raw)
		if label == "" {
			continue
		}
		id, err := resolveLabel(catalog, label)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func resolveLabel(catalog *patrol.Catalog, label string) (patrol.PointerID, error) {
	if n, err := strconv.ParseInt(strings.TrimPrefix(label, "#"), 10, 64); err == nil {
		if catalog.Contains(patrol.PointerID(n)) {
			return patrol.PointerID(n), nil
		}
	}

	want := strings.ToLower(label)
	best, bestDist, tied := patrol.PointerID(0), -1, false
	for _, p := range catalog.Pointers() {
		have := strings.ToLower(p.Label)
		if have == want {
			return p.ID, nil
		}
		dist := levenshtein.ComputeDistance(want, have)
		switch {
		case bestDist < 0 || dist < bestDist:
			best, bestDist, tied = p.ID, dist, false
		case dist == bestDist:
			tied = true
		}
	}
	if bestDist < 0 || bestDist > maxLabelDistance(want) {
		return 0, fmt.Errorf("%w: no checkpoint matches %q", ErrInvalidRoute, label)
	}
	if tied {
		return 0, fmt.Errorf("%w: %q matches more than one checkpoint", ErrInvalidRoute, label)
	}
	return best, nil
}

// maxLabelDistance allows roughly one typo per four characters.
func maxLabelDistance(s string) int {
	n := len([]rune(s)) / 4
	if n < 1 {
		return 1
	}
	return n
}
