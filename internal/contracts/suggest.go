package contracts

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxDistanceRatio is the largest edit distance, relative to the longer
// name, that still counts as a likely typo.
const maxDistanceRatio = 0.5

type candidate struct {
	name string
	dist float64
}

// Suggest returns up to limit names close to query, closest first. Names
// containing the query are always suggested.
func Suggest(query string, names []string, limit int) []string {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var found []candidate
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		n := strings.ToUpper(name)
		if strings.Contains(n, q) {
			found = append(found, candidate{name: name})
			continue
		}
		dist := float64(levenshtein.ComputeDistance(q, n)) / float64(max(len(q), len(n)))
		if dist <= maxDistanceRatio {
			found = append(found, candidate{name: name, dist: dist})
		}
	}

	slices.SortStableFunc(found, func(a, b candidate) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		}
		return 0
	})

	out := make([]string, 0, min(limit, len(found)))
	for _, c := range found[:min(limit, len(found))] {
		out = append(out, c.name)
	}
	return out
}

// Suggest returns contract names close to query.
func (l *List) Suggest(query string, limit int) []string {
	return Suggest(query, l.Names(), limit)
}
