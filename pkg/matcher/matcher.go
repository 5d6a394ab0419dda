package matcher

import (
	"sort"

	"ftth-viability-be/pkg/geodesy"
	"ftth-viability-be/pkg/inventory"
)

// Candidate is a cabinet with its geodesic distance from the audit target.
type Candidate struct {
	Cabinet   inventory.Cabinet `json:"cabinet"`
	DistanceM float64           `json:"distance_m"`
}

// FindCandidates ranks the cabinets within radiusM of the target, nearest
// first. Ties are broken by cabinet ID ascending so the ranking is
// deterministic. The result is truncated to limit entries (limit <= 0 means
// no truncation). An empty inventory yields an empty result, not an error:
// "no candidates" is a workflow outcome for the caller to surface.
func FindCandidates(lat, lon float64, cabinets []inventory.Cabinet, radiusM float64, limit int) []Candidate {
	candidates := make([]Candidate, 0, len(cabinets))
	for _, c := range cabinets {
		d := geodesy.DistanceM(lat, lon, c.Lat, c.Lon)
		if d > radiusM {
			continue
		}
		candidates = append(candidates, Candidate{Cabinet: c, DistanceM: d})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistanceM != candidates[j].DistanceM {
			return candidates[i].DistanceM < candidates[j].DistanceM
		}
		return candidates[i].Cabinet.ID < candidates[j].Cabinet.ID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
