// Package target holds the pure targeting logic: horizontal deltas from
// frame center, best-marker selection, the operator's selected-target set
// and per-marker centroid smoothing.
package target

import "math"

// Observation is one detected marker in the current frame.
type Observation struct {
	ID        int
	CentroidX float64
	CentroidY float64
}

// Delta returns the horizontal pixel offset of the observation from the
// frame center. Positive means right of center.
func Delta(obs Observation, frameWidth float64) float64 {
	return obs.CentroidX - frameWidth/2.0
}

// Candidate pairs an observation with its computed delta.
type Candidate struct {
	Observation
	DeltaX float64
}

// Candidates computes deltas for all observations, keeping input order.
// When filter is non-nil, only observations whose ID passes are kept.
func Candidates(observations []Observation, frameWidth float64, filter func(id int) bool) []Candidate {
	out := make([]Candidate, 0, len(observations))
	for _, obs := range observations {
		if filter != nil && !filter(obs.ID) {
			continue
		}
		out = append(out, Candidate{Observation: obs, DeltaX: Delta(obs, frameWidth)})
	}
	return out
}

// Best returns the candidate with the smallest absolute delta. Ties are
// broken by first occurrence in input order. ok is false when the slice
// is empty.
func Best(candidates []Candidate) (best Candidate, ok bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best = candidates[0]
	for _, c := range candidates[1:] {
		if math.Abs(c.DeltaX) < math.Abs(best.DeltaX) {
			best = c
		}
	}
	return best, true
}
