package target

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// Point is a smoothed centroid position.
type Point struct {
	X float64
	Y float64
}

// track is one marker's filter state and bounded position history.
type track struct {
	filter *kalman_filter.Kalman2D
	trail  []Point
}

// Smoother maintains a 2D Kalman filter and a bounded trail per marker ID.
// Single-goroutine use from the capture loop; not safe for concurrent access.
type Smoother struct {
	tracks   map[int]*track
	maxTrail int
	dt       float64
}

// NewSmoother creates a smoother keeping at most maxTrail positions per
// marker. dt is the expected frame interval in seconds.
func NewSmoother(maxTrail int, dt float64) *Smoother {
	if maxTrail <= 0 {
		maxTrail = 30
	}
	return &Smoother{
		tracks:   make(map[int]*track),
		maxTrail: maxTrail,
		dt:       dt,
	}
}

// Observe feeds one marker observation through its filter and returns the
// smoothed position. The first observation of an ID seeds the filter and is
// returned as-is.
func (s *Smoother) Observe(obs Observation) (Point, error) {
	tr, ok := s.tracks[obs.ID]
	if !ok {
		ux := 1.0
		uy := 1.0
		stdDevA := 2.0
		stdDevMx := 0.1
		stdDevMy := 0.1
		tr = &track{
			filter: kalman_filter.NewKalman2D(s.dt, ux, uy, stdDevA, stdDevMx, stdDevMy,
				kalman_filter.WithState2D(obs.CentroidX, obs.CentroidY)),
			trail: make([]Point, 0, s.maxTrail),
		}
		s.tracks[obs.ID] = tr
		p := Point{X: obs.CentroidX, Y: obs.CentroidY}
		tr.trail = append(tr.trail, p)
		return p, nil
	}

	tr.filter.Predict()
	if err := tr.filter.Update(obs.CentroidX, obs.CentroidY); err != nil {
		return Point{}, errors.Wrapf(err, "can't update filter for marker %d", obs.ID)
	}
	x, y := tr.filter.GetState()
	p := Point{X: x, Y: y}

	tr.trail = append(tr.trail, p)
	if len(tr.trail) > s.maxTrail {
		tr.trail = tr.trail[1:]
	}
	return p, nil
}

// Trail returns the stored positions for a marker, oldest first. The slice
// is the smoother's own storage; callers must not retain it across Observe.
func (s *Smoother) Trail(id int) []Point {
	tr, ok := s.tracks[id]
	if !ok {
		return nil
	}
	return tr.trail
}

// TrackedIDs returns the marker IDs with at least one observation.
func (s *Smoother) TrackedIDs() []int {
	out := make([]int, 0, len(s.tracks))
	for id := range s.tracks {
		out = append(out, id)
	}
	return out
}

// Drop forgets a marker's filter and trail.
func (s *Smoother) Drop(id int) {
	delete(s.tracks, id)
}
