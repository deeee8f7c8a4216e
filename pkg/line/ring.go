package line

import (
	"fmt"

	"github.com/metroseat/metroseat/pkg/util"
)

// Ring is the ordered circular sequence of stations on a line, together
// with the inner-direction travel time of every segment. It is
// immutable after construction and safe for concurrent reads.
type Ring struct {
	stations []Station
	position map[string]int

	// cumulativeSeconds[i] is the inner-direction travel time from
	// station 0 to station i; loopSeconds is the full loop.
	cumulativeSeconds []float64
	loopSeconds       float64
}

// NewRing builds a ring from an ordered station slice and the matching
// per-segment travel times, where segmentSeconds[i] is the time from
// station i to its inner-direction successor. Every station must appear
// exactly once.
func NewRing(stations []Station, segmentSeconds []float64) (*Ring, error) {
	if len(stations) < 3 {
		return nil, fmt.Errorf("a ring needs at least 3 stations, got %d", len(stations))
	}
	if len(segmentSeconds) != len(stations) {
		return nil, fmt.Errorf("expected %d segment times, got %d", len(stations), len(segmentSeconds))
	}

	ring := &Ring{
		stations:          make([]Station, len(stations)),
		position:          map[string]int{},
		cumulativeSeconds: make([]float64, len(stations)),
	}

	for i, station := range stations {
		station.Name = util.NormalizeStationName(station.Name)
		station.Ordinal = i

		if _, exists := ring.position[station.Name]; exists {
			return nil, fmt.Errorf("station %q appears twice on the ring", station.Name)
		}

		ring.position[station.Name] = i
		ring.stations[i] = station
	}

	cumulative := 0.0
	for i, seconds := range segmentSeconds {
		if seconds <= 0 {
			return nil, fmt.Errorf("segment %d has non-positive travel time", i)
		}

		ring.cumulativeSeconds[i] = cumulative
		cumulative += seconds
	}
	ring.loopSeconds = cumulative

	return ring, nil
}

func (r *Ring) Size() int {
	return len(r.stations)
}

func (r *Ring) Stations() []Station {
	return r.stations
}

func (r *Ring) Contains(name string) bool {
	_, ok := r.position[util.NormalizeStationName(name)]
	return ok
}

func (r *Ring) Station(name string) (Station, error) {
	index, ok := r.position[util.NormalizeStationName(name)]
	if !ok {
		return Station{}, &UnknownStationError{Name: name}
	}

	return r.stations[index], nil
}

// TravelMinutes returns the travel time between two stations in the
// given direction, wrapping around the ring. Clamped to a small
// positive floor so it can safely be used as a weight.
func (r *Ring) TravelMinutes(from string, to string, direction Direction) (float64, error) {
	fromIndex, ok := r.position[util.NormalizeStationName(from)]
	if !ok {
		return 0, &UnknownStationError{Name: from}
	}
	toIndex, ok := r.position[util.NormalizeStationName(to)]
	if !ok {
		return 0, &UnknownStationError{Name: to}
	}

	if fromIndex == toIndex {
		return 0, nil
	}

	innerSeconds := r.cumulativeSeconds[toIndex] - r.cumulativeSeconds[fromIndex]
	if innerSeconds < 0 {
		innerSeconds += r.loopSeconds
	}

	seconds := innerSeconds
	if direction == DirectionOuter {
		seconds = r.loopSeconds - innerSeconds
	}

	minutes := seconds / 60.0
	if minutes < 0.1 {
		minutes = 0.1
	}

	return minutes, nil
}
