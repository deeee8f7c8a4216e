package dataset

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/metroseat/metroseat/pkg/line"
	"github.com/metroseat/metroseat/pkg/util"
)

var rushHours = []int{7, 8, 9, 17, 18, 19}

type sampleKey struct {
	station string
	hour    int
	day     DayType
	car     int
}

type hourCarKey struct {
	hour int
	car  int
}

type rawSample struct {
	congestion float64
	alighting  float64
}

type aggregate struct {
	congestionSum float64
	alightingSum  float64
	count         int
}

func (a aggregate) mean() rawSample {
	return rawSample{
		congestion: a.congestionSum / float64(a.count),
		alighting:  a.alightingSum / float64(a.count),
	}
}

// Store holds the normalized congestion and alighting samples and
// resolves lookups through a single ordered fallback policy, so every
// caller degrades identically when data is sparse. Immutable once
// loading is done; safe for concurrent reads.
type Store struct {
	ring *line.Ring
	cars int

	samples     map[sampleKey]rawSample
	lineAverage map[hourCarKey]aggregate
	hasData     map[string]bool
}

func NewStore(ring *line.Ring, cars int) *Store {
	return &Store{
		ring:        ring,
		cars:        cars,
		samples:     map[sampleKey]rawSample{},
		lineAverage: map[hourCarKey]aggregate{},
		hasData:     map[string]bool{},
	}
}

// AddSample registers one (station, hour, day, car) observation.
// Stations off the ring are rejected so typos in source files surface
// at load time instead of silently polluting the line-wide averages.
func (s *Store) AddSample(station string, hour int, day DayType, car int, congestionRatio float64, alightingRate float64) error {
	station = util.NormalizeStationName(station)

	if !s.ring.Contains(station) {
		return &line.UnknownStationError{Name: station}
	}
	if hour < MinHourBucket || hour > MaxHourBucket {
		return fmt.Errorf("hour bucket %d outside %d-%d", hour, MinHourBucket, MaxHourBucket)
	}
	if car < 1 || car > s.cars {
		return fmt.Errorf("car %d outside 1-%d", car, s.cars)
	}

	key := sampleKey{station, hour, day, car}
	lineKey := hourCarKey{hour, car}
	agg := s.lineAverage[lineKey]

	// Re-loading a slot replaces its contribution to the line-wide
	// average instead of stacking a second one on top.
	if previous, exists := s.samples[key]; exists {
		agg.congestionSum -= previous.congestion
		agg.alightingSum -= previous.alighting
		agg.count--
	}

	s.samples[key] = rawSample{
		congestion: congestionRatio,
		alighting:  alightingRate,
	}

	agg.congestionSum += congestionRatio
	agg.alightingSum += alightingRate
	agg.count++
	s.lineAverage[lineKey] = agg

	s.hasData[station] = true

	return nil
}

// fallbackStep is one rung of the lookup ladder. Steps run in order
// and the first hit wins, carrying the step's quality tag.
type fallbackStep struct {
	quality Quality
	resolve func(station string, hour int, day DayType, car int) (rawSample, bool)
}

func (s *Store) fallbackChain() []fallbackStep {
	return []fallbackStep{
		{QualityExact, s.exactLookup},
		{QualityInterpolated, s.crossDayLookup},
		{QualityInterpolated, s.nearestRushLookup},
		{QualityFallback, s.lineWideLookup},
		{QualityFallback, s.defaultLookup},
	}
}

// Lookup resolves a sample for a known station, degrading through the
// fallback chain rather than failing. Only stations absent from the
// ring produce an error.
func (s *Store) Lookup(station string, hour int, day DayType, car int) (Sample, error) {
	station = util.NormalizeStationName(station)

	if !s.ring.Contains(station) {
		return Sample{}, &line.UnknownStationError{Name: station}
	}

	for _, step := range s.fallbackChain() {
		if raw, ok := step.resolve(station, hour, day, car); ok {
			return Sample{
				CongestionRatio: raw.congestion,
				AlightingRate:   raw.alighting,
				Quality:         step.quality,
			}, nil
		}
	}

	// Unreachable: the chain ends in the global default.
	return Sample{CongestionRatio: DefaultCongestionRatio, AlightingRate: DefaultAlightingRate, Quality: QualityFallback}, nil
}

func (s *Store) exactLookup(station string, hour int, day DayType, car int) (rawSample, bool) {
	raw, ok := s.samples[sampleKey{station, hour, day, car}]
	return raw, ok
}

// crossDayLookup averages the same station/hour/car slot over all day
// types that have data.
func (s *Store) crossDayLookup(station string, hour int, _ DayType, car int) (rawSample, bool) {
	var agg aggregate

	for _, candidate := range dayTypes {
		if raw, ok := s.samples[sampleKey{station, hour, candidate, car}]; ok {
			agg.congestionSum += raw.congestion
			agg.alightingSum += raw.alighting
			agg.count++
		}
	}

	if agg.count == 0 {
		return rawSample{}, false
	}

	return agg.mean(), true
}

// nearestRushLookup borrows the closest rush-hour observation for the
// same station/day/car, blended toward the global defaults as the hour
// distance grows. Rush patterns are the densest slice of the public
// data, so they anchor off-peak estimates.
func (s *Store) nearestRushLookup(station string, hour int, day DayType, car int) (rawSample, bool) {
	bestDistance := math.MaxInt
	var best rawSample

	for _, rushHour := range rushHours {
		raw, ok := s.samples[sampleKey{station, rushHour, day, car}]
		if !ok {
			continue
		}

		distance := hour - rushHour
		if distance < 0 {
			distance = -distance
		}
		if distance < bestDistance {
			bestDistance = distance
			best = raw
		}
	}

	if bestDistance == math.MaxInt {
		return rawSample{}, false
	}

	// 1.0 at the rush hour itself, floor of 0.3 six or more hours out.
	blend := 1.0 - float64(bestDistance)*0.12
	if blend < 0.3 {
		blend = 0.3
	}

	return rawSample{
		congestion: blend*best.congestion + (1-blend)*DefaultCongestionRatio,
		alighting:  blend*best.alighting + (1-blend)*DefaultAlightingRate,
	}, true
}

func (s *Store) lineWideLookup(_ string, hour int, _ DayType, car int) (rawSample, bool) {
	agg, ok := s.lineAverage[hourCarKey{hour, car}]
	if !ok || agg.count == 0 {
		return rawSample{}, false
	}

	return agg.mean(), true
}

func (s *Store) defaultLookup(_ string, _ int, _ DayType, _ int) (rawSample, bool) {
	return rawSample{congestion: DefaultCongestionRatio, alighting: DefaultAlightingRate}, true
}

// Validate checks that every station on the ring has at least one
// sample somewhere above the global default. Gaps are data-quality
// warnings, never fatal.
func (s *Store) Validate() int {
	missing := 0

	for _, station := range s.ring.Stations() {
		if !s.hasData[station.Name] {
			missing++
			log.Warn().Str("station", station.Name).Msg("No congestion samples for station, lookups will use line-wide fallbacks")
		}
	}

	return missing
}

func (s *Store) SampleCount() int {
	return len(s.samples)
}
