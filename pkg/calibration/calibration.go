package calibration

import (
	"github.com/metroseat/metroseat/pkg/line"
)

// Time-of-day periods the multiplier map is keyed by.
const (
	PeriodMorningRush = "morning_rush"
	PeriodEveningRush = "evening_rush"
	PeriodMidday      = "midday"
	PeriodEvening     = "evening"
	PeriodNight       = "night"
	PeriodEarly       = "early"
)

var knownPeriods = []string{
	PeriodMorningRush, PeriodEveningRush, PeriodMidday,
	PeriodEvening, PeriodNight, PeriodEarly,
}

var knownFacilities = []line.FacilityType{
	line.FacilityEscalator, line.FacilityElevator, line.FacilityStairs,
}

// Calibration is one immutable snapshot of the tunable scoring
// coefficients. Scoring code holds a snapshot for the whole call and
// never observes a torn update.
type Calibration struct {
	// Beta weighs the boarding-congestion penalty.
	Beta float64 `json:"beta" yaml:"beta"`
	// Gamma dampens the per-car load-factor spread (L^gamma).
	Gamma float64 `json:"gamma" yaml:"gamma"`
	// Delta sizes the initial seat-availability bonus for uncrowded cars.
	Delta float64 `json:"delta" yaml:"delta"`

	FacilityWeights   map[line.FacilityType]float64 `json:"facility_weights" yaml:"facility_weights"`
	PeriodMultipliers map[string]float64            `json:"period_multipliers" yaml:"period_multipliers"`

	Version uint64 `json:"version" yaml:"-"`
}

func Default() Calibration {
	return Calibration{
		Beta:  0.3,
		Gamma: 0.5,
		Delta: 0.15,
		FacilityWeights: map[line.FacilityType]float64{
			line.FacilityEscalator: 1.2,
			line.FacilityElevator:  0.0,
			line.FacilityStairs:    1.0,
		},
		PeriodMultipliers: map[string]float64{
			PeriodMorningRush: 1.4,
			PeriodEveningRush: 1.3,
			PeriodMidday:      1.0,
			PeriodEvening:     0.9,
			PeriodNight:       0.6,
			PeriodEarly:       0.5,
		},
	}
}

// FacilityWeight returns the configured weight for a facility type,
// falling back to the documented defaults rather than failing.
func (c Calibration) FacilityWeight(facility line.FacilityType) float64 {
	if weight, ok := c.FacilityWeights[facility]; ok {
		return weight
	}

	return Default().FacilityWeights[facility]
}

func (c Calibration) periodMultiplier(period string) float64 {
	if value, ok := c.PeriodMultipliers[period]; ok {
		return value
	}

	return Default().PeriodMultipliers[period]
}

// Alpha is the time-of-day congestion multiplier, interpolated
// piecewise-linearly between anchor hours whose amplitudes come from
// the period multiplier map. The curve shape is fixed; only the
// amplitudes are calibratable. Last-train buckets (24/25) fold onto
// the night anchor.
func (c Calibration) Alpha(hour int) float64 {
	morning := c.periodMultiplier(PeriodMorningRush)
	eveningRush := c.periodMultiplier(PeriodEveningRush)
	midday := c.periodMultiplier(PeriodMidday)
	evening := c.periodMultiplier(PeriodEvening)
	night := c.periodMultiplier(PeriodNight)
	early := c.periodMultiplier(PeriodEarly)

	type anchor struct {
		hour  float64
		alpha float64
	}

	anchors := []anchor{
		{0, night},
		{4, early},
		{6, (early + midday) / 2},
		{7, (midday + morning) / 2},
		{8, morning},
		{9, (morning + midday) / 2},
		{10, midday},
		{14, midday},
		{17, (midday + eveningRush) / 2},
		{18, eveningRush},
		{19, eveningRush * 1.04}, // observed peak slightly after 18:30
		{20, (eveningRush + evening) / 2},
		{21, evening},
		{22, (evening + night) / 2},
		{23, night},
		{24, night},
	}

	h := float64(hour % 24)

	for i := 0; i < len(anchors)-1; i++ {
		if anchors[i].hour <= h && h < anchors[i+1].hour {
			ratio := (h - anchors[i].hour) / (anchors[i+1].hour - anchors[i].hour)
			return anchors[i].alpha + ratio*(anchors[i+1].alpha-anchors[i].alpha)
		}
	}

	return midday
}
