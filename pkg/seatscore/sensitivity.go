package seatscore

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/metroseat/metroseat/pkg/calibration"
)

// SweepPoint is one (parameter value, car, score) sample from a
// sensitivity sweep, shaped for client-side charting.
type SweepPoint struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
	Car       int     `json:"car"`
	Score     float64 `json:"score"`
}

// sweepRange holds the default exploration window per coefficient.
var sweepRanges = map[string][2]float64{
	"beta":  {0.0, 1.0},
	"gamma": {0.1, 1.0},
	"delta": {0.0, 0.5},
}

// SweepValues returns evenly spaced sample values for a sweepable
// parameter. Unknown parameters are rejected so typos do not silently
// sweep nothing.
func SweepValues(parameter string, steps int) ([]float64, error) {
	bounds, ok := sweepRanges[parameter]
	if !ok {
		known := maps.Keys(sweepRanges)
		slices.Sort(known)

		return nil, &calibration.InvalidParameterError{
			Field:  parameter,
			Reason: fmt.Sprintf("not a sweepable coefficient (one of %s)", strings.Join(known, ", ")),
		}
	}

	if steps < 2 {
		steps = 21
	}

	values := make([]float64, steps)
	width := (bounds[1] - bounds[0]) / float64(steps-1)
	for i := range values {
		values[i] = bounds[0] + float64(i)*width
	}

	return values, nil
}

func withParameter(cal calibration.Calibration, parameter string, value float64) (calibration.Calibration, error) {
	derived := cal.Clone()

	switch parameter {
	case "beta":
		derived.Beta = value
	case "gamma":
		derived.Gamma = value
	case "delta":
		derived.Delta = value
	default:
		return calibration.Calibration{}, &calibration.InvalidParameterError{Field: parameter, Reason: "not a sweepable coefficient"}
	}

	return derived, nil
}

// Sweep re-scores the query once per sampled value with a calibration
// snapshot differing only in the swept parameter. The shared store is
// never touched; scoring is pure, so the samples run concurrently.
func (e *Engine) Sweep(query Query, base calibration.Calibration, parameter string, values []float64) ([]SweepPoint, error) {
	perValue := make([][]SweepPoint, len(values))

	workers := pool.New().WithErrors().WithMaxGoroutines(4)

	for i, value := range values {
		i, value := i, value

		workers.Go(func() error {
			derived, err := withParameter(base, parameter, value)
			if err != nil {
				return err
			}

			cars, err := e.Score(query, derived)
			if err != nil {
				return err
			}

			points := make([]SweepPoint, 0, len(cars))
			for _, car := range cars {
				points = append(points, SweepPoint{
					Parameter: parameter,
					Value:     value,
					Car:       car.Car,
					Score:     car.Score,
				})
			}
			perValue[i] = points

			return nil
		})
	}

	if err := workers.Wait(); err != nil {
		return nil, err
	}

	var points []SweepPoint
	for _, batch := range perValue {
		points = append(points, batch...)
	}

	return points, nil
}
