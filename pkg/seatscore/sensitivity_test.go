package seatscore

import (
	"math"
	"testing"

	"github.com/metroseat/metroseat/pkg/calibration"
)

func TestSweepValues(t *testing.T) {
	values, err := SweepValues("beta", 5)
	if err != nil {
		t.Fatal(err)
	}

	if len(values) != 5 {
		t.Fatalf("expected 5 values, got %d", len(values))
	}
	if values[0] != 0.0 || values[4] != 1.0 {
		t.Errorf("beta sweep should span [0, 1], got %v", values)
	}

	// Degenerate step counts fall back to the default resolution.
	values, err = SweepValues("gamma", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 21 {
		t.Errorf("expected the default 21 values, got %d", len(values))
	}
	if math.Abs(values[0]-0.1) > 1e-9 || math.Abs(values[20]-1.0) > 1e-9 {
		t.Errorf("gamma sweep should span [0.1, 1], got endpoints %f and %f", values[0], values[20])
	}
}

func TestSweepValuesUnknownParameter(t *testing.T) {
	if _, err := SweepValues("alpha", 5); err == nil {
		t.Error("alpha is not sweepable and should be rejected")
	}
	if _, err := SweepValues("typo", 5); err == nil {
		t.Error("unknown parameters should be rejected")
	}
}

func TestSweepProducesPointPerCarPerValue(t *testing.T) {
	engine, _ := newTestEngine(t, true)

	values := []float64{0.0, 0.3, 0.6}
	points, err := engine.Sweep(skewedQuery(), calibration.Default(), "beta", values)
	if err != nil {
		t.Fatal(err)
	}

	if len(points) != len(values)*TotalCars {
		t.Fatalf("expected %d points, got %d", len(values)*TotalCars, len(points))
	}

	// Batches come back flattened in value order.
	for i, point := range points {
		expectedValue := values[i/TotalCars]
		if point.Value != expectedValue {
			t.Errorf("point %d has value %f, expected %f", i, point.Value, expectedValue)
		}
		if point.Parameter != "beta" {
			t.Errorf("point %d tagged %q", i, point.Parameter)
		}
		if point.Score < 5 || point.Score > 95 {
			t.Errorf("point %d score %f outside [5, 95]", i, point.Score)
		}
	}
}

func TestSweepDoesNotMutateBaseCalibration(t *testing.T) {
	engine, calibrations := newTestEngine(t, true)

	base := calibrations.Get()
	values, err := SweepValues("delta", 5)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := engine.Sweep(skewedQuery(), base, "delta", values); err != nil {
		t.Fatal(err)
	}

	if base.Delta != calibration.Default().Delta {
		t.Errorf("sweep mutated the base calibration: delta %f", base.Delta)
	}
	if calibrations.Get().Version != 0 {
		t.Error("sweep must never write through to the calibration store")
	}
}

func TestSweepPropagatesScoringErrors(t *testing.T) {
	engine, _ := newTestEngine(t, true)

	query := skewedQuery()
	query.Boarding = "판교"

	if _, err := engine.Sweep(query, calibration.Default(), "beta", []float64{0.1, 0.2}); err == nil {
		t.Error("expected the resolver error to surface")
	}
}
