package line

import (
	"math"
	"testing"
)

func testStations(names ...string) []Station {
	stations := make([]Station, len(names))
	for i, name := range names {
		stations[i] = Station{Name: name, DisplayName: name}
	}
	return stations
}

func TestNewRingRejectsDuplicateStations(t *testing.T) {
	_, err := NewRing(testStations("A", "B", "A"), []float64{60, 60, 60})
	if err == nil {
		t.Fatal("expected duplicate station to be rejected")
	}
}

func TestNewRingRejectsMismatchedSegments(t *testing.T) {
	_, err := NewRing(testStations("A", "B", "C"), []float64{60, 60})
	if err == nil {
		t.Fatal("expected mismatched segment count to be rejected")
	}
}

func TestNewRingRejectsNonPositiveSegment(t *testing.T) {
	_, err := NewRing(testStations("A", "B", "C"), []float64{60, 0, 60})
	if err == nil {
		t.Fatal("expected non-positive segment time to be rejected")
	}
}

func TestLine2Table(t *testing.T) {
	ring := Line2()

	if ring.Size() != 43 {
		t.Errorf("Line 2 main loop should have 43 stations, got %d", ring.Size())
	}

	for _, name := range []string{"시청", "강남", "홍대입구", "잠실"} {
		if !ring.Contains(name) {
			t.Errorf("Line 2 ring should contain %s", name)
		}
	}

	for _, station := range ring.Stations() {
		if station.Location == nil {
			t.Errorf("station %s has no location", station.Name)
		}
		if len(station.Facilities) == 0 {
			t.Errorf("station %s has no platform facilities", station.Name)
		}
	}
}

func TestStationLookupNormalizesNames(t *testing.T) {
	ring := Line2()

	for _, spelling := range []string{"강남역", "강남 (2호선)", " 강남 "} {
		station, err := ring.Station(spelling)
		if err != nil {
			t.Fatalf("lookup of %q failed: %v", spelling, err)
		}
		if station.Name != "강남" {
			t.Errorf("lookup of %q returned %q", spelling, station.Name)
		}
	}
}

func TestTravelMinutesSingleSegment(t *testing.T) {
	ring := Line2()

	// 시청 to 을지로입구 is one 110 second hop inner.
	minutes, err := ring.TravelMinutes("시청", "을지로입구", DirectionInner)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(minutes-110.0/60.0) > 1e-9 {
		t.Errorf("expected %.4f minutes, got %.4f", 110.0/60.0, minutes)
	}
}

func TestTravelMinutesDirectionsSumToLoop(t *testing.T) {
	ring := Line2()

	inner, err := ring.TravelMinutes("강남", "시청", DirectionInner)
	if err != nil {
		t.Fatal(err)
	}
	outer, err := ring.TravelMinutes("강남", "시청", DirectionOuter)
	if err != nil {
		t.Fatal(err)
	}

	loop := ring.loopSeconds / 60.0
	if math.Abs(inner+outer-loop) > 1e-9 {
		t.Errorf("inner %.4f + outer %.4f should equal the loop %.4f", inner, outer, loop)
	}
}

func TestTravelMinutesUnknownStation(t *testing.T) {
	ring := Line2()

	_, err := ring.TravelMinutes("강남", "우주정거장", DirectionInner)
	if err == nil {
		t.Fatal("expected unknown station error")
	}
}
