package line

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRingYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stations.yaml")

	contents := `line: "2"
stations:
  - name: 시청
    code: "201"
    latitude: 37.5662
    longitude: 126.9779
    segment_seconds: 110
    facilities:
      - type: escalator
        car: 2
  - name: 을지로입구
    display_name: 을지로입구 (IBK)
    code: "202"
    latitude: 37.5658
    longitude: 126.9822
    segment_seconds: 115
  - name: 을지로3가
    code: "203"
    latitude: 37.5662
    longitude: 126.9914
    segment_seconds: 105
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	ring, err := LoadRingYAML(path)
	if err != nil {
		t.Fatal(err)
	}

	if ring.Size() != 3 {
		t.Fatalf("expected 3 stations, got %d", ring.Size())
	}

	station, err := ring.Station("시청")
	if err != nil {
		t.Fatal(err)
	}
	if len(station.Facilities) != 1 || station.Facilities[0].Type != FacilityEscalator || station.Facilities[0].Car != 2 {
		t.Errorf("facilities did not load: %+v", station.Facilities)
	}

	station, err = ring.Station("을지로입구")
	if err != nil {
		t.Fatal(err)
	}
	if station.DisplayName != "을지로입구 (IBK)" {
		t.Errorf("display name override lost, got %q", station.DisplayName)
	}
}

func TestLoadRingYAMLMissingFile(t *testing.T) {
	if _, err := LoadRingYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
