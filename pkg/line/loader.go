package line

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type stationRecord struct {
	Name        string  `yaml:"name"`
	DisplayName string  `yaml:"display_name"`
	Code        string  `yaml:"code"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`

	// SegmentSeconds is the inner-direction travel time to the next
	// station in file order.
	SegmentSeconds float64 `yaml:"segment_seconds"`

	Facilities []Facility `yaml:"facilities"`
}

type lineFile struct {
	Line     string          `yaml:"line"`
	Stations []stationRecord `yaml:"stations"`
}

// LoadRingYAML builds a ring from a stations file, for deployments that
// override the built-in table. File order is ring order.
func LoadRingYAML(path string) (*Ring, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file lineFile
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, fmt.Errorf("parsing stations file %s: %w", path, err)
	}

	stations := make([]Station, len(file.Stations))
	segmentSeconds := make([]float64, len(file.Stations))

	for i, record := range file.Stations {
		displayName := record.DisplayName
		if displayName == "" {
			displayName = record.Name
		}

		stations[i] = Station{
			Name:        record.Name,
			DisplayName: displayName,
			Code:        record.Code,
			Location:    &Location{Latitude: record.Latitude, Longitude: record.Longitude},
			Facilities:  record.Facilities,
		}
		segmentSeconds[i] = record.SegmentSeconds
	}

	return NewRing(stations, segmentSeconds)
}
