package line

import "fmt"

// UnknownStationError is returned when a query names a station that is
// not part of the ring or the loaded dataset. Always client-caused.
type UnknownStationError struct {
	Name string
}

func (e *UnknownStationError) Error() string {
	return fmt.Sprintf("unknown station %q", e.Name)
}

// SameStationError is returned for degenerate queries where boarding
// and destination are the same station.
type SameStationError struct {
	Name string
}

func (e *SameStationError) Error() string {
	return fmt.Sprintf("boarding and destination are both %q", e.Name)
}
