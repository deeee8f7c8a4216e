package line

// Resolution describes the chosen traversal between a boarding and
// destination station on the ring.
type Resolution struct {
	Boarding    string
	Destination string
	Direction   Direction

	// Intermediates lists the stations strictly between boarding and
	// destination in travel order, both endpoints excluded.
	Intermediates []string

	// Segments is the number of inter-station hops travelled.
	Segments int

	TravelMinutes float64
}

// Resolve picks the traversal direction with fewer intermediate
// stations. When both directions are equal the inner loop wins; that
// tie-break is policy, not derived from data.
func (r *Ring) Resolve(boarding string, destination string) (Resolution, error) {
	boardingStation, err := r.Station(boarding)
	if err != nil {
		return Resolution{}, err
	}
	destinationStation, err := r.Station(destination)
	if err != nil {
		return Resolution{}, err
	}

	if boardingStation.Name == destinationStation.Name {
		return Resolution{}, &SameStationError{Name: boardingStation.Name}
	}

	size := len(r.stations)
	innerSegments := (destinationStation.Ordinal - boardingStation.Ordinal + size) % size
	outerSegments := size - innerSegments

	direction := DirectionInner
	if outerSegments < innerSegments {
		direction = DirectionOuter
	}

	return r.ResolveDirected(boarding, destination, direction)
}

// ResolveDirected resolves the traversal in an explicitly requested
// direction, for riders who have already committed to a platform.
func (r *Ring) ResolveDirected(boarding string, destination string, direction Direction) (Resolution, error) {
	boardingStation, err := r.Station(boarding)
	if err != nil {
		return Resolution{}, err
	}
	destinationStation, err := r.Station(destination)
	if err != nil {
		return Resolution{}, err
	}

	if boardingStation.Name == destinationStation.Name {
		return Resolution{}, &SameStationError{Name: boardingStation.Name}
	}

	size := len(r.stations)
	step := 1
	if direction == DirectionOuter {
		step = size - 1
	}

	var intermediates []string
	segments := 0
	for index := (boardingStation.Ordinal + step) % size; index != destinationStation.Ordinal; index = (index + step) % size {
		intermediates = append(intermediates, r.stations[index].Name)
		segments++
	}
	segments++ // final hop into the destination

	travelMinutes, err := r.TravelMinutes(boardingStation.Name, destinationStation.Name, direction)
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{
		Boarding:      boardingStation.Name,
		Destination:   destinationStation.Name,
		Direction:     direction,
		Intermediates: intermediates,
		Segments:      segments,
		TravelMinutes: travelMinutes,
	}, nil
}
