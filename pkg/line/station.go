package line

// Direction of travel around a circular line. Inner is the clockwise
// loop (시청 → 을지로입구 → ...), outer the reverse.
type Direction string

const (
	DirectionInner Direction = "inner"
	DirectionOuter Direction = "outer"
)

func (d Direction) Opposite() Direction {
	if d == DirectionInner {
		return DirectionOuter
	}

	return DirectionInner
}

func (d Direction) Valid() bool {
	return d == DirectionInner || d == DirectionOuter
}

type FacilityType string

const (
	FacilityEscalator FacilityType = "escalator"
	FacilityElevator  FacilityType = "elevator"
	FacilityStairs    FacilityType = "stairs"
)

type Location struct {
	Latitude  float64 `json:"latitude" groups:"basic"`
	Longitude float64 `json:"longitude" groups:"basic"`
}

// Facility marks a platform access point positioned next to a specific
// car. Boarding queues concentrate around these, which feeds the
// per-car penalty weighting.
type Facility struct {
	Type FacilityType `json:"type" yaml:"type"`
	Car  int          `json:"car" yaml:"car"`
}

type Station struct {
	Name        string `json:"id" groups:"basic"`
	DisplayName string `json:"display_name" groups:"basic"`
	Code        string `json:"code" groups:"basic"`

	Ordinal  int       `json:"-"`
	Location *Location `json:"location,omitempty" groups:"basic"`

	Facilities []Facility `json:"-"`
}
