package dataset

// Quality records how far down the fallback chain a lookup had to go.
type Quality string

const (
	QualityExact        Quality = "exact"
	QualityInterpolated Quality = "interpolated"
	QualityFallback     Quality = "fallback"
)

// Worse reports whether q is a weaker quality than other.
func (q Quality) Worse(other Quality) bool {
	return qualityRank[q] > qualityRank[other]
}

var qualityRank = map[Quality]int{
	QualityExact:        0,
	QualityInterpolated: 1,
	QualityFallback:     2,
}

type DayType string

const (
	DayTypeWeekday  DayType = "weekday"
	DayTypeSaturday DayType = "saturday"
	DayTypeSunday   DayType = "sunday"
)

// dayTypes in a fixed order so cross-day averaging is deterministic.
var dayTypes = []DayType{DayTypeWeekday, DayTypeSaturday, DayTypeSunday}

// ParseDayOfWeek maps day-of-week codes (MON..SUN) or day-type names
// onto a DayType. Empty input defaults to weekday.
func ParseDayOfWeek(value string) (DayType, bool) {
	switch value {
	case "", "MON", "TUE", "WED", "THU", "FRI":
		return DayTypeWeekday, true
	case "SAT":
		return DayTypeSaturday, true
	case "SUN":
		return DayTypeSunday, true
	case string(DayTypeWeekday), string(DayTypeSaturday), string(DayTypeSunday):
		return DayType(value), true
	}

	return DayTypeWeekday, false
}

const (
	// Hour buckets 0-23 are clock hours; 24 and 25 are the virtual
	// last-train buckets used by the congestion publications.
	MinHourBucket = 0
	MaxHourBucket = 25

	// Global defaults used at the end of the fallback chain: nominal
	// capacity and a 10% alighting rate.
	DefaultCongestionRatio = 1.0
	DefaultAlightingRate   = 0.1
)

// Sample is a resolved congestion/alighting lookup. CongestionRatio is
// relative to nominal capacity (1.0 = nominal); AlightingRate is the
// fraction of onboard passengers exiting.
type Sample struct {
	CongestionRatio float64
	AlightingRate   float64
	Quality         Quality
}
