package line

import "github.com/rs/zerolog/log"

// Static reference data for the Seoul Metro Line 2 main loop (43
// stations, 시청 back round to 시청). Segment seconds are the
// inner-direction (clockwise) inter-station travel times. Facility
// entries mark which car each platform access point sits beside.
type line2Station struct {
	name       string
	code       string
	latitude   float64
	longitude  float64
	seconds    float64 // to the next station, inner direction
	facilities []Facility
}

var line2Stations = []line2Station{
	{"시청", "201", 37.5662, 126.9779, 110, []Facility{{FacilityEscalator, 2}, {FacilityStairs, 5}, {FacilityStairs, 8}}},
	{"을지로입구", "202", 37.5658, 126.9822, 115, []Facility{{FacilityEscalator, 3}, {FacilityStairs, 7}}},
	{"을지로3가", "203", 37.5662, 126.9914, 105, []Facility{{FacilityStairs, 2}, {FacilityStairs, 9}, {FacilityElevator, 5}}},
	{"을지로4가", "204", 37.5669, 127.0017, 95, []Facility{{FacilityEscalator, 8}, {FacilityStairs, 4}}},
	{"동대문역사문화공원", "205", 37.5652, 127.0079, 120, []Facility{{FacilityEscalator, 1}, {FacilityEscalator, 10}, {FacilityStairs, 5}}},
	{"신당", "206", 37.5661, 127.0177, 110, []Facility{{FacilityStairs, 3}, {FacilityStairs, 8}}},
	{"상왕십리", "207", 37.5658, 127.0294, 100, []Facility{{FacilityEscalator, 6}, {FacilityStairs, 2}}},
	{"왕십리", "208", 37.5617, 127.0377, 120, []Facility{{FacilityEscalator, 4}, {FacilityStairs, 7}, {FacilityElevator, 6}}},
	{"한양대", "209", 37.5559, 127.0442, 105, []Facility{{FacilityStairs, 5}, {FacilityStairs, 9}}},
	{"뚝섬", "210", 37.5467, 127.0472, 110, []Facility{{FacilityEscalator, 2}, {FacilityStairs, 6}}},
	{"성수", "211", 37.5445, 127.0557, 130, []Facility{{FacilityEscalator, 3}, {FacilityStairs, 1}, {FacilityStairs, 10}}},
	{"건대입구", "212", 37.5401, 127.0695, 140, []Facility{{FacilityEscalator, 7}, {FacilityStairs, 4}, {FacilityElevator, 5}}},
	{"구의", "213", 37.5371, 127.0855, 125, []Facility{{FacilityStairs, 3}, {FacilityStairs, 8}}},
	{"강변", "214", 37.5348, 127.0944, 115, []Facility{{FacilityEscalator, 9}, {FacilityStairs, 2}}},
	{"잠실나루", "215", 37.5202, 127.1020, 150, []Facility{{FacilityStairs, 4}, {FacilityStairs, 7}}},
	{"잠실", "216", 37.5133, 127.1000, 120, []Facility{{FacilityEscalator, 2}, {FacilityEscalator, 8}, {FacilityElevator, 6}, {FacilityStairs, 5}}},
	{"잠실새내", "217", 37.5112, 127.0860, 125, []Facility{{FacilityStairs, 3}, {FacilityStairs, 9}}},
	{"종합운동장", "218", 37.5107, 127.0735, 115, []Facility{{FacilityEscalator, 5}, {FacilityStairs, 1}}},
	{"삼성", "219", 37.5088, 127.0633, 110, []Facility{{FacilityEscalator, 4}, {FacilityEscalator, 7}, {FacilityStairs, 10}}},
	{"선릉", "220", 37.5045, 127.0493, 125, []Facility{{FacilityEscalator, 3}, {FacilityStairs, 6}, {FacilityElevator, 5}}},
	{"역삼", "221", 37.5004, 127.0364, 115, []Facility{{FacilityEscalator, 8}, {FacilityStairs, 2}}},
	{"강남", "222", 37.4979, 127.0276, 110, []Facility{{FacilityEscalator, 2}, {FacilityEscalator, 9}, {FacilityStairs, 5}, {FacilityElevator, 6}}},
	{"교대", "223", 37.4934, 127.0145, 120, []Facility{{FacilityEscalator, 6}, {FacilityStairs, 3}}},
	{"서초", "224", 37.4916, 127.0078, 105, []Facility{{FacilityStairs, 4}, {FacilityStairs, 8}}},
	{"방배", "225", 37.4814, 126.9976, 135, []Facility{{FacilityEscalator, 7}, {FacilityStairs, 2}}},
	{"사당", "226", 37.4766, 126.9816, 140, []Facility{{FacilityEscalator, 1}, {FacilityEscalator, 10}, {FacilityStairs, 6}}},
	{"낙성대", "227", 37.4768, 126.9636, 130, []Facility{{FacilityStairs, 5}, {FacilityStairs, 9}}},
	{"서울대입구", "228", 37.4814, 126.9527, 115, []Facility{{FacilityEscalator, 3}, {FacilityStairs, 7}, {FacilityElevator, 5}}},
	{"봉천", "229", 37.4821, 126.9426, 105, []Facility{{FacilityStairs, 2}, {FacilityStairs, 8}}},
	{"신림", "230", 37.4842, 126.9296, 110, []Facility{{FacilityEscalator, 4}, {FacilityEscalator, 6}, {FacilityStairs, 10}}},
	{"신대방", "231", 37.4872, 126.9130, 135, []Facility{{FacilityStairs, 3}, {FacilityStairs, 7}}},
	{"구로디지털단지", "232", 37.4851, 126.9015, 120, []Facility{{FacilityEscalator, 8}, {FacilityStairs, 4}, {FacilityElevator, 5}}},
	{"대림", "233", 37.4932, 126.8956, 130, []Facility{{FacilityEscalator, 2}, {FacilityStairs, 6}}},
	{"신도림", "234", 37.5089, 126.8913, 140, []Facility{{FacilityEscalator, 5}, {FacilityEscalator, 9}, {FacilityStairs, 1}}},
	{"문래", "235", 37.5178, 126.8950, 110, []Facility{{FacilityStairs, 4}, {FacilityStairs, 8}}},
	{"영등포구청", "236", 37.5244, 126.8960, 105, []Facility{{FacilityEscalator, 7}, {FacilityStairs, 3}, {FacilityElevator, 6}}},
	{"당산", "237", 37.5345, 126.9025, 125, []Facility{{FacilityEscalator, 2}, {FacilityStairs, 9}}},
	{"합정", "238", 37.5494, 126.9139, 145, []Facility{{FacilityEscalator, 6}, {FacilityStairs, 4}}},
	{"홍대입구", "239", 37.5571, 126.9245, 115, []Facility{{FacilityEscalator, 3}, {FacilityEscalator, 8}, {FacilityStairs, 5}, {FacilityElevator, 6}}},
	{"신촌", "240", 37.5559, 126.9368, 110, []Facility{{FacilityEscalator, 7}, {FacilityStairs, 2}}},
	{"이대", "241", 37.5566, 126.9458, 100, []Facility{{FacilityStairs, 5}, {FacilityStairs, 9}}},
	{"아현", "242", 37.5573, 126.9567, 105, []Facility{{FacilityEscalator, 4}, {FacilityStairs, 8}}},
	{"충정로", "243", 37.5598, 126.9637, 115, []Facility{{FacilityStairs, 3}, {FacilityStairs, 6}, {FacilityElevator, 5}}},
}

// Line2 builds the ring for the Line 2 main loop from the built-in
// reference table.
func Line2() *Ring {
	stations := make([]Station, len(line2Stations))
	segmentSeconds := make([]float64, len(line2Stations))

	for i, entry := range line2Stations {
		stations[i] = Station{
			Name:        entry.name,
			DisplayName: entry.name,
			Code:        entry.code,
			Location:    &Location{Latitude: entry.latitude, Longitude: entry.longitude},
			Facilities:  entry.facilities,
		}
		segmentSeconds[i] = entry.seconds
	}

	ring, err := NewRing(stations, segmentSeconds)
	if err != nil {
		// The built-in table is validated by tests; failing here means
		// the binary shipped with a broken table.
		log.Fatal().Err(err).Msg("Built-in Line 2 table is invalid")
	}

	return ring
}
