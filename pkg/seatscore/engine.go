package seatscore

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/metroseat/metroseat/pkg/calibration"
	"github.com/metroseat/metroseat/pkg/dataset"
	"github.com/metroseat/metroseat/pkg/line"
	"github.com/metroseat/metroseat/pkg/requestcache"
)

const (
	// epsilon keeps the capture exponent finite with zero competitors.
	epsilon = 0.5

	// Raw load factors are clamped before gamma dampening so a single
	// outlier car cannot dominate the competition model.
	minLoadFactor = 0.3
	maxLoadFactor = 3.0

	// Below this seat probability the expected seat-time estimate is
	// noise and gets omitted.
	seatMinutesThreshold = 0.05

	cacheSize = 128
	cacheTTL  = 5 * time.Minute
)

// Engine computes per-car SeatScores. Scoring is a pure function of
// the query plus a calibration snapshot captured at call start, so
// concurrent invocations need no locking.
type Engine struct {
	ring         *line.Ring
	data         *dataset.Store
	calibrations *calibration.Store
	cache        *requestcache.Cache[Recommendation]
}

func New(ring *line.Ring, data *dataset.Store, calibrations *calibration.Store) *Engine {
	return &Engine{
		ring:         ring,
		data:         data,
		calibrations: calibrations,
		cache:        requestcache.New[Recommendation](cacheSize, cacheTTL),
	}
}

// Score evaluates every car for the query under the given calibration
// snapshot, returning the car set ordered best first.
func (e *Engine) Score(query Query, cal calibration.Calibration) ([]CarScore, error) {
	recommendation, err := e.compute(query, cal)
	if err != nil {
		return nil, err
	}

	return recommendation.CarScores, nil
}

// Recommend scores the query under the current calibration, memoised
// in the request cache. The cache key carries the calibration version
// so results from a stale snapshot can never be served.
func (e *Engine) Recommend(query Query) (Recommendation, error) {
	cal := e.calibrations.Get()

	key := fmt.Sprintf("recommend:%s:%s:%d:%s:%s:v%d",
		query.Boarding, query.Destination, query.Hour, query.DayType, query.Direction, cal.Version)

	return e.cache.GetOrCompute(key, func() (Recommendation, error) {
		return e.compute(query, cal)
	})
}

// InvalidateCached drops all memoised recommendations. Called by the
// calibration endpoint after a successful write.
func (e *Engine) InvalidateCached() {
	e.cache.InvalidateMatching("recommend:")
}

func (e *Engine) CachedRecommendations() int {
	return e.cache.Len()
}

// stationContext is everything about one intermediate station shared
// across cars.
type stationContext struct {
	name             string
	remainingMinutes float64
	fromBoarding     float64
	sitFraction      float64
	samples          [TotalCars]dataset.Sample
	competitors      [TotalCars]float64
}

func (e *Engine) compute(query Query, cal calibration.Calibration) (Recommendation, error) {
	var resolution line.Resolution
	var err error

	if query.Direction != "" {
		resolution, err = e.ring.ResolveDirected(query.Boarding, query.Destination, query.Direction)
	} else {
		resolution, err = e.ring.Resolve(query.Boarding, query.Destination)
	}
	if err != nil {
		return Recommendation{}, err
	}

	dayType := query.DayType
	if dayType == "" {
		dayType = dataset.DayTypeWeekday
	}

	alpha := cal.Alpha(query.Hour)
	totalTrip := resolution.TravelMinutes

	worstIntermediate := dataset.QualityExact
	stations := make([]stationContext, 0, len(resolution.Intermediates))

	for _, name := range resolution.Intermediates {
		context := stationContext{name: name}

		context.remainingMinutes, err = e.ring.TravelMinutes(name, resolution.Destination, resolution.Direction)
		if err != nil {
			return Recommendation{}, err
		}
		context.fromBoarding, err = e.ring.TravelMinutes(resolution.Boarding, name, resolution.Direction)
		if err != nil {
			return Recommendation{}, err
		}

		congestionSum := 0.0
		for car := 1; car <= TotalCars; car++ {
			sample, err := e.data.Lookup(name, query.Hour, dayType, car)
			if err != nil {
				return Recommendation{}, err
			}

			context.samples[car-1] = sample
			congestionSum += sample.CongestionRatio

			if sample.Quality.Worse(worstIntermediate) {
				worstIntermediate = sample.Quality
			}
		}

		meanCongestion := congestionSum / TotalCars
		context.sitFraction = sittingFraction(meanCongestion)

		for car := 1; car <= TotalCars; car++ {
			context.competitors[car-1] = standingCompetitors(context.samples[car-1].CongestionRatio)
		}

		stations = append(stations, context)
	}

	loadFactorsRaw := rawLoadFactors(stations)
	loadFactorsEffective := dampenLoadFactors(loadFactorsRaw, cal.Gamma)

	// Boarding-station congestion drives the penalty and its quality tag.
	boardingQuality := dataset.QualityExact
	var boardingSamples [TotalCars]dataset.Sample
	for car := 1; car <= TotalCars; car++ {
		sample, err := e.data.Lookup(resolution.Boarding, query.Hour, dayType, car)
		if err != nil {
			return Recommendation{}, err
		}

		boardingSamples[car-1] = sample
		if sample.Quality.Worse(boardingQuality) {
			boardingQuality = sample.Quality
		}
	}

	boardingStation, err := e.ring.Station(resolution.Boarding)
	if err != nil {
		return Recommendation{}, err
	}

	cars := make([]CarScore, TotalCars)
	rawNet := make([]float64, TotalCars)

	for car := 1; car <= TotalCars; car++ {
		index := car - 1
		loadEffective := loadFactorsEffective[index]

		benefit := 0.0
		notSeated := 1.0 - initialSeatProbability(alpha, loadEffective)
		turnover := 1.0
		expectedWait := 0.0
		firstCaptureSum := 0.0

		contributions := make([]StationContribution, 0, len(stations))

		for _, station := range stations {
			sample := station.samples[index]

			freed := SeatsPerCar * sample.AlightingRate * station.sitFraction * alpha
			competitors := station.competitors[index] * turnover
			adjusted := competitors * loadEffective

			exponent := -freed / (epsilon + adjusted)
			if exponent < -20 {
				exponent = -20
			}
			capture := clamp(1.0-math.Exp(exponent), 0, 1)

			// Competitors who grabbed freed seats here stop competing
			// at later stations.
			if competitors > 0 {
				takenByOthers := freed * (adjusted / (epsilon + adjusted))
				seatedFraction := math.Min(0.5, takenByOthers/math.Max(1.0, competitors))
				turnover *= 1.0 - seatedFraction
			}

			firstCapture := capture * notSeated
			contribution := firstCapture * station.remainingMinutes
			benefit += contribution
			expectedWait += firstCapture * station.fromBoarding
			firstCaptureSum += firstCapture
			notSeated *= 1.0 - capture

			contributions = append(contributions, StationContribution{
				Station:             station.name,
				RemainingMinutes:    station.remainingMinutes,
				FreedSeats:          freed,
				Competitors:         competitors,
				AdjustedCompetitors: adjusted,
				CaptureProbability:  capture,
				FirstCapture:        firstCapture,
				Contribution:        contribution,
				Quality:             sample.Quality,
			})
		}

		// Less crowded cars carry a chance of a seat right at boarding.
		benefit += cal.Delta * math.Max(0, 1.0-loadEffective) * totalTrip

		penalty := e.penalty(car, boardingStation, boardingSamples[index], stations, cal, alpha, totalTrip)

		seated := clamp(1.0-notSeated, 0, 0.95)

		expectedWait += math.Max(0, 1.0-firstCaptureSum) * totalTrip
		var seatMinutes *float64
		if seated >= seatMinutesThreshold {
			wait := roundTo(expectedWait, 1)
			seatMinutes = &wait
		}

		rawNet[index] = benefit - penalty

		cars[index] = CarScore{
			Car:             car,
			Benefit:         benefit,
			Penalty:         penalty,
			LoadFactor:      loadFactorsRaw[index],
			SeatProbability: seated,
			SeatMinutes:     seatMinutes,
			Contributions:   contributions,
		}
	}

	normalizeScores(cars, rawNet)
	rankCars(cars)

	best := cars[0]
	worst := cars[len(cars)-1]

	return Recommendation{
		Boarding:      resolution.Boarding,
		Destination:   resolution.Destination,
		Hour:          query.Hour,
		DayType:       dayType,
		Direction:     resolution.Direction,
		Alpha:         alpha,
		Intermediates: resolution.Intermediates,
		CarScores:     cars,
		BestCar:       best.Car,
		BestScore:     best.Score,
		WorstCar:      worst.Car,
		WorstScore:    worst.Score,
		ScoreSpread:   best.Score - worst.Score,
		DataQuality: map[string]dataset.Quality{
			"boarding_congestion": boardingQuality,
			"car_congestion":      worstIntermediate,
			"alighting":           worstIntermediate,
			"travel_times":        dataset.QualityExact,
		},
		CalibrationVersion: cal.Version,
	}, nil
}

// penalty is the congestion cost of boarding this car: mean congestion
// along the traversed segment, amplified at rush hours and where
// platform facilities concentrate boarding queues, all scaled by beta
// and the trip length to stay in the same unit (minutes) as benefit.
func (e *Engine) penalty(car int, boarding line.Station, boardingSample dataset.Sample, stations []stationContext, cal calibration.Calibration, alpha float64, totalTrip float64) float64 {
	congestionSum := boardingSample.CongestionRatio
	count := 1

	for _, station := range stations {
		congestionSum += station.samples[car-1].CongestionRatio
		count++
	}

	meanCongestion := congestionSum / float64(count)

	facilityBoost := 0.0
	for _, facility := range boarding.Facilities {
		if facility.Car == car {
			facilityBoost += 0.1 * cal.FacilityWeight(facility.Type)
		}
	}

	return cal.Beta * meanCongestion * alpha * (1.0 + facilityBoost) * totalTrip
}

// rawLoadFactors averages each car's congestion relative to the
// station mean across intermediates. Uniform 1.0 with no intermediates.
func rawLoadFactors(stations []stationContext) []float64 {
	factors := make([]float64, TotalCars)

	if len(stations) == 0 {
		for i := range factors {
			factors[i] = 1.0
		}
		return factors
	}

	for _, station := range stations {
		stationSum := 0.0
		for i := 0; i < TotalCars; i++ {
			stationSum += station.samples[i].CongestionRatio
		}
		stationMean := math.Max(stationSum/TotalCars, 1e-9)

		for i := 0; i < TotalCars; i++ {
			factors[i] += station.samples[i].CongestionRatio / stationMean
		}
	}

	for i := range factors {
		factors[i] = clamp(factors[i]/float64(len(stations)), minLoadFactor, maxLoadFactor)
	}

	return factors
}

// dampenLoadFactors compresses the spread with L^gamma and
// renormalises to mean 1.0, so gamma only changes contrast between
// cars, not the overall competition level.
func dampenLoadFactors(raw []float64, gamma float64) []float64 {
	dampened := make([]float64, len(raw))
	sum := 0.0

	for i, factor := range raw {
		dampened[i] = math.Pow(math.Max(factor, 0.01), gamma)
		sum += dampened[i]
	}

	mean := sum / float64(len(dampened))
	if mean <= 0 {
		for i := range dampened {
			dampened[i] = 1.0
		}
		return dampened
	}

	for i := range dampened {
		dampened[i] /= mean
	}

	return dampened
}

// initialSeatProbability models boarding an off-peak train that
// already has empty seats. Zero during rush (alpha >= 1); uncrowded
// cars get more of it.
func initialSeatProbability(alpha float64, loadEffective float64) float64 {
	if alpha >= 1.0 {
		return 0.0
	}

	base := (1.0 - alpha) * 0.7
	carFactor := math.Max(0.5, 1.0-0.5*math.Max(0, loadEffective-1.0))

	return math.Min(0.6, base*carFactor)
}

// sittingFraction estimates what share of alighting passengers were
// seated, using congestion as a proxy: empty trains mostly seated,
// crush-loaded trains bounded by the seat share of capacity.
func sittingFraction(congestionRatio float64) float64 {
	const seatShare = float64(SeatsPerCar) / float64(MaxCapacity)

	if congestionRatio <= 0.6 {
		return 0.85
	}
	if congestionRatio >= 2.0 {
		return seatShare
	}

	t := (congestionRatio - 0.6) / 1.4
	return 0.85 - t*(0.85-seatShare)
}

// standingCompetitors estimates how many standees contest a freed seat
// in this car. Floor of 0.5 so the capture model never divides the
// benefit away entirely.
func standingCompetitors(congestionRatio float64) float64 {
	standing := congestionRatio*MaxCapacity - SeatsPerCar
	return math.Max(0.5, standing)
}

// normalizeScores maps raw net utilities onto 0-100. An adaptive
// sigmoid stretches the min/max normalisation so near-ties stay
// readable and outliers get compressed; all-equal raw scores collapse
// to the 50 midpoint.
func normalizeScores(cars []CarScore, rawNet []float64) {
	min, max := rawNet[0], rawNet[0]
	for _, value := range rawNet[1:] {
		if value < min {
			min = value
		}
		if value > max {
			max = value
		}
	}

	if max <= min {
		for i := range cars {
			cars[i].Score = 50.0
		}
		return
	}

	spread := max - min
	steepness := 4.0
	if spread < 1.0 {
		steepness = 3.0
	} else if spread > 5.0 {
		steepness = 5.0
	}

	for i := range cars {
		normalized := (rawNet[i] - min) / spread
		stretched := 1.0 / (1.0 + math.Exp(-steepness*(normalized-0.5)))
		cars[i].Score = clamp(5.0+stretched*90.0, 5.0, 95.0)
	}
}

// rankCars sorts best first and assigns ranks 1..N, score descending
// with car number ascending as the deterministic tie-break.
func rankCars(cars []CarScore) {
	sort.SliceStable(cars, func(i, j int) bool {
		if cars[i].Score != cars[j].Score {
			return cars[i].Score > cars[j].Score
		}
		return cars[i].Car < cars[j].Car
	})

	for i := range cars {
		cars[i].Rank = i + 1
	}
}

func clamp(value float64, low float64, high float64) float64 {
	return math.Min(high, math.Max(low, value))
}

func roundTo(value float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(value*shift) / shift
}
