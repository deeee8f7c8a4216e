package seatscore

import (
	"math"
	"math/rand"

	"github.com/metroseat/metroseat/pkg/calibration"
)

// StabilityCar summarises how one car's rank and score behaved under
// perturbation.
type StabilityCar struct {
	Car       int     `json:"car"`
	BaseRank  int     `json:"base_rank"`
	BaseScore float64 `json:"base_score"`

	RankChanges int `json:"rank_changes"`
	MinRank     int `json:"min_rank"`
	MaxRank     int `json:"max_rank"`

	MeanScore   float64 `json:"mean_score"`
	ScoreStdDev float64 `json:"score_std_dev"`
}

type StabilityReport struct {
	Boarding    string `json:"boarding"`
	Destination string `json:"destination"`
	Hour        int    `json:"hour"`
	Trials      int    `json:"trials"`

	// BestCarStable is true when the top recommendation survived every
	// perturbation.
	BestCarStable    bool    `json:"best_car_stable"`
	BestCarChangePct float64 `json:"best_car_change_pct"`

	Cars []StabilityCar `json:"cars"`
}

// RankStability perturbs every time-period multiplier by a uniform
// +-20% factor per trial and reports how consistently the ranking
// holds up. A recommendation worth showing should keep its best car
// through most perturbations. Deterministic for a fixed seed.
func (e *Engine) RankStability(query Query, base calibration.Calibration, trials int, seed int64) (StabilityReport, error) {
	if trials < 1 {
		trials = 50
	}

	baseline, err := e.Score(query, base)
	if err != nil {
		return StabilityReport{}, err
	}

	baseRank := map[int]int{}
	baseScore := map[int]float64{}
	for _, car := range baseline {
		baseRank[car.Car] = car.Rank
		baseScore[car.Car] = car.Score
	}
	baseBest := baseline[0].Car

	rng := rand.New(rand.NewSource(seed))

	ranks := map[int][]int{}
	scores := map[int][]float64{}
	bestChanged := 0

	for trial := 0; trial < trials; trial++ {
		factor := 1.0 + (rng.Float64()*0.4 - 0.2)

		perturbed := base.Clone()
		for period, multiplier := range base.PeriodMultipliers {
			// Stay inside the multiplier's valid range.
			perturbed.PeriodMultipliers[period] = clamp(multiplier*factor, 0.01, 3.0)
		}

		cars, err := e.Score(query, perturbed)
		if err != nil {
			return StabilityReport{}, err
		}

		if cars[0].Car != baseBest {
			bestChanged++
		}

		for _, car := range cars {
			ranks[car.Car] = append(ranks[car.Car], car.Rank)
			scores[car.Car] = append(scores[car.Car], car.Score)
		}
	}

	report := StabilityReport{
		Boarding:         query.Boarding,
		Destination:      query.Destination,
		Hour:             query.Hour,
		Trials:           trials,
		BestCarStable:    bestChanged == 0,
		BestCarChangePct: roundTo(float64(bestChanged)/float64(trials)*100, 1),
	}

	for car := 1; car <= TotalCars; car++ {
		carRanks := ranks[car]
		carScores := scores[car]

		seen := map[int]bool{}
		minRank, maxRank := baseRank[car], baseRank[car]
		for _, rank := range carRanks {
			seen[rank] = true
			if rank < minRank {
				minRank = rank
			}
			if rank > maxRank {
				maxRank = rank
			}
		}

		mean := 0.0
		for _, score := range carScores {
			mean += score
		}
		if len(carScores) > 0 {
			mean /= float64(len(carScores))
		}

		variance := 0.0
		for _, score := range carScores {
			variance += (score - mean) * (score - mean)
		}
		if len(carScores) > 0 {
			variance /= float64(len(carScores))
		}

		rankChanges := len(seen) - 1
		if rankChanges < 0 {
			rankChanges = 0
		}

		report.Cars = append(report.Cars, StabilityCar{
			Car:         car,
			BaseRank:    baseRank[car],
			BaseScore:   roundTo(baseScore[car], 1),
			RankChanges: rankChanges,
			MinRank:     minRank,
			MaxRank:     maxRank,
			MeanScore:   roundTo(mean, 1),
			ScoreStdDev: roundTo(math.Sqrt(variance), 2),
		})
	}

	return report, nil
}
