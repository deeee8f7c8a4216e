package seatscore

import (
	"github.com/metroseat/metroseat/pkg/dataset"
	"github.com/metroseat/metroseat/pkg/line"
)

// Per-car physical constants for Line 2 rolling stock.
const (
	TotalCars   = 10
	SeatsPerCar = 54
	MaxCapacity = 160 // per car at 100% congestion
)

// Query is one scoring request. Direction is optional; when empty the
// shorter traversal around the ring is chosen.
type Query struct {
	Boarding    string
	Destination string
	Hour        int
	DayType     dataset.DayType
	Direction   line.Direction
}

// StationContribution explains how much one intermediate station adds
// to a car's benefit, for the explanation UI.
type StationContribution struct {
	Station             string          `json:"station" groups:"detailed"`
	RemainingMinutes    float64         `json:"remaining_minutes" groups:"detailed"`
	FreedSeats          float64         `json:"freed_seats" groups:"detailed"`
	Competitors         float64         `json:"competitors" groups:"detailed"`
	AdjustedCompetitors float64         `json:"adjusted_competitors" groups:"detailed"`
	CaptureProbability  float64         `json:"p_capture" groups:"detailed"`
	FirstCapture        float64         `json:"p_first" groups:"detailed"`
	Contribution        float64         `json:"contribution" groups:"detailed"`
	Quality             dataset.Quality `json:"quality" groups:"detailed"`
}

type CarScore struct {
	Car   int     `json:"car" groups:"basic"`
	Score float64 `json:"score" groups:"basic"`
	Rank  int     `json:"rank" groups:"basic"`

	Benefit    float64 `json:"benefit" groups:"basic"`
	Penalty    float64 `json:"penalty" groups:"basic"`
	LoadFactor float64 `json:"load_factor" groups:"basic"`

	SeatProbability float64 `json:"p_seated" groups:"basic"`
	// SeatMinutes is nil when the seat probability is too low for the
	// estimate to mean anything.
	SeatMinutes *float64 `json:"estimated_seat_minutes" groups:"basic"`

	Contributions []StationContribution `json:"contributions,omitempty" groups:"detailed"`
}

type Recommendation struct {
	Boarding    string          `json:"boarding" groups:"basic"`
	Destination string          `json:"destination" groups:"basic"`
	Hour        int             `json:"hour" groups:"basic"`
	DayType     dataset.DayType `json:"day_type" groups:"basic"`
	Direction   line.Direction  `json:"direction" groups:"basic"`

	Alpha         float64  `json:"alpha" groups:"basic"`
	Intermediates []string `json:"intermediates" groups:"basic"`

	// CarScores is ordered best first.
	CarScores []CarScore `json:"car_scores" groups:"basic"`

	BestCar     int     `json:"best_car" groups:"basic"`
	BestScore   float64 `json:"best_score" groups:"basic"`
	WorstCar    int     `json:"worst_car" groups:"basic"`
	WorstScore  float64 `json:"worst_score" groups:"basic"`
	ScoreSpread float64 `json:"score_spread" groups:"basic"`

	DataQuality map[string]dataset.Quality `json:"data_quality" groups:"basic"`

	CalibrationVersion uint64 `json:"calibration_version" groups:"basic"`
}
