package routes

import (
	"context"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/metroseat/metroseat/pkg/database"
	"github.com/metroseat/metroseat/pkg/dataset"
	"github.com/metroseat/metroseat/pkg/feedback"
	"github.com/metroseat/metroseat/pkg/seatscore"
)

func ValidateRouter(router fiber.Router) {
	router.Get("/", getValidation)
}

// ValidationMetrics summarises how the model's recommendations held up
// against what riders reported back.
type ValidationMetrics struct {
	TotalReports     int     `json:"total_reports"`
	RatedReports     int     `json:"rated_reports"`
	MeanSatisfaction float64 `json:"mean_satisfaction"`
	SeatSuccessRate  float64 `json:"seat_success_rate"`

	// Top1Accuracy is the fraction of reports where the car the rider
	// actually took was the model's best car for their trip.
	Top1Accuracy float64 `json:"top1_accuracy"`

	// RankCorrelation is the Spearman correlation between the rank of
	// the recommended car and rider satisfaction; nil below 5 rated
	// reports. A good model correlates negatively, better ranks with
	// higher satisfaction.
	RankCorrelation *float64 `json:"rank_correlation"`

	MeanScoreSatisfied   *float64 `json:"mean_score_satisfied"`
	MeanScoreUnsatisfied *float64 `json:"mean_score_unsatisfied"`

	Skipped int `json:"skipped"`
}

func getValidation(c *fiber.Ctx) error {
	if database.MongoGlobalInstance == nil {
		c.SendStatus(fiber.StatusServiceUnavailable)
		return c.JSON(fiber.Map{
			"error": "feedback store is not configured",
		})
	}

	cursor, err := database.GetCollection("feedback").Find(context.Background(), bson.M{})
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var reports []feedback.Report
	if err := cursor.All(context.Background(), &reports); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if len(reports) == 0 {
		return c.JSON(fiber.Map{
			"status":  "no_data",
			"message": "No feedback reports stored yet",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"metrics": computeValidationMetrics(reports),
	})
}

func computeValidationMetrics(reports []feedback.Report) ValidationMetrics {
	metrics := ValidationMetrics{TotalReports: len(reports)}

	var satisfactionSum float64
	seatHits := 0
	top1Hits := 0

	var recommendedRanks, pairedSatisfaction stats.Float64Data
	var satisfiedScores, unsatisfiedScores stats.Float64Data

	for _, report := range reports {
		if report.GotSeat {
			seatHits++
		}
		if report.Satisfaction > 0 {
			metrics.RatedReports++
			satisfactionSum += float64(report.Satisfaction)
		}

		day, ok := dataset.ParseDayOfWeek(report.DayOfWeek)
		if !ok {
			metrics.Skipped++
			continue
		}

		recommendation, err := engine.Recommend(seatscore.Query{
			Boarding:    report.Boarding,
			Destination: report.Destination,
			Hour:        report.Hour,
			DayType:     day,
		})
		if err != nil {
			log.Warn().Err(err).Str("boarding", report.Boarding).Str("destination", report.Destination).Msg("Skipping feedback report during validation")
			metrics.Skipped++
			continue
		}

		if recommendation.BestCar == report.Car {
			top1Hits++
		}

		if report.RecommendedCar == 0 {
			continue
		}

		for _, car := range recommendation.CarScores {
			if car.Car != report.RecommendedCar {
				continue
			}

			if report.Satisfaction > 0 {
				recommendedRanks = append(recommendedRanks, float64(car.Rank))
				pairedSatisfaction = append(pairedSatisfaction, float64(report.Satisfaction))

				if report.Satisfaction >= 4 {
					satisfiedScores = append(satisfiedScores, car.Score)
				} else if report.Satisfaction <= 2 {
					unsatisfiedScores = append(unsatisfiedScores, car.Score)
				}
			}

			break
		}
	}

	metrics.SeatSuccessRate = float64(seatHits) / float64(len(reports))
	metrics.Top1Accuracy = float64(top1Hits) / float64(len(reports))

	if metrics.RatedReports > 0 {
		metrics.MeanSatisfaction = satisfactionSum / float64(metrics.RatedReports)
	}

	if len(recommendedRanks) >= 5 {
		if correlation, err := spearman(recommendedRanks, pairedSatisfaction); err == nil {
			metrics.RankCorrelation = &correlation
		}
	}

	if mean, err := satisfiedScores.Mean(); err == nil {
		metrics.MeanScoreSatisfied = &mean
	}
	if mean, err := unsatisfiedScores.Mean(); err == nil {
		metrics.MeanScoreUnsatisfied = &mean
	}

	return metrics
}

// spearman is the Pearson correlation of the rank-transformed inputs,
// with ties sharing their average rank.
func spearman(a, b stats.Float64Data) (float64, error) {
	return stats.Pearson(averageRanks(a), averageRanks(b))
}

func averageRanks(values stats.Float64Data) stats.Float64Data {
	indexes := make([]int, len(values))
	for i := range indexes {
		indexes[i] = i
	}
	sort.Slice(indexes, func(i, j int) bool {
		return values[indexes[i]] < values[indexes[j]]
	})

	ranks := make(stats.Float64Data, len(values))
	for start := 0; start < len(indexes); {
		end := start
		for end+1 < len(indexes) && values[indexes[end+1]] == values[indexes[start]] {
			end++
		}

		// Ranks are 1-based; tied values share the average of the
		// positions they span.
		shared := float64(start+end)/2 + 1
		for i := start; i <= end; i++ {
			ranks[indexes[i]] = shared
		}

		start = end + 1
	}

	return ranks
}
