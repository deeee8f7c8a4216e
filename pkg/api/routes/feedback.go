package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/metroseat/metroseat/pkg/feedback"
	"github.com/metroseat/metroseat/pkg/seatscore"
)

func FeedbackRouter(router fiber.Router) {
	router.Post("/", postFeedback)
}

func postFeedback(c *fiber.Ctx) error {
	var report feedback.Report
	if err := c.BodyParser(&report); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body must be valid JSON",
		})
	}

	if !lineRing.Contains(report.Boarding) || !lineRing.Contains(report.Destination) {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "boarding or destination station is not on the line",
		})
	}

	if report.Car < 1 || report.Car > seatscore.TotalCars {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "car is out of range",
		})
	}

	if report.RecommendedCar != 0 && (report.RecommendedCar < 1 || report.RecommendedCar > seatscore.TotalCars) {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "recommended_car is out of range",
		})
	}

	if report.Satisfaction != 0 && (report.Satisfaction < 1 || report.Satisfaction > 5) {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "satisfaction must be between 1 and 5",
		})
	}

	report.SubmittedAt = time.Now()

	if feedback.Enabled() {
		if err := feedback.Publish(report); err != nil {
			log.Error().Err(err).Msg("Failed to queue feedback report")

			c.SendStatus(fiber.StatusServiceUnavailable)
			return c.JSON(fiber.Map{
				"error": "Feedback could not be queued",
			})
		}
	} else {
		// No queue configured. Acknowledge and drop so clients behave
		// the same in minimal deployments.
		log.Info().Str("boarding", report.Boarding).Int("car", report.Car).Msg("Feedback received with no queue configured")
	}

	return c.SendStatus(fiber.StatusAccepted)
}
