package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/metroseat/metroseat/pkg/seatscore"
)

func SensitivityRouter(router fiber.Router) {
	router.Get("/", getSensitivity)
}

func getSensitivity(c *fiber.Ctx) error {
	query, err := getScoringQuery(c)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	parameter := c.Query("parameter", "beta")
	steps, _ := strconv.Atoi(c.Query("steps", "21"))

	values, err := seatscore.SweepValues(parameter, steps)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	points, err := engine.Sweep(query, calibrations.Get(), parameter, values)
	if err != nil {
		return sendScoringError(c, err)
	}

	return c.JSON(fiber.Map{
		"parameter": parameter,
		"values":    values,
		"points":    points,
	})
}
