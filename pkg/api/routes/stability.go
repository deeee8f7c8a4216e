package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func StabilityRouter(router fiber.Router) {
	router.Get("/", getStability)
}

func getStability(c *fiber.Ctx) error {
	query, err := getScoringQuery(c)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	trials, _ := strconv.Atoi(c.Query("trials", "50"))
	if trials < 1 || trials > 500 {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "trials must be within [1, 500]",
		})
	}

	seed, parseErr := strconv.ParseInt(c.Query("seed", "42"), 10, 64)
	if parseErr != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "seed must be an integer",
		})
	}

	report, err := engine.RankStability(query, calibrations.Get(), trials, seed)
	if err != nil {
		return sendScoringError(c, err)
	}

	return c.JSON(report)
}
