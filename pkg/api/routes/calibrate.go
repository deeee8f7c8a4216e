package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/metroseat/metroseat/pkg/calibration"
)

func CalibrateRouter(router fiber.Router) {
	router.Get("/", getCalibration)
	router.Post("/", postCalibration)
}

func getCalibration(c *fiber.Ctx) error {
	return c.JSON(calibrations.Get())
}

func postCalibration(c *fiber.Ctx) error {
	var update calibration.Update
	if err := c.BodyParser(&update); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body must be valid JSON",
		})
	}

	version, err := calibrations.Set(update)
	if err != nil {
		var invalidParameter *calibration.InvalidParameterError
		if errors.As(err, &invalidParameter) {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Cached recommendations were computed against the old
	// coefficients and must not outlive them.
	engine.InvalidateCached()

	return c.JSON(fiber.Map{
		"version":     version,
		"calibration": calibrations.Get(),
	})
}
