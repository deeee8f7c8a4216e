package routes

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/metroseat/metroseat/pkg/dataset"
	"github.com/metroseat/metroseat/pkg/line"
	"github.com/metroseat/metroseat/pkg/seatscore"
)

// getScoringQuery builds a scoring query from URL query parameters,
// shared by the analysis endpoints.
func getScoringQuery(c *fiber.Ctx) (seatscore.Query, error) {
	boarding := c.Query("boarding")
	destination := c.Query("destination")

	if boarding == "" || destination == "" {
		return seatscore.Query{}, errors.New("boarding and destination must both be provided")
	}

	hour, err := strconv.Atoi(c.Query("hour", "8"))
	if err != nil || hour < dataset.MinHourBucket || hour > dataset.MaxHourBucket {
		return seatscore.Query{}, fmt.Errorf("hour must be within [%d, %d]", dataset.MinHourBucket, dataset.MaxHourBucket)
	}

	dayType, ok := dataset.ParseDayOfWeek(c.Query("day_of_week"))
	if !ok {
		return seatscore.Query{}, errors.New("day_of_week is not recognised")
	}

	direction := line.Direction(c.Query("direction"))
	if direction != "" && !direction.Valid() {
		return seatscore.Query{}, errors.New("direction must be inner or outer")
	}

	return seatscore.Query{
		Boarding:    boarding,
		Destination: destination,
		Hour:        hour,
		DayType:     dayType,
		Direction:   direction,
	}, nil
}

// sendScoringError maps resolver failures onto response codes.
func sendScoringError(c *fiber.Ctx, err error) error {
	var unknownStation *line.UnknownStationError
	if errors.As(err, &unknownStation) {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var sameStation *line.SameStationError
	if errors.As(err, &sameStation) {
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
