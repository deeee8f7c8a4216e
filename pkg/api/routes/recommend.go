package routes

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/metroseat/metroseat/pkg/dataset"
	"github.com/metroseat/metroseat/pkg/line"
	"github.com/metroseat/metroseat/pkg/seatscore"
)

func RecommendRouter(router fiber.Router) {
	router.Post("/", postRecommend)
}

type recommendRequest struct {
	Boarding    string `json:"boarding"`
	Destination string `json:"destination"`
	Hour        int    `json:"hour"`
	DayOfWeek   string `json:"day_of_week"`
	Direction   string `json:"direction"`
}

func postRecommend(c *fiber.Ctx) error {
	var request recommendRequest
	if err := c.BodyParser(&request); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body must be valid JSON",
		})
	}

	if request.Boarding == "" || request.Destination == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "boarding and destination must both be provided",
		})
	}

	if request.Hour < dataset.MinHourBucket || request.Hour > dataset.MaxHourBucket {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": fmt.Sprintf("hour must be within [%d, %d]", dataset.MinHourBucket, dataset.MaxHourBucket),
		})
	}

	dayType, ok := dataset.ParseDayOfWeek(request.DayOfWeek)
	if !ok {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "day_of_week is not recognised",
		})
	}

	direction := line.Direction(request.Direction)
	if request.Direction != "" && !direction.Valid() {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "direction must be inner or outer",
		})
	}

	detailed := c.Query("detailed") == "true"

	query := seatscore.Query{
		Boarding:    request.Boarding,
		Destination: request.Destination,
		Hour:        request.Hour,
		DayType:     dayType,
		Direction:   direction,
	}

	cacheKey := fmt.Sprintf("response:recommend:%s:%s:%d:%s:%s:%t:v%d",
		query.Boarding, query.Destination, query.Hour, query.DayType, query.Direction,
		detailed, calibrations.Get().Version)

	if cached, found := responseCacheGet(cacheKey); found {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	recommendation, err := engine.Recommend(query)
	if err != nil {
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

	groups := []string{"basic"}
	if detailed {
		groups = append(groups, "detailed")
	}

	recommendationReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, recommendation)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce recommendation",
		})
	}

	if responseCacheEnabled() {
		if body, err := json.Marshal(recommendationReduced); err == nil {
			responseCacheSet(cacheKey, string(body))
		}
	}

	return c.JSON(recommendationReduced)
}
