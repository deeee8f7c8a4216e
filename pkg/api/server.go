package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/metroseat/metroseat/pkg/api/routes"
	"github.com/metroseat/metroseat/pkg/util"
)

func SetupServer(listen string) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	if max := rateLimitPerMinute(); max > 0 {
		webApp.Use(limiter.New(limiter.Config{
			Max:               max,
			Expiration:        time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			LimitReached: func(c *fiber.Ctx) error {
				c.SendStatus(fiber.StatusTooManyRequests)
				return c.JSON(fiber.Map{
					"error": "rate limit exceeded",
				})
			},
		}))
	}

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StationsRouter(group.Group("/stations"))

	routes.RecommendRouter(group.Group("/recommend"))

	routes.CalibrateRouter(group.Group("/calibrate"))

	routes.SensitivityRouter(group.Group("/sensitivity"))
	routes.StabilityRouter(group.Group("/stability"))

	routes.FeedbackRouter(group.Group("/feedback"))
	routes.ValidateRouter(group.Group("/validate"))

	return webApp.Listen(listen)
}

// rateLimitPerMinute reads the per-client request budget. Zero
// disables limiting for single-user deployments.
func rateLimitPerMinute() int {
	value := util.GetEnvironmentVariable("METROSEAT_RATE_LIMIT", "120")

	max, err := strconv.Atoi(value)
	if err != nil || max < 0 {
		return 120
	}

	return max
}
