package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestLoggerPassesRequestsThrough(t *testing.T) {
	app := fiber.New()
	app.Use(NewLogger())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	request := httptest.NewRequest("GET", "/ping", nil)
	request.Header.Set(fiber.HeaderXForwardedFor, "203.0.113.9, 10.0.0.1")

	response, err := app.Test(request)
	if err != nil {
		t.Fatal(err)
	}

	if response.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 through the logger, got %d", response.StatusCode)
	}
}

func TestLoggerSwallowsHandlerErrors(t *testing.T) {
	app := fiber.New()
	app.Use(NewLogger())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.ErrTeapot
	})

	response, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatal(err)
	}

	// The middleware logs the error itself rather than bubbling it to
	// fiber's default error handler.
	if response.StatusCode != fiber.StatusOK {
		t.Errorf("expected logged-and-absorbed error, got %d", response.StatusCode)
	}
}
