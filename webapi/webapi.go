// Package webapi wires the HTTP transport of the ledger:
// - account: account, transfer and history endpoints
// - common: response envelope, error mapping and validation
package webapi

import (
	"errors"
	"strings"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/app"
	accountweb "github.com/SamuelMauli/AvaliacaoDesignPatterns/webapi/account"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	fiberApp.Use(recover.New())
	if a.Deps.Metrics != nil {
		fiberApp.Use(observe(a.Deps.Metrics))
	}

	// Uses X-Forwarded-For when behind a proxy, then X-Real-IP, then the peer IP.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	if a.Config.Env != "test" {
		fiberApp.Use(logger.New())
	}

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Ledger API is running! 🚀")
	})

	if a.Deps.Metrics != nil && a.Config.Metrics != nil && a.Config.Metrics.Enabled {
		fiberApp.Get(a.Config.Metrics.Path, adaptor.HTTPHandler(a.Deps.Metrics.Handler()))
	}

	accountweb.Routes(fiberApp, a.Bank, a.Deps.Metrics)
	return fiberApp
}

// observe records the duration and status of every request, labelled by
// the matched route rather than the raw path.
func observe(m app.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = common.ErrorToStatusCode(err)
		}
		m.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
