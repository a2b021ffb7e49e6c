package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/logger"
	"github.com/tallybook/tally/internal/plan"
)

const (
	headerUserID    = "X-User-ID"
	headerPlan      = "X-Plan"
	headerRequestID = "X-Request-ID"
	localsActor     = "actor"
)

// requestLogger attaches a request-scoped logger to the user context and logs
// each request once it has been handled.
func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(headerRequestID, reqID)

		l := log.With().Str("request_id", reqID).Logger()
		c.SetUserContext(logger.WithContext(c.UserContext(), l))

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		l.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Str("remote_addr", c.IP()).
			Msg("HTTP request")
		return nil
	}
}

// requireActor reads the caller identity verified upstream.
func requireActor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Get(headerUserID))
	if err != nil || id == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "user id required in "+headerUserID+" header")
	}
	c.Locals(localsActor, ledger.Actor{UserID: id, Tier: plan.ParseTier(c.Get(headerPlan))})
	return c.Next()
}

func actorFrom(c *fiber.Ctx) ledger.Actor {
	a, _ := c.Locals(localsActor).(ledger.Actor)
	return a
}
