package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/logger"
)

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case ledger.IsValidation(err):
		return fiber.StatusBadRequest
	case errors.Is(err, ledger.ErrPlanRequired):
		return fiber.StatusPaymentRequired
	case errors.Is(err, ledger.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		log := logger.FromContext(c.UserContext(), s.log)
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		msg = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}
