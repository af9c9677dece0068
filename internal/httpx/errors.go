package httpx

import (
	"errors"

	"inventory-backend/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorHandler renders any handler error as an envelope. Typed service errors
// keep their status; everything else is logged and hidden behind a 500.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return Fail(c, fe.Code, fe.Message)
		}

		var ae *apperror.Error
		if errors.As(err, &ae) && ae.Kind != apperror.KindInternal {
			return Fail(c, ae.Kind.Status(), ae.Message)
		}

		log.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": c.Locals("requestid"),
		}).WithError(err).Error("unhandled error")
		return Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
}
