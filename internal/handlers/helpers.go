package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sharebox/backend/internal/services"
	"github.com/sharebox/backend/pkg/utils"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// serviceError translates a typed service failure into the HTTP envelope.
// Untyped errors collapse to a generic 500 so internal store error text
// never reaches a response body.
func serviceError(c *fiber.Ctx, err error) error {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case services.KindNotFound:
			return utils.Error(c, fiber.StatusNotFound, svcErr.Message)
		case services.KindForbidden:
			return utils.Error(c, fiber.StatusForbidden, svcErr.Message)
		case services.KindConflict:
			return utils.Error(c, fiber.StatusConflict, svcErr.Message)
		case services.KindInvalidOperation:
			return utils.Error(c, fiber.StatusBadRequest, svcErr.Message)
		case services.KindAuthError:
			return utils.Error(c, fiber.StatusUnauthorized, svcErr.Message)
		case services.KindStorageError:
			return utils.Error(c, fiber.StatusInternalServerError, svcErr.Message)
		}
	}
	return utils.Error(c, fiber.StatusInternalServerError, "internal server error")
}
