package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sharebox/backend/internal/middleware"
	"github.com/sharebox/backend/internal/services"
	"github.com/sharebox/backend/pkg/logger"
	"github.com/sharebox/backend/pkg/utils"
)

type SharesHandler struct {
	Sharing *services.SharingService
}

func NewSharesHandler(sharing *services.SharingService) *SharesHandler {
	return &SharesHandler{Sharing: sharing}
}

type createShareRequest struct {
	Email string `json:"email"`
}

func (h *SharesHandler) ShareFile(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	var req createShareRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" {
		return utils.Error(c, fiber.StatusBadRequest, "recipient email is required")
	}

	grant, err := h.Sharing.CreateGrant(c.Context(), currentUser, fileID, req.Email)
	if err != nil {
		return serviceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_shared", map[string]interface{}{
		"file_id":      fileID.String(),
		"grant_id":     grant.ID.String(),
		"recipient_id": grant.RecipientID.String(),
	})

	return utils.Success(c, fiber.StatusCreated, grant)
}

func (h *SharesHandler) ListFileShares(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	grants, err := h.Sharing.ListGrantsForFile(c.Context(), currentUser, fileID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, grants)
}

func (h *SharesHandler) DeleteShare(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	grantID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid share id")
	}

	if err := h.Sharing.RevokeGrant(c.Context(), currentUser, grantID); err != nil {
		return serviceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "share_revoked", map[string]interface{}{
		"grant_id": grantID.String(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "share revoked"})
}

func (h *SharesHandler) ListSharedWithMe(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	shared, err := h.Sharing.ListSharedWithMe(c.Context(), currentUser)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, shared)
}
