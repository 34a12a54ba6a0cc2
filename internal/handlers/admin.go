package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sharebox/backend/internal/middleware"
	"github.com/sharebox/backend/internal/services"
	"github.com/sharebox/backend/pkg/logger"
	"github.com/sharebox/backend/pkg/utils"
)

// AdminHandler serves the privileged routes. AdminOnly middleware guards
// them; the handlers still pass the acting admin down so the services can
// apply the self-protection rules.
type AdminHandler struct {
	Admin *services.AdminService
	Files *services.FileService
}

func NewAdminHandler(admin *services.AdminService, files *services.FileService) *AdminHandler {
	return &AdminHandler{Admin: admin, Files: files}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	users, total, err := h.Admin.ListUsers(c.Context(), p.Offset, p.Limit)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Paginated(c, users, p.Page, p.Limit, total)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	targetID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.Admin.DeleteUser(c.Context(), currentUser, targetID); err != nil {
		return serviceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "user_deleted", map[string]interface{}{
		"target_id": targetID.String(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "user and their files deleted"})
}

type setAdminFlagRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}

func (h *AdminHandler) SetAdminFlag(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	targetID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req setAdminFlagRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.IsAdmin == nil {
		return utils.Error(c, fiber.StatusBadRequest, "isAdmin must be true or false")
	}

	if err := h.Admin.SetAdminFlag(c.Context(), currentUser, targetID, *req.IsAdmin); err != nil {
		return serviceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "admin_flag_updated", map[string]interface{}{
		"target_id": targetID.String(),
		"is_admin":  *req.IsAdmin,
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "admin status updated"})
}

// DeleteFile is the same operation as the owner delete; the admin bypass
// in the access evaluator makes it succeed for any file.
func (h *AdminHandler) DeleteFile(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	orphaned, err := h.Files.Delete(c.Context(), currentUser, fileID)
	if err != nil {
		return serviceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_deleted_by_admin", map[string]interface{}{
		"file_id":  fileID.String(),
		"orphaned": orphaned,
	})

	if orphaned {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"message": "file deleted",
			"warning": "file content could not be removed from storage",
		})
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "file deleted"})
}
