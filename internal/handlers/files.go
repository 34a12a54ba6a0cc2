package handlers

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sharebox/backend/internal/middleware"
	"github.com/sharebox/backend/internal/models"
	"github.com/sharebox/backend/internal/services"
	"github.com/sharebox/backend/pkg/logger"
	"github.com/sharebox/backend/pkg/utils"
)

type FilesHandler struct {
	Files  *services.FileService
	Access *services.AccessService
}

func NewFilesHandler(files *services.FileService, access *services.AccessService) *FilesHandler {
	return &FilesHandler{Files: files, Access: access}
}

func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "file is required")
	}

	visibility := models.VisibilityPrivate
	visibilityRaw := strings.ToLower(strings.TrimSpace(c.FormValue("visibility")))
	switch visibilityRaw {
	case "", string(models.VisibilityPrivate):
	case string(models.VisibilityPublic):
		visibility = models.VisibilityPublic
	default:
		return utils.Error(c, fiber.StatusBadRequest, "visibility must be private or public")
	}

	filename := filepath.Base(strings.TrimSpace(fileHeader.Filename))
	if filename == "" || filename == "." {
		return utils.Error(c, fiber.StatusBadRequest, "invalid filename")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	stream, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed opening uploaded file")
	}
	defer stream.Close()

	entry, err := h.Files.Upload(c.Context(), currentUser, services.UploadRequest{
		Name:        filename,
		Size:        fileHeader.Size,
		ContentType: contentType,
		Visibility:  visibility,
		Content:     stream,
	})
	if err != nil {
		return serviceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_uploaded", map[string]interface{}{
		"file_id":    entry.ID.String(),
		"file_name":  entry.Name,
		"file_size":  entry.Size,
		"visibility": string(entry.Visibility),
	})

	return utils.Success(c, fiber.StatusCreated, entry)
}

func (h *FilesHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	files, err := h.Access.ListVisible(c.Context(), currentUser)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, files)
}

func (h *FilesHandler) Download(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	file, content, err := h.Files.Download(c.Context(), currentUser, fileID)
	if err != nil {
		return serviceError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_downloaded", map[string]interface{}{
		"file_id":   file.ID.String(),
		"file_name": file.Name,
		"file_size": file.Size,
	})

	c.Set("Content-Type", file.MimeType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	return c.SendStream(content, int(file.Size))
}

func (h *FilesHandler) Delete(c *fiber.Ctx) error {
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

	logger.InfoWithUser(currentUser.ID.String(), "file_deleted", map[string]interface{}{
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
