package server

import (
	"io"

	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia handles POST /api/media (multipart form: file + optional
// title/alt_text/caption fields).
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unreadable upload"))
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	media, err := s.mediaService.Upload(c.Context(), actor, service.UploadMediaInput{
		Filename: fileHeader.Filename,
		Content:  content,
		Title:    c.FormValue("title"),
		AltText:  c.FormValue("alt_text"),
		Caption:  c.FormValue("caption"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(media)
}

// GetMediaList handles GET /api/media
func (s *Server) GetMediaList(c *fiber.Ctx) error {
	page := parsePagination(c, service.DefaultPostPageSize)
	items, total, err := s.mediaService.List(c.Context(), service.ListMediaInput{
		MediaType:   models.MediaType(c.Query("type")),
		TitleSearch: c.Query("search"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"media": items, "total": total})
}

// GetMedia handles GET /api/media/:id
func (s *Server) GetMedia(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	media, err := s.mediaService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(media)
}

// UpdateMedia handles PUT /api/media/:id
func (s *Server) UpdateMedia(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title"`
		AltText string `json:"alt_text"`
		Caption string `json:"caption"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	media, err := s.mediaService.Update(c.Context(), actor, id, service.UpdateMediaInput{
		Title:   req.Title,
		AltText: req.AltText,
		Caption: req.Caption,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(media)
}

// DeleteMedia handles DELETE /api/media/:id
func (s *Server) DeleteMedia(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.mediaService.Delete(c.Context(), actor, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ServeMediaFile handles GET /api/media/:id/file — streams the stored file.
func (s *Server) ServeMediaFile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	media, abs, err := s.mediaService.ResolveFile(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	if media.MimeType != "" {
		c.Set(fiber.HeaderContentType, media.MimeType)
	}
	return c.SendFile(abs)
}
