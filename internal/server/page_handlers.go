package server

import (
	"time"

	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type savePageRequest struct {
	Title           string     `json:"title"`
	Excerpt         string     `json:"excerpt"`
	Body            string     `json:"body"`
	Status          string     `json:"status"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	FeaturedMediaID *uint      `json:"featured_media_id"`
	PublishedAt     *time.Time `json:"published_at"`
	Template        string     `json:"template"`
	ParentID        *uint      `json:"parent_id"`
	ShowInMenu      *bool      `json:"show_in_menu"`
	MenuOrder       *uint      `json:"menu_order"`
}

func (r savePageRequest) toInput() service.SavePageInput {
	return service.SavePageInput{
		Title:           r.Title,
		Excerpt:         r.Excerpt,
		Body:            r.Body,
		Status:          models.Status(r.Status),
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		FeaturedMediaID: r.FeaturedMediaID,
		PublishedAt:     r.PublishedAt,
		Template:        r.Template,
		ParentID:        r.ParentID,
		ShowInMenu:      r.ShowInMenu,
		MenuOrder:       r.MenuOrder,
	}
}

// CreatePage handles POST /api/pages
func (s *Server) CreatePage(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req savePageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	page, err := s.pageService.CreatePage(c.Context(), actor, req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(page)
}

// UpdatePage handles PUT /api/pages/:slug
func (s *Server) UpdatePage(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req savePageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	page, err := s.pageService.UpdatePage(c.Context(), actor, c.Params("slug"), req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(page)
}

// DeletePage handles DELETE /api/pages/:slug
func (s *Server) DeletePage(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	if err := s.pageService.DeletePage(c.Context(), actor, c.Params("slug")); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetPage handles GET /api/pages/:slug
func (s *Server) GetPage(c *fiber.Ctx) error {
	viewer := s.optionalUser(c)

	page, err := s.pageService.GetPage(c.Context(), viewer, c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(page)
}

// GetPages handles GET /api/pages
func (s *Server) GetPages(c *fiber.Ctx) error {
	viewer := s.optionalUser(c)

	page := parsePagination(c, service.DefaultPageListSize)
	pages, err := s.pageService.ListPages(c.Context(), viewer, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"pages": pages})
}

// Menu handles GET /api/menu — published pages flagged for navigation.
func (s *Server) Menu(c *fiber.Ctx) error {
	pages, err := s.pageService.Menu(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"pages": pages})
}
