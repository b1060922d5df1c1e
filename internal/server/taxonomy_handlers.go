package server

import (
	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type saveCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
}

func (r saveCategoryRequest) toInput() service.SaveCategoryInput {
	return service.SaveCategoryInput{
		Name:        r.Name,
		Description: r.Description,
		ParentID:    r.ParentID,
	}
}

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.taxonomyService.ListCategories(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetCategory handles GET /api/categories/:slug — the category plus the
// published posts filed under it.
func (s *Server) GetCategory(c *fiber.Ctx) error {
	page := parsePagination(c, service.DefaultPostPageSize)
	category, posts, err := s.taxonomyService.GetCategory(c.Context(), c.Params("slug"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"category": category, "posts": posts})
}

// GetCategoryChildren handles GET /api/categories/:slug/children
func (s *Server) GetCategoryChildren(c *fiber.Ctx) error {
	children, err := s.taxonomyService.CategoryChildren(c.Context(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"categories": children})
}

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req saveCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.taxonomyService.CreateCategory(c.Context(), actor, req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /api/categories/:slug
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req saveCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.taxonomyService.UpdateCategory(c.Context(), actor, c.Params("slug"), req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:slug
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	if err := s.taxonomyService.DeleteCategory(c.Context(), actor, c.Params("slug")); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.taxonomyService.ListTags(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// GetTag handles GET /api/tags/:slug — the tag plus the published posts
// carrying it.
func (s *Server) GetTag(c *fiber.Ctx) error {
	page := parsePagination(c, service.DefaultPostPageSize)
	tag, posts, err := s.taxonomyService.GetTag(c.Context(), c.Params("slug"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"tag": tag, "posts": posts})
}

// CreateTag handles POST /api/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.taxonomyService.CreateTag(c.Context(), actor, service.SaveTagInput{Name: req.Name})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tag)
}

// UpdateTag handles PUT /api/tags/:slug
func (s *Server) UpdateTag(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.taxonomyService.UpdateTag(c.Context(), actor, c.Params("slug"), service.SaveTagInput{Name: req.Name})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tag)
}

// DeleteTag handles DELETE /api/tags/:slug
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	if err := s.taxonomyService.DeleteTag(c.Context(), actor, c.Params("slug")); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
