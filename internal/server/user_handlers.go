package server

import (
	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	return c.JSON(fiber.Map{
		"user":         user,
		"display_name": user.DisplayName(),
	})
}

// UpdateMyProfile handles PUT /api/users/me. Absent fields are left
// unchanged.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Bio       *string `json:"bio"`
		Avatar    *string `json:"avatar"`
		Website   *string `json:"website"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), actor, service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
		Website:   req.Website,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetUsers handles GET /api/admin/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	page := parsePagination(c, service.DefaultPageListSize)
	users, total, err := s.userService.ListUsers(c.Context(), actor, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"users": users, "total": total})
}

// AssignRole handles PUT /api/admin/users/:id/role
func (s *Server) AssignRole(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.AssignRole(c.Context(), actor, id, models.Role(req.Role))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetFeatureFlags handles GET /api/admin/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"flags": s.featureFlags.Raw()})
}
