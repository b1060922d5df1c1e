package server

import (
	"github.com/cfischer83/inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Home handles GET /api/home — the latest published posts plus the menu
// pages the home view embeds.
func (s *Server) Home(c *fiber.Ctx) error {
	posts, err := s.postService.LatestPublished(c.Context(), service.HomePostCount)
	if err != nil {
		return respondServiceError(c, err)
	}

	menuPages, err := s.pageService.Menu(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	if len(menuPages) > service.HomeMenuPageCount {
		menuPages = menuPages[:service.HomeMenuPageCount]
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"pages": menuPages,
	})
}

// Search handles GET /api/search?q= — published posts matching q plus the
// top matching published pages. An empty query yields empty results.
func (s *Server) Search(c *fiber.Ctx) error {
	q := c.Query("q")

	posts, err := s.postService.SearchPosts(c.Context(), q)
	if err != nil {
		return respondServiceError(c, err)
	}

	pages, err := s.pageService.SearchPages(c.Context(), q)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"query": q,
		"posts": posts,
		"pages": pages,
	})
}
