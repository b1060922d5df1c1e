package server

import (
	"time"

	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// savePostRequest is the request body shared by create and update.
type savePostRequest struct {
	Title           string     `json:"title"`
	Excerpt         string     `json:"excerpt"`
	Body            string     `json:"body"`
	Status          string     `json:"status"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	FeaturedMediaID *uint      `json:"featured_media_id"`
	PublishedAt     *time.Time `json:"published_at"`
	AllowComments   *bool      `json:"allow_comments"`
	CategoryIDs     []uint     `json:"category_ids"`
	TagIDs          []uint     `json:"tag_ids"`
}

func (r savePostRequest) toInput() service.SavePostInput {
	return service.SavePostInput{
		Title:           r.Title,
		Excerpt:         r.Excerpt,
		Body:            r.Body,
		Status:          models.Status(r.Status),
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		FeaturedMediaID: r.FeaturedMediaID,
		PublishedAt:     r.PublishedAt,
		AllowComments:   r.AllowComments,
		CategoryIDs:     r.CategoryIDs,
		TagIDs:          r.TagIDs,
	}
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req savePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), actor, req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:slug
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	var req savePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), actor, c.Params("slug"), req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:slug
func (s *Server) DeletePost(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), actor, c.Params("slug")); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetPost handles GET /api/posts/:slug
func (s *Server) GetPost(c *fiber.Ctx) error {
	viewer := s.optionalUser(c)

	post, err := s.postService.GetPost(c.Context(), viewer, c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// GetPosts handles GET /api/posts. Supports category/tag/status filters and
// an optional free-text search over published posts.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	viewer := s.optionalUser(c)

	if q := c.Query("search"); q != "" {
		posts, err := s.postService.SearchPosts(c.Context(), q)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"posts": posts, "total": len(posts)})
	}

	page := parsePagination(c, service.DefaultPostPageSize)
	posts, total, err := s.postService.ListPosts(c.Context(), viewer, service.ListPostsInput{
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		Status:       models.Status(c.Query("status")),
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"posts": posts, "total": total})
}

// GetMyPosts handles GET /api/posts/mine — the acting user's posts in every
// status.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	actor, err := s.requireUser(c)
	if err != nil {
		return nil
	}

	page := parsePagination(c, service.DefaultPostPageSize)
	posts, total, err := s.postService.ListMyPosts(c.Context(), actor, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"posts": posts, "total": total})
}

// GetRelatedPosts handles GET /api/posts/:slug/related
func (s *Server) GetRelatedPosts(c *fiber.Ctx) error {
	viewer := s.optionalUser(c)

	related, err := s.postService.RelatedPosts(c.Context(), viewer, c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"posts": related})
}
