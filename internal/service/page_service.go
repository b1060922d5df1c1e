package service

import (
	"context"
	"time"

	"github.com/cfischer83/inkwell/internal/auth"
	"github.com/cfischer83/inkwell/internal/cache"
	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/observability"
	"github.com/cfischer83/inkwell/internal/repository"
	"github.com/cfischer83/inkwell/internal/workflow"
)

const (
	DefaultPageListSize = 20
	HomeMenuPageCount   = 4
	SearchPageLimit     = 5
)

// PageService manages static pages: hierarchy, templates and menu placement,
// under the same publication workflow as posts.
type PageService struct {
	pageRepo repository.PageRepository
}

// SavePageInput carries the writable page fields submitted by a client.
type SavePageInput struct {
	Title           string
	Excerpt         string
	Body            string
	Status          models.Status
	MetaTitle       string
	MetaDescription string
	FeaturedMediaID *uint
	PublishedAt     *time.Time
	Template        string
	ParentID        *uint
	ShowInMenu      *bool
	MenuOrder       *uint
}

func NewPageService(pageRepo repository.PageRepository) *PageService {
	return &PageService{pageRepo: pageRepo}
}

func (s *PageService) applyInput(ctx context.Context, actor *models.User, page *models.Page, in SavePageInput) error {
	if in.Title == "" {
		return models.NewValidationError("Title is required")
	}
	status, err := workflow.ValidateSubmittedStatus(actor, in.Status)
	if err != nil {
		return err
	}
	if in.Template != "" && !models.ValidPageTemplate(in.Template) {
		return models.NewValidationError("Unknown page template")
	}
	if in.ParentID != nil {
		if page.ID != 0 && *in.ParentID == page.ID {
			return models.NewValidationError("A page cannot be its own parent")
		}
		if _, err := s.pageRepo.GetByID(ctx, *in.ParentID); err != nil {
			return err
		}
	}

	page.Title = in.Title
	page.Excerpt = in.Excerpt
	page.Body = in.Body
	page.Status = status
	page.MetaTitle = in.MetaTitle
	page.MetaDescription = in.MetaDescription
	page.FeaturedMediaID = in.FeaturedMediaID
	if in.Template != "" {
		page.Template = in.Template
	}
	page.ParentID = in.ParentID
	if in.ShowInMenu != nil {
		page.ShowInMenu = *in.ShowInMenu
	}
	if in.MenuOrder != nil {
		page.MenuOrder = *in.MenuOrder
	}
	if in.PublishedAt != nil && workflow.CanSetPublishedAt(actor) && page.PublishedAt == nil {
		page.PublishedAt = in.PublishedAt
	}
	return nil
}

// CreatePage creates a page authored by the acting user.
func (s *PageService) CreatePage(ctx context.Context, actor *models.User, in SavePageInput) (*models.Page, error) {
	if actor == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	page := &models.Page{Template: models.PageTemplateDefault}
	page.AuthorID = &actor.ID
	if err := s.applyInput(ctx, actor, page, in); err != nil {
		return nil, err
	}

	workflow.PrepareSave(&page.ContentFields, time.Now().UTC())
	if page.Slug == "" {
		return nil, models.NewValidationError("Title must contain at least one alphanumeric character")
	}

	if err := s.pageRepo.Create(ctx, page); err != nil {
		return nil, err
	}
	observability.ContentTransitions.WithLabelValues("page", string(page.Status)).Inc()
	cache.InvalidatePage(ctx, page.Slug)
	return s.pageRepo.GetByID(ctx, page.ID)
}

// UpdatePage edits an existing page under the shared ownership rules.
func (s *PageService) UpdatePage(ctx context.Context, actor *models.User, slug string, in SavePageInput) (*models.Page, error) {
	page, err := s.pageRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !auth.CanEdit(actor, page.AuthorID) {
		return nil, models.NewPermissionDeniedError("You cannot edit this page")
	}

	previousStatus := page.Status
	if err := s.applyInput(ctx, actor, page, in); err != nil {
		return nil, err
	}

	workflow.PrepareSave(&page.ContentFields, time.Now().UTC())
	if err := s.pageRepo.Update(ctx, page); err != nil {
		return nil, err
	}
	if page.Status != previousStatus {
		observability.ContentTransitions.WithLabelValues("page", string(page.Status)).Inc()
	}
	cache.InvalidatePage(ctx, page.Slug)
	return s.pageRepo.GetByID(ctx, page.ID)
}

// DeletePage removes a page; children are promoted to the top level.
func (s *PageService) DeletePage(ctx context.Context, actor *models.User, slug string) error {
	page, err := s.pageRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !auth.CanDelete(actor) {
		return models.NewPermissionDeniedError("You cannot delete this page")
	}
	if err := s.pageRepo.Delete(ctx, page.ID); err != nil {
		return err
	}
	cache.InvalidatePage(ctx, page.Slug)
	return nil
}

// GetPage returns a single page if the viewer may see it.
func (s *PageService) GetPage(ctx context.Context, viewer *models.User, slug string) (*models.Page, error) {
	page, err := s.pageRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !workflow.Visible(&page.ContentFields, viewer) {
		return nil, models.NewNotFoundError("Page", slug)
	}
	return page, nil
}

// ListPages lists pages; non-editors only see published ones.
func (s *PageService) ListPages(ctx context.Context, viewer *models.User, limit, offset int) ([]*models.Page, error) {
	if limit <= 0 {
		limit = DefaultPageListSize
	}
	opts := repository.ListPagesOptions{Limit: limit, Offset: offset}
	if !auth.IsEditor(viewer) {
		opts.VisibleOnly = true
	}
	return s.pageRepo.List(ctx, opts)
}

// Menu returns the published pages flagged for site navigation.
func (s *PageService) Menu(ctx context.Context) ([]*models.Page, error) {
	var pages []*models.Page
	err := cache.Aside(ctx, cache.MenuKey, &pages, cache.MenuTTL, func() error {
		var fetchErr error
		pages, fetchErr = s.pageRepo.Menu(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// SearchPages searches published pages by title, excerpt and body.
func (s *PageService) SearchPages(ctx context.Context, query string) ([]*models.Page, error) {
	if query == "" {
		return nil, nil
	}
	return s.pageRepo.Search(ctx, query, SearchPageLimit)
}
