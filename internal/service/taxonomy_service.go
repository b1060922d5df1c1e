package service

import (
	"context"

	"github.com/cfischer83/inkwell/internal/auth"
	"github.com/cfischer83/inkwell/internal/cache"
	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/repository"
	"github.com/cfischer83/inkwell/internal/slugify"
)

// TaxonomyService manages categories and tags. Reading is public; every
// mutation requires editor rank.
type TaxonomyService struct {
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	postRepo     repository.PostRepository
}

// SaveCategoryInput carries writable category fields.
type SaveCategoryInput struct {
	Name        string
	Description string
	ParentID    *uint
}

// SaveTagInput carries writable tag fields.
type SaveTagInput struct {
	Name string
}

func NewTaxonomyService(categoryRepo repository.CategoryRepository, tagRepo repository.TagRepository, postRepo repository.PostRepository) *TaxonomyService {
	return &TaxonomyService{categoryRepo: categoryRepo, tagRepo: tagRepo, postRepo: postRepo}
}

func requireEditor(actor *models.User) error {
	if actor == nil {
		return models.NewUnauthorizedError("Authentication required")
	}
	if !auth.IsEditor(actor) {
		return models.NewPermissionDeniedError("Editor role required")
	}
	return nil
}

// CreateCategory creates a category. The slug is derived from the name.
func (s *TaxonomyService) CreateCategory(ctx context.Context, actor *models.User, in SaveCategoryInput) (*models.Category, error) {
	if err := requireEditor(actor); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	slug := slugify.Slugify(in.Name)
	if slug == "" {
		return nil, models.NewValidationError("Name must contain at least one alphanumeric character")
	}
	if in.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		ParentID:    in.ParentID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory edits a category. The slug is immutable after creation so
// public URLs stay stable.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, actor *models.User, slug string, in SaveCategoryInput) (*models.Category, error) {
	if err := requireEditor(actor); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if in.ParentID != nil {
		if *in.ParentID == category.ID {
			return nil, models.NewValidationError("A category cannot be its own parent")
		}
		if _, err := s.categoryRepo.GetByID(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	category.Name = in.Name
	category.Description = in.Description
	category.ParentID = in.ParentID
	category.Parent = nil
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	cache.InvalidateCategory(ctx, category.Slug)
	return category, nil
}

// DeleteCategory removes a category, detaching its posts and promoting its
// children.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, actor *models.User, slug string) error {
	if err := requireEditor(actor); err != nil {
		return err
	}
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, category.ID); err != nil {
		return err
	}
	cache.InvalidateCategory(ctx, category.Slug)
	return nil
}

// GetCategory returns a category with the published posts filed under it.
func (s *TaxonomyService) GetCategory(ctx context.Context, slug string, limit, offset int) (*models.Category, []*models.Post, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = DefaultPostPageSize
	}
	posts, err := s.postRepo.List(ctx, repository.ListPostsOptions{
		VisibleOnly:  true,
		CategorySlug: slug,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, nil, err
	}
	return category, posts, nil
}

// ListCategories returns all categories ordered by name.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// CategoryChildren returns the direct children of a category.
func (s *TaxonomyService) CategoryChildren(ctx context.Context, slug string) ([]models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.Children(ctx, category.ID)
}

// CreateTag creates a tag. The slug is derived from the name.
func (s *TaxonomyService) CreateTag(ctx context.Context, actor *models.User, in SaveTagInput) (*models.Tag, error) {
	if err := requireEditor(actor); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	slug := slugify.Slugify(in.Name)
	if slug == "" {
		return nil, models.NewValidationError("Name must contain at least one alphanumeric character")
	}

	tag := &models.Tag{Name: in.Name, Slug: slug}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTag renames a tag without changing its slug.
func (s *TaxonomyService) UpdateTag(ctx context.Context, actor *models.User, slug string, in SaveTagInput) (*models.Tag, error) {
	if err := requireEditor(actor); err != nil {
		return nil, err
	}
	tag, err := s.tagRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	tag.Name = in.Name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	cache.InvalidateTag(ctx, tag.Slug)
	return tag, nil
}

// DeleteTag removes a tag, detaching its posts.
func (s *TaxonomyService) DeleteTag(ctx context.Context, actor *models.User, slug string) error {
	if err := requireEditor(actor); err != nil {
		return err
	}
	tag, err := s.tagRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.tagRepo.Delete(ctx, tag.ID); err != nil {
		return err
	}
	cache.InvalidateTag(ctx, tag.Slug)
	return nil
}

// GetTag returns a tag with the published posts carrying it.
func (s *TaxonomyService) GetTag(ctx context.Context, slug string, limit, offset int) (*models.Tag, []*models.Post, error) {
	tag, err := s.tagRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = DefaultPostPageSize
	}
	posts, err := s.postRepo.List(ctx, repository.ListPostsOptions{
		VisibleOnly: true,
		TagSlug:     slug,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, nil, err
	}
	return tag, posts, nil
}

// ListTags returns all tags ordered by name.
func (s *TaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}
