package service

import (
	"context"
	"testing"

	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTaxonomyService(categoryRepo *categoryRepoStub, tagRepo *tagRepoStub) *TaxonomyService {
	return NewTaxonomyService(categoryRepo, tagRepo, noopPostRepo())
}

func TestCreateCategory_RequiresEditor(t *testing.T) {
	t.Parallel()

	svc := newTestTaxonomyService(noopCategoryRepo(), noopTagRepo())

	_, err := svc.CreateCategory(context.Background(), nil, SaveCategoryInput{Name: "News"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)

	_, err = svc.CreateCategory(context.Background(), authorUser(), SaveCategoryInput{Name: "News"})
	assertPermissionDenied(t, err)

	category, err := svc.CreateCategory(context.Background(), editorUser(), SaveCategoryInput{Name: "Tech News"})
	require.NoError(t, err)
	assert.Equal(t, "tech-news", category.Slug)
}

func TestCreateCategory_UnknownParentRejected(t *testing.T) {
	t.Parallel()

	categoryRepo := noopCategoryRepo()
	categoryRepo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
		return nil, models.NewNotFoundError("Category", id)
	}
	svc := newTestTaxonomyService(categoryRepo, noopTagRepo())

	parentID := uint(99)
	_, err := svc.CreateCategory(context.Background(), editorUser(), SaveCategoryInput{
		Name:     "Subtopic",
		ParentID: &parentID,
	})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUpdateCategory_SelfParentRejected(t *testing.T) {
	t.Parallel()

	categoryRepo := noopCategoryRepo()
	categoryRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Category, error) {
		return &models.Category{ID: 7, Name: "News", Slug: slug}, nil
	}
	svc := newTestTaxonomyService(categoryRepo, noopTagRepo())

	selfID := uint(7)
	_, err := svc.UpdateCategory(context.Background(), editorUser(), "news", SaveCategoryInput{
		Name:     "News",
		ParentID: &selfID,
	})
	assertValidationError(t, err)
}

func TestUpdateCategory_SlugUnchangedOnRename(t *testing.T) {
	t.Parallel()

	categoryRepo := noopCategoryRepo()
	categoryRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Category, error) {
		return &models.Category{ID: 7, Name: "News", Slug: slug}, nil
	}
	svc := newTestTaxonomyService(categoryRepo, noopTagRepo())

	category, err := svc.UpdateCategory(context.Background(), editorUser(), "news", SaveCategoryInput{
		Name: "World News",
	})
	require.NoError(t, err)
	assert.Equal(t, "World News", category.Name)
	assert.Equal(t, "news", category.Slug)
}

func TestCreateTag_SlugDerivedFromName(t *testing.T) {
	t.Parallel()

	svc := newTestTaxonomyService(noopCategoryRepo(), noopTagRepo())

	tag, err := svc.CreateTag(context.Background(), editorUser(), SaveTagInput{Name: "Go Modules"})
	require.NoError(t, err)
	assert.Equal(t, "go-modules", tag.Slug)

	_, err = svc.CreateTag(context.Background(), editorUser(), SaveTagInput{Name: "***"})
	assertValidationError(t, err)
}

func TestDeleteTag_RequiresEditor(t *testing.T) {
	t.Parallel()

	tagRepo := noopTagRepo()
	tagRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Tag, error) {
		return &models.Tag{ID: 3, Name: "Go", Slug: slug}, nil
	}
	svc := newTestTaxonomyService(noopCategoryRepo(), tagRepo)

	err := svc.DeleteTag(context.Background(), contributorUser(), "go")
	assertPermissionDenied(t, err)

	require.NoError(t, svc.DeleteTag(context.Background(), adminUser(), "go"))
}

func TestGetCategory_ListsPublishedPostsOnly(t *testing.T) {
	t.Parallel()

	categoryRepo := noopCategoryRepo()
	categoryRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Category, error) {
		return &models.Category{ID: 7, Name: "News", Slug: slug}, nil
	}
	postRepo := noopPostRepo()
	var gotOpts repository.ListPostsOptions
	postRepo.listFn = func(_ context.Context, opts repository.ListPostsOptions) ([]*models.Post, error) {
		gotOpts = opts
		return nil, nil
	}
	svc := NewTaxonomyService(categoryRepo, noopTagRepo(), postRepo)

	category, _, err := svc.GetCategory(context.Background(), "news", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "news", category.Slug)
	assert.True(t, gotOpts.VisibleOnly)
	assert.Equal(t, "news", gotOpts.CategorySlug)
	assert.Equal(t, DefaultPostPageSize, gotOpts.Limit)
}
