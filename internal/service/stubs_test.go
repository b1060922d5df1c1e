package service

import (
	"context"
	"testing"

	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func assertPermissionDenied(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PERMISSION_DENIED", appErr.Code)
}

func editorUser() *models.User {
	return &models.User{ID: 1, Email: "editor@example.com", Role: models.RoleEditor}
}

func authorUser() *models.User {
	return &models.User{ID: 2, Email: "author@example.com", Role: models.RoleAuthor}
}

func contributorUser() *models.User {
	return &models.User{ID: 3, Email: "contrib@example.com", Role: models.RoleContributor}
}

func adminUser() *models.User {
	return &models.User{ID: 4, Email: "admin@example.com", Role: models.RoleAdmin}
}

// --- post repository stub ---

type postRepoStub struct {
	createFn    func(ctx context.Context, post *models.Post) error
	getBySlugFn func(ctx context.Context, slug string) (*models.Post, error)
	getByIDFn   func(ctx context.Context, id uint) (*models.Post, error)
	listFn      func(ctx context.Context, opts repository.ListPostsOptions) ([]*models.Post, error)
	countFn     func(ctx context.Context, opts repository.ListPostsOptions) (int64, error)
	searchFn    func(ctx context.Context, query string, limit int) ([]*models.Post, error)
	relatedFn   func(ctx context.Context, post *models.Post, limit int) ([]*models.Post, error)
	updateFn    func(ctx context.Context, post *models.Post) error
	deleteFn    func(ctx context.Context, id uint) error
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 100
			return nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", slug)
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		listFn: func(_ context.Context, _ repository.ListPostsOptions) ([]*models.Post, error) {
			return nil, nil
		},
		countFn: func(_ context.Context, _ repository.ListPostsOptions) (int64, error) {
			return 0, nil
		},
		searchFn: func(_ context.Context, _ string, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		relatedFn: func(_ context.Context, _ *models.Post, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, opts repository.ListPostsOptions) ([]*models.Post, error) {
	return s.listFn(ctx, opts)
}
func (s *postRepoStub) Count(ctx context.Context, opts repository.ListPostsOptions) (int64, error) {
	return s.countFn(ctx, opts)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *postRepoStub) Related(ctx context.Context, post *models.Post, limit int) ([]*models.Post, error) {
	return s.relatedFn(ctx, post, limit)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// --- page repository stub ---

type pageRepoStub struct {
	createFn    func(ctx context.Context, page *models.Page) error
	getBySlugFn func(ctx context.Context, slug string) (*models.Page, error)
	getByIDFn   func(ctx context.Context, id uint) (*models.Page, error)
	listFn      func(ctx context.Context, opts repository.ListPagesOptions) ([]*models.Page, error)
	menuFn      func(ctx context.Context) ([]*models.Page, error)
	childrenFn  func(ctx context.Context, parentID uint) ([]*models.Page, error)
	searchFn    func(ctx context.Context, query string, limit int) ([]*models.Page, error)
	updateFn    func(ctx context.Context, page *models.Page) error
	deleteFn    func(ctx context.Context, id uint) error
}

func noopPageRepo() *pageRepoStub {
	return &pageRepoStub{
		createFn: func(_ context.Context, p *models.Page) error {
			p.ID = 200
			return nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Page, error) {
			return nil, models.NewNotFoundError("Page", slug)
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Page, error) {
			return &models.Page{ID: id}, nil
		},
		listFn: func(_ context.Context, _ repository.ListPagesOptions) ([]*models.Page, error) {
			return nil, nil
		},
		menuFn:     func(_ context.Context) ([]*models.Page, error) { return nil, nil },
		childrenFn: func(_ context.Context, _ uint) ([]*models.Page, error) { return nil, nil },
		searchFn:   func(_ context.Context, _ string, _ int) ([]*models.Page, error) { return nil, nil },
		updateFn:   func(_ context.Context, _ *models.Page) error { return nil },
		deleteFn:   func(_ context.Context, _ uint) error { return nil },
	}
}

func (s *pageRepoStub) Create(ctx context.Context, page *models.Page) error {
	return s.createFn(ctx, page)
}
func (s *pageRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *pageRepoStub) GetByID(ctx context.Context, id uint) (*models.Page, error) {
	return s.getByIDFn(ctx, id)
}
func (s *pageRepoStub) List(ctx context.Context, opts repository.ListPagesOptions) ([]*models.Page, error) {
	return s.listFn(ctx, opts)
}
func (s *pageRepoStub) Menu(ctx context.Context) ([]*models.Page, error) {
	return s.menuFn(ctx)
}
func (s *pageRepoStub) Children(ctx context.Context, parentID uint) ([]*models.Page, error) {
	return s.childrenFn(ctx, parentID)
}
func (s *pageRepoStub) Search(ctx context.Context, query string, limit int) ([]*models.Page, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *pageRepoStub) Update(ctx context.Context, page *models.Page) error {
	return s.updateFn(ctx, page)
}
func (s *pageRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// --- taxonomy repository stubs ---

type categoryRepoStub struct {
	createFn    func(ctx context.Context, category *models.Category) error
	getByIDFn   func(ctx context.Context, id uint) (*models.Category, error)
	getBySlugFn func(ctx context.Context, slug string) (*models.Category, error)
	listFn      func(ctx context.Context) ([]models.Category, error)
	childrenFn  func(ctx context.Context, parentID uint) ([]models.Category, error)
	getByIDsFn  func(ctx context.Context, ids []uint) ([]models.Category, error)
	updateFn    func(ctx context.Context, category *models.Category) error
	deleteFn    func(ctx context.Context, id uint) error
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, c *models.Category) error {
			c.ID = 300
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Category, error) {
			return nil, models.NewNotFoundError("Category", slug)
		},
		listFn:     func(_ context.Context) ([]models.Category, error) { return nil, nil },
		childrenFn: func(_ context.Context, _ uint) ([]models.Category, error) { return nil, nil },
		getByIDsFn: func(_ context.Context, ids []uint) ([]models.Category, error) {
			out := make([]models.Category, len(ids))
			for i, id := range ids {
				out[i] = models.Category{ID: id}
			}
			return out, nil
		},
		updateFn: func(_ context.Context, _ *models.Category) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) Children(ctx context.Context, parentID uint) ([]models.Category, error) {
	return s.childrenFn(ctx, parentID)
}
func (s *categoryRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type tagRepoStub struct {
	createFn    func(ctx context.Context, tag *models.Tag) error
	getByIDFn   func(ctx context.Context, id uint) (*models.Tag, error)
	getBySlugFn func(ctx context.Context, slug string) (*models.Tag, error)
	listFn      func(ctx context.Context) ([]models.Tag, error)
	getByIDsFn  func(ctx context.Context, ids []uint) ([]models.Tag, error)
	updateFn    func(ctx context.Context, tag *models.Tag) error
	deleteFn    func(ctx context.Context, id uint) error
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		createFn: func(_ context.Context, tg *models.Tag) error {
			tg.ID = 400
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Tag, error) {
			return &models.Tag{ID: id}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Tag, error) {
			return nil, models.NewNotFoundError("Tag", slug)
		},
		listFn: func(_ context.Context) ([]models.Tag, error) { return nil, nil },
		getByIDsFn: func(_ context.Context, ids []uint) ([]models.Tag, error) {
			out := make([]models.Tag, len(ids))
			for i, id := range ids {
				out[i] = models.Tag{ID: id}
			}
			return out, nil
		},
		updateFn: func(_ context.Context, _ *models.Tag) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func (s *tagRepoStub) Create(ctx context.Context, tag *models.Tag) error {
	return s.createFn(ctx, tag)
}
func (s *tagRepoStub) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tagRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *tagRepoStub) List(ctx context.Context) ([]models.Tag, error) {
	return s.listFn(ctx)
}
func (s *tagRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *tagRepoStub) Update(ctx context.Context, tag *models.Tag) error {
	return s.updateFn(ctx, tag)
}
func (s *tagRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// --- media repository stub ---

type mediaRepoStub struct {
	createFn     func(ctx context.Context, media *models.Media) error
	getByIDFn    func(ctx context.Context, id uint) (*models.Media, error)
	listFn       func(ctx context.Context, opts repository.ListMediaOptions) ([]*models.Media, error)
	countFn      func(ctx context.Context, opts repository.ListMediaOptions) (int64, error)
	updateFn     func(ctx context.Context, media *models.Media) error
	updateDimsFn func(ctx context.Context, id uint, width, height int) error
	deleteFn     func(ctx context.Context, id uint) error
}

func noopMediaRepo() *mediaRepoStub {
	return &mediaRepoStub{
		createFn: func(_ context.Context, m *models.Media) error {
			m.ID = 500
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Media, error) {
			return nil, models.NewNotFoundError("Media", id)
		},
		listFn: func(_ context.Context, _ repository.ListMediaOptions) ([]*models.Media, error) {
			return nil, nil
		},
		countFn: func(_ context.Context, _ repository.ListMediaOptions) (int64, error) {
			return 0, nil
		},
		updateFn:     func(_ context.Context, _ *models.Media) error { return nil },
		updateDimsFn: func(_ context.Context, _ uint, _, _ int) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

func (s *mediaRepoStub) Create(ctx context.Context, media *models.Media) error {
	return s.createFn(ctx, media)
}
func (s *mediaRepoStub) GetByID(ctx context.Context, id uint) (*models.Media, error) {
	return s.getByIDFn(ctx, id)
}
func (s *mediaRepoStub) List(ctx context.Context, opts repository.ListMediaOptions) ([]*models.Media, error) {
	return s.listFn(ctx, opts)
}
func (s *mediaRepoStub) Count(ctx context.Context, opts repository.ListMediaOptions) (int64, error) {
	return s.countFn(ctx, opts)
}
func (s *mediaRepoStub) Update(ctx context.Context, media *models.Media) error {
	return s.updateFn(ctx, media)
}
func (s *mediaRepoStub) UpdateDimensions(ctx context.Context, id uint, width, height int) error {
	return s.updateDimsFn(ctx, id, width, height)
}
func (s *mediaRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// --- user repository stub ---

type userRepoStub struct {
	getByIDFn    func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
	createFn     func(ctx context.Context, user *models.User) error
	updateFn     func(ctx context.Context, user *models.User) error
	updateRoleFn func(ctx context.Context, id uint, role models.Role) error
	deleteFn     func(ctx context.Context, id uint) error
	listFn       func(ctx context.Context, limit, offset int) ([]models.User, error)
	countFn      func(ctx context.Context) (int64, error)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 600
			return nil
		},
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateRoleFn: func(_ context.Context, _ uint, _ models.Role) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		listFn:       func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		countFn:      func(_ context.Context) (int64, error) { return 0, nil },
	}
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id uint, role models.Role) error {
	return s.updateRoleFn(ctx, id, role)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
