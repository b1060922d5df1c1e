package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListPagesOptions narrows a page listing.
type ListPagesOptions struct {
	VisibleOnly bool
	AuthorID    uint
	Status      models.Status
	Limit       int
	Offset      int
}

// PageRepository defines the interface for page data operations.
type PageRepository interface {
	Create(ctx context.Context, page *models.Page) error
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)
	GetByID(ctx context.Context, id uint) (*models.Page, error)
	List(ctx context.Context, opts ListPagesOptions) ([]*models.Page, error)
	Menu(ctx context.Context) ([]*models.Page, error)
	Children(ctx context.Context, parentID uint) ([]*models.Page, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Page, error)
	Update(ctx context.Context, page *models.Page) error
	Delete(ctx context.Context, id uint) error
}

type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository creates a new page repository.
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(ctx context.Context, page *models.Page) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(page).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A page with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pageRepository) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	defer observability.TrackQuery("get_by_slug", "pages")()

	var page models.Page
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("FeaturedMedia").
		Preload("Parent").
		Where("slug = ?", slug).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Page", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &page, nil
}

func (r *pageRepository) GetByID(ctx context.Context, id uint) (*models.Page, error) {
	var page models.Page
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("FeaturedMedia").
		Preload("Parent").
		First(&page, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Page", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &page, nil
}

func (r *pageRepository) List(ctx context.Context, opts ListPagesOptions) ([]*models.Page, error) {
	db := r.db.WithContext(ctx).Model(&models.Page{})
	if opts.VisibleOnly {
		db = db.Where("status = ?", models.StatusPublished)
	} else if opts.Status != "" {
		db = db.Where("status = ?", opts.Status)
	}
	if opts.AuthorID != 0 {
		db = db.Where("author_id = ?", opts.AuthorID)
	}

	var pages []*models.Page
	err := db.Order("title ASC").
		Preload("Author").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&pages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return pages, nil
}

// Menu returns published pages flagged for navigation, in menu order.
func (r *pageRepository) Menu(ctx context.Context) ([]*models.Page, error) {
	defer observability.TrackQuery("menu", "pages")()

	var pages []*models.Page
	err := r.db.WithContext(ctx).
		Where("status = ? AND show_in_menu = ?", models.StatusPublished, true).
		Order("menu_order ASC, title ASC").
		Find(&pages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return pages, nil
}

func (r *pageRepository) Children(ctx context.Context, parentID uint) ([]*models.Page, error) {
	var pages []*models.Page
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("menu_order ASC, title ASC").
		Find(&pages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return pages, nil
}

func (r *pageRepository) Search(ctx context.Context, query string, limit int) ([]*models.Page, error) {
	pattern := "%" + query + "%"
	var pages []*models.Page
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusPublished).
		Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(excerpt) LIKE LOWER(?) OR LOWER(body) LIKE LOWER(?)",
			pattern, pattern, pattern,
		).
		Order("title ASC").
		Limit(limit).
		Find(&pages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return pages, nil
}

func (r *pageRepository) Update(ctx context.Context, page *models.Page) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations, "PublishedAt").Save(page).Error; err != nil {
			return err
		}
		if page.Status == models.StatusPublished {
			if err := stampPublishedAt(tx, "pages", page.ID, page.PublishedAt); err != nil {
				return err
			}
		}
		var row struct{ PublishedAt *time.Time }
		if err := tx.Table("pages").Select("published_at").Where("id = ?", page.ID).Scan(&row).Error; err != nil {
			return err
		}
		page.PublishedAt = row.PublishedAt
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A page with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pageRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Orphaned children become top-level pages.
		if err := tx.Model(&models.Page{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Page{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
