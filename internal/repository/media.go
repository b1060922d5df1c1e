package repository

import (
	"context"
	"errors"

	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/observability"

	"gorm.io/gorm"
)

// ListMediaOptions narrows a media listing.
type ListMediaOptions struct {
	MediaType    models.MediaType
	TitleSearch  string
	UploadedByID uint
	Limit        int
	Offset       int
}

// MediaRepository defines persistence operations for media assets.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id uint) (*models.Media, error)
	List(ctx context.Context, opts ListMediaOptions) ([]*models.Media, error)
	Count(ctx context.Context, opts ListMediaOptions) (int64, error)
	Update(ctx context.Context, media *models.Media) error
	UpdateDimensions(ctx context.Context, id uint, width, height int) error
	Delete(ctx context.Context, id uint) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository returns a new MediaRepository implementation.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id uint) (*models.Media, error) {
	defer observability.TrackQuery("get_by_id", "media")()

	var media models.Media
	if err := r.db.WithContext(ctx).Preload("UploadedBy").First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Media", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &media, nil
}

func (r *mediaRepository) applyListFilters(db *gorm.DB, opts ListMediaOptions) *gorm.DB {
	if opts.MediaType != "" {
		db = db.Where("media_type = ?", opts.MediaType)
	}
	if opts.TitleSearch != "" {
		db = db.Where("LOWER(title) LIKE LOWER(?)", "%"+opts.TitleSearch+"%")
	}
	if opts.UploadedByID != 0 {
		db = db.Where("uploaded_by_id = ?", opts.UploadedByID)
	}
	return db
}

func (r *mediaRepository) List(ctx context.Context, opts ListMediaOptions) ([]*models.Media, error) {
	var media []*models.Media
	db := r.applyListFilters(r.db.WithContext(ctx).Model(&models.Media{}), opts)
	err := db.Order("created_at DESC").
		Preload("UploadedBy").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&media).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return media, nil
}

func (r *mediaRepository) Count(ctx context.Context, opts ListMediaOptions) (int64, error) {
	var count int64
	db := r.applyListFilters(r.db.WithContext(ctx).Model(&models.Media{}), opts)
	if err := db.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *mediaRepository) Update(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Save(media).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *mediaRepository) UpdateDimensions(ctx context.Context, id uint, width, height int) error {
	err := r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"width": width, "height": height}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the record and detaches it from any content that used it
// as featured media.
func (r *mediaRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("featured_media_id = ?", id).Update("featured_media_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Page{}).Where("featured_media_id = ?", id).Update("featured_media_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Media{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
