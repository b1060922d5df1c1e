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

// ListPostsOptions narrows a post listing. VisibleOnly restricts the result
// to published posts; zero-value filters are ignored.
type ListPostsOptions struct {
	VisibleOnly  bool
	AuthorID     uint
	CategorySlug string
	TagSlug      string
	Status       models.Status
	Limit        int
	Offset       int
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, opts ListPostsOptions) ([]*models.Post, error)
	Count(ctx context.Context, opts ListPostsOptions) (int64, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Post, error)
	Related(ctx context.Context, post *models.Post, limit int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// publishedFirst orders published content newest first, with drafts and
// other unpublished rows trailing by creation time.
func publishedFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.published_at DESC NULLS LAST, posts.created_at DESC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if err := tx.Model(post).Association("Categories").Replace(post.Categories); err != nil {
			return err
		}
		return tx.Model(post).Association("Tags").Replace(post.Tags)
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A post with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	defer observability.TrackQuery("get_by_slug", "posts")()

	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("FeaturedMedia").
		Preload("Categories").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("FeaturedMedia").
		Preload("Categories").
		Preload("Tags").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) applyListFilters(db *gorm.DB, opts ListPostsOptions) *gorm.DB {
	if opts.VisibleOnly {
		db = db.Where("posts.status = ?", models.StatusPublished)
	} else if opts.Status != "" {
		db = db.Where("posts.status = ?", opts.Status)
	}
	if opts.AuthorID != 0 {
		db = db.Where("posts.author_id = ?", opts.AuthorID)
	}
	if opts.CategorySlug != "" {
		db = db.
			Joins("JOIN post_categories pc ON pc.post_id = posts.id").
			Joins("JOIN categories c ON c.id = pc.category_id").
			Where("c.slug = ?", opts.CategorySlug)
	}
	if opts.TagSlug != "" {
		db = db.
			Joins("JOIN post_tags pt ON pt.post_id = posts.id").
			Joins("JOIN tags t ON t.id = pt.tag_id").
			Where("t.slug = ?", opts.TagSlug)
	}
	return db
}

func (r *postRepository) List(ctx context.Context, opts ListPostsOptions) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	var posts []*models.Post
	db := r.applyListFilters(r.db.WithContext(ctx).Model(&models.Post{}), opts)
	err := publishedFirst(db).
		Preload("Author").
		Preload("FeaturedMedia").
		Preload("Categories").
		Preload("Tags").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, opts ListPostsOptions) (int64, error) {
	var count int64
	db := r.applyListFilters(r.db.WithContext(ctx).Model(&models.Post{}), opts)
	if err := db.Distinct("posts.id").Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Search(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	defer observability.TrackQuery("search", "posts")()

	pattern := "%" + query + "%"
	var posts []*models.Post
	err := publishedFirst(
		r.db.WithContext(ctx).
			Where("status = ?", models.StatusPublished).
			Where(
				"LOWER(title) LIKE LOWER(?) OR LOWER(excerpt) LIKE LOWER(?) OR LOWER(body) LIKE LOWER(?)",
				pattern, pattern, pattern,
			),
	).
		Preload("Author").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Related returns published posts sharing at least one category with the
// given post, newest first, excluding the post itself.
func (r *postRepository) Related(ctx context.Context, post *models.Post, limit int) ([]*models.Post, error) {
	if len(post.Categories) == 0 {
		return nil, nil
	}
	categoryIDs := make([]uint, 0, len(post.Categories))
	for _, c := range post.Categories {
		categoryIDs = append(categoryIDs, c.ID)
	}

	var posts []*models.Post
	err := publishedFirst(
		r.db.WithContext(ctx).Model(&models.Post{}).
			Distinct("posts.*").
			Joins("JOIN post_categories pc ON pc.post_id = posts.id").
			Where("pc.category_id IN ?", categoryIDs).
			Where("posts.id <> ?", post.ID).
			Where("posts.status = ?", models.StatusPublished),
	).
		Preload("Author").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// published_at is guarded below so concurrent publishes cannot
		// move an already-stamped timestamp.
		if err := tx.Omit(clause.Associations, "PublishedAt").Save(post).Error; err != nil {
			return err
		}
		if post.Status == models.StatusPublished {
			if err := stampPublishedAt(tx, "posts", post.ID, post.PublishedAt); err != nil {
				return err
			}
		}
		if err := tx.Model(post).Association("Categories").Replace(post.Categories); err != nil {
			return err
		}
		if err := tx.Model(post).Association("Tags").Replace(post.Tags); err != nil {
			return err
		}
		var row struct{ PublishedAt *time.Time }
		if err := tx.Table("posts").Select("published_at").Where("id = ?", post.ID).Scan(&row).Error; err != nil {
			return err
		}
		post.PublishedAt = row.PublishedAt
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A post with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// stampPublishedAt sets published_at exactly once. Rows already stamped are
// left untouched regardless of the value the caller carries.
func stampPublishedAt(tx *gorm.DB, table string, id uint, ts *time.Time) error {
	when := time.Now().UTC()
	if ts != nil {
		when = *ts
	}
	return tx.Table(table).
		Where("id = ? AND published_at IS NULL", id).
		Update("published_at", when).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
