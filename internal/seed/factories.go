// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/slugify"
	"github.com/cfischer83/inkwell/internal/workflow"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tunes how the factory generates data.
type SeedOptions struct {
	// DryRun logs what would be created without touching the database.
	DryRun bool
	// SkipBcrypt stores plaintext passwords; only useful to speed up large
	// local seeds where nobody will log in.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// pastTime returns a timestamp spread over the configured window.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

func (f *Factory) create(entity string, value any) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] create %s: %+v", entity, value)
		return nil
	}
	return f.db.Create(value).Error
}

// CreateUser constructs and persists a sample user with the given role.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(role models.Role, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Role:      role,
		Bio:       gofakeit.Sentence(10),
		Avatar:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Website:   gofakeit.URL(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s (%s)", user.Email, user.Role)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a category with a slug derived from its name.
func (f *Factory) CreateCategory(name string, parentID *uint) (*models.Category, error) {
	category := &models.Category{
		Name:        name,
		Slug:        slugify.Slugify(name),
		Description: gofakeit.Sentence(8),
		ParentID:    parentID,
	}
	if f.opts.DryRun {
		f.nextID++
		category.ID = f.nextID
		log.Printf("[dry-run] CreateCategory: %s", category.Slug)
		return category, nil
	}
	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateTag persists a tag with a slug derived from its name.
func (f *Factory) CreateTag(name string) (*models.Tag, error) {
	tag := &models.Tag{
		Name: name,
		Slug: slugify.Slugify(name),
	}
	if f.opts.DryRun {
		f.nextID++
		tag.ID = f.nextID
		log.Printf("[dry-run] CreateTag: %s", tag.Slug)
		return tag, nil
	}
	if err := f.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// BuildPost constructs a post for the given author without persisting it.
// Useful for batching.
func (f *Factory) BuildPost(author *models.User, status models.Status, overrides ...func(*models.Post)) *models.Post {
	title := strings.TrimSuffix(gofakeit.Sentence(f.rng.Intn(5)+3), ".")
	post := &models.Post{
		ContentFields: models.ContentFields{
			Title:   title,
			Slug:    slugify.Slugify(title) + "-" + gofakeit.LetterN(4),
			Excerpt: gofakeit.Sentence(12),
			Body:    gofakeit.Paragraph(3, 5, 12, "\n\n"),
			Status:  status,
		},
		AllowComments: f.rng.Intn(10) > 1,
	}
	if author != nil {
		post.AuthorID = &author.ID
	}
	post.CreatedAt = f.pastTime()
	workflow.PrepareSave(&post.ContentFields, post.CreatedAt)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost persists a generated post, optionally attaching categories and
// tags through the association tables.
func (f *Factory) CreatePost(author *models.User, status models.Status, categories []models.Category, tags []models.Tag) (*models.Post, error) {
	post := f.BuildPost(author, status)
	post.Categories = categories
	post.Tags = tags

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: %s (%s)", post.Slug, post.Status)
		return post, nil
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreatePage persists a page. Menu pages get incrementing menu positions.
func (f *Factory) CreatePage(author *models.User, title string, status models.Status, showInMenu bool, menuOrder uint) (*models.Page, error) {
	page := &models.Page{
		ContentFields: models.ContentFields{
			Title:   title,
			Slug:    slugify.Slugify(title),
			Excerpt: gofakeit.Sentence(10),
			Body:    gofakeit.Paragraph(2, 4, 10, "\n\n"),
			Status:  status,
		},
		Template:   models.PageTemplateDefault,
		ShowInMenu: showInMenu,
		MenuOrder:  menuOrder,
	}
	if author != nil {
		page.AuthorID = &author.ID
	}
	page.CreatedAt = f.pastTime()
	workflow.PrepareSave(&page.ContentFields, page.CreatedAt)

	if f.opts.DryRun {
		f.nextID++
		page.ID = f.nextID
		log.Printf("[dry-run] CreatePage: %s", page.Slug)
		return page, nil
	}
	if err := f.db.Create(page).Error; err != nil {
		return nil, err
	}
	return page, nil
}

// CreateMedia persists a media library record pointing at a placeholder
// image URL path. No actual file is written.
func (f *Factory) CreateMedia(uploader *models.User) (*models.Media, error) {
	name := fmt.Sprintf("%s.jpg", gofakeit.LetterN(12))
	media := &models.Media{
		FilePath:  "images/" + name,
		Title:     gofakeit.Sentence(3),
		AltText:   gofakeit.Sentence(6),
		MediaType: models.MediaTypeImage,
		MimeType:  "image/jpeg",
		FileSize:  int64(f.rng.Intn(900_000) + 50_000),
	}
	if uploader != nil {
		media.UploadedByID = &uploader.ID
	}

	if f.opts.DryRun {
		f.nextID++
		media.ID = f.nextID
		log.Printf("[dry-run] CreateMedia: %s", media.FilePath)
		return media, nil
	}
	if err := f.db.Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}
